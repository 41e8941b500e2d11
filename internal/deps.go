package internal

import (
	"sigantara/file-api/pkg/security"
	"sigantara/file-api/queue"
	"sigantara/file-api/storage"
	"sigantara/file-api/transform"

	"gorm.io/gorm"
)

// Deps is built once in main and handed to the router and the worker.
// Nothing in the app reaches for a global connection.
type Deps struct {
	DB         *gorm.DB
	Store      storage.Store
	Queue      queue.Enqueuer
	Argon      *security.ArgonHash
	Transforms *transform.Registry
}
