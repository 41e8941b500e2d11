// Package model defines database models
package model

// File status values. These are wire values polled by clients, do not
// rename them.
const (
	StatusPendingUpload = "PENDING_UPLOAD"
	StatusUploaded      = "UPLOADED"
	StatusProcessing    = "PROCESSING"
	StatusDone          = "DONE"
	StatusFailed        = "FAILED"
)

type File struct {
	ID     uint `gorm:"primaryKey;autoIncrement;index" json:"id"`
	TeamID uint `gorm:"not null;index" json:"team_id"`
	UserID uint `gorm:"not null" json:"user_id"`

	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	MimeType         string `json:"mime_type"`
	SizeBytes        int64  `json:"size_bytes"`

	// OriginalPath is the temp object key set at finalize. It survives a
	// FAILED terminal state so the upload can be recovered by hand.
	OriginalPath string `json:"original_path"`

	// FinalPath and DirectLink are set only when Status is DONE
	FinalPath          *string `json:"final_path,omitempty"`
	DirectLink         *string `json:"direct_link,omitempty"`
	ProcessedSizeBytes *int64  `json:"processed_size_bytes,omitempty"`

	Status string `gorm:"not null;default:PENDING_UPLOAD" json:"status"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}
