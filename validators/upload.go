// Package validators checks request input before it reaches a handler's
// business logic
package validators

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrNoFilename      = errors.New("filename can't be empty")
	ErrNoMimeType      = errors.New("mimeType can't be empty")
	ErrFileNameTooLong = errors.New("file name is too long")
	ErrBadFilename     = errors.New("filename can't contain path separators")
	ErrNoFileID        = errors.New("fileId can't be empty")
	ErrNoTempPath      = errors.New("tempPath can't be empty")
	ErrBadSize         = errors.New("sizeBytes must be bigger than 0")
)

// PresignRequest validates the advisory presign input. Nothing is
// persisted at this point so failures have no side effects.
func PresignRequest(filename, mimeType string) error {
	if filename == "" {
		return ErrNoFilename
	}

	if mimeType == "" {
		return ErrNoMimeType
	}

	if len(filename) > viper.GetInt("upload.max_name_length") {
		return ErrFileNameTooLong
	}

	// Filenames end up as object key segments
	if strings.ContainsAny(filename, "/\\") {
		return ErrBadFilename
	}

	return nil
}

// FinalizeRequest validates the durable hand-off input
func FinalizeRequest(fileID, tempPath, filename, mimeType string, sizeBytes int64) error {
	if fileID == "" {
		return ErrNoFileID
	}

	if tempPath == "" {
		return ErrNoTempPath
	}

	if sizeBytes <= 0 {
		return ErrBadSize
	}

	return PresignRequest(filename, mimeType)
}
