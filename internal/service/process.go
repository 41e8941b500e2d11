// Package service contains stuff related to the background processing
// of the application
package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"sigantara/file-api/internal/model"
	"sigantara/file-api/queue"
	"sigantara/file-api/storage"
	"sigantara/file-api/transform"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Processor consumes processing jobs and drives a file record from
// UPLOADED through PROCESSING into DONE or FAILED. Every step is safe
// to re-run, the queue delivers at least once and duplicates happen.
type Processor struct {
	DB         *gorm.DB
	Store      storage.Store
	Transforms *transform.Registry
}

func NewProcessor(db *gorm.DB, store storage.Store, reg *transform.Registry) *Processor {
	return &Processor{
		DB:         db,
		Store:      store,
		Transforms: reg,
	}
}

// HandleProcess runs one attempt. A returned error makes the broker
// redeliver with backoff until the retry budget is exhausted, at which
// point the record has already been marked FAILED here.
func (p *Processor) HandleProcess(ctx context.Context, job *queue.ProcessPayload, attempt, maxAttempts int) error {
	zap.L().Info("Processing file",
		zap.Uint("file_id", job.FileID),
		zap.Int("attempt", attempt),
		zap.String("mime_type", job.MimeType))

	err := p.runAttempt(ctx, job, attempt)
	if err == nil {
		return nil
	}

	msg := err.Error()
	p.logAttempt(job.FileID, attempt, model.StatusFailed, &msg)

	if attempt >= maxAttempts {
		// Terminal. The temp object is deliberately kept around so the
		// upload can be recovered by hand.
		uerr := p.DB.
			Model(model.File{}).
			Where("id = ?", job.FileID).
			Update("status", model.StatusFailed).
			Error
		if uerr != nil {
			zap.L().Error("Failed to mark file as failed", zap.Uint("file_id", job.FileID), zap.Error(uerr))
		}

		zap.L().Warn("File failed terminally",
			zap.Uint("file_id", job.FileID),
			zap.Int("attempts", attempt),
			zap.Error(err))
	} else {
		zap.L().Warn("Processing attempt failed, will retry",
			zap.Uint("file_id", job.FileID),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return err
}

func (p *Processor) runAttempt(ctx context.Context, job *queue.ProcessPayload, attempt int) error {
	// Idempotent, a crashed prior attempt may have left the record in
	// PROCESSING already
	err := p.DB.
		Model(model.File{}).
		Where("id = ?", job.FileID).
		Update("status", model.StatusProcessing).
		Error
	if err != nil {
		return fmt.Errorf("failed to set processing status, %w", err)
	}

	if err := p.logAttempt(job.FileID, attempt, model.StatusProcessing, nil); err != nil {
		return err
	}

	data, err := p.Store.Get(ctx, job.TempPath)
	if err != nil {
		return fmt.Errorf("failed to read temp object %s, %w", job.TempPath, err)
	}

	out := data
	ext := ""
	contentType := job.MimeType

	if tr := p.Transforms.Lookup(job.MimeType); tr != nil {
		res, err := tr.Apply(data)
		if err != nil {
			return fmt.Errorf("transform failed, %w", err)
		}

		// A nil result means the transform declined, store the original
		// bytes unchanged
		if res != nil {
			out = res.Data
			ext = res.Extension
			contentType = res.ContentType
		}
	}

	finalFilename := job.Filename
	if ext != "" {
		finalFilename = replaceExt(job.Filename, ext)
	}

	// Deterministic, a duplicate delivery overwrites the same key with
	// equal content
	finalPath := fmt.Sprintf("files/%d/%d/%s", job.TeamID, job.FileID, finalFilename)

	if err := p.Store.Put(ctx, finalPath, out, contentType); err != nil {
		return fmt.Errorf("failed to write final object %s, %w", finalPath, err)
	}

	err = p.DB.
		Model(model.File{}).
		Where("id = ?", job.FileID).
		Updates(map[string]any{
			"status":               model.StatusDone,
			"final_path":           finalPath,
			"direct_link":          p.Store.DirectLink(finalPath),
			"processed_size_bytes": int64(len(out)),
		}).
		Error
	if err != nil {
		return fmt.Errorf("failed to mark file as done, %w", err)
	}

	if err := p.logAttempt(job.FileID, attempt, model.StatusDone, nil); err != nil {
		return err
	}

	// Best effort. A leftover temp object never reverts a DONE record.
	if err := p.Store.Delete(ctx, job.TempPath); err != nil {
		zap.L().Warn("Failed to delete temp object", zap.String("temp_path", job.TempPath), zap.Error(err))
	}

	zap.L().Info("File processed",
		zap.Uint("file_id", job.FileID),
		zap.String("final_path", finalPath),
		zap.Int("size", len(out)))

	return nil
}

func (p *Processor) logAttempt(fileID uint, attempt int, status string, errMsg *string) error {
	err := p.DB.Create(&model.ProcessingLog{
		FileID:       fileID,
		Attempt:      attempt,
		Status:       status,
		ErrorMessage: errMsg,
	}).Error
	if err != nil {
		zap.L().Error("Failed to append processing log", zap.Uint("file_id", fileID), zap.Error(err))
		return fmt.Errorf("failed to append processing log, %w", err)
	}

	return nil
}

// replaceExt swaps the filename extension for the transform's canonical
// one, appending when the original name has none
func replaceExt(name, ext string) string {
	if e := path.Ext(name); e != "" {
		return strings.TrimSuffix(name, e) + "." + ext
	}

	return name + "." + ext
}
