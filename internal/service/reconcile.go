package service

import (
	"context"
	"fmt"
	"time"

	"sigantara/file-api/internal/model"
	"sigantara/file-api/queue"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reconciler re-enqueues records stuck in UPLOADED with no job in
// flight, which happens when finalize inserted the record but the
// enqueue after it failed. Records stuck in PROCESSING with exhausted
// attempts are left alone, those need manual recovery.
type Reconciler struct {
	DB     *gorm.DB
	Queue  queue.Enqueuer
	MinAge time.Duration
}

func NewReconciler(db *gorm.DB, q queue.Enqueuer, minAge time.Duration) *Reconciler {
	return &Reconciler{
		DB:     db,
		Queue:  q,
		MinAge: minAge,
	}
}

// Sweep re-enqueues every UPLOADED record older than MinAge and returns
// how many it picked up. Touching updated_at keeps the next sweep from
// re-enqueueing the same record while its job is still queued.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-r.MinAge).Unix()

	var stuck []model.File

	err := r.DB.
		Where("status = ? AND updated_at < ?", model.StatusUploaded, cutoff).
		Find(&stuck).
		Error
	if err != nil {
		return 0, fmt.Errorf("failed to query stuck uploads, %w", err)
	}

	n := 0
	for _, f := range stuck {
		err := r.Queue.EnqueueProcess(ctx, &queue.ProcessPayload{
			FileID:   f.ID,
			TeamID:   f.TeamID,
			TempPath: f.OriginalPath,
			MimeType: f.MimeType,
			Filename: f.Filename,
		})
		if err != nil {
			zap.L().Warn("Failed to re-enqueue stuck upload", zap.Uint("file_id", f.ID), zap.Error(err))
			continue
		}

		r.DB.
			Model(model.File{}).
			Where("id = ?", f.ID).
			Update("updated_at", time.Now().Unix())

		n++
	}

	return n, nil
}

// Attach schedules the sweep on the shared cron runner
func (r *Reconciler) Attach(c *cron.Cron, every time.Duration) error {
	_, err := c.AddFunc(fmt.Sprintf("@every %s", every), func() {
		n, err := r.Sweep(context.Background())
		if err != nil {
			zap.L().Error("Reconciliation sweep failed", zap.Error(err))
			return
		}

		if n > 0 {
			zap.L().Info("Re-enqueued stuck uploads", zap.Int("count", n))
		}
	})

	return err
}
