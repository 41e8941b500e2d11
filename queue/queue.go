// Package queue wraps asynq. It's the only coordination point between
// the HTTP side that produces jobs and the worker that consumes them.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

// TypeFileProcess is the task type of the processing job
const TypeFileProcess = "file:process"

// ProcessPayload carries enough to start working without a database
// read before the first status update. Field names are part of the
// wire contract.
type ProcessPayload struct {
	FileID   uint   `json:"fileId"`
	TeamID   uint   `json:"teamId"`
	TempPath string `json:"tempPath"`
	MimeType string `json:"mimeType"`
	Filename string `json:"filename"`
}

// Enqueuer is implemented by *Client and by test stubs
type Enqueuer interface {
	EnqueueProcess(ctx context.Context, p *ProcessPayload) error
}

type Client struct {
	inner       *asynq.Client
	maxAttempts int
}

func NewClient() *Client {
	return &Client{
		inner:       asynq.NewClient(RedisOpt()),
		maxAttempts: viper.GetInt("processing.max_attempts"),
	}
}

func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	}
}

// EnqueueProcess hands a finalized upload over to the worker. The broker
// delivers at least once and keeps the retry counter across redeliveries.
func (c *Client) EnqueueProcess(ctx context.Context, p *ProcessPayload) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode job payload, %w", err)
	}

	_, err = c.inner.EnqueueContext(ctx, asynq.NewTask(TypeFileProcess, b),
		asynq.MaxRetry(c.maxAttempts-1),
		asynq.Queue("files"),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue processing job, %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.inner.Close()
}
