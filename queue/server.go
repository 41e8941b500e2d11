package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Handler processes one delivery of a job. attempt is 1-based and
// preserved by the broker across redeliveries.
type Handler interface {
	HandleProcess(ctx context.Context, p *ProcessPayload, attempt, maxAttempts int) error
}

type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// RetryDelay returns the redelivery delay scheduled after attempt n
// failed. Strictly increasing so a flaky transform doesn't hammer the
// store.
func RetryDelay(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

func NewServer(h Handler) *Server {
	srv := asynq.NewServer(RedisOpt(), asynq.Config{
		Concurrency: viper.GetInt("processing.concurrency"),
		Queues:      map[string]int{"files": 1},
		RetryDelayFunc: func(n int, _ error, _ *asynq.Task) time.Duration {
			// n counts completed retries, the attempt that just failed is n+1
			return RetryDelay(n + 1)
		},
		Logger: zap.S(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeFileProcess, func(ctx context.Context, t *asynq.Task) error {
		var p ProcessPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("failed to decode job payload: %v, %w", err, asynq.SkipRetry)
		}

		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		return h.HandleProcess(ctx, &p, retried+1, maxRetry+1)
	})

	return &Server{srv: srv, mux: mux}
}

// Start runs the consumer in the background. Deliveries that return an
// error are redelivered by the broker with RetryDelay backoff until the
// retry budget runs out, after that the task is archived and never
// redelivered.
func (s *Server) Start() error {
	return s.srv.Start(s.mux)
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
}
