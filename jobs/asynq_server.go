package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/pontocerto/timeclock/internal/notification"
)

// EmailSender delivers welcome emails.
type EmailSender interface {
	SendWelcome(ctx context.Context, msg notification.Welcome) error
}

// WhatsAppSender delivers welcome WhatsApp messages.
type WhatsAppSender interface {
	SendWelcome(ctx context.Context, msg notification.Welcome) error
}

// Worker wraps the Asynq server processing the notification outbox.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// WorkerConfig collects dependencies required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts asynq.RedisClientOpt
	Email     EmailSender
	WhatsApp  WhatsAppSender
	Logger    *slog.Logger
}

// NewWorker constructs a Worker instance.
func NewWorker(cfg WorkerConfig) *Worker {
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueNotifications: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeWelcomeEmail, handleWelcomeEmail(cfg.Email, cfg.Logger))
	mux.HandleFunc(TaskTypeWelcomeWhatsApp, handleWelcomeWhatsApp(cfg.WhatsApp, cfg.Logger))

	return &Worker{server: srv, mux: mux, logger: cfg.Logger}
}

// Run starts processing jobs until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func handleWelcomeEmail(sender EmailSender, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var msg notification.Welcome
		if err := json.Unmarshal(t.Payload(), &msg); err != nil {
			logger.Error("welcome email task: bad payload", "error", err)
			return fmt.Errorf("bad payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := sender.SendWelcome(ctx, msg); err != nil {
			return err
		}
		return nil
	}
}

func handleWelcomeWhatsApp(sender WhatsAppSender, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var msg notification.Welcome
		if err := json.Unmarshal(t.Payload(), &msg); err != nil {
			logger.Error("welcome whatsapp task: bad payload", "error", err)
			return fmt.Errorf("bad payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := sender.SendWelcome(ctx, msg); err != nil {
			// a rejected phone number never becomes valid on retry
			if errors.Is(err, notification.ErrInvalidPhone) {
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			return err
		}
		return nil
	}
}
