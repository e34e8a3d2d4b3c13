package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pontocerto/timeclock/internal/notification"
)

const (
	// QueueNotifications is the queue used for outbound notifications.
	QueueNotifications = "notifications"
	// TaskTypeWelcomeEmail delivers the welcome email with the temporary credential.
	TaskTypeWelcomeEmail = "notify:email"
	// TaskTypeWelcomeWhatsApp delivers the welcome WhatsApp message.
	TaskTypeWelcomeWhatsApp = "notify:whatsapp"
)

// NewWelcomeEmailTask constructs the email delivery task.
func NewWelcomeEmailTask(msg notification.Welcome) (*asynq.Task, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeEmail, data, asynq.Queue(QueueNotifications)), nil
}

// NewWelcomeWhatsAppTask constructs the WhatsApp delivery task.
func NewWelcomeWhatsAppTask(msg notification.Welcome) (*asynq.Task, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeWhatsApp, data, asynq.Queue(QueueNotifications)), nil
}

// Enqueuer pushes notification tasks onto the outbox queue. Record creation
// never waits for delivery; the worker retries failed sends.
type Enqueuer struct {
	client *asynq.Client
	logger *slog.Logger
}

func NewEnqueuer(client *asynq.Client, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{client: client, logger: logger}
}

// EnqueueWelcome queues both the welcome email and the WhatsApp message.
// Each enqueue failure is reported but does not block the other.
func (e *Enqueuer) EnqueueWelcome(ctx context.Context, msg notification.Welcome) error {
	var firstErr error

	emailTask, err := NewWelcomeEmailTask(msg)
	if err == nil {
		_, err = e.client.EnqueueContext(ctx, emailTask, asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	}
	if err != nil {
		e.logger.Error("failed to enqueue welcome email", "error", err, "email", msg.Email)
		firstErr = err
	}

	waTask, err := NewWelcomeWhatsAppTask(msg)
	if err == nil {
		_, err = e.client.EnqueueContext(ctx, waTask, asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	}
	if err != nil {
		e.logger.Error("failed to enqueue welcome whatsapp", "error", err, "email", msg.Email)
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// EnqueueCredentialsEmail queues the credentials email only, used by the
// resend operation. There is no WhatsApp resend.
func (e *Enqueuer) EnqueueCredentialsEmail(ctx context.Context, msg notification.Welcome) error {
	task, err := NewWelcomeEmailTask(msg)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)); err != nil {
		e.logger.Error("failed to enqueue credentials email", "error", err, "email", msg.Email)
		return err
	}
	return nil
}
