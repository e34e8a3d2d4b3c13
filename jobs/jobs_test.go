package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/hibiken/asynq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pontocerto/timeclock/internal/notification"
)

func TestJobs(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Jobs Suite")
}

type fakeSender struct {
	sent []notification.Welcome
	err  error
}

func (f *fakeSender) SendWelcome(_ context.Context, msg notification.Welcome) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("Task constructors", func() {
	welcome := notification.Welcome{
		Name:       "Maria Silva",
		Email:      "maria@example.com",
		Phone:      "11987654321",
		Role:       notification.RoleAccountant,
		Credential: "a1b2c3d4",
	}

	It("should build the email task with a round-trippable payload", func() {
		task, err := NewWelcomeEmailTask(welcome)
		Expect(err).NotTo(HaveOccurred())
		Expect(task.Type()).To(Equal(TaskTypeWelcomeEmail))

		var decoded notification.Welcome
		Expect(json.Unmarshal(task.Payload(), &decoded)).To(Succeed())
		Expect(decoded).To(Equal(welcome))
	})

	It("should build the whatsapp task with a round-trippable payload", func() {
		task, err := NewWelcomeWhatsAppTask(welcome)
		Expect(err).NotTo(HaveOccurred())
		Expect(task.Type()).To(Equal(TaskTypeWelcomeWhatsApp))

		var decoded notification.Welcome
		Expect(json.Unmarshal(task.Payload(), &decoded)).To(Succeed())
		Expect(decoded.Credential).To(Equal("a1b2c3d4"))
	})
})

var _ = Describe("Welcome email handler", func() {
	var (
		sender  *fakeSender
		handler asynq.HandlerFunc
	)

	BeforeEach(func() {
		sender = &fakeSender{}
		handler = handleWelcomeEmail(sender, quietLogger())
	})

	It("should deliver the decoded message", func() {
		task, err := NewWelcomeEmailTask(notification.Welcome{Email: "maria@example.com"})
		Expect(err).NotTo(HaveOccurred())

		Expect(handler(context.Background(), task)).To(Succeed())
		Expect(sender.sent).To(HaveLen(1))
		Expect(sender.sent[0].Email).To(Equal("maria@example.com"))
	})

	It("should skip retries on an undecodable payload", func() {
		task := asynq.NewTask(TaskTypeWelcomeEmail, []byte("{not json"))

		err := handler(context.Background(), task)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, asynq.SkipRetry)).To(BeTrue())
	})

	It("should surface delivery failures for retry", func() {
		sender.err = errors.New("provider unavailable")
		task, err := NewWelcomeEmailTask(notification.Welcome{Email: "maria@example.com"})
		Expect(err).NotTo(HaveOccurred())

		err = handler(context.Background(), task)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, asynq.SkipRetry)).To(BeFalse())
	})
})

var _ = Describe("Welcome whatsapp handler", func() {
	var (
		sender  *fakeSender
		handler asynq.HandlerFunc
	)

	BeforeEach(func() {
		sender = &fakeSender{}
		handler = handleWelcomeWhatsApp(sender, quietLogger())
	})

	It("should deliver the decoded message", func() {
		task, err := NewWelcomeWhatsAppTask(notification.Welcome{Phone: "11987654321"})
		Expect(err).NotTo(HaveOccurred())

		Expect(handler(context.Background(), task)).To(Succeed())
		Expect(sender.sent).To(HaveLen(1))
	})

	It("should skip retries when the phone number is rejected", func() {
		sender.err = notification.ErrInvalidPhone
		task, err := NewWelcomeWhatsAppTask(notification.Welcome{Phone: "123"})
		Expect(err).NotTo(HaveOccurred())

		err = handler(context.Background(), task)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, asynq.SkipRetry)).To(BeTrue())
	})

	It("should surface gateway failures for retry", func() {
		sender.err = errors.New("gateway timeout")
		task, err := NewWelcomeWhatsAppTask(notification.Welcome{Phone: "11987654321"})
		Expect(err).NotTo(HaveOccurred())

		err = handler(context.Background(), task)
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, asynq.SkipRetry)).To(BeFalse())
	})
})
