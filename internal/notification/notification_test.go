package notification_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pontocerto/timeclock/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("NormalizePhone", func() {
	It("should strip formatting characters", func() {
		number, err := notification.NormalizePhone("(11) 98765-4321", "55")
		Expect(err).NotTo(HaveOccurred())
		Expect(number).To(Equal("5511987654321"))
	})

	It("should keep an existing country code", func() {
		number, err := notification.NormalizePhone("5511987654321", "55")
		Expect(err).NotTo(HaveOccurred())
		Expect(number).To(Equal("5511987654321"))
	})

	It("should accept ten-digit landlines", func() {
		number, err := notification.NormalizePhone("1133334444", "55")
		Expect(err).NotTo(HaveOccurred())
		Expect(number).To(Equal("551133334444"))
	})

	It("should reject numbers that are too short", func() {
		_, err := notification.NormalizePhone("12345", "55")
		Expect(err).To(MatchError(notification.ErrInvalidPhone))
	})

	It("should reject numbers that are too long", func() {
		_, err := notification.NormalizePhone("5511987654321999", "55")
		Expect(err).To(MatchError(notification.ErrInvalidPhone))
	})

	It("should reject an empty phone", func() {
		_, err := notification.NormalizePhone("", "55")
		Expect(err).To(MatchError(notification.ErrInvalidPhone))
	})
})

var _ = Describe("WhatsAppSender", func() {
	var (
		received map[string]string
		headers  http.Header
		status   int
		server   *httptest.Server
		sender   *notification.WhatsAppSender
	)

	BeforeEach(func() {
		received = nil
		headers = nil
		status = http.StatusOK

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers = r.Header.Clone()
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(status)
		}))
		DeferCleanup(server.Close)

		sender = notification.NewWhatsAppSender(notification.WhatsAppConfig{
			APIURL: server.URL,
			APIKey: "gateway-key",
		}, testLogger())
	})

	It("should post the normalized number and welcome text", func() {
		err := sender.SendWelcome(context.Background(), notification.Welcome{
			Name:  "Maria Silva",
			Phone: "(11) 98765-4321",
			Role:  notification.RoleAccountant,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(received["number"]).To(Equal("5511987654321"))
		Expect(received["text"]).To(ContainSubstring("Olá Maria Silva!"))
		Expect(received["text"]).To(ContainSubstring("como contador"))
		Expect(headers.Get("apikey")).To(Equal("gateway-key"))
	})

	It("should label clients and employees in Portuguese", func() {
		err := sender.SendWelcome(context.Background(), notification.Welcome{
			Name:  "Carlos",
			Phone: "11987654321",
			Role:  notification.RoleClient,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(received["text"]).To(ContainSubstring("como cliente"))

		err = sender.SendWelcome(context.Background(), notification.Welcome{
			Name:  "Pedro",
			Phone: "11987654321",
			Role:  notification.RoleEmployee,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(received["text"]).To(ContainSubstring("como funcionário"))
	})

	It("should fail before any network call on a bad phone", func() {
		err := sender.SendWelcome(context.Background(), notification.Welcome{
			Name:  "Maria",
			Phone: "123",
			Role:  notification.RoleAccountant,
		})
		Expect(err).To(MatchError(notification.ErrInvalidPhone))
		Expect(received).To(BeNil())
	})

	It("should treat non-200 gateway responses as failures", func() {
		status = http.StatusBadGateway
		err := sender.SendWelcome(context.Background(), notification.Welcome{
			Name:  "Maria",
			Phone: "11987654321",
			Role:  notification.RoleAccountant,
		})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("EmailSender", func() {
	var (
		received map[string]interface{}
		headers  http.Header
		status   int
		server   *httptest.Server
		sender   *notification.EmailSender
	)

	BeforeEach(func() {
		received = nil
		headers = nil
		status = http.StatusAccepted

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers = r.Header.Clone()
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(status)
		}))
		DeferCleanup(server.Close)

		sender = notification.NewEmailSender(notification.EmailConfig{
			APIURL: server.URL,
			APIKey: "mail-key",
			From:   "no-reply@pontocerto.app",
		}, testLogger())
	})

	It("should post the credential payload with bearer auth", func() {
		err := sender.SendWelcome(context.Background(), notification.Welcome{
			Name:       "Maria Silva",
			Email:      "maria@example.com",
			Company:    "Contabilidade Silva",
			Role:       notification.RoleAccountant,
			Credential: "a1b2c3d4",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(received["from"]).To(Equal("no-reply@pontocerto.app"))
		Expect(received["to"]).To(Equal("maria@example.com"))

		template := received["template"].(map[string]interface{})
		Expect(template["temporary_password"]).To(Equal("a1b2c3d4"))
		Expect(template["user_type"]).To(Equal(notification.RoleAccountant))
		Expect(headers.Get("Authorization")).To(Equal("Bearer mail-key"))
	})

	It("should treat any 2xx as success", func() {
		status = http.StatusCreated
		err := sender.SendWelcome(context.Background(), notification.Welcome{
			Email: "maria@example.com",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should treat non-2xx as failure", func() {
		status = http.StatusUnauthorized
		err := sender.SendWelcome(context.Background(), notification.Welcome{
			Email: "maria@example.com",
		})
		Expect(err).To(HaveOccurred())
	})
})
