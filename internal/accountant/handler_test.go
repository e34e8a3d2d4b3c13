package accountant_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pontocerto/timeclock/internal/accountant"
)

var _ = Describe("Accountant Handler", func() {
	var (
		mockRepo      *MockRepository
		mockNotifier  *MockNotifier
		mockPublisher *MockPublisher
		router        chi.Router
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockNotifier = &MockNotifier{}
		mockPublisher = &MockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := accountant.NewService(mockRepo, mockNotifier, mockPublisher, logger)
		handler := accountant.NewHandler(service)

		router = chi.NewRouter()
		router.Route("/accountants", func(r chi.Router) {
			r.Get("/", handler.ListAccountants)
			r.Post("/", handler.CreateAccountant)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handler.GetAccountant)
				r.Patch("/", handler.UpdateAccountant)
				r.Delete("/", handler.DeleteAccountant)
				r.Patch("/status", handler.UpdateStatus)
				r.Post("/resend-credentials", handler.ResendCredentials)
			})
		})
	})

	createOne := func() *accountant.Accountant {
		service := accountant.NewService(mockRepo, mockNotifier, mockPublisher,
			slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		acc, err := service.CreateAccountant(context.Background(), accountant.CreateAccountantDTO{
			Name: "Ana", Company: "Ana Contab", Email: "ana@contab.com", Phone: "11912345678",
		})
		Expect(err).NotTo(HaveOccurred())
		return acc
	}

	Describe("POST /accountants", func() {
		It("should create an accountant and return 201", func() {
			body, _ := json.Marshal(map[string]string{
				"name":    "Maria Silva",
				"company": "Contabilidade Silva",
				"email":   "maria@silva.com.br",
				"phone":   "11987654321",
				"plan":    accountant.PlanProfessional,
			})

			req := httptest.NewRequest(http.MethodPost, "/accountants", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))

			var created accountant.Accountant
			Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
			Expect(created.ID).NotTo(BeEmpty())
			Expect(mockRepo.accountants).To(HaveKey(created.ID))
		})

		It("should return 400 on a validation failure", func() {
			body, _ := json.Marshal(map[string]string{
				"name":  "Maria Silva",
				"email": "not-an-email",
			})

			req := httptest.NewRequest(http.MethodPost, "/accountants", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 on a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/accountants", bytes.NewReader([]byte("{not json")))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /accountants/{id}", func() {
		It("should return the accountant", func() {
			acc := createOne()

			req := httptest.NewRequest(http.MethodGet, "/accountants/"+acc.ID, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var got accountant.Accountant
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got.Name).To(Equal("Ana"))
		})

		It("should return 404 for an unknown id", func() {
			req := httptest.NewRequest(http.MethodGet, "/accountants/missing", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("PATCH /accountants/{id}/status", func() {
		It("should switch the status", func() {
			acc := createOne()
			body, _ := json.Marshal(map[string]string{"status": "inactive"})

			req := httptest.NewRequest(http.MethodPatch, "/accountants/"+acc.ID+"/status", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(mockRepo.accountants[acc.ID].Status).To(Equal("inactive"))
		})
	})

	Describe("DELETE /accountants/{id}", func() {
		It("should return 204 and remove the record", func() {
			acc := createOne()

			req := httptest.NewRequest(http.MethodDelete, "/accountants/"+acc.ID, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(mockRepo.accountants).NotTo(HaveKey(acc.ID))
		})
	})

	Describe("POST /accountants/{id}/resend-credentials", func() {
		It("should queue a credentials email", func() {
			acc := createOne()

			req := httptest.NewRequest(http.MethodPost, "/accountants/"+acc.ID+"/resend-credentials", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(mockNotifier.credentials).To(HaveLen(1))
		})

		It("should return 404 for an unknown id", func() {
			req := httptest.NewRequest(http.MethodPost, "/accountants/missing/resend-credentials", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
