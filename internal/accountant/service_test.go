package accountant_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pontocerto/timeclock/internal/accountant"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
	"github.com/pontocerto/timeclock/internal/notification"
)

func TestAccountantService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Accountant Service Suite")
}

// MockRepository implements accountant.Repository for testing
type MockRepository struct {
	accountants map[string]*accountant.Accountant
	shouldFail  bool
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{accountants: make(map[string]*accountant.Accountant)}
}

func (m *MockRepository) Create(a *accountant.Accountant) error {
	if m.shouldFail {
		return m.failError
	}
	m.accountants[a.ID] = a
	return nil
}

func (m *MockRepository) GetByID(id string) (*accountant.Accountant, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	acc, ok := m.accountants[id]
	if !ok {
		return nil, accountant.ErrAccountantNotFound
	}
	return acc, nil
}

func (m *MockRepository) GetAll() ([]*accountant.Accountant, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*accountant.Accountant
	for _, acc := range m.accountants {
		result = append(result, acc)
	}
	return result, nil
}

func (m *MockRepository) UpdateFields(id string, fields map[string]interface{}) error {
	if m.shouldFail {
		return m.failError
	}
	acc, ok := m.accountants[id]
	if !ok {
		return accountant.ErrAccountantNotFound
	}
	if name, ok := fields["name"].(string); ok {
		acc.Name = name
	}
	if company, ok := fields["company"].(string); ok {
		acc.Company = company
	}
	if email, ok := fields["email"].(string); ok {
		acc.Email = email
	}
	if phone, ok := fields["phone"].(string); ok {
		acc.Phone = phone
	}
	if plan, ok := fields["plan"].(string); ok {
		acc.Plan = plan
	}
	if status, ok := fields["status"].(string); ok {
		acc.Status = status
	}
	return nil
}

func (m *MockRepository) Delete(id string) error {
	if m.shouldFail {
		return m.failError
	}
	if _, ok := m.accountants[id]; !ok {
		return accountant.ErrAccountantNotFound
	}
	delete(m.accountants, id)
	return nil
}

func (m *MockRepository) AppendPasswordEntry(id string, entry datamodel.PasswordEntry) error {
	if m.shouldFail {
		return m.failError
	}
	acc, ok := m.accountants[id]
	if !ok {
		return accountant.ErrAccountantNotFound
	}
	acc.PasswordHistory = append(acc.PasswordHistory, entry)
	return nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

// MockNotifier records queued notifications
type MockNotifier struct {
	welcomes    []notification.Welcome
	credentials []notification.Welcome
	shouldFail  bool
	failError   error
}

func (m *MockNotifier) EnqueueWelcome(_ context.Context, msg notification.Welcome) error {
	if m.shouldFail {
		return m.failError
	}
	m.welcomes = append(m.welcomes, msg)
	return nil
}

func (m *MockNotifier) EnqueueCredentialsEmail(_ context.Context, msg notification.Welcome) error {
	if m.shouldFail {
		return m.failError
	}
	m.credentials = append(m.credentials, msg)
	return nil
}

// MockPublisher records published change events
type MockPublisher struct {
	changes []string
}

func (m *MockPublisher) PublishChange(_ context.Context, collection, op, id string) {
	m.changes = append(m.changes, collection+":"+op)
}

var _ = Describe("Accountant Service", func() {
	var (
		mockRepo      *MockRepository
		mockNotifier  *MockNotifier
		mockPublisher *MockPublisher
		service       *accountant.Service
		ctx           context.Context
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockNotifier = &MockNotifier{}
		mockPublisher = &MockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = accountant.NewService(mockRepo, mockNotifier, mockPublisher, logger)
		ctx = context.Background()
	})

	Describe("CreateAccountant", func() {
		var dto accountant.CreateAccountantDTO

		BeforeEach(func() {
			dto = accountant.CreateAccountantDTO{
				Name:    "Maria Silva",
				Company: "Contabilidade Silva",
				Email:   "maria@silva.com.br",
				Phone:   "11987654321",
				Plan:    accountant.PlanProfessional,
			}
		})

		It("should create an accountant with generated id and active status", func() {
			acc, err := service.CreateAccountant(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(acc.ID).NotTo(BeEmpty())
			Expect(acc.Status).To(Equal(datamodel.StatusActive))
			Expect(acc.Plan).To(Equal(accountant.PlanProfessional))
			Expect(acc.ClientCount).To(Equal(0))
		})

		It("should seed password history with one hashed credential", func() {
			acc, err := service.CreateAccountant(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(acc.PasswordHistory).To(HaveLen(1))
			Expect(acc.PasswordHistory[0].CredentialHash).NotTo(BeEmpty())
			Expect(acc.PasswordHistory[0].IssuedAt).NotTo(BeZero())
		})

		It("should default to the basic plan when none given", func() {
			dto.Plan = ""
			acc, err := service.CreateAccountant(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(acc.Plan).To(Equal(accountant.PlanBasic))
		})

		It("should queue welcome notifications with the plain credential", func() {
			_, err := service.CreateAccountant(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockNotifier.welcomes).To(HaveLen(1))
			Expect(mockNotifier.welcomes[0].Role).To(Equal(notification.RoleAccountant))
			Expect(mockNotifier.welcomes[0].Credential).To(HaveLen(8))
		})

		It("should publish a create change event", func() {
			_, err := service.CreateAccountant(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockPublisher.changes).To(ContainElement("accountants:create"))
		})

		It("should still create the record when notifications cannot be queued", func() {
			mockNotifier.shouldFail = true
			mockNotifier.failError = errors.New("redis down")

			acc, err := service.CreateAccountant(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.accountants).To(HaveKey(acc.ID))
			Expect(mockPublisher.changes).To(ContainElement("accountants:create"))
		})

		It("should reject a missing name", func() {
			dto.Name = ""
			_, err := service.CreateAccountant(ctx, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should reject an invalid email", func() {
			dto.Email = "not-an-email"
			_, err := service.CreateAccountant(ctx, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should reject an unknown plan", func() {
			dto.Plan = "platinum"
			_, err := service.CreateAccountant(ctx, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should return an error when the repository fails", func() {
			mockRepo.SetShouldFail(true, errors.New("insert failed"))
			_, err := service.CreateAccountant(ctx, dto)
			Expect(err).To(HaveOccurred())
			Expect(mockNotifier.welcomes).To(BeEmpty())
		})
	})

	Describe("GetAccountant", func() {
		It("should return not found for an unknown id", func() {
			_, err := service.GetAccountant("missing")
			Expect(err).To(Equal(accountant.ErrAccountantNotFound))
		})

		It("should return the accountant when it exists", func() {
			acc, err := service.CreateAccountant(ctx, accountant.CreateAccountantDTO{
				Name: "Ana", Company: "Ana Contab", Email: "ana@contab.com", Phone: "11912345678",
			})
			Expect(err).NotTo(HaveOccurred())

			found, err := service.GetAccountant(acc.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("Ana"))
		})
	})

	Describe("UpdateAccountant", func() {
		var created *accountant.Accountant

		BeforeEach(func() {
			var err error
			created, err = service.CreateAccountant(ctx, accountant.CreateAccountantDTO{
				Name: "Ana", Company: "Ana Contab", Email: "ana@contab.com", Phone: "11912345678",
			})
			Expect(err).NotTo(HaveOccurred())
			mockPublisher.changes = nil
		})

		It("should apply only the provided fields", func() {
			newName := "Ana Paula"
			updated, err := service.UpdateAccountant(ctx, created.ID, accountant.UpdateAccountantDTO{Name: &newName})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Ana Paula"))
			Expect(updated.Company).To(Equal("Ana Contab"))
		})

		It("should publish an update change event", func() {
			newName := "Ana Paula"
			_, err := service.UpdateAccountant(ctx, created.ID, accountant.UpdateAccountantDTO{Name: &newName})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockPublisher.changes).To(ContainElement("accountants:update"))
		})

		It("should return not found for an unknown id", func() {
			newName := "Nobody"
			_, err := service.UpdateAccountant(ctx, "missing", accountant.UpdateAccountantDTO{Name: &newName})
			Expect(err).To(Equal(accountant.ErrAccountantNotFound))
		})
	})

	Describe("UpdateStatus", func() {
		var created *accountant.Accountant

		BeforeEach(func() {
			var err error
			created, err = service.CreateAccountant(ctx, accountant.CreateAccountantDTO{
				Name: "Ana", Company: "Ana Contab", Email: "ana@contab.com", Phone: "11912345678",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should switch the status", func() {
			err := service.UpdateStatus(ctx, created.ID, accountant.UpdateStatusDTO{Status: datamodel.StatusSuspended})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.accountants[created.ID].Status).To(Equal(datamodel.StatusSuspended))
		})

		It("should reject an unknown status", func() {
			err := service.UpdateStatus(ctx, created.ID, accountant.UpdateStatusDTO{Status: "archived"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DeleteAccountant", func() {
		It("should remove the record and publish a delete event", func() {
			acc, err := service.CreateAccountant(ctx, accountant.CreateAccountantDTO{
				Name: "Ana", Company: "Ana Contab", Email: "ana@contab.com", Phone: "11912345678",
			})
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteAccountant(ctx, acc.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.accountants).NotTo(HaveKey(acc.ID))
			Expect(mockPublisher.changes).To(ContainElement("accountants:delete"))
		})

		It("should return not found for an unknown id", func() {
			err := service.DeleteAccountant(ctx, "missing")
			Expect(err).To(Equal(accountant.ErrAccountantNotFound))
		})
	})

	Describe("ResendCredentials", func() {
		var created *accountant.Accountant

		BeforeEach(func() {
			var err error
			created, err = service.CreateAccountant(ctx, accountant.CreateAccountantDTO{
				Name: "Ana", Company: "Ana Contab", Email: "ana@contab.com", Phone: "11912345678",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should append a new entry to the password history", func() {
			err := service.ResendCredentials(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.accountants[created.ID].PasswordHistory).To(HaveLen(2))
		})

		It("should queue an email only", func() {
			err := service.ResendCredentials(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockNotifier.credentials).To(HaveLen(1))
			Expect(mockNotifier.welcomes).To(HaveLen(1))
		})

		It("should fail when the email cannot be queued", func() {
			mockNotifier.shouldFail = true
			mockNotifier.failError = errors.New("redis down")

			err := service.ResendCredentials(ctx, created.ID)
			Expect(err).To(HaveOccurred())
		})

		It("should return not found for an unknown id", func() {
			err := service.ResendCredentials(ctx, "missing")
			Expect(err).To(Equal(accountant.ErrAccountantNotFound))
		})
	})
})
