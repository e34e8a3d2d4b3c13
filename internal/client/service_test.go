package client_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pontocerto/timeclock/internal/client"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
	"github.com/pontocerto/timeclock/internal/notification"
)

func TestClientService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Client Service Suite")
}

// MockRepository implements client.Repository for testing. It tracks a
// per-accountant counter the way the real repository does.
type MockRepository struct {
	clients    map[string]*client.Client
	counts     map[string]int
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		clients: make(map[string]*client.Client),
		counts:  make(map[string]int),
	}
}

func (m *MockRepository) Create(c *client.Client) error {
	if m.shouldFail {
		return m.failError
	}
	m.clients[c.ID] = c
	m.counts[c.AccountantID]++
	return nil
}

func (m *MockRepository) GetByID(id string) (*client.Client, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	c, ok := m.clients[id]
	if !ok {
		return nil, client.ErrClientNotFound
	}
	return c, nil
}

func (m *MockRepository) GetAll() ([]*client.Client, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*client.Client
	for _, c := range m.clients {
		result = append(result, c)
	}
	return result, nil
}

func (m *MockRepository) GetByAccountant(accountantID string) ([]*client.Client, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*client.Client
	for _, c := range m.clients {
		if c.AccountantID == accountantID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *MockRepository) UpdateFields(id string, fields map[string]interface{}) error {
	if m.shouldFail {
		return m.failError
	}
	c, ok := m.clients[id]
	if !ok {
		return client.ErrClientNotFound
	}
	if name, ok := fields["name"].(string); ok {
		c.Name = name
	}
	if company, ok := fields["company"].(string); ok {
		c.Company = company
	}
	if email, ok := fields["email"].(string); ok {
		c.Email = email
	}
	if phone, ok := fields["phone"].(string); ok {
		c.Phone = phone
	}
	if status, ok := fields["status"].(string); ok {
		c.Status = status
	}
	return nil
}

func (m *MockRepository) Delete(id string) error {
	if m.shouldFail {
		return m.failError
	}
	c, ok := m.clients[id]
	if !ok {
		return client.ErrClientNotFound
	}
	delete(m.clients, id)
	if m.counts[c.AccountantID] > 0 {
		m.counts[c.AccountantID]--
	}
	return nil
}

func (m *MockRepository) AppendPasswordEntry(id string, entry datamodel.PasswordEntry) error {
	if m.shouldFail {
		return m.failError
	}
	c, ok := m.clients[id]
	if !ok {
		return client.ErrClientNotFound
	}
	c.PasswordHistory = append(c.PasswordHistory, entry)
	return nil
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

var _ = Describe("Client Service", func() {
	var (
		mockRepo      *MockRepository
		mockNotifier  *MockNotifier
		mockPublisher *MockPublisher
		service       *client.Service
		ctx           context.Context
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockNotifier = &MockNotifier{}
		mockPublisher = &MockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = client.NewService(mockRepo, mockNotifier, mockPublisher, logger)
		ctx = context.Background()
	})

	Describe("CreateClient", func() {
		var dto client.CreateClientDTO

		BeforeEach(func() {
			dto = client.CreateClientDTO{
				AccountantID: "acc-1",
				Name:         "Carlos Souza",
				Company:      "Padaria Souza",
				Email:        "carlos@padariasouza.com.br",
				Phone:        "11987654321",
			}
		})

		It("should create a client with generated id and active status", func() {
			c, err := service.CreateClient(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).NotTo(BeEmpty())
			Expect(c.AccountantID).To(Equal("acc-1"))
			Expect(c.Status).To(Equal(datamodel.StatusActive))
			Expect(c.PasswordHistory).To(HaveLen(1))
		})

		It("should queue a client-role welcome", func() {
			_, err := service.CreateClient(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockNotifier.welcomes).To(HaveLen(1))
			Expect(mockNotifier.welcomes[0].Role).To(Equal(notification.RoleClient))
		})

		It("should keep the record and counter when the welcome email cannot be queued", func() {
			mockNotifier.shouldFail = true
			mockNotifier.failError = errors.New("smtp relay down")

			c, err := service.CreateClient(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.clients).To(HaveKey(c.ID))
			Expect(mockRepo.counts["acc-1"]).To(Equal(1))
		})

		It("should publish a create change event", func() {
			_, err := service.CreateClient(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockPublisher.changes).To(ContainElement("clients:create"))
		})

		It("should reject a missing accountant_id", func() {
			dto.AccountantID = ""
			_, err := service.CreateClient(ctx, dto)
			Expect(err).To(HaveOccurred())
		})

		It("should return an error when the repository fails", func() {
			mockRepo.shouldFail = true
			mockRepo.failError = errors.New("insert failed")
			_, err := service.CreateClient(ctx, dto)
			Expect(err).To(HaveOccurred())
			Expect(mockNotifier.welcomes).To(BeEmpty())
		})
	})

	Describe("ListClients", func() {
		BeforeEach(func() {
			for _, spec := range []struct{ accountantID, name string }{
				{"acc-1", "Padaria Souza"},
				{"acc-1", "Oficina Lima"},
				{"acc-2", "Mercado Central"},
			} {
				_, err := service.CreateClient(ctx, client.CreateClientDTO{
					AccountantID: spec.accountantID,
					Name:         spec.name,
					Company:      spec.name,
					Email:        "contato@example.com",
					Phone:        "11987654321",
				})
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should return everything without a scope", func() {
			clients, err := service.ListClients("")
			Expect(err).NotTo(HaveOccurred())
			Expect(clients).To(HaveLen(3))
		})

		It("should scope to one accountant", func() {
			clients, err := service.ListClients("acc-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(clients).To(HaveLen(2))
		})
	})

	Describe("DeleteClient", func() {
		It("should remove the record and publish a delete event", func() {
			c, err := service.CreateClient(ctx, client.CreateClientDTO{
				AccountantID: "acc-1", Name: "Padaria", Company: "Padaria", Email: "p@p.com.br", Phone: "11987654321",
			})
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteClient(ctx, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.clients).NotTo(HaveKey(c.ID))
			Expect(mockPublisher.changes).To(ContainElement("clients:delete"))
		})

		It("should return not found for an unknown id", func() {
			err := service.DeleteClient(ctx, "missing")
			Expect(err).To(Equal(client.ErrClientNotFound))
		})
	})

	Describe("ResendCredentials", func() {
		var created *client.Client

		BeforeEach(func() {
			var err error
			created, err = service.CreateClient(ctx, client.CreateClientDTO{
				AccountantID: "acc-1", Name: "Padaria", Company: "Padaria", Email: "p@p.com.br", Phone: "11987654321",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should append one history entry and queue the email only", func() {
			err := service.ResendCredentials(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.clients[created.ID].PasswordHistory).To(HaveLen(2))
			Expect(mockNotifier.credentials).To(HaveLen(1))
		})

		It("should fail when the email cannot be queued", func() {
			mockNotifier.shouldFail = true
			mockNotifier.failError = errors.New("redis down")

			err := service.ResendCredentials(ctx, created.ID)
			Expect(err).To(HaveOccurred())
		})
	})
})
