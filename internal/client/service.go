package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	errors "github.com/pontocerto/timeclock/internal"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
	"github.com/pontocerto/timeclock/internal/notification"
)

// Repository defines the data access methods for clients. Create and Delete
// adjust the owning accountant's client_count in the same transaction.
type Repository interface {
	Create(c *Client) error
	GetByID(id string) (*Client, error)
	GetAll() ([]*Client, error)
	GetByAccountant(accountantID string) ([]*Client, error)
	UpdateFields(id string, fields map[string]interface{}) error
	Delete(id string) error
	AppendPasswordEntry(id string, entry datamodel.PasswordEntry) error
}

// Notifier queues outbound notifications; delivery happens in the worker.
type Notifier interface {
	EnqueueWelcome(ctx context.Context, msg notification.Welcome) error
	EnqueueCredentialsEmail(ctx context.Context, msg notification.Welcome) error
}

// ChangePublisher broadcasts collection change events to live subscribers.
type ChangePublisher interface {
	PublishChange(ctx context.Context, collection, op, id string)
}

// Service handles client business logic
type Service struct {
	repo      Repository
	notifier  Notifier
	publisher ChangePublisher
	logger    *slog.Logger
}

func NewService(repo Repository, notifier Notifier, publisher ChangePublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateClient registers a new client company with a generated one-time
// credential and queues the welcome notifications. The accountant's
// client_count is incremented by the repository in the same transaction as
// the insert. Notification failures are logged and never roll back the write.
func (s *Service) CreateClient(ctx context.Context, dto CreateClientDTO) (*Client, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("client validation failed", "error", err)
		return nil, err
	}

	credential := datamodel.NewTemporaryCredential()
	hash, err := datamodel.HashCredential(credential)
	if err != nil {
		s.logger.Error("failed to hash credential", "error", err)
		return nil, errors.NewInternalError("failed to create client", err)
	}

	now := time.Now()
	c := &Client{
		ID:           uuid.New().String(),
		AccountantID: dto.AccountantID,
		Name:         dto.Name,
		Company:      dto.Company,
		Email:        dto.Email,
		Phone:        dto.Phone,
		Status:       datamodel.StatusActive,
		PasswordHistory: datamodel.PasswordHistory{
			{CredentialHash: hash, IssuedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create client", "error", err)
		return nil, errors.NewInternalError("failed to create client", err)
	}

	if err := s.notifier.EnqueueWelcome(ctx, notification.Welcome{
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Company:    c.Company,
		Role:       notification.RoleClient,
		Credential: credential,
	}); err != nil {
		s.logger.Warn("welcome notifications not queued", "error", err, "client_id", c.ID)
	}

	s.publisher.PublishChange(ctx, Collection, "create", c.ID)

	s.logger.Info("client created",
		"client_id", c.ID,
		"accountant_id", c.AccountantID,
		"company", c.Company)

	return c, nil
}

func (s *Service) GetClient(id string) (*Client, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get client", "error", err, "client_id", id)
		return nil, ErrClientNotFound
	}
	return c, nil
}

// ListClients returns all clients, optionally scoped to one accountant.
func (s *Service) ListClients(accountantID string) ([]*Client, error) {
	var (
		clients []*Client
		err     error
	)
	if accountantID != "" {
		clients, err = s.repo.GetByAccountant(accountantID)
	} else {
		clients, err = s.repo.GetAll()
	}
	if err != nil {
		s.logger.Error("failed to list clients", "error", err)
		return nil, errors.NewInternalError("failed to list clients", err)
	}
	return clients, nil
}

// UpdateClient merges the provided fields and refreshes updated_at.
func (s *Service) UpdateClient(ctx context.Context, id string, dto UpdateClientDTO) (*Client, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("client update validation failed", "error", err, "client_id", id)
		return nil, err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return nil, ErrClientNotFound
	}

	if err := s.repo.UpdateFields(id, dto.Fields()); err != nil {
		s.logger.Error("failed to update client", "error", err, "client_id", id)
		return nil, errors.NewInternalError("failed to update client", err)
	}

	s.publisher.PublishChange(ctx, Collection, "update", id)

	return s.repo.GetByID(id)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) error {
	if err := dto.Validate(); err != nil {
		s.logger.Error("status validation failed", "error", err, "client_id", id)
		return err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return ErrClientNotFound
	}

	fields := map[string]interface{}{
		"status":     dto.Status,
		"updated_at": time.Now(),
	}
	if err := s.repo.UpdateFields(id, fields); err != nil {
		s.logger.Error("failed to update client status", "error", err, "client_id", id)
		return errors.NewInternalError("failed to update status", err)
	}

	s.publisher.PublishChange(ctx, Collection, "update", id)

	s.logger.Info("client status updated", "client_id", id, "status", dto.Status)
	return nil
}

// DeleteClient removes the record and decrements the owning accountant's
// client_count in the same transaction. Employees of the client are left in
// place; there is no cascade.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return ErrClientNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete client", "error", err, "client_id", id)
		return errors.NewInternalError("failed to delete client", err)
	}

	s.publisher.PublishChange(ctx, Collection, "delete", id)

	s.logger.Info("client deleted", "client_id", id)
	return nil
}

// ResendCredentials issues a fresh one-time credential, appends it to the
// password history and queues the credentials email. There is no WhatsApp
// resend.
func (s *Service) ResendCredentials(ctx context.Context, id string) error {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return ErrClientNotFound
	}

	credential := datamodel.NewTemporaryCredential()
	hash, err := datamodel.HashCredential(credential)
	if err != nil {
		s.logger.Error("failed to hash credential", "error", err, "client_id", id)
		return errors.NewInternalError("failed to resend credentials", err)
	}

	entry := datamodel.PasswordEntry{CredentialHash: hash, IssuedAt: time.Now()}
	if err := s.repo.AppendPasswordEntry(id, entry); err != nil {
		s.logger.Error("failed to append password entry", "error", err, "client_id", id)
		return errors.NewInternalError("failed to resend credentials", err)
	}

	if err := s.notifier.EnqueueCredentialsEmail(ctx, notification.Welcome{
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Company:    c.Company,
		Role:       notification.RoleClient,
		Credential: credential,
	}); err != nil {
		s.logger.Error("failed to queue credentials email", "error", err, "client_id", id)
		return errors.NewInternalError("failed to resend credentials", err)
	}

	s.publisher.PublishChange(ctx, Collection, "update", id)

	s.logger.Info("credentials resent", "client_id", id)
	return nil
}
