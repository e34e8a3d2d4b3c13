package accountant

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	errors "github.com/pontocerto/timeclock/internal"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
	"github.com/pontocerto/timeclock/internal/notification"
)

// Repository defines the data access methods for accountants
type Repository interface {
	Create(a *Accountant) error
	GetByID(id string) (*Accountant, error)
	GetAll() ([]*Accountant, error)
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

// Service handles accountant business logic
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

// CreateAccountant registers a new accountant with a generated one-time
// credential and queues the welcome notifications. Notification failures are
// logged and never roll back the write.
func (s *Service) CreateAccountant(ctx context.Context, dto CreateAccountantDTO) (*Accountant, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("accountant validation failed", "error", err)
		return nil, err
	}

	credential := datamodel.NewTemporaryCredential()
	hash, err := datamodel.HashCredential(credential)
	if err != nil {
		s.logger.Error("failed to hash credential", "error", err)
		return nil, errors.NewInternalError("failed to create accountant", err)
	}

	plan := dto.Plan
	if plan == "" {
		plan = PlanBasic
	}

	now := time.Now()
	acc := &Accountant{
		ID:          uuid.New().String(),
		Name:        dto.Name,
		Company:     dto.Company,
		Email:       dto.Email,
		Phone:       dto.Phone,
		Status:      datamodel.StatusActive,
		Plan:        plan,
		ClientCount: 0,
		PasswordHistory: datamodel.PasswordHistory{
			{CredentialHash: hash, IssuedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(acc); err != nil {
		s.logger.Error("failed to create accountant", "error", err)
		return nil, errors.NewInternalError("failed to create accountant", err)
	}

	if err := s.notifier.EnqueueWelcome(ctx, notification.Welcome{
		Name:       acc.Name,
		Email:      acc.Email,
		Phone:      acc.Phone,
		Company:    acc.Company,
		Role:       notification.RoleAccountant,
		Credential: credential,
	}); err != nil {
		s.logger.Warn("welcome notifications not queued", "error", err, "accountant_id", acc.ID)
	}

	s.publisher.PublishChange(ctx, Collection, "create", acc.ID)

	s.logger.Info("accountant created",
		"accountant_id", acc.ID,
		"company", acc.Company,
		"plan", acc.Plan)

	return acc, nil
}

func (s *Service) GetAccountant(id string) (*Accountant, error) {
	acc, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get accountant", "error", err, "accountant_id", id)
		return nil, ErrAccountantNotFound
	}
	return acc, nil
}

func (s *Service) ListAccountants() ([]*Accountant, error) {
	accountants, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list accountants", "error", err)
		return nil, errors.NewInternalError("failed to list accountants", err)
	}
	return accountants, nil
}

// UpdateAccountant merges the provided fields and refreshes updated_at.
func (s *Service) UpdateAccountant(ctx context.Context, id string, dto UpdateAccountantDTO) (*Accountant, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("accountant update validation failed", "error", err, "accountant_id", id)
		return nil, err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return nil, ErrAccountantNotFound
	}

	if err := s.repo.UpdateFields(id, dto.Fields()); err != nil {
		s.logger.Error("failed to update accountant", "error", err, "accountant_id", id)
		return nil, errors.NewInternalError("failed to update accountant", err)
	}

	s.publisher.PublishChange(ctx, Collection, "update", id)

	return s.repo.GetByID(id)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) error {
	if err := dto.Validate(); err != nil {
		s.logger.Error("status validation failed", "error", err, "accountant_id", id)
		return err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return ErrAccountantNotFound
	}

	fields := map[string]interface{}{
		"status":     dto.Status,
		"updated_at": time.Now(),
	}
	if err := s.repo.UpdateFields(id, fields); err != nil {
		s.logger.Error("failed to update accountant status", "error", err, "accountant_id", id)
		return errors.NewInternalError("failed to update status", err)
	}

	s.publisher.PublishChange(ctx, Collection, "update", id)

	s.logger.Info("accountant status updated", "accountant_id", id, "status", dto.Status)
	return nil
}

// DeleteAccountant removes the record. Owned clients and employees are left
// in place; there is no cascade.
func (s *Service) DeleteAccountant(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return ErrAccountantNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete accountant", "error", err, "accountant_id", id)
		return errors.NewInternalError("failed to delete accountant", err)
	}

	s.publisher.PublishChange(ctx, Collection, "delete", id)

	s.logger.Info("accountant deleted", "accountant_id", id)
	return nil
}

// ResendCredentials issues a fresh one-time credential, appends it to the
// password history and queues the credentials email. There is no WhatsApp
// resend.
func (s *Service) ResendCredentials(ctx context.Context, id string) error {
	acc, err := s.repo.GetByID(id)
	if err != nil {
		return ErrAccountantNotFound
	}

	credential := datamodel.NewTemporaryCredential()
	hash, err := datamodel.HashCredential(credential)
	if err != nil {
		s.logger.Error("failed to hash credential", "error", err, "accountant_id", id)
		return errors.NewInternalError("failed to resend credentials", err)
	}

	entry := datamodel.PasswordEntry{CredentialHash: hash, IssuedAt: time.Now()}
	if err := s.repo.AppendPasswordEntry(id, entry); err != nil {
		s.logger.Error("failed to append password entry", "error", err, "accountant_id", id)
		return errors.NewInternalError("failed to resend credentials", err)
	}

	if err := s.notifier.EnqueueCredentialsEmail(ctx, notification.Welcome{
		Name:       acc.Name,
		Email:      acc.Email,
		Phone:      acc.Phone,
		Company:    acc.Company,
		Role:       notification.RoleAccountant,
		Credential: credential,
	}); err != nil {
		s.logger.Error("failed to queue credentials email", "error", err, "accountant_id", id)
		return errors.NewInternalError("failed to resend credentials", err)
	}

	s.publisher.PublishChange(ctx, Collection, "update", id)

	s.logger.Info("credentials resent", "accountant_id", id)
	return nil
}
