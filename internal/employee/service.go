package employee

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	errors "github.com/pontocerto/timeclock/internal"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
	"github.com/pontocerto/timeclock/internal/notification"
)

// Repository defines the data access methods for employees.
type Repository interface {
	Create(e *Employee) error
	GetByID(id string) (*Employee, error)
	GetAll() ([]*Employee, error)
	GetByClient(clientID string) ([]*Employee, error)
	UpdateFields(id string, fields map[string]interface{}) error
	Delete(id string) error
	AppendPasswordEntry(id string, entry datamodel.PasswordEntry) error
}

// ClientDirectory resolves client display data for welcome messages.
type ClientDirectory interface {
	CompanyName(clientID string) (string, error)
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

// Service handles employee business logic
type Service struct {
	repo      Repository
	clients   ClientDirectory
	notifier  Notifier
	publisher ChangePublisher
	logger    *slog.Logger
}

func NewService(repo Repository, clients ClientDirectory, notifier Notifier, publisher ChangePublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		clients:   clients,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateEmployee registers a new employee with a generated one-time
// credential and queues the welcome notifications. The welcome carries the
// client's company name; if the client cannot be resolved the company is
// left blank. Notification failures are logged and never roll back the write.
func (s *Service) CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee validation failed", "error", err)
		return nil, err
	}

	credential := datamodel.NewTemporaryCredential()
	hash, err := datamodel.HashCredential(credential)
	if err != nil {
		s.logger.Error("failed to hash credential", "error", err)
		return nil, errors.NewInternalError("failed to create employee", err)
	}

	now := time.Now()
	e := &Employee{
		ID:       uuid.New().String(),
		ClientID: dto.ClientID,
		Name:     dto.Name,
		Email:    dto.Email,
		Phone:    dto.Phone,
		Status:   datamodel.StatusActive,
		PasswordHistory: datamodel.PasswordHistory{
			{CredentialHash: hash, IssuedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create employee", "error", err)
		return nil, errors.NewInternalError("failed to create employee", err)
	}

	if err := s.notifier.EnqueueWelcome(ctx, notification.Welcome{
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		Company:    s.companyName(e.ClientID),
		Role:       notification.RoleEmployee,
		Credential: credential,
	}); err != nil {
		s.logger.Warn("welcome notifications not queued", "error", err, "employee_id", e.ID)
	}

	s.publisher.PublishChange(ctx, Collection, "create", e.ID)

	s.logger.Info("employee created",
		"employee_id", e.ID,
		"client_id", e.ClientID)

	return e, nil
}

func (s *Service) companyName(clientID string) string {
	company, err := s.clients.CompanyName(clientID)
	if err != nil {
		s.logger.Warn("client lookup failed for welcome", "error", err, "client_id", clientID)
		return ""
	}
	return company
}

func (s *Service) GetEmployee(id string) (*Employee, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

// ListEmployees returns all employees, optionally scoped to one client.
func (s *Service) ListEmployees(clientID string) ([]*Employee, error) {
	var (
		employees []*Employee
		err       error
	)
	if clientID != "" {
		employees, err = s.repo.GetByClient(clientID)
	} else {
		employees, err = s.repo.GetAll()
	}
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, errors.NewInternalError("failed to list employees", err)
	}
	return employees, nil
}

// UpdateEmployee merges the provided fields and refreshes updated_at.
func (s *Service) UpdateEmployee(ctx context.Context, id string, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee update validation failed", "error", err, "employee_id", id)
		return nil, err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return nil, ErrEmployeeNotFound
	}

	if err := s.repo.UpdateFields(id, dto.Fields()); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, errors.NewInternalError("failed to update employee", err)
	}

	s.publisher.PublishChange(ctx, Collection, "update", id)

	return s.repo.GetByID(id)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) error {
	if err := dto.Validate(); err != nil {
		s.logger.Error("status validation failed", "error", err, "employee_id", id)
		return err
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return ErrEmployeeNotFound
	}

	fields := map[string]interface{}{
		"status":     dto.Status,
		"updated_at": time.Now(),
	}
	if err := s.repo.UpdateFields(id, fields); err != nil {
		s.logger.Error("failed to update employee status", "error", err, "employee_id", id)
		return errors.NewInternalError("failed to update status", err)
	}

	s.publisher.PublishChange(ctx, Collection, "update", id)

	s.logger.Info("employee status updated", "employee_id", id, "status", dto.Status)
	return nil
}

// DeleteEmployee removes the record. Time records of the employee are left
// in place; there is no cascade.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return ErrEmployeeNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return errors.NewInternalError("failed to delete employee", err)
	}

	s.publisher.PublishChange(ctx, Collection, "delete", id)

	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

// ResendCredentials issues a fresh one-time credential, appends it to the
// password history and queues the credentials email. There is no WhatsApp
// resend.
func (s *Service) ResendCredentials(ctx context.Context, id string) error {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return ErrEmployeeNotFound
	}

	credential := datamodel.NewTemporaryCredential()
	hash, err := datamodel.HashCredential(credential)
	if err != nil {
		s.logger.Error("failed to hash credential", "error", err, "employee_id", id)
		return errors.NewInternalError("failed to resend credentials", err)
	}

	entry := datamodel.PasswordEntry{CredentialHash: hash, IssuedAt: time.Now()}
	if err := s.repo.AppendPasswordEntry(id, entry); err != nil {
		s.logger.Error("failed to append password entry", "error", err, "employee_id", id)
		return errors.NewInternalError("failed to resend credentials", err)
	}

	if err := s.notifier.EnqueueCredentialsEmail(ctx, notification.Welcome{
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		Company:    s.companyName(e.ClientID),
		Role:       notification.RoleEmployee,
		Credential: credential,
	}); err != nil {
		s.logger.Error("failed to queue credentials email", "error", err, "employee_id", id)
		return errors.NewInternalError("failed to resend credentials", err)
	}

	s.publisher.PublishChange(ctx, Collection, "update", id)

	s.logger.Info("credentials resent", "employee_id", id)
	return nil
}
