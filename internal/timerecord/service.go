package timerecord

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	errors "github.com/pontocerto/timeclock/internal"
)

// Repository defines the data access methods for time records.
type Repository interface {
	Create(rec *TimeRecord) error
	GetByID(id string) (*TimeRecord, error)
	GetAll() ([]*TimeRecord, error)
	GetByEmployee(employeeID string) ([]*TimeRecord, error)
	Delete(id string) error
}

// ChangePublisher broadcasts collection change events to live subscribers.
type ChangePublisher interface {
	PublishChange(ctx context.Context, collection, op, id string)
}

// Service handles time record business logic. Clock events send no
// notifications; they only feed the dashboards and live streams.
type Service struct {
	repo      Repository
	publisher ChangePublisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher ChangePublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) CreateTimeRecord(ctx context.Context, dto CreateTimeRecordDTO) (*TimeRecord, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("time record validation failed", "error", err)
		return nil, err
	}

	ts := dto.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	rec := &TimeRecord{
		ID:         uuid.New().String(),
		EmployeeID: dto.EmployeeID,
		Type:       dto.Type,
		Overtime:   dto.Overtime,
		Deduction:  dto.Deduction,
		Absence:    dto.Absence,
		Timestamp:  ts,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(rec); err != nil {
		s.logger.Error("failed to create time record", "error", err)
		return nil, errors.NewInternalError("failed to create time record", err)
	}

	s.publisher.PublishChange(ctx, Collection, "create", rec.ID)

	s.logger.Info("time record created",
		"record_id", rec.ID,
		"employee_id", rec.EmployeeID,
		"type", rec.Type)

	return rec, nil
}

func (s *Service) GetTimeRecord(id string) (*TimeRecord, error) {
	rec, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get time record", "error", err, "record_id", id)
		return nil, ErrTimeRecordNotFound
	}
	return rec, nil
}

// ListTimeRecords returns all records, optionally scoped to one employee.
func (s *Service) ListTimeRecords(employeeID string) ([]*TimeRecord, error) {
	var (
		records []*TimeRecord
		err     error
	)
	if employeeID != "" {
		records, err = s.repo.GetByEmployee(employeeID)
	} else {
		records, err = s.repo.GetAll()
	}
	if err != nil {
		s.logger.Error("failed to list time records", "error", err)
		return nil, errors.NewInternalError("failed to list time records", err)
	}
	return records, nil
}

func (s *Service) DeleteTimeRecord(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return ErrTimeRecordNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete time record", "error", err, "record_id", id)
		return errors.NewInternalError("failed to delete time record", err)
	}

	s.publisher.PublishChange(ctx, Collection, "delete", id)

	s.logger.Info("time record deleted", "record_id", id)
	return nil
}
