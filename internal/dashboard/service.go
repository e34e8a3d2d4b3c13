package dashboard

import (
	"log/slog"

	errors "github.com/pontocerto/timeclock/internal"
	"github.com/pontocerto/timeclock/internal/accountant"
	"github.com/pontocerto/timeclock/internal/client"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
	"github.com/pontocerto/timeclock/internal/employee"
	"github.com/pontocerto/timeclock/internal/timerecord"
)

const (
	recentAccountantLimit = 5
	recentRecordLimit     = 10
)

// AccountantSource supplies accountant snapshots for aggregation.
type AccountantSource interface {
	GetAll() ([]*accountant.Accountant, error)
}

// ClientSource supplies client snapshots for aggregation.
type ClientSource interface {
	GetAll() ([]*client.Client, error)
}

// EmployeeSource supplies employee snapshots for aggregation.
type EmployeeSource interface {
	GetAll() ([]*employee.Employee, error)
}

// TimeRecordSource supplies time record snapshots for aggregation.
type TimeRecordSource interface {
	GetAll() ([]*timerecord.TimeRecord, error)
}

// Service computes dashboard aggregates on demand by in-memory traversal of
// full snapshots. Nothing is persisted or memoized.
type Service struct {
	accountants AccountantSource
	clients     ClientSource
	employees   EmployeeSource
	records     TimeRecordSource
	logger      *slog.Logger
}

func NewService(accountants AccountantSource, clients ClientSource, employees EmployeeSource, records TimeRecordSource, logger *slog.Logger) *Service {
	return &Service{
		accountants: accountants,
		clients:     clients,
		employees:   employees,
		records:     records,
		logger:      logger,
	}
}

// ProviderOverview aggregates platform-wide totals and per-accountant rollups.
func (s *Service) ProviderOverview() (*ProviderOverview, error) {
	accountants, err := s.accountants.GetAll()
	if err != nil {
		s.logger.Error("failed to load accountants for overview", "error", err)
		return nil, errors.NewInternalError("failed to build overview", err)
	}
	clients, err := s.clients.GetAll()
	if err != nil {
		s.logger.Error("failed to load clients for overview", "error", err)
		return nil, errors.NewInternalError("failed to build overview", err)
	}
	employees, err := s.employees.GetAll()
	if err != nil {
		s.logger.Error("failed to load employees for overview", "error", err)
		return nil, errors.NewInternalError("failed to build overview", err)
	}

	overview := &ProviderOverview{
		TotalAccountants: len(accountants),
		TotalClients:     len(clients),
		TotalEmployees:   len(employees),
	}

	for _, acc := range accountants {
		if acc.Status == datamodel.StatusActive {
			overview.ActiveAccountants++
		}

		stats := AccountantStats{
			AccountantID: acc.ID,
			Name:         acc.Name,
			Company:      acc.Company,
			Status:       acc.Status,
			Plan:         acc.Plan,
		}
		for _, c := range clientsOf(clients, acc.ID) {
			stats.ClientCount++
			stats.EmployeeCount += len(employeesOf(employees, c.ID))
		}
		overview.Accountants = append(overview.Accountants, stats)
	}

	recent := sortAccountantsByCreated(accountants)
	if len(recent) > recentAccountantLimit {
		recent = recent[:recentAccountantLimit]
	}
	overview.RecentAccountants = recent

	return overview, nil
}

// AccountantMetrics aggregates totals, payroll and the recent record feed for
// one accountant's portfolio. Missing overtime values count as zero.
func (s *Service) AccountantMetrics(accountantID string) (*AccountantMetrics, error) {
	clients, err := s.clients.GetAll()
	if err != nil {
		s.logger.Error("failed to load clients for metrics", "error", err)
		return nil, errors.NewInternalError("failed to build metrics", err)
	}
	employees, err := s.employees.GetAll()
	if err != nil {
		s.logger.Error("failed to load employees for metrics", "error", err)
		return nil, errors.NewInternalError("failed to build metrics", err)
	}
	records, err := s.records.GetAll()
	if err != nil {
		s.logger.Error("failed to load time records for metrics", "error", err)
		return nil, errors.NewInternalError("failed to build metrics", err)
	}

	metrics := &AccountantMetrics{AccountantID: accountantID}

	owned := clientsOf(clients, accountantID)
	metrics.TotalClients = len(owned)

	employeeName := make(map[string]string)
	employeeClient := make(map[string]string)
	clientName := make(map[string]string)

	for _, c := range owned {
		clientName[c.ID] = c.Company

		payroll := ClientPayroll{ClientID: c.ID, Company: c.Company}
		for _, e := range employeesOf(employees, c.ID) {
			metrics.TotalEmployees++
			payroll.EmployeeCount++
			employeeName[e.ID] = e.Name
			employeeClient[e.ID] = c.ID

			for _, rec := range records {
				if rec.EmployeeID != e.ID {
					continue
				}
				if rec.Overtime != nil {
					payroll.TotalOvertime += *rec.Overtime
				}
				if rec.Deduction != nil {
					payroll.TotalDeduction += *rec.Deduction
				}
			}
		}
		metrics.Payroll = append(metrics.Payroll, payroll)
		metrics.TotalOvertime += payroll.TotalOvertime
	}

	var scoped []*timerecord.TimeRecord
	for _, rec := range records {
		if _, ok := employeeName[rec.EmployeeID]; !ok {
			continue
		}
		scoped = append(scoped, rec)
		if rec.Absence {
			metrics.TotalAbsences++
		}
	}

	recent := sortRecordsByTimestamp(scoped)
	if len(recent) > recentRecordLimit {
		recent = recent[:recentRecordLimit]
	}
	for _, rec := range recent {
		metrics.RecentRecords = append(metrics.RecentRecords, RecentRecord{
			ID:           rec.ID,
			EmployeeID:   rec.EmployeeID,
			EmployeeName: employeeName[rec.EmployeeID],
			ClientName:   clientName[employeeClient[rec.EmployeeID]],
			Type:         rec.Type,
			Absence:      rec.Absence,
			Timestamp:    rec.Timestamp,
		})
	}

	return metrics, nil
}
