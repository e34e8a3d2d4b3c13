package dashboard

import (
	"sort"
	"time"

	"github.com/pontocerto/timeclock/internal/accountant"
	"github.com/pontocerto/timeclock/internal/client"
	"github.com/pontocerto/timeclock/internal/employee"
	"github.com/pontocerto/timeclock/internal/timerecord"
)

// AccountantStats is the per-accountant rollup on the provider overview.
type AccountantStats struct {
	AccountantID  string `json:"accountant_id"`
	Name          string `json:"name"`
	Company       string `json:"company"`
	Status        string `json:"status"`
	Plan          string `json:"plan"`
	ClientCount   int    `json:"client_count"`
	EmployeeCount int    `json:"employee_count"`
}

// ProviderOverview is the top-level dashboard for the platform provider.
type ProviderOverview struct {
	TotalAccountants  int                      `json:"total_accountants"`
	TotalClients      int                      `json:"total_clients"`
	TotalEmployees    int                      `json:"total_employees"`
	ActiveAccountants int                      `json:"active_accountants"`
	RecentAccountants []*accountant.Accountant `json:"recent_accountants"`
	Accountants       []AccountantStats        `json:"accountants"`
}

// ClientPayroll groups overtime and deduction totals per client company.
type ClientPayroll struct {
	ClientID       string  `json:"client_id"`
	Company        string  `json:"company"`
	EmployeeCount  int     `json:"employee_count"`
	TotalOvertime  float64 `json:"total_overtime"`
	TotalDeduction float64 `json:"total_deduction"`
}

// RecentRecord decorates a time record with display names for the feed.
type RecentRecord struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	ClientName   string    `json:"client_name"`
	Type         string    `json:"type"`
	Absence      bool      `json:"absence"`
	Timestamp    time.Time `json:"timestamp"`
}

// AccountantMetrics is the dashboard scoped to a single accountant.
type AccountantMetrics struct {
	AccountantID   string          `json:"accountant_id"`
	TotalClients   int             `json:"total_clients"`
	TotalEmployees int             `json:"total_employees"`
	TotalOvertime  float64         `json:"total_overtime"`
	TotalAbsences  int             `json:"total_absences"`
	Payroll        []ClientPayroll `json:"payroll"`
	RecentRecords  []RecentRecord  `json:"recent_records"`
}

func sortAccountantsByCreated(accountants []*accountant.Accountant) []*accountant.Accountant {
	sorted := make([]*accountant.Accountant, len(accountants))
	copy(sorted, accountants)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

func sortRecordsByTimestamp(records []*timerecord.TimeRecord) []*timerecord.TimeRecord {
	sorted := make([]*timerecord.TimeRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

func clientsOf(clients []*client.Client, accountantID string) []*client.Client {
	var owned []*client.Client
	for _, c := range clients {
		if c.AccountantID == accountantID {
			owned = append(owned, c)
		}
	}
	return owned
}

func employeesOf(employees []*employee.Employee, clientID string) []*employee.Employee {
	var staff []*employee.Employee
	for _, e := range employees {
		if e.ClientID == clientID {
			staff = append(staff, e)
		}
	}
	return staff
}
