package realtime

import (
	"github.com/pontocerto/timeclock/internal/accountant"
	"github.com/pontocerto/timeclock/internal/client"
	"github.com/pontocerto/timeclock/internal/employee"
	"github.com/pontocerto/timeclock/internal/timerecord"
)

// Snapshot constructors binding each collection to its repository. The
// filter re-runs against the full snapshot on every refresh.

type accountantSource interface {
	GetAll() ([]*accountant.Accountant, error)
}

func AccountantSnapshot(repo accountantSource) Snapshot {
	return func(f Filter) (interface{}, error) {
		all, err := repo.GetAll()
		if err != nil {
			return nil, err
		}
		result := make([]*accountant.Accountant, 0, len(all))
		for _, a := range all {
			if f.Status != "" && a.Status != f.Status {
				continue
			}
			result = append(result, a)
		}
		return result, nil
	}
}

type clientSource interface {
	GetAll() ([]*client.Client, error)
}

func ClientSnapshot(repo clientSource) Snapshot {
	return func(f Filter) (interface{}, error) {
		all, err := repo.GetAll()
		if err != nil {
			return nil, err
		}
		result := make([]*client.Client, 0, len(all))
		for _, c := range all {
			if f.AccountantID != "" && c.AccountantID != f.AccountantID {
				continue
			}
			if f.Status != "" && c.Status != f.Status {
				continue
			}
			result = append(result, c)
		}
		return result, nil
	}
}

type employeeSource interface {
	GetAll() ([]*employee.Employee, error)
}

func EmployeeSnapshot(repo employeeSource) Snapshot {
	return func(f Filter) (interface{}, error) {
		all, err := repo.GetAll()
		if err != nil {
			return nil, err
		}
		result := make([]*employee.Employee, 0, len(all))
		for _, e := range all {
			if f.ClientID != "" && e.ClientID != f.ClientID {
				continue
			}
			if f.Status != "" && e.Status != f.Status {
				continue
			}
			result = append(result, e)
		}
		return result, nil
	}
}

type timeRecordSource interface {
	GetAll() ([]*timerecord.TimeRecord, error)
}

func TimeRecordSnapshot(repo timeRecordSource) Snapshot {
	return func(f Filter) (interface{}, error) {
		all, err := repo.GetAll()
		if err != nil {
			return nil, err
		}
		result := make([]*timerecord.TimeRecord, 0, len(all))
		for _, rec := range all {
			if f.EmployeeID != "" && rec.EmployeeID != f.EmployeeID {
				continue
			}
			result = append(result, rec)
		}
		return result, nil
	}
}
