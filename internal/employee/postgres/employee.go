package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/pontocerto/timeclock/internal/client"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
	"github.com/pontocerto/timeclock/internal/employee"
)

// Repository implements employee.Repository backed by gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(e *employee.Employee) error {
	return r.db.Create(e).Error
}

func (r *Repository) GetByID(id string) (*employee.Employee, error) {
	var e employee.Employee
	if err := r.db.First(&e, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repository) GetAll() ([]*employee.Employee, error) {
	var employees []*employee.Employee
	if err := r.db.Order("created_at DESC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *Repository) GetByClient(clientID string) ([]*employee.Employee, error) {
	var employees []*employee.Employee
	if err := r.db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *Repository) UpdateFields(id string, fields map[string]interface{}) error {
	result := r.db.Model(&employee.Employee{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&employee.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// AppendPasswordEntry reloads the history inside a transaction so concurrent
// resends never drop entries.
func (r *Repository) AppendPasswordEntry(id string, entry datamodel.PasswordEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var e employee.Employee
		if err := tx.First(&e, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return employee.ErrEmployeeNotFound
			}
			return err
		}

		e.PasswordHistory = append(e.PasswordHistory, entry)
		e.UpdatedAt = time.Now()
		return tx.Model(&e).Select("password_history", "updated_at").Updates(&e).Error
	})
}

// Directory implements employee.ClientDirectory over the clients table.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) CompanyName(clientID string) (string, error) {
	var c client.Client
	if err := d.db.Select("company").First(&c, "id = ?", clientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", client.ErrClientNotFound
		}
		return "", err
	}
	return c.Company, nil
}
