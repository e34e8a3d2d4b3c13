package postgres

import (
	"gorm.io/gorm"

	"github.com/pontocerto/timeclock/internal/timerecord"
)

// Repository implements timerecord.Repository backed by gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(rec *timerecord.TimeRecord) error {
	return r.db.Create(rec).Error
}

func (r *Repository) GetByID(id string) (*timerecord.TimeRecord, error) {
	var rec timerecord.TimeRecord
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, timerecord.ErrTimeRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) GetAll() ([]*timerecord.TimeRecord, error) {
	var records []*timerecord.TimeRecord
	if err := r.db.Order("timestamp DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) GetByEmployee(employeeID string) ([]*timerecord.TimeRecord, error) {
	var records []*timerecord.TimeRecord
	if err := r.db.Where("employee_id = ?", employeeID).Order("timestamp DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&timerecord.TimeRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return timerecord.ErrTimeRecordNotFound
	}
	return nil
}
