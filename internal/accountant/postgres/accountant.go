package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/pontocerto/timeclock/internal/accountant"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
)

// Repository implements accountant.Repository backed by gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(a *accountant.Accountant) error {
	return r.db.Create(a).Error
}

func (r *Repository) GetByID(id string) (*accountant.Accountant, error) {
	var acc accountant.Accountant
	if err := r.db.First(&acc, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, accountant.ErrAccountantNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *Repository) GetAll() ([]*accountant.Accountant, error) {
	var accountants []*accountant.Accountant
	if err := r.db.Order("created_at DESC").Find(&accountants).Error; err != nil {
		return nil, err
	}
	return accountants, nil
}

func (r *Repository) UpdateFields(id string, fields map[string]interface{}) error {
	result := r.db.Model(&accountant.Accountant{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return accountant.ErrAccountantNotFound
	}
	return nil
}

func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&accountant.Accountant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return accountant.ErrAccountantNotFound
	}
	return nil
}

// AppendPasswordEntry reloads the history inside a transaction so concurrent
// resends never drop entries.
func (r *Repository) AppendPasswordEntry(id string, entry datamodel.PasswordEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var acc accountant.Accountant
		if err := tx.First(&acc, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return accountant.ErrAccountantNotFound
			}
			return err
		}

		acc.PasswordHistory = append(acc.PasswordHistory, entry)
		acc.UpdatedAt = time.Now()
		return tx.Model(&acc).Select("password_history", "updated_at").Updates(&acc).Error
	})
}
