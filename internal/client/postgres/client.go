package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/pontocerto/timeclock/internal/accountant"
	"github.com/pontocerto/timeclock/internal/client"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
)

// Repository implements client.Repository backed by gorm. Create and Delete
// keep the owning accountant's client_count in step inside one transaction.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the client and increments the owning accountant's
// client_count. A missing accountant does not fail the insert; the counter
// update is simply skipped.
func (r *Repository) Create(c *client.Client) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}

		var owner accountant.Accountant
		err := tx.First(&owner, "id = ?", c.AccountantID).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return tx.Model(&accountant.Accountant{}).Where("id = ?", owner.ID).Updates(map[string]interface{}{
			"client_count": owner.ClientCount + 1,
			"updated_at":   time.Now(),
		}).Error
	})
}

func (r *Repository) GetByID(id string) (*client.Client, error) {
	var c client.Client
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, client.ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetAll() ([]*client.Client, error) {
	var clients []*client.Client
	if err := r.db.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *Repository) GetByAccountant(accountantID string) ([]*client.Client, error) {
	var clients []*client.Client
	if err := r.db.Where("accountant_id = ?", accountantID).Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *Repository) UpdateFields(id string, fields map[string]interface{}) error {
	result := r.db.Model(&client.Client{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return client.ErrClientNotFound
	}
	return nil
}

// Delete removes the client and decrements the owning accountant's
// client_count, floored at zero.
func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var c client.Client
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return client.ErrClientNotFound
			}
			return err
		}

		if err := tx.Delete(&client.Client{}, "id = ?", id).Error; err != nil {
			return err
		}

		var owner accountant.Accountant
		err := tx.First(&owner, "id = ?", c.AccountantID).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		count := owner.ClientCount - 1
		if count < 0 {
			count = 0
		}
		return tx.Model(&accountant.Accountant{}).Where("id = ?", owner.ID).Updates(map[string]interface{}{
			"client_count": count,
			"updated_at":   time.Now(),
		}).Error
	})
}

// AppendPasswordEntry reloads the history inside a transaction so concurrent
// resends never drop entries.
func (r *Repository) AppendPasswordEntry(id string, entry datamodel.PasswordEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var c client.Client
		if err := tx.First(&c, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return client.ErrClientNotFound
			}
			return err
		}

		c.PasswordHistory = append(c.PasswordHistory, entry)
		c.UpdatedAt = time.Now()
		return tx.Model(&c).Select("password_history", "updated_at").Updates(&c).Error
	})
}
