package accountant

import (
	"errors"
	"time"

	"github.com/pontocerto/timeclock/internal/core/datamodel"
)

// Collection is the live-query collection name for accountants.
const Collection = "accountants"

// Plan tiers offered to accountants.
const (
	PlanBasic        = "basic"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

// Accountant manages a portfolio of client companies. ClientCount is a
// denormalized counter maintained transactionally on client create/delete.
type Accountant struct {
	ID              string                    `json:"id" gorm:"primaryKey"`
	Name            string                    `json:"name" gorm:"not null"`
	Company         string                    `json:"company" gorm:"not null"`
	Email           string                    `json:"email" gorm:"not null"`
	Phone           string                    `json:"phone"`
	Status          string                    `json:"status" gorm:"default:active"`
	Plan            string                    `json:"plan" gorm:"default:basic"`
	ClientCount     int                       `json:"client_count" gorm:"column:client_count;default:0"`
	PasswordHistory datamodel.PasswordHistory `json:"-" gorm:"column:password_history;serializer:json"`
	CreatedAt       time.Time                 `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time                 `json:"updated_at" gorm:"column:updated_at"`
}

func (Accountant) TableName() string {
	return "accountants"
}

func (a *Accountant) IsActive() bool {
	return a.Status == datamodel.StatusActive
}

// Domain errors
var (
	ErrAccountantNotFound = errors.New("accountant not found")
	ErrInvalidStatus      = errors.New("invalid accountant status")
)
