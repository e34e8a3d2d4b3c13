package employee

import (
	"errors"
	"time"

	"github.com/pontocerto/timeclock/internal/core/datamodel"
)

// Collection is the live-query collection name for employees.
const Collection = "employees"

// Employee clocks in and out for a client company. ClientID is a plain
// reference; deleting the client leaves the employee in place.
type Employee struct {
	ID              string                    `json:"id" gorm:"primaryKey"`
	ClientID        string                    `json:"client_id" gorm:"column:client_id;index"`
	Name            string                    `json:"name" gorm:"not null"`
	Email           string                    `json:"email" gorm:"not null"`
	Phone           string                    `json:"phone"`
	Status          string                    `json:"status" gorm:"default:active"`
	PasswordHistory datamodel.PasswordHistory `json:"-" gorm:"column:password_history;serializer:json"`
	CreatedAt       time.Time                 `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time                 `json:"updated_at" gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) IsActive() bool {
	return e.Status == datamodel.StatusActive
}

// Domain errors
var (
	ErrEmployeeNotFound = errors.New("employee not found")
)
