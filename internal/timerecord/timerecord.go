package timerecord

import (
	"errors"
	"time"
)

// Collection is the live-query collection name for time records.
const Collection = "timeRecords"

// Record types.
const (
	TypeEntry = "entry"
	TypeExit  = "exit"
)

// TimeRecord is a single clock event for an employee. Overtime and Deduction
// are optional hour/amount values; Absence marks a missed day.
type TimeRecord struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	EmployeeID string    `json:"employee_id" gorm:"column:employee_id;index"`
	Type       string    `json:"type" gorm:"not null"`
	Overtime   *float64  `json:"overtime,omitempty" gorm:"column:overtime"`
	Deduction  *float64  `json:"deduction,omitempty" gorm:"column:deduction"`
	Absence    bool      `json:"absence" gorm:"column:absence;default:false"`
	Timestamp  time.Time `json:"timestamp" gorm:"column:timestamp;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (TimeRecord) TableName() string {
	return "time_records"
}

// Domain errors
var (
	ErrTimeRecordNotFound = errors.New("time record not found")
)
