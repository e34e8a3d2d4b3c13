package timerecord

import (
	"time"

	errors "github.com/pontocerto/timeclock/internal"
	"github.com/pontocerto/timeclock/internal/core/common/validation"
)

// CreateTimeRecordDTO is the request payload for registering a clock event.
// Timestamp is optional; when zero the server clock is used.
type CreateTimeRecordDTO struct {
	EmployeeID string    `json:"employee_id"`
	Type       string    `json:"type"`
	Overtime   *float64  `json:"overtime,omitempty"`
	Deduction  *float64  `json:"deduction,omitempty"`
	Absence    bool      `json:"absence"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

func (dto CreateTimeRecordDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", dto.EmployeeID).Required()
	v.Field("type", dto.Type).Required().OneOf(TypeEntry, TypeExit)
	if dto.Overtime != nil {
		v.Field("overtime", *dto.Overtime).Custom(nonNegative("overtime"))
	}
	if dto.Deduction != nil {
		v.Field("deduction", *dto.Deduction).Custom(nonNegative("deduction"))
	}
	return v.Validate()
}

func nonNegative(field string) func(interface{}) *errors.AppError {
	return func(value interface{}) *errors.AppError {
		if v, ok := value.(float64); ok && v < 0 {
			return errors.NewValidationFieldError(field, field+" must not be negative", errors.ErrCodeValidationFailed)
		}
		return nil
	}
}
