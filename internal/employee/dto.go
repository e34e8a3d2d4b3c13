package employee

import (
	"time"

	errors "github.com/pontocerto/timeclock/internal"
	"github.com/pontocerto/timeclock/internal/core/common/validation"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
)

// CreateEmployeeDTO is the request payload for registering an employee.
type CreateEmployeeDTO struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (dto CreateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("client_id", dto.ClientID).Required()
	v.Field("name", dto.Name).Required().MaxLength(120)
	v.Field("email", dto.Email).Required().Email()
	v.Field("phone", dto.Phone).Required().MinLength(10).MaxLength(20)
	return v.Validate()
}

// UpdateEmployeeDTO carries a partial field set; nil fields are untouched.
type UpdateEmployeeDTO struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (dto UpdateEmployeeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(120)
	}
	if dto.Email != nil {
		v.Field("email", *dto.Email).Required().Email()
	}
	if dto.Phone != nil {
		v.Field("phone", *dto.Phone).Required().MinLength(10).MaxLength(20)
	}
	return v.Validate()
}

func (dto UpdateEmployeeDTO) Fields() map[string]interface{} {
	fields := map[string]interface{}{"updated_at": time.Now()}
	if dto.Name != nil {
		fields["name"] = *dto.Name
	}
	if dto.Email != nil {
		fields["email"] = *dto.Email
	}
	if dto.Phone != nil {
		fields["phone"] = *dto.Phone
	}
	return fields
}

// UpdateStatusDTO switches the employee between active/inactive/suspended.
type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(datamodel.StatusActive, datamodel.StatusInactive, datamodel.StatusSuspended)
	return v.Validate()
}
