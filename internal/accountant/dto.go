package accountant

import (
	"time"

	errors "github.com/pontocerto/timeclock/internal"
	"github.com/pontocerto/timeclock/internal/core/common/validation"
	"github.com/pontocerto/timeclock/internal/core/datamodel"
)

// CreateAccountantDTO is the request payload for registering an accountant.
type CreateAccountantDTO struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Plan    string `json:"plan"`
}

func (dto CreateAccountantDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(120)
	v.Field("company", dto.Company).Required().MaxLength(120)
	v.Field("email", dto.Email).Required().Email()
	v.Field("phone", dto.Phone).Required().MinLength(10).MaxLength(20)
	v.Field("plan", dto.Plan).OneOf(PlanBasic, PlanProfessional, PlanEnterprise)
	return v.Validate()
}

// UpdateAccountantDTO carries a partial field set; nil fields are untouched.
type UpdateAccountantDTO struct {
	Name    *string `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Plan    *string `json:"plan,omitempty"`
}

func (dto UpdateAccountantDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(120)
	}
	if dto.Company != nil {
		v.Field("company", *dto.Company).Required().MaxLength(120)
	}
	if dto.Email != nil {
		v.Field("email", *dto.Email).Required().Email()
	}
	if dto.Phone != nil {
		v.Field("phone", *dto.Phone).Required().MinLength(10).MaxLength(20)
	}
	if dto.Plan != nil {
		v.Field("plan", *dto.Plan).OneOf(PlanBasic, PlanProfessional, PlanEnterprise)
	}
	return v.Validate()
}

// Fields maps non-nil values onto column updates plus a fresh updated_at.
func (dto UpdateAccountantDTO) Fields() map[string]interface{} {
	fields := map[string]interface{}{"updated_at": time.Now()}
	if dto.Name != nil {
		fields["name"] = *dto.Name
	}
	if dto.Company != nil {
		fields["company"] = *dto.Company
	}
	if dto.Email != nil {
		fields["email"] = *dto.Email
	}
	if dto.Phone != nil {
		fields["phone"] = *dto.Phone
	}
	if dto.Plan != nil {
		fields["plan"] = *dto.Plan
	}
	return fields
}

// UpdateStatusDTO switches the accountant between active/inactive/suspended.
type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(datamodel.StatusActive, datamodel.StatusInactive, datamodel.StatusSuspended)
	return v.Validate()
}
