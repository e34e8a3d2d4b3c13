package notification

import (
	"errors"
	"fmt"
	"strings"
)

// Role labels used in outbound messages.
const (
	RoleAccountant = "accountant"
	RoleClient     = "client"
	RoleEmployee   = "employee"
)

// Welcome carries everything the senders need for one recipient. Credential
// is the plaintext one-time password; it is never persisted in this form.
type Welcome struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	Role       string `json:"role"`
	Credential string `json:"credential"`
}

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone strips non-digits and prefixes the country code when absent.
// The result must be the country code followed by 10 or 11 digits, otherwise
// the number is rejected before any network call.
func NormalizePhone(phone, countryCode string) (string, error) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	normalized := digits.String()
	if !strings.HasPrefix(normalized, countryCode) {
		normalized = countryCode + normalized
	}

	min := len(countryCode) + 10
	max := len(countryCode) + 11
	if len(normalized) < min || len(normalized) > max {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}

	return normalized, nil
}

// roleLabel maps the role to the Portuguese label used in WhatsApp messages.
func roleLabel(role string) string {
	switch role {
	case RoleAccountant:
		return "contador"
	case RoleClient:
		return "cliente"
	case RoleEmployee:
		return "funcionário"
	}
	return role
}
