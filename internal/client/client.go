package client

import (
	"errors"
	"time"

	"github.com/pontocerto/timeclock/internal/core/datamodel"
)

// Collection is the live-query collection name for clients.
const Collection = "clients"

// Client is a company managed by an accountant. AccountantID is a plain
// reference; deleting the accountant leaves the client in place.
type Client struct {
	ID              string                    `json:"id" gorm:"primaryKey"`
	AccountantID    string                    `json:"accountant_id" gorm:"column:accountant_id;index"`
	Name            string                    `json:"name" gorm:"not null"`
	Company         string                    `json:"company" gorm:"not null"`
	Email           string                    `json:"email" gorm:"not null"`
	Phone           string                    `json:"phone"`
	Status          string                    `json:"status" gorm:"default:active"`
	PasswordHistory datamodel.PasswordHistory `json:"-" gorm:"column:password_history;serializer:json"`
	CreatedAt       time.Time                 `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time                 `json:"updated_at" gorm:"column:updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) IsActive() bool {
	return c.Status == datamodel.StatusActive
}

// Domain errors
var (
	ErrClientNotFound = errors.New("client not found")
)
