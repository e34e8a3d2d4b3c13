package datamodel

import (
	"crypto/rand"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Entity status values shared by accountants, clients and employees.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// PasswordEntry records one issued temporary credential. Only the bcrypt
// hash is stored; the plaintext exists solely in the notification payload.
type PasswordEntry struct {
	CredentialHash string    `json:"credential_hash"`
	IssuedAt       time.Time `json:"issued_at"`
}

// PasswordHistory is persisted as a JSON column.
type PasswordHistory []PasswordEntry

const credentialAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewTemporaryCredential returns an 8 character one-time credential.
func NewTemporaryCredential() string {
	b := make([]byte, 8)
	max := big.NewInt(int64(len(credentialAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		b[i] = credentialAlphabet[n.Int64()]
	}
	return string(b)
}

// HashCredential hashes a temporary credential for storage in history.
func HashCredential(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
