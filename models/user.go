package models

import (
	"time"
)

// UserRole defines the staff roles known to the POS
type UserRole string

const (
	RoleWaiter  UserRole = "pelayan"
	RoleCashier UserRole = "kasir"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	return r == RoleWaiter || r == RoleCashier
}

// Label is the human-facing name of the role
func (r UserRole) Label() string {
	switch r {
	case RoleWaiter:
		return "Server"
	case RoleCashier:
		return "Cashier"
	}
	return string(r)
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'pelayan'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RevokedToken records a logged-out JWT by its id until it would have expired
type RevokedToken struct {
	ID        string    `gorm:"primaryKey"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
