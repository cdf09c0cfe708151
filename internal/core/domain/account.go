package domain

import (
	"strings"
	"time"
)

// UnusablePasswordPrefix marks a stored hash that no plaintext verifies against.
const UnusablePasswordPrefix = "!"

// Account models a login identity. Email is the login identifier.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewAccount returns an active, unprivileged account with no password set.
func NewAccount(email, name string, now time.Time) *Account {
	return &Account{
		Email:     email,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (a *Account) FullName() string  { return a.Name }
func (a *Account) ShortName() string { return a.Name }
func (a *Account) String() string    { return a.Email }

// HasUsablePassword reports whether a password login is possible at all.
func (a *Account) HasUsablePassword() bool {
	return a.PasswordHash != "" && !strings.HasPrefix(a.PasswordHash, UnusablePasswordPrefix)
}

// CanAccessAdmin gates the administrative routes.
func (a *Account) CanAccessAdmin() bool {
	return a.IsActive && a.IsStaff
}

// HasPermission is the superuser bypass: active superusers hold every permission.
func (a *Account) HasPermission() bool {
	return a.IsActive && a.IsSuperuser
}
