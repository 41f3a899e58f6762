package domain

import (
	"fmt"
	"time"
)

type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID          string
	TenantID    string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks that the user carries the fields uniqueness depends on.
func (u *User) Validate() error {
	if u.TenantID == "" {
		return fmt.Errorf("user tenant ID is required")
	}
	if u.Email == "" {
		return fmt.Errorf("user email is required")
	}
	return nil
}
