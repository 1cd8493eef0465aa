// file: model/user.go

package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered identity. The password is only ever stored as a bcrypt hash.
type User struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Password   string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	IsActive   bool      `json:"is_active"`
	IsElevated bool      `json:"is_elevated"`
	IsDisabled bool      `json:"is_disabled"`
}

// UserPatch lists the identity fields that may change after registration.
// Nil fields are left untouched.
type UserPatch struct {
	FirstName  *string
	LastName   *string
	Password   *string
	IsActive   *bool
	IsDisabled *bool
}
