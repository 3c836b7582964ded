// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
type User struct {
	// ID is the unique identifier for the user, assigned by the store.
	ID uint `gorm:"primaryKey"`

	// Username is the login name. It must be unique across all users and
	// never changes after registration.
	Username string `gorm:"uniqueIndex;size:25;not null"`

	// PasswordHash is the bcrypt digest of the user's password.
	// This must never hold a plaintext password.
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`

	// Role decides which dashboard the user may open.
	Role Role `gorm:"type:varchar(16);not null;check:role IN ('CLIENT','CREATOR')"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
