// Package models contains data structures for the application's domain models.
package models

import "time"

// Role is a user's global permission level.
type Role string

const (
	RoleNormal Role = "NORMAL"
	RoleAdmin  Role = "ADMIN"
)

// User represents a registered account. Users are created at signup and never
// mutated by the post layer; posts and engagements reference them by ID.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"not null;default:NORMAL" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CreatorSummary is the public identity snapshot embedded in post responses.
type CreatorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summary returns the user's public identity snapshot.
func (u *User) Summary() CreatorSummary {
	return CreatorSummary{ID: u.ID, Name: u.Name}
}

// AuthPayload is the verified caller identity derived from a credential
// token. It is request-scoped and never persisted.
type AuthPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
