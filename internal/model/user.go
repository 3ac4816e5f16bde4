// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// WHY `json:"-"` ON HashedPassword?
// The `-` tag tells encoding/json to NEVER serialize this field. Even if a
// handler accidentally returns a full User, the bcrypt digest stays out of
// the response body. The plaintext password is never stored anywhere — only
// the irreversible digest produced by auth.PasswordService.
//
// Role is a free-form tag ("admin", "user", ...). It is embedded in the JWT
// claims and returned in responses, but the service enforces no hierarchy
// on it.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	HashedPassword string    `json:"-"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
