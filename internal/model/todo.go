package model

import "time"

// Todo represents a single task item owned by exactly one user.
//
// OwnerID is a foreign key to users.id and is the sole authorization
// boundary in the system: every query in the repository layer filters on
// it, so a todo is invisible to every identity except its owner.
//
// The `json:"..."` tags control how the struct is serialized by
// encoding/json. OwnerID is included in responses — the caller only ever
// sees their own rows, so it leaks nothing.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"`
	Complete    bool      `json:"complete"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
