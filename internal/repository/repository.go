// Package repository declares the storage interfaces the service layer
// depends on. The concrete implementations live in the sqlite and postgres
// subpackages; the service never imports either of them directly.
package repository

import (
	"context"

	"github.com/arshkhan-pathan/todo-service/internal/model"
)

// UserRepository reads and writes user accounts.
type UserRepository interface {
	// CreateUser inserts a new user and fills in ID and timestamps.
	// Returns apperror.ErrConflict if the username is already taken.
	CreateUser(ctx context.Context, user *model.User) error

	// GetUserByUsername returns the user with the given username, or
	// apperror.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// GetUserByID returns the user with the given id, or apperror.ErrNotFound.
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// TodoRepository reads and writes todo items, always scoped to an owner.
//
// OWNERSHIP AS A QUERY PREDICATE:
// Every accessor that touches an existing row takes the owner's user id and
// folds it into the WHERE clause. A row owned by someone else is therefore
// indistinguishable from a row that doesn't exist — both come back as
// apperror.ErrNotFound. That single policy point is the whole authorization
// model; handlers and services never re-check ownership themselves.
type TodoRepository interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	GetTodoByID(ctx context.Context, id, ownerID int64) (*model.Todo, error)
	ListTodos(ctx context.Context, ownerID int64) ([]model.Todo, error)
	UpdateTodo(ctx context.Context, todo *model.Todo) error
	DeleteTodo(ctx context.Context, id, ownerID int64) error
}

// Store is the full storage surface the server wires up: both repositories
// plus lifecycle management. sqlite.DB and postgres.DB implement it.
type Store interface {
	UserRepository
	TodoRepository
	Close() error
}
