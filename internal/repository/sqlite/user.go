package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/arshkhan-pathan/todo-service/internal/apperror"
	"github.com/arshkhan-pathan/todo-service/internal/model"
)

// CreateUser inserts a new user and fills in the generated ID and
// timestamps on the passed struct (pointer receiver argument so the caller
// sees them).
//
// The UNIQUE constraint on username is our registration guard. SQLite
// reports a violation as a generic error, so we sniff the message and
// translate it into apperror.Conflict — the handler turns that into 409
// instead of a raw 500.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, first_name, last_name, hashed_password, role, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.HashedPassword,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: creating user %q: %w", user.Username, err)
	}

	// INTEGER PRIMARY KEY AUTOINCREMENT — the row id the database assigned.
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUserByUsername retrieves a user by their unique username.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `username = ?`, username)
}

// GetUserByID retrieves a user by their numeric id.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return db.getUser(ctx, `id = ?`, id)
}

// getUser runs a single-row user lookup for the given predicate.
// The predicate strings are package-internal constants — arg is the only
// caller-supplied value and always goes through a placeholder.
func (db *DB) getUser(ctx context.Context, predicate string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, first_name, last_name, hashed_password, role, is_active, created_at, updated_at
		 FROM users WHERE `+predicate,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.HashedPassword,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("user not found (%v)", arg),
			}
		}
		return nil, fmt.Errorf("sqlite: getting user (%v): %w", arg, err)
	}

	return &u, nil
}
