package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/arshkhan-pathan/todo-service/internal/apperror"
	"github.com/arshkhan-pathan/todo-service/internal/model"
)

// uniqueViolation is the Postgres error code for a unique-constraint hit.
// pgx surfaces it as a typed *pgconn.PgError, so no message sniffing is
// needed here (unlike the sqlite store).
const uniqueViolation = "23505"

// CreateUser inserts a new user, returning the generated id via
// INSERT ... RETURNING. A duplicate username maps to apperror.Conflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, first_name, last_name, hashed_password, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.HashedPassword,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("postgres: creating user %q: %w", user.Username, err)
	}

	return nil
}

// GetUserByUsername retrieves a user by their unique username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `username = $1`, username)
}

// GetUserByID retrieves a user by their numeric id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return db.getUser(ctx, `id = $1`, id)
}

func (db *DB) getUser(ctx context.Context, predicate string, arg any) (*model.User, error) {
	var u model.User

	err := db.pool.QueryRow(ctx,
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("user not found (%v)", arg),
			}
		}
		return nil, fmt.Errorf("postgres: getting user (%v): %w", arg, err)
	}

	return &u, nil
}
