package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/arshkhan-pathan/todo-service/internal/apperror"
	"github.com/arshkhan-pathan/todo-service/internal/model"
)

// CreateTodo inserts a new todo row for the owner already set on the
// struct. The foreign key on owner_id guarantees the owner exists.
func (db *DB) CreateTodo(ctx context.Context, todo *model.Todo) error {
	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	err := db.pool.QueryRow(ctx,
		`INSERT INTO todos (title, description, priority, complete, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.Complete,
		todo.OwnerID,
		todo.CreatedAt,
		todo.UpdatedAt,
	).Scan(&todo.ID)
	if err != nil {
		return fmt.Errorf("postgres: creating todo: %w", err)
	}

	return nil
}

// GetTodoByID retrieves a single todo by (id, owner). A foreign-owned row
// and a missing row are both pgx.ErrNoRows and both map to NotFound.
func (db *DB) GetTodoByID(ctx context.Context, id, ownerID int64) (*model.Todo, error) {
	var t model.Todo

	err := db.pool.QueryRow(ctx,
		`SELECT id, title, description, priority, complete, owner_id, created_at, updated_at
		 FROM todos
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Complete,
		&t.OwnerID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("todo", id)
		}
		return nil, fmt.Errorf("postgres: getting todo %d: %w", id, err)
	}

	return &t, nil
}

// ListTodos returns every todo owned by the given user, newest first.
func (db *DB) ListTodos(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, description, priority, complete, owner_id, created_at, updated_at
		 FROM todos
		 WHERE owner_id = $1
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing todos: %w", err)
	}
	defer rows.Close()

	todos := make([]model.Todo, 0)

	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Priority,
			&t.Complete, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scanning todo row: %w", err)
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating todos: %w", err)
	}

	return todos, nil
}

// UpdateTodo overwrites the mutable fields for the row matching
// (id, owner). RowsAffected == 0 maps to NotFound.
func (db *DB) UpdateTodo(ctx context.Context, todo *model.Todo) error {
	todo.UpdatedAt = time.Now()

	tag, err := db.pool.Exec(ctx,
		`UPDATE todos
		 SET title = $1, description = $2, priority = $3, complete = $4, updated_at = $5
		 WHERE id = $6 AND owner_id = $7`,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.Complete,
		todo.UpdatedAt,
		todo.ID,
		todo.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating todo %d: %w", todo.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("todo", todo.ID)
	}

	return nil
}

// DeleteTodo removes the row matching (id, owner).
func (db *DB) DeleteTodo(ctx context.Context, id, ownerID int64) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM todos WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("postgres: deleting todo %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("todo", id)
	}

	return nil
}
