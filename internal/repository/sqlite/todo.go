package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arshkhan-pathan/todo-service/internal/apperror"
	"github.com/arshkhan-pathan/todo-service/internal/model"
)

// CreateTodo inserts a new todo row. OwnerID must already be set by the
// service (it comes from the authenticated identity, never from the request
// body). The REFERENCES users(id) constraint plus PRAGMA foreign_keys=ON
// guarantees the owner exists at insert time.
func (db *DB) CreateTodo(ctx context.Context, todo *model.Todo) error {
	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO todos (title, description, priority, complete, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.Complete,
		todo.OwnerID,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new todo id: %w", err)
	}
	todo.ID = id

	return nil
}

// GetTodoByID retrieves a single todo by (id, owner).
//
// The owner_id predicate is the authorization check: a row that exists but
// belongs to another user produces sql.ErrNoRows exactly like a missing
// row, and both come back as apperror.ErrNotFound. Callers cannot tell the
// two cases apart, so nothing leaks about other users' records.
func (db *DB) GetTodoByID(ctx context.Context, id, ownerID int64) (*model.Todo, error) {
	var t model.Todo

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, priority, complete, owner_id, created_at, updated_at
		 FROM todos
		 WHERE id = ? AND owner_id = ?`,
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
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("todo", id)
		}
		return nil, fmt.Errorf("sqlite: getting todo %d: %w", id, err)
	}

	return &t, nil
}

// ListTodos returns every todo owned by the given user, newest first.
// An owner with no todos gets an empty slice, not nil — it serializes to
// [] rather than null.
func (db *DB) ListTodos(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, description, priority, complete, owner_id, created_at, updated_at
		 FROM todos
		 WHERE owner_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing todos: %w", err)
	}
	// sql.Rows holds a pooled connection until closed.
	defer rows.Close()

	todos := make([]model.Todo, 0)

	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Priority,
			&t.Complete, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning todo row: %w", err)
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating todos: %w", err)
	}

	return todos, nil
}

// UpdateTodo overwrites title, description, priority and complete for the
// row matching (id, owner). All four fields change in a single UPDATE, so
// the caller sees either the old record or the new one, never a mix.
//
// RowsAffected == 0 means the WHERE clause matched nothing — missing row
// and foreign-owned row alike — and maps to NotFound.
func (db *DB) UpdateTodo(ctx context.Context, todo *model.Todo) error {
	todo.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE todos
		 SET title = ?, description = ?, priority = ?, complete = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.Complete,
		todo.UpdatedAt,
		todo.ID,
		todo.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating todo %d: %w", todo.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("todo", todo.ID)
	}

	return nil
}

// DeleteTodo removes the row matching (id, owner). Same RowsAffected
// pattern as UpdateTodo for the not-found case.
func (db *DB) DeleteTodo(ctx context.Context, id, ownerID int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM todos WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting todo %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("todo", id)
	}

	return nil
}
