package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/arshkhan-pathan/todo-service/internal/apperror"
	"github.com/arshkhan-pathan/todo-service/internal/model"
	"github.com/arshkhan-pathan/todo-service/internal/repository"
)

// Validation constants for todo fields. Defining these as named constants
// keeps them out of error messages as magic numbers and makes the bounds
// easy to find.
const (
	MinTitleLength       = 3
	MinDescriptionLength = 3
	MaxDescriptionLength = 100
	MinPriority          = 1
	MaxPriority          = 5
)

// TodoService handles business logic for todo items.
//
// Every method takes the caller's ownerID alongside the todo id. The
// service passes both straight to the repository, which folds ownership
// into the query itself — there is no read-then-check step anywhere, so
// the check can't drift between endpoints.
type TodoService struct {
	repo   repository.TodoRepository
	logger *slog.Logger
}

// NewTodoService creates a new TodoService.
func NewTodoService(repo repository.TodoRepository, logger *slog.Logger) *TodoService {
	return &TodoService{
		repo:   repo,
		logger: logger,
	}
}

// TodoInput carries the mutable fields of a create or update request.
type TodoInput struct {
	Title       string
	Description string
	Priority    int
	Complete    bool
}

// validate enforces the field constraints. It runs BEFORE any store call,
// so an invalid request never reaches the database.
//
// Lengths are counted in runes, not bytes — len() on a Go string counts
// bytes, which would reject a 40-character CJK description (120 bytes)
// and accept a 2-character one (6 bytes). The bounds are about what the
// user typed, not how UTF-8 encodes it.
func (in *TodoInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if utf8.RuneCountInString(in.Title) < MinTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be at least %d characters", MinTitleLength))
	}
	if n := utf8.RuneCountInString(in.Description); n < MinDescriptionLength || n > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be between %d and %d characters",
				MinDescriptionLength, MaxDescriptionLength))
	}
	if in.Priority < MinPriority || in.Priority > MaxPriority {
		return apperror.ValidationFailed("priority",
			fmt.Sprintf("priority must be between %d and %d", MinPriority, MaxPriority))
	}
	return nil
}

// List returns every todo owned by the caller.
func (s *TodoService) List(ctx context.Context, ownerID int64) ([]model.Todo, error) {
	todos, err := s.repo.ListTodos(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list todos",
			slog.Int64("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

// Get returns the todo with the given id if the caller owns it;
// apperror.ErrNotFound otherwise (whether the row is missing or
// foreign-owned).
func (s *TodoService) Get(ctx context.Context, id, ownerID int64) (*model.Todo, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "id must be a positive integer")
	}
	return s.repo.GetTodoByID(ctx, id, ownerID)
}

// Create validates the input and persists a new todo owned by the caller.
// The owner comes from the authenticated identity, never from the body.
func (s *TodoService) Create(ctx context.Context, ownerID int64, in TodoInput) (*model.Todo, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	todo := &model.Todo{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Complete:    in.Complete,
		OwnerID:     ownerID,
	}

	if err := s.repo.CreateTodo(ctx, todo); err != nil {
		s.logger.Error("failed to create todo",
			slog.Int64("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating todo: %w", err)
	}

	s.logger.Info("todo created",
		slog.Int64("id", todo.ID),
		slog.Int64("ownerID", ownerID),
	)

	return todo, nil
}

// Update overwrites title, description, priority and complete on the todo
// with the given id, if the caller owns it. The write is a single UPDATE —
// the caller sees all four fields change or none.
func (s *TodoService) Update(ctx context.Context, id, ownerID int64, in TodoInput) error {
	if id <= 0 {
		return apperror.ValidationFailed("id", "id must be a positive integer")
	}
	if err := in.validate(); err != nil {
		return err
	}

	todo := &model.Todo{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Complete:    in.Complete,
		OwnerID:     ownerID,
	}

	if err := s.repo.UpdateTodo(ctx, todo); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to update todo",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("updating todo: %w", err)
	}

	s.logger.Info("todo updated", slog.Int64("id", id), slog.Int64("ownerID", ownerID))
	return nil
}

// Delete removes the todo with the given id, if the caller owns it.
func (s *TodoService) Delete(ctx context.Context, id, ownerID int64) error {
	if id <= 0 {
		return apperror.ValidationFailed("id", "id must be a positive integer")
	}

	if err := s.repo.DeleteTodo(ctx, id, ownerID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete todo",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting todo: %w", err)
	}

	s.logger.Info("todo deleted", slog.Int64("id", id), slog.Int64("ownerID", ownerID))
	return nil
}
