package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arshkhan-pathan/todo-service/internal/apperror"
	"github.com/arshkhan-pathan/todo-service/internal/model"
)

// =========================================================================
// MOCK TODO REPOSITORY
// =========================================================================
//
// In-memory implementation of repository.TodoRepository with the same
// ownership semantics as the real stores: every lookup filters on owner,
// and a foreign-owned row behaves exactly like a missing one.

type mockTodoRepo struct {
	todos   map[int64]*model.Todo
	nextID  int64
	failAll error // when set, every call returns this error
}

func newMockTodoRepo() *mockTodoRepo {
	return &mockTodoRepo{todos: make(map[int64]*model.Todo)}
}

func (m *mockTodoRepo) CreateTodo(_ context.Context, todo *model.Todo) error {
	if m.failAll != nil {
		return m.failAll
	}
	m.nextID++
	todo.ID = m.nextID
	stored := *todo
	m.todos[todo.ID] = &stored
	return nil
}

func (m *mockTodoRepo) GetTodoByID(_ context.Context, id, ownerID int64) (*model.Todo, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	todo, ok := m.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return nil, apperror.NotFound("todo", id)
	}
	result := *todo
	return &result, nil
}

func (m *mockTodoRepo) ListTodos(_ context.Context, ownerID int64) ([]model.Todo, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	result := make([]model.Todo, 0)
	for _, todo := range m.todos {
		if todo.OwnerID == ownerID {
			result = append(result, *todo)
		}
	}
	return result, nil
}

func (m *mockTodoRepo) UpdateTodo(_ context.Context, todo *model.Todo) error {
	if m.failAll != nil {
		return m.failAll
	}
	existing, ok := m.todos[todo.ID]
	if !ok || existing.OwnerID != todo.OwnerID {
		return apperror.NotFound("todo", todo.ID)
	}
	stored := *todo
	m.todos[todo.ID] = &stored
	return nil
}

func (m *mockTodoRepo) DeleteTodo(_ context.Context, id, ownerID int64) error {
	if m.failAll != nil {
		return m.failAll
	}
	existing, ok := m.todos[id]
	if !ok || existing.OwnerID != ownerID {
		return apperror.NotFound("todo", id)
	}
	delete(m.todos, id)
	return nil
}

func newTestTodoService(t *testing.T) (*TodoService, *mockTodoRepo) {
	t.Helper()
	repo := newMockTodoRepo()
	svc := NewTodoService(repo, testLogger())
	return svc, repo
}

func validInput() TodoInput {
	return TodoInput{
		Title:       "Buy milk",
		Description: "groceries",
		Priority:    2,
		Complete:    false,
	}
}

// =========================================================================
// Create TESTS
// =========================================================================

func TestTodoCreate(t *testing.T) {
	svc, _ := newTestTodoService(t)

	todo, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if todo.ID <= 0 {
		t.Errorf("Create() did not assign an id, got %d", todo.ID)
	}
	if todo.OwnerID != 1 {
		t.Errorf("OwnerID = %d, want 1", todo.OwnerID)
	}
}

func TestTodoCreate_ValidationBeforeStore(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*TodoInput)
		field string
	}{
		{"title too short", func(in *TodoInput) { in.Title = "ab" }, "title"},
		{"title two runes multibyte", func(in *TodoInput) { in.Title = "日本" }, "title"},
		{"description too short", func(in *TodoInput) { in.Description = "ab" }, "description"},
		{"description length 101", func(in *TodoInput) { in.Description = strings.Repeat("x", 101) }, "description"},
		{"description 101 runes multibyte", func(in *TodoInput) { in.Description = strings.Repeat("日", 101) }, "description"},
		{"priority zero", func(in *TodoInput) { in.Priority = 0 }, "priority"},
		{"priority six", func(in *TodoInput) { in.Priority = 6 }, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestTodoService(t)
			in := validInput()
			tt.mut(&in)

			_, err := svc.Create(context.Background(), 1, in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}

			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Field != tt.field {
				t.Errorf("failing field = %q, want %q", appErr.Field, tt.field)
			}

			// No store mutation may have happened
			if len(repo.todos) != 0 {
				t.Error("Create() touched the store despite failing validation")
			}
		})
	}
}

func TestTodoCreate_BoundaryValuesAccepted(t *testing.T) {
	svc, _ := newTestTodoService(t)

	in := TodoInput{
		Title:       "abc",                    // minimum title
		Description: strings.Repeat("x", 100), // maximum description
		Priority:    5,                        // maximum priority
	}
	if _, err := svc.Create(context.Background(), 1, in); err != nil {
		t.Errorf("Create() with boundary values error = %v", err)
	}

	in = TodoInput{
		Title:       "abc",
		Description: "abc", // minimum description
		Priority:    1,     // minimum priority
	}
	if _, err := svc.Create(context.Background(), 1, in); err != nil {
		t.Errorf("Create() with lower boundary values error = %v", err)
	}

	// Lengths count characters, not bytes: 100 CJK runes is 300 bytes and
	// must still be inside the description bound.
	in = TodoInput{
		Title:       "買い物",
		Description: strings.Repeat("日", 100),
		Priority:    3,
	}
	if _, err := svc.Create(context.Background(), 1, in); err != nil {
		t.Errorf("Create() with multibyte boundary values error = %v", err)
	}
}

func TestTodoCreate_StoreFailurePropagates(t *testing.T) {
	svc, repo := newTestTodoService(t)
	repo.failAll = errors.New("disk on fire")

	_, err := svc.Create(context.Background(), 1, validInput())
	if err == nil {
		t.Fatal("Create() should propagate store failures")
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("store error not preserved in chain: %v", err)
	}
}

// =========================================================================
// Get / List TESTS
// =========================================================================

func TestTodoGet_OwnershipScoped(t *testing.T) {
	svc, _ := newTestTodoService(t)

	created, _ := svc.Create(context.Background(), 1, validInput())

	// owner sees it
	got, err := svc.Get(context.Background(), created.ID, 1)
	if err != nil {
		t.Fatalf("Get() by owner error = %v", err)
	}
	if got.Title != "Buy milk" {
		t.Errorf("title = %q, want %q", got.Title, "Buy milk")
	}

	// a different user gets NotFound
	_, err = svc.Get(context.Background(), created.ID, 2)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() by non-owner error = %v, want ErrNotFound", err)
	}
}

func TestTodoGet_NonPositiveID(t *testing.T) {
	svc, _ := newTestTodoService(t)

	for _, id := range []int64{0, -1} {
		if _, err := svc.Get(context.Background(), id, 1); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Get(%d) error = %v, want ErrValidation", id, err)
		}
	}
}

func TestTodoList_OnlyOwnRows(t *testing.T) {
	svc, _ := newTestTodoService(t)

	svc.Create(context.Background(), 1, validInput())
	svc.Create(context.Background(), 1, TodoInput{Title: "Walk dog", Description: "around the block", Priority: 1})
	svc.Create(context.Background(), 2, TodoInput{Title: "File taxes", Description: "before deadline", Priority: 5})

	mine, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("List() for user 1 = %d items, want 2", len(mine))
	}

	theirs, _ := svc.List(context.Background(), 3)
	if len(theirs) != 0 {
		t.Errorf("List() for user 3 = %d items, want 0", len(theirs))
	}
}

// =========================================================================
// Update TESTS
// =========================================================================

func TestTodoUpdate(t *testing.T) {
	svc, repo := newTestTodoService(t)
	created, _ := svc.Create(context.Background(), 1, validInput())

	in := TodoInput{Title: "Buy oat milk", Description: "the barista kind", Priority: 4, Complete: true}
	if err := svc.Update(context.Background(), created.ID, 1, in); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	stored := repo.todos[created.ID]
	if stored.Title != "Buy oat milk" || !stored.Complete || stored.Priority != 4 {
		t.Errorf("update did not apply all fields: %+v", stored)
	}
}

func TestTodoUpdate_NotOwnedOrMissing(t *testing.T) {
	svc, _ := newTestTodoService(t)
	created, _ := svc.Create(context.Background(), 1, validInput())

	errOther := svc.Update(context.Background(), created.ID, 2, validInput())
	errMissing := svc.Update(context.Background(), 99999, 2, validInput())

	if !errors.Is(errOther, apperror.ErrNotFound) {
		t.Errorf("Update() by non-owner error = %v, want ErrNotFound", errOther)
	}
	if !errors.Is(errMissing, apperror.ErrNotFound) {
		t.Errorf("Update() on missing id error = %v, want ErrNotFound", errMissing)
	}
}

func TestTodoUpdate_InvalidInput(t *testing.T) {
	svc, repo := newTestTodoService(t)
	created, _ := svc.Create(context.Background(), 1, validInput())

	in := validInput()
	in.Priority = 0
	if err := svc.Update(context.Background(), created.ID, 1, in); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Update() error = %v, want ErrValidation", err)
	}

	if repo.todos[created.ID].Priority != 2 {
		t.Error("failed validation must not mutate the stored row")
	}
}

// =========================================================================
// Delete TESTS
// =========================================================================

func TestTodoDelete(t *testing.T) {
	svc, repo := newTestTodoService(t)
	created, _ := svc.Create(context.Background(), 1, validInput())

	if err := svc.Delete(context.Background(), created.ID, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(repo.todos) != 0 {
		t.Error("Delete() did not remove the row")
	}
}

func TestTodoDelete_NotOwnedOrMissing(t *testing.T) {
	svc, repo := newTestTodoService(t)
	created, _ := svc.Create(context.Background(), 1, validInput())

	if err := svc.Delete(context.Background(), created.ID, 2); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() by non-owner error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), 99999, 1); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() on missing id error = %v, want ErrNotFound", err)
	}
	if len(repo.todos) != 1 {
		t.Error("failed deletes must not remove rows")
	}
}
