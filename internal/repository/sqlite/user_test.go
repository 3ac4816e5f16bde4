package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/arshkhan-pathan/todo-service/internal/apperror"
	"github.com/arshkhan-pathan/todo-service/internal/model"
)

// newTestDB creates a fresh in-memory database for one test.
// ":memory:" means no disk I/O and automatic teardown when the
// connection closes; t.Cleanup handles the close even in subtests.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser persists a user with sensible defaults and fails the test
// on error.
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:       username,
		Email:          username + "@example.com",
		FirstName:      "Test",
		LastName:       "User",
		HashedPassword: "$2a$04$fakehashfortestingonly.............",
		Role:           "user",
		IsActive:       true,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CreateUser TESTS
// =========================================================================

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "alice")

	if user.ID <= 0 {
		t.Errorf("CreateUser() did not assign a positive id, got %d", user.ID)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("CreateUser() did not set timestamps")
	}
}

func TestCreateUser_AssignsIncreasingIDs(t *testing.T) {
	db := newTestDB(t)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	if bob.ID <= alice.ID {
		t.Errorf("ids not increasing: alice=%d bob=%d", alice.ID, bob.ID)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)

	createTestUser(t, db, "alice")

	dup := &model.User{
		Username:       "alice",
		HashedPassword: "x",
		Role:           "user",
		IsActive:       true,
	}
	err := db.CreateUser(context.Background(), dup)
	if err == nil {
		t.Fatal("CreateUser() should reject a duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// GetUserByUsername / GetUserByID TESTS
// =========================================================================

func TestGetUserByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice")

	got, err := db.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("id = %d, want %d", got.ID, created.ID)
	}
	if got.HashedPassword != created.HashedPassword {
		t.Error("stored digest does not round-trip")
	}
	if !got.IsActive {
		t.Error("IsActive flag lost in round trip")
	}
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice")

	got, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("username = %q, want %q", got.Username, "alice")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), 99999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
