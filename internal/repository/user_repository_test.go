package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/car-listing-api/internal/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	repo := NewUserRepo(openTestDB(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, "alice", "s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero user id")
	}

	u, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if u.ID != id || u.Username != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "s3cret" {
		t.Fatal("password stored in plaintext")
	}
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	repo := NewUserRepo(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.Create(ctx, "bob", "pw", bcrypt.MinCost); err != nil {
		t.Fatalf("first Create error: %v", err)
	}
	_, err := repo.Create(ctx, "bob", "other", bcrypt.MinCost)
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestUserRepo_GetUnknown(t *testing.T) {
	repo := NewUserRepo(openTestDB(t))

	_, err := repo.GetByUsername(context.Background(), "nobody")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
