package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

func TestAccountStore_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAccountStore(pool)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	acc := &domain.Account{
		ID:             "acc1",
		UserID:         "user1",
		Name:           "Funded Futures",
		InitialBalance: 50000,
		CurrentBalance: 50000,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := store.Insert(ctx, acc); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, acc); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	got, err := store.GetByID(ctx, "user1", "acc1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Funded Futures" || got.InitialBalance != 50000 {
		t.Errorf("account mismatch: %+v", got)
	}

	// Ownership scoping.
	if _, err := store.GetByID(ctx, "user2", "acc1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetByID as other user: expected ErrNotFound, got %v", err)
	}

	if err := store.UpdateBalance(ctx, "user1", "acc1", 51200.75); err != nil {
		t.Fatalf("UpdateBalance failed: %v", err)
	}
	got, _ = store.GetByID(ctx, "user1", "acc1")
	if got.CurrentBalance != 51200.75 {
		t.Errorf("CurrentBalance = %v, want 51200.75", got.CurrentBalance)
	}

	second := &domain.Account{
		ID: "acc2", UserID: "user1", Name: "Personal",
		CreatedAt: now.Add(time.Hour), UpdatedAt: now.Add(time.Hour),
	}
	if err := store.Insert(ctx, second); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	list, err := store.List(ctx, "user1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "acc2" {
		t.Errorf("List order mismatch: %+v", list)
	}

	if err := store.Delete(ctx, "user1", "acc1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "user1", "acc1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}
