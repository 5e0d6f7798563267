package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/model"
	"github.com/tradestack/market-sim/internal/store"
)

func testAccount(id, email string) *model.Account {
	return &model.Account{
		ID:        id,
		Name:      "Trader",
		Email:     email,
		Balance:   decimal.NewFromInt(5000),
		Watchlist: []string{"GOOG"},
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()

	if err := ms.CreateAccount(ctx, testAccount("a1", "a@example.com")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	a, err := ms.GetAccount(ctx, "a1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if a.Email != "a@example.com" {
		t.Errorf("unexpected account %+v", a)
	}

	if _, err := ms.GetAccount(ctx, "missing"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()

	ms.CreateAccount(ctx, testAccount("a1", "same@example.com"))
	err := ms.CreateAccount(ctx, testAccount("a2", "same@example.com"))
	if err != store.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()
	ms.CreateAccount(ctx, testAccount("a1", "a@example.com"))

	a, _ := ms.GetAccount(ctx, "a1")
	a.Balance = decimal.Zero
	a.Watchlist[0] = "HACKED"

	fresh, _ := ms.GetAccount(ctx, "a1")
	if !fresh.Balance.Equal(decimal.NewFromInt(5000)) {
		t.Error("caller mutation of balance leaked into store")
	}
	if fresh.Watchlist[0] != "GOOG" {
		t.Error("caller mutation of watchlist leaked into store")
	}
}

func TestMemoryStore_SaveMissing(t *testing.T) {
	ms := store.NewMemoryStore()

	err := ms.SaveAccount(context.Background(), testAccount("ghost", "g@example.com"))
	if err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_GetByExternalID(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()

	a := testAccount("a1", "a@example.com")
	a.ExternalID = "ext-1"
	ms.CreateAccount(ctx, a)

	got, err := ms.GetAccountByExternalID(ctx, "ext-1")
	if err != nil || got.ID != "a1" {
		t.Errorf("expected a1, got %+v err=%v", got, err)
	}

	// Empty external IDs never match.
	ms.CreateAccount(ctx, testAccount("a2", "b@example.com"))
	if _, err := ms.GetAccountByExternalID(ctx, ""); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound for empty external ID, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()
	ms.CreateAccount(ctx, testAccount("a1", "a@example.com"))

	if err := ms.DeleteAccount(ctx, "a1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := ms.DeleteAccount(ctx, "a1"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
