package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/infra/pgtestutil"
	"github.com/fastprodman/fliprooms/internal/repos"
	"github.com/fastprodman/fliprooms/internal/repos/accounts"
	"github.com/google/uuid"
)

func TestStore_WithTx_RollsBackOnError(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	store := New(db)
	acc := pgtestutil.SeedAccount(t, db, "0xroll", 100)

	boom := errors.New("boom")

	err := store.WithTx(t.Context(), func(ctx context.Context, tx repos.Tx) error {
		_, err := tx.Accounts().ApplyDelta(ctx, acc.Identity, -60, time.Now())
		if err != nil {
			return err
		}

		err = tx.Entries().Insert(ctx, domain.Entry{
			ID:           uuid.NewString(),
			AccountID:    acc.ID,
			Kind:         domain.EntryAdjustment,
			Delta:        -60,
			BalanceAfter: 40,
			CreatedAt:    time.Now(),
		})
		if err != nil {
			return err
		}

		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	got, err := store.Accounts().GetByIdentity(t.Context(), acc.Identity)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Balance != 100 {
		t.Fatalf("balance must be untouched, got %d", got.Balance)
	}

	list, err := store.Entries().ListByAccount(t.Context(), acc.ID, 10)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("entry must be rolled back, got %d entries", len(list))
	}
}

func TestStore_WithTx_Commits(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	store := New(db)
	acc := pgtestutil.SeedAccount(t, db, "0xcommit", 100)

	err := store.WithTx(t.Context(), func(ctx context.Context, tx repos.Tx) error {
		bal, err := tx.Accounts().LockAndGetBalance(ctx, acc.Identity)
		if err != nil {
			return err
		}
		if bal < 150 {
			_, err = tx.Accounts().ApplyDelta(ctx, acc.Identity, 50, time.Now())
		}
		return err
	})
	if err != nil {
		t.Fatalf("with tx: %v", err)
	}

	got, err := store.Accounts().GetByIdentity(t.Context(), acc.Identity)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Balance != 150 {
		t.Fatalf("want 150, got %d", got.Balance)
	}

	_, err = store.Accounts().ApplyDelta(t.Context(), acc.Identity, -1000, time.Now())
	if !errors.Is(err, accounts.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
}
