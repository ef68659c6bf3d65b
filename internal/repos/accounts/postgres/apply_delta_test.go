package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fastprodman/fliprooms/internal/infra/pgtestutil"
	"github.com/fastprodman/fliprooms/internal/repos/accounts"
)

func TestAccounts_ApplyDelta_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		seedBalance int64
		seed        bool
		delta       int64
		wantBalance int64
		wantErr     error
	}{
		{name: "credit_from_zero", seed: true, seedBalance: 0, delta: 250, wantBalance: 250},
		{name: "debit_partial", seed: true, seedBalance: 1_000, delta: -250, wantBalance: 750},
		{name: "debit_to_zero", seed: true, seedBalance: 300, delta: -300, wantBalance: 0},
		{name: "debit_insufficient_unchanged", seed: true, seedBalance: 40, delta: -50, wantBalance: 40, wantErr: accounts.ErrInsufficientFunds},
		{name: "missing_account", seed: false, delta: 10, wantErr: accounts.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			const identity = "0xapply"
			if tt.seed {
				pgtestutil.SeedAccount(t, db, identity, tt.seedBalance)
			}

			repo := New(db)

			ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
			defer cancel()

			got, err := repo.ApplyDelta(ctx, identity, tt.delta, time.Now())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("apply delta: %v", err)
				}
				if got != tt.wantBalance {
					t.Fatalf("returned balance: want %d, got %d", tt.wantBalance, got)
				}
			}

			if !tt.seed {
				return
			}

			acc, err := repo.GetByIdentity(ctx, identity)
			if err != nil {
				t.Fatalf("get after apply: %v", err)
			}
			if acc.Balance != tt.wantBalance {
				t.Fatalf("stored balance: want %d, got %d", tt.wantBalance, acc.Balance)
			}
		})
	}
}

func TestAccounts_ApplyDelta_ConcurrentGuard(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedAccount(t, db, "0xrace", 100)

	repo := New(db)

	const workers = 8

	var (
		wg                    sync.WaitGroup
		mu                    sync.Mutex
		success, insufficient int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := repo.ApplyDelta(context.Background(), "0xrace", -30, time.Now())

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				success++
			case errors.Is(err, accounts.ErrInsufficientFunds):
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	// 100 covers exactly three withdrawals of 30
	if success != 3 || insufficient != workers-3 {
		t.Fatalf("want 3 successes, got success=%d insufficient=%d", success, insufficient)
	}

	acc, err := repo.GetByIdentity(t.Context(), "0xrace")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acc.Balance != 10 {
		t.Fatalf("final balance: want 10, got %d", acc.Balance)
	}
}
