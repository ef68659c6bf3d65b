package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/fastprodman/fliprooms/internal/dependencies/clock"
	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/repos"
	accountrepo "github.com/fastprodman/fliprooms/internal/repos/accounts"
)

const (
	DefaultEntriesLimit = 50
	MaxEntriesLimit     = 500

	maxKeyLen = 128
)

// Adjustment is one requested credit (Delta > 0) or debit (Delta < 0).
type Adjustment struct {
	Identity string
	Delta    int64
	Kind     domain.EntryKind
	// Key makes the adjustment idempotent; a reused key is rejected.
	Key    string
	RoomID string
}

// Manager owns account balances. Every balance change goes through
// ApplyDelta or ApplyDeltaTx and leaves a ledger entry behind.
type Manager struct {
	store repos.Store
	clock clock.Clock
	log   *slog.Logger
}

func New(store repos.Store, clk clock.Clock, log *slog.Logger) *Manager {
	return &Manager{store: store, clock: clk, log: log}
}

// GetOrCreate returns the account for identity, creating it with a zero
// balance on first sight.
func (m *Manager) GetOrCreate(ctx context.Context, identity string) (domain.Account, bool, error) {
	id, err := domain.NormalizeIdentity(identity)
	if err != nil {
		return domain.Account{}, false, err
	}

	acc, err := m.store.Accounts().GetByIdentity(ctx, id)
	if err == nil {
		return acc, false, nil
	}

	if !errors.Is(err, accountrepo.ErrAccountNotFound) {
		return domain.Account{}, false, fmt.Errorf("get account: %w", err)
	}

	now := m.clock.Now()
	acc = domain.Account{
		ID:          uuid.NewString(),
		Identity:    id,
		DisplayName: domain.DefaultDisplayName(id),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = m.store.Accounts().Insert(ctx, acc)
	if err != nil {
		if !errors.Is(err, accountrepo.ErrAccountExists) {
			return domain.Account{}, false, fmt.Errorf("create account: %w", err)
		}

		// lost the race to a concurrent create
		acc, err = m.store.Accounts().GetByIdentity(ctx, id)
		if err != nil {
			return domain.Account{}, false, fmt.Errorf("get account after conflict: %w", err)
		}

		return acc, false, nil
	}

	m.log.Info("account created", "identity", id, "account_id", acc.ID)

	return acc, true, nil
}

// Register is GetOrCreate that also stores a non-empty display name.
func (m *Manager) Register(ctx context.Context, identity, displayName string) (domain.Account, bool, error) {
	name, err := domain.NormalizeDisplayName(displayName)
	if err != nil {
		return domain.Account{}, false, err
	}

	acc, created, err := m.GetOrCreate(ctx, identity)
	if err != nil {
		return domain.Account{}, false, err
	}

	if name == "" || name == acc.DisplayName {
		return acc, created, nil
	}

	acc, err = m.store.Accounts().UpdateDisplayName(ctx, acc.Identity, name, m.clock.Now())
	if err != nil {
		return domain.Account{}, false, fmt.Errorf("update display name: %w", err)
	}

	return acc, created, nil
}

func (m *Manager) Get(ctx context.Context, identity string) (domain.Account, error) {
	id, err := domain.NormalizeIdentity(identity)
	if err != nil {
		return domain.Account{}, err
	}

	acc, err := m.store.Accounts().GetByIdentity(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return acc, nil
}

func (m *Manager) GetByID(ctx context.Context, accountID string) (domain.Account, error) {
	if uuid.Validate(accountID) != nil {
		return domain.Account{}, accountrepo.ErrAccountNotFound
	}

	acc, err := m.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	return acc, nil
}

// GetBalance returns the balance without locking (suitable for reads).
func (m *Manager) GetBalance(ctx context.Context, identity string) (int64, error) {
	acc, err := m.Get(ctx, identity)
	if err != nil {
		return 0, err
	}

	return acc.Balance, nil
}

// ApplyDelta applies adj in its own transaction.
func (m *Manager) ApplyDelta(ctx context.Context, adj Adjustment) (domain.BalanceChange, error) {
	adj, err := normalizeAdjustment(adj)
	if err != nil {
		return domain.BalanceChange{}, err
	}

	var change domain.BalanceChange

	err = m.store.WithTx(ctx, func(ctx context.Context, tx repos.Tx) error {
		change, err = m.applyDeltaTx(ctx, tx, adj)
		return err
	})
	if err != nil {
		return domain.BalanceChange{}, fmt.Errorf("apply delta: %w", err)
	}

	m.log.Info("balance changed",
		"identity", change.Identity,
		"kind", adj.Kind,
		"delta", change.Delta,
		"balance", change.New,
	)

	return change, nil
}

// ApplyDeltaTx applies adj inside the caller's transaction.
//
// 1) Lock the balance.
// 2) Reject overdrafts and overflows against the locked value.
// 3) Conditionally update the balance.
// 4) Journal the change (a reused key fails the whole transaction).
func (m *Manager) ApplyDeltaTx(ctx context.Context, tx repos.Tx, adj Adjustment) (domain.BalanceChange, error) {
	adj, err := normalizeAdjustment(adj)
	if err != nil {
		return domain.BalanceChange{}, err
	}

	return m.applyDeltaTx(ctx, tx, adj)
}

func (m *Manager) applyDeltaTx(ctx context.Context, tx repos.Tx, adj Adjustment) (domain.BalanceChange, error) {
	acc, err := tx.Accounts().GetByIdentity(ctx, adj.Identity)
	if err != nil {
		return domain.BalanceChange{}, fmt.Errorf("get account: %w", err)
	}

	// 1) Lock
	prev, err := tx.Accounts().LockAndGetBalance(ctx, adj.Identity)
	if err != nil {
		return domain.BalanceChange{}, fmt.Errorf("lock and get balance: %w", err)
	}

	// 2) Pre-check
	if adj.Delta > 0 && prev > math.MaxInt64-adj.Delta {
		return domain.BalanceChange{}, fmt.Errorf("%w: balance would overflow", domain.ErrInvalidArgument)
	}

	if prev+adj.Delta < 0 {
		return domain.BalanceChange{}, fmt.Errorf("balance %d cannot cover %d: %w", prev, -adj.Delta, accountrepo.ErrInsufficientFunds)
	}

	// 3) Update
	now := m.clock.Now()

	next, err := tx.Accounts().ApplyDelta(ctx, adj.Identity, adj.Delta, now)
	if err != nil {
		return domain.BalanceChange{}, fmt.Errorf("update balance: %w", err)
	}

	// 4) Journal
	err = tx.Entries().Insert(ctx, domain.Entry{
		ID:           uuid.NewString(),
		AccountID:    acc.ID,
		Kind:         adj.Kind,
		Delta:        adj.Delta,
		BalanceAfter: next,
		RoomID:       adj.RoomID,
		Key:          adj.Key,
		CreatedAt:    now,
	})
	if err != nil {
		return domain.BalanceChange{}, fmt.Errorf("insert ledger entry: %w", err)
	}

	return domain.BalanceChange{
		Identity: adj.Identity,
		Previous: prev,
		New:      next,
		Delta:    adj.Delta,
	}, nil
}

// ListEntries returns the newest ledger entries of an account. limit 0 means
// DefaultEntriesLimit.
func (m *Manager) ListEntries(ctx context.Context, identity string, limit int) ([]domain.Entry, error) {
	if limit == 0 {
		limit = DefaultEntriesLimit
	}

	if limit < 0 || limit > MaxEntriesLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidArgument, MaxEntriesLimit)
	}

	acc, err := m.Get(ctx, identity)
	if err != nil {
		return nil, err
	}

	list, err := m.store.Entries().ListByAccount(ctx, acc.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return list, nil
}

func normalizeAdjustment(adj Adjustment) (Adjustment, error) {
	id, err := domain.NormalizeIdentity(adj.Identity)
	if err != nil {
		return Adjustment{}, err
	}

	adj.Identity = id

	if adj.Delta == 0 {
		return Adjustment{}, fmt.Errorf("%w: delta must not be zero", domain.ErrInvalidArgument)
	}

	if adj.Delta == math.MinInt64 {
		return Adjustment{}, fmt.Errorf("%w: delta out of range", domain.ErrInvalidArgument)
	}

	if len(adj.Key) > maxKeyLen {
		return Adjustment{}, fmt.Errorf("%w: key longer than %d characters", domain.ErrInvalidArgument, maxKeyLen)
	}

	if adj.Kind == "" {
		adj.Kind = domain.EntryAdjustment
	}

	return adj, nil
}
