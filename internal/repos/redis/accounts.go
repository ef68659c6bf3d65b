package redis

import (
	"context"
	"time"

	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/repos/accounts"
)

var _ accounts.Accounts = (*accountsRepo)(nil)

type accountsRepo struct{ sc scope }

func (r *accountsRepo) Insert(ctx context.Context, acc domain.Account) error {
	return r.sc.run(ctx, func(s *session) error {
		_, exists, err := s.get(ctx, accountKey(acc.Identity))
		if err != nil {
			return err
		}

		if exists {
			return accounts.ErrAccountExists
		}

		err = s.setJSON(ctx, accountKey(acc.Identity), acc)
		if err != nil {
			return err
		}

		s.set(ctx, accountIDIndexKey(acc.ID), acc.Identity)

		return nil
	})
}

func (r *accountsRepo) GetByIdentity(ctx context.Context, identity string) (domain.Account, error) {
	var acc domain.Account

	err := r.sc.run(ctx, func(s *session) error {
		var err error
		acc, err = loadAccount(ctx, s, identity)
		return err
	})

	return acc, err
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	var acc domain.Account

	err := r.sc.run(ctx, func(s *session) error {
		identity, ok, err := s.get(ctx, accountIDIndexKey(id))
		if err != nil {
			return err
		}

		if !ok {
			return accounts.ErrAccountNotFound
		}

		acc, err = loadAccount(ctx, s, identity)
		return err
	})

	return acc, err
}

func (r *accountsRepo) UpdateDisplayName(ctx context.Context, identity, name string, at time.Time) (domain.Account, error) {
	var acc domain.Account

	err := r.sc.run(ctx, func(s *session) error {
		var err error

		acc, err = loadAccount(ctx, s, identity)
		if err != nil {
			return err
		}

		acc.DisplayName = name
		acc.UpdatedAt = at

		return s.setJSON(ctx, accountKey(identity), acc)
	})

	return acc, err
}

// LockAndGetBalance watches the account key, so a concurrent write to it
// aborts the enclosing session at commit.
func (r *accountsRepo) LockAndGetBalance(ctx context.Context, identity string) (int64, error) {
	acc, err := r.GetByIdentity(ctx, identity)
	if err != nil {
		return 0, err
	}

	return acc.Balance, nil
}

func (r *accountsRepo) ApplyDelta(ctx context.Context, identity string, delta int64, at time.Time) (int64, error) {
	var balance int64

	err := r.sc.run(ctx, func(s *session) error {
		acc, err := loadAccount(ctx, s, identity)
		if err != nil {
			return err
		}

		if acc.Balance+delta < 0 {
			return accounts.ErrInsufficientFunds
		}

		acc.Balance += delta
		acc.UpdatedAt = at
		balance = acc.Balance

		return s.setJSON(ctx, accountKey(identity), acc)
	})

	return balance, err
}

func loadAccount(ctx context.Context, s *session, identity string) (domain.Account, error) {
	acc, ok, err := getJSON[domain.Account](ctx, s, accountKey(identity))
	if err != nil {
		return domain.Account{}, err
	}

	if !ok {
		return domain.Account{}, accounts.ErrAccountNotFound
	}

	return acc, nil
}
