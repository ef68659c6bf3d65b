package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fastprodman/fliprooms/internal/repos/accounts"
)

// ApplyDelta is a single conditional update, atomic even without a surrounding
// transaction. Zero rows means either a missing account or a would-be negative
// balance; the follow-up existence check tells them apart.
func (r *accountsRepo) ApplyDelta(ctx context.Context, identity string, delta int64, at time.Time) (int64, error) {
	var balance int64

	err := r.q.QueryRowContext(ctx, `
		UPDATE accounts
		SET balance = balance + $2, updated_at = $3
		WHERE identity = $1
		  AND balance + $2 >= 0
		RETURNING balance
	`, identity, delta, at).Scan(&balance)
	if err == nil {
		return balance, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("apply delta: %w", err)
	}

	var exists bool

	err = r.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM accounts WHERE identity = $1)
	`, identity).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check exists: %w", err)
	}

	if !exists {
		return 0, accounts.ErrAccountNotFound
	}

	return 0, accounts.ErrInsufficientFunds
}
