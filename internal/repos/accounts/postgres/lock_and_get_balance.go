package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/fliprooms/internal/repos/accounts"
)

func (r *accountsRepo) LockAndGetBalance(ctx context.Context, identity string) (int64, error) {
	var balance int64

	err := r.q.QueryRowContext(ctx, `
		SELECT balance
		FROM accounts
		WHERE identity = $1
		FOR UPDATE
	`, identity).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, accounts.ErrAccountNotFound
		}

		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return balance, nil
}
