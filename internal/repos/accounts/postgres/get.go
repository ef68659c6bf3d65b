package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/repos/accounts"
)

func (r *accountsRepo) GetByIdentity(ctx context.Context, identity string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE identity = $1
	`, identity)

	return scanAccount(row)
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)

	return scanAccount(row)
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var acc domain.Account

	err := row.Scan(&acc.ID, &acc.Identity, &acc.DisplayName, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, accounts.ErrAccountNotFound
		}

		return domain.Account{}, fmt.Errorf("scan account: %w", err)
	}

	return acc, nil
}
