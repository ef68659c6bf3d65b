package accounts

import (
	"context"
	"fmt"

	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/infra/pgutils"
	"github.com/fastprodman/fliprooms/internal/repos/accounts"
)

func (r *accountsRepo) Insert(ctx context.Context, acc domain.Account) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO accounts (id, identity, display_name, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, acc.ID, acc.Identity, acc.DisplayName, acc.Balance, acc.CreatedAt, acc.UpdatedAt)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return accounts.ErrAccountExists
		}

		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}
