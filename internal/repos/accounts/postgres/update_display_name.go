package accounts

import (
	"context"
	"time"

	"github.com/fastprodman/fliprooms/internal/domain"
)

func (r *accountsRepo) UpdateDisplayName(ctx context.Context, identity, name string, at time.Time) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE accounts
		SET display_name = $2, updated_at = $3
		WHERE identity = $1
		RETURNING `+accountColumns, identity, name, at)

	return scanAccount(row)
}
