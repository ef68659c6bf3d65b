package entries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/infra/pgutils"
	"github.com/fastprodman/fliprooms/internal/repos/entries"
)

var _ entries.Entries = (*entriesRepo)(nil)

type entriesRepo struct{ q pgutils.Querier }

func New(q pgutils.Querier) *entriesRepo {
	return &entriesRepo{q: q}
}

func (r *entriesRepo) Insert(ctx context.Context, e domain.Entry) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, account_id, kind, delta, balance_after, room_id, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.AccountID, string(e.Kind), e.Delta, e.BalanceAfter,
		pgutils.NullString(e.RoomID), pgutils.NullString(e.Key), e.CreatedAt)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return entries.ErrDuplicateEntry
		}

		return fmt.Errorf("insert ledger entry: %w", err)
	}

	return nil
}

// ListByAccount returns entries newest first. seq follows insert order, so
// entries sharing a timestamp keep their order.
func (r *entriesRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Entry, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, account_id, kind, delta, balance_after, room_id, idempotency_key, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY seq DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	out := make([]domain.Entry, 0)

	for rows.Next() {
		var (
			e         domain.Entry
			kind      string
			room, key sql.NullString
		)

		err = rows.Scan(&e.ID, &e.AccountID, &kind, &e.Delta, &e.BalanceAfter, &room, &key, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}

		e.Kind = domain.EntryKind(kind)
		e.RoomID = room.String
		e.Key = key.String

		out = append(out, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}

	return out, nil
}
