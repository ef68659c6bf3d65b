package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fastprodman/fliprooms/internal/domain"
	"github.com/fastprodman/fliprooms/internal/repos/entries"
)

var _ entries.Entries = (*entriesRepo)(nil)

type entriesRepo struct{ sc scope }

func (r *entriesRepo) Insert(ctx context.Context, e domain.Entry) error {
	return r.sc.run(ctx, func(s *session) error {
		_, accountExists, err := s.get(ctx, accountIDIndexKey(e.AccountID))
		if err != nil {
			return err
		}

		if !accountExists {
			return fmt.Errorf("insert ledger entry: account: %w", domain.ErrNotFound)
		}

		if e.Key != "" {
			_, used, err := s.get(ctx, entryKeyIndexKey(e.Key))
			if err != nil {
				return err
			}

			if used {
				return entries.ErrDuplicateEntry
			}

			s.set(ctx, entryKeyIndexKey(e.Key), e.ID)
		}

		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode ledger entry: %w", err)
		}

		s.stage(func(pipe redis.Pipeliner) {
			pipe.LPush(ctx, entriesKey(e.AccountID), data)
		})

		return nil
	})
}

func (r *entriesRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.Entry, error) {
	out := make([]domain.Entry, 0)

	if limit <= 0 {
		return out, nil
	}

	err := r.sc.run(ctx, func(s *session) error {
		out = out[:0]

		err := s.watch(ctx, entriesKey(accountID))
		if err != nil {
			return err
		}

		raw, err := s.tx.LRange(ctx, entriesKey(accountID), 0, int64(limit-1)).Result()
		if err != nil {
			return fmt.Errorf("list ledger entries: %w", err)
		}

		for _, item := range raw {
			var e domain.Entry

			err = json.Unmarshal([]byte(item), &e)
			if err != nil {
				return fmt.Errorf("decode ledger entry: %w", err)
			}

			out = append(out, e)
		}

		return nil
	})

	return out, err
}
