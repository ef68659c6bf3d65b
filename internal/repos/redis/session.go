package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fastprodman/fliprooms/internal/repos/accounts"
	"github.com/fastprodman/fliprooms/internal/repos/entries"
	"github.com/fastprodman/fliprooms/internal/repos/rooms"
)

type stagedValue struct {
	value   string
	deleted bool
}

// session is one optimistic transaction. String keys written through set/del
// are visible to later reads in the same session; list and sorted-set writes
// are only visible after commit.
type session struct {
	tx      *redis.Tx
	watched map[string]struct{}
	staged  map[string]stagedValue
	ops     []func(pipe redis.Pipeliner)
}

func newSession(tx *redis.Tx) *session {
	return &session{
		tx:      tx,
		watched: make(map[string]struct{}),
		staged:  make(map[string]stagedValue),
	}
}

func (s *session) run(_ context.Context, fn func(sess *session) error) error {
	return fn(s)
}

func (s *session) Accounts() accounts.Accounts { return &accountsRepo{sc: s} }
func (s *session) Rooms() rooms.Rooms          { return &roomsRepo{sc: s} }
func (s *session) Games() rooms.Games          { return &gamesRepo{sc: s} }
func (s *session) Entries() entries.Entries    { return &entriesRepo{sc: s} }

func (s *session) watch(ctx context.Context, keys ...string) error {
	fresh := make([]string, 0, len(keys))

	for _, k := range keys {
		if _, ok := s.watched[k]; ok {
			continue
		}

		s.watched[k] = struct{}{}
		fresh = append(fresh, k)
	}

	if len(fresh) == 0 {
		return nil
	}

	err := s.tx.Watch(ctx, fresh...).Err()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	return nil
}

func (s *session) get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := s.staged[key]; ok {
		return v.value, !v.deleted, nil
	}

	err := s.watch(ctx, key)
	if err != nil {
		return "", false, err
	}

	val, err := s.tx.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("get %s: %w", key, err)
	}

	return val, true, nil
}

func (s *session) set(ctx context.Context, key, value string) {
	s.staged[key] = stagedValue{value: value}
	s.ops = append(s.ops, func(pipe redis.Pipeliner) {
		pipe.Set(ctx, key, value, 0)
	})
}

func (s *session) del(ctx context.Context, key string) {
	s.staged[key] = stagedValue{deleted: true}
	s.ops = append(s.ops, func(pipe redis.Pipeliner) {
		pipe.Del(ctx, key)
	})
}

func (s *session) stage(op func(pipe redis.Pipeliner)) {
	s.ops = append(s.ops, op)
}

func (s *session) commit(ctx context.Context) error {
	if len(s.ops) == 0 {
		return nil
	}

	_, err := s.tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range s.ops {
			op(pipe)
		}

		return nil
	})

	return err
}

func getJSON[T any](ctx context.Context, s *session, key string) (T, bool, error) {
	var v T

	raw, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}

	err = json.Unmarshal([]byte(raw), &v)
	if err != nil {
		return v, false, fmt.Errorf("decode %s: %w", key, err)
	}

	return v, true, nil
}

func (s *session) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.set(ctx, key, string(data))

	return nil
}
