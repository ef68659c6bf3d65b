// Package redis backs repos.Store with Redis. Every scope is an optimistic
// WATCH/MULTI/EXEC transaction: keys are watched before they are read, writes
// are staged and sent in one MULTI/EXEC, and a conflicting commit reruns the
// scope.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fastprodman/fliprooms/internal/config"
	"github.com/fastprodman/fliprooms/internal/repos"
	"github.com/fastprodman/fliprooms/internal/repos/accounts"
	"github.com/fastprodman/fliprooms/internal/repos/entries"
	"github.com/fastprodman/fliprooms/internal/repos/rooms"
)

// ErrTxContention is returned when a scope keeps losing its optimistic commit.
var ErrTxContention = errors.New("redis transaction retries exhausted")

const defaultTxMaxRetries = 32

var _ repos.Store = (*Store)(nil)

type Store struct {
	client     *redis.Client
	maxRetries int
}

// New connects to the server named by cfg.URL and verifies the connection.
func New(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client (tests use miniredis).
func NewWithClient(client *redis.Client, cfg config.RedisConfig) *Store {
	retries := cfg.TxMaxRetries
	if retries <= 0 {
		retries = defaultTxMaxRetries
	}

	return &Store{client: client, maxRetries: retries}
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Repositories handed out by the store run each call in its own scope.

func (s *Store) Accounts() accounts.Accounts { return &accountsRepo{sc: autoScope{s}} }
func (s *Store) Rooms() rooms.Rooms          { return &roomsRepo{sc: autoScope{s}} }
func (s *Store) Games() rooms.Games          { return &gamesRepo{sc: autoScope{s}} }
func (s *Store) Entries() entries.Entries    { return &entriesRepo{sc: autoScope{s}} }

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repos.Tx) error) error {
	return s.run(ctx, func(sess *session) error {
		return fn(ctx, sess)
	})
}

// run executes fn in a fresh session and commits its staged writes. fn is
// rerun from scratch when a watched key changed before EXEC.
func (s *Store) run(ctx context.Context, fn func(sess *session) error) error {
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			sess := newSession(tx)

			err := fn(sess)
			if err != nil {
				return err
			}

			return sess.commit(ctx)
		})
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return err
	}

	return ErrTxContention
}

// scope is where a repository call runs: either inside an open session or in
// a one-off session of its own.
type scope interface {
	run(ctx context.Context, fn func(sess *session) error) error
}

type autoScope struct{ store *Store }

func (a autoScope) run(ctx context.Context, fn func(sess *session) error) error {
	return a.store.run(ctx, fn)
}
