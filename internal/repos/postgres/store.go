// Package postgres backs repos.Store with a database/sql pool on the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/fliprooms/internal/config"
	"github.com/fastprodman/fliprooms/internal/infra/pgutils"
	"github.com/fastprodman/fliprooms/internal/repos"
	"github.com/fastprodman/fliprooms/internal/repos/accounts"
	pgaccounts "github.com/fastprodman/fliprooms/internal/repos/accounts/postgres"
	"github.com/fastprodman/fliprooms/internal/repos/entries"
	pgentries "github.com/fastprodman/fliprooms/internal/repos/entries/postgres"
	"github.com/fastprodman/fliprooms/internal/repos/rooms"
	pgrooms "github.com/fastprodman/fliprooms/internal/repos/rooms/postgres"
)

var _ repos.Store = (*Store)(nil)

// Store runs every transaction on one *sql.Tx so row locks taken by one
// repository are visible to the others.
type Store struct {
	db *sql.DB
	session
}

type session struct {
	accounts accounts.Accounts
	rooms    rooms.Rooms
	games    rooms.Games
	entries  entries.Entries
}

func newSession(q pgutils.Querier) session {
	return session{
		accounts: pgaccounts.New(q),
		rooms:    pgrooms.NewRooms(q),
		games:    pgrooms.NewGames(q),
		entries:  pgentries.New(q),
	}
}

func (s session) Accounts() accounts.Accounts { return s.accounts }
func (s session) Rooms() rooms.Rooms          { return s.rooms }
func (s session) Games() rooms.Games          { return s.games }
func (s session) Entries() entries.Entries    { return s.entries }

// New wraps an already opened pool. The caller keeps ownership of db unless it
// calls Close.
func New(db *sql.DB) *Store {
	return &Store{db: db, session: newSession(db)}
}

// Open connects using cfg and returns a ready store.
func Open(ctx context.Context, cfg config.PostgresConfig) (*Store, error) {
	db, err := pgutils.OpenDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	return New(db), nil
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repos.Tx) error) error {
	return pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(ctx, newSession(tx))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
