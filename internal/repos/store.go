// Package repos defines the storage unit of work shared by all backends.
package repos

import (
	"context"

	"github.com/fastprodman/fliprooms/internal/repos/accounts"
	"github.com/fastprodman/fliprooms/internal/repos/entries"
	"github.com/fastprodman/fliprooms/internal/repos/rooms"
)

// Tx is a set of repositories bound to one transactional scope.
type Tx interface {
	Accounts() accounts.Accounts
	Rooms() rooms.Rooms
	Games() rooms.Games
	Entries() entries.Entries
}

// Store hands out repositories for plain reads and runs fn inside a single
// transaction. fn's changes are committed if it returns nil and discarded
// otherwise. Backends with optimistic commits may run fn more than once, so fn
// must not have side effects outside tx.
type Store interface {
	Tx
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}
