// Package storetestutil lets service tests run one suite against every store
// backend.
package storetestutil

import (
	"testing"

	"github.com/fastprodman/fliprooms/internal/infra/pgtestutil"
	"github.com/fastprodman/fliprooms/internal/infra/redistestutil"
	"github.com/fastprodman/fliprooms/internal/repos"
	pgstore "github.com/fastprodman/fliprooms/internal/repos/postgres"
)

// Backend opens a fresh, empty store that is torn down with the test.
type Backend struct {
	Name string
	Open func(t *testing.T) repos.Store
	// NeedsServer marks backends that talk to a real server (PG_TEST_DSN).
	NeedsServer bool
}

// Backends lists every store implementation.
func Backends() []Backend {
	return []Backend{
		{Name: "redis", Open: openRedis},
		{Name: "postgres", Open: openPostgres, NeedsServer: true},
	}
}

// Run calls fn once per backend in a subtest named after it. Backends that
// need a server are skipped under -short.
func Run(t *testing.T, fn func(t *testing.T, open func(t *testing.T) repos.Store)) {
	t.Helper()

	for _, b := range Backends() {
		t.Run(b.Name, func(t *testing.T) {
			if b.NeedsServer && testing.Short() {
				t.Skipf("%s store needs a server, skipped in short mode", b.Name)
			}

			fn(t, b.Open)
		})
	}
}

func openRedis(t *testing.T) repos.Store {
	t.Helper()

	store, _ := redistestutil.NewTestStore(t)

	return store
}

func openPostgres(t *testing.T) repos.Store {
	t.Helper()

	db, cleanup := pgtestutil.NewTestDB(t)
	t.Cleanup(cleanup)

	return pgstore.New(db)
}
