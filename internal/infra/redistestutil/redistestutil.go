package redistestutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fastprodman/fliprooms/internal/config"
	redisstore "github.com/fastprodman/fliprooms/internal/repos/redis"
)

// NewTestStore starts an in-process Redis and returns a store bound to it.
// Both are closed when the test ends.
func NewTestStore(t testing.TB) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mini := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	store := redisstore.NewWithClient(client, config.RedisConfig{TxMaxRetries: 64})

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store, mini
}
