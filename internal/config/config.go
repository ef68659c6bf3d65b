package config

import "time"

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN" default:""`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"10"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

type RedisConfig struct {
	URL          string `env:"REDIS_URL" default:"redis://localhost:6379/0"`
	PoolSize     int    `env:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" default:"2"`
	// TxMaxRetries bounds optimistic-commit retries of one WithTx call.
	TxMaxRetries int `env:"REDIS_TX_MAX_RETRIES" default:"32"`
}

type StoreConfig struct {
	Backend  string `env:"STORE_BACKEND" default:"postgres" enum:"postgres,redis"`
	Postgres PostgresConfig
	Redis    RedisConfig
}
