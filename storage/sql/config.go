package sql

import "time"

// Config carries the connection-pool tuning knobs the teacher's
// sqlcommon.Config exposes, trimmed to what this store actually uses.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	// ConnectTimeout bounds the exponential-backoff ping loop New runs
	// before giving up on the connection.
	ConnectTimeout time.Duration
}
