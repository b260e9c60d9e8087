package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// How long Open keeps retrying an unreachable database.
const connectTimeout = 30 * time.Second

// Open a database handle for driver ("sqlite" or "pgx") and wait until it answers a ping.
// Drivers are registered by the binaries that use them.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("openDB: open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// One writer at a time; also keeps ":memory:" databases on a single connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = connectTimeout

	ping := func() error {
		return db.PingContext(ctx)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("driver", driver).Dur("retry_in", wait).Msg("Database not reachable yet")
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(retry, ctx), notify); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("openDB: verify %s connection: %w", driver, err)
	}

	return db, nil
}
