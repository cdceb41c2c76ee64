package dbwait

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// timeout waiting for database connection to be established
const timeout = 5 * time.Minute

// Wait waits for database connection to be established, until the timeout
// elapses or ctx is done.
func Wait(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	var err error
	for tries := 0; ; tries++ {
		err = db.PingContext(ctx)
		if err == nil {
			return nil
		}
		log.Debugf("db connection not established, error: %s; retrying...", err)
		select {
		case <-ctx.Done():
			return errors.Wrapf(err, "db connection not established after %d tries", tries+1)
		case <-time.After(backoff(tries)):
		}
	}
}

func backoff(tries int) time.Duration {
	if tries > 5 {
		tries = 5
	}
	return time.Second << uint(tries)
}
