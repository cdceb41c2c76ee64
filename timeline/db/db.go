package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/weaveworks/subscription-timeline/common/dbconfig"
	"github.com/weaveworks/subscription-timeline/timeline"
)

// Bundle represents a database row in table `bundles`.
type Bundle struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	ExternalKey string
	// AccountTimeZone is an IANA timezone name, empty if unknown.
	AccountTimeZone string
	CreatedAt       time.Time
}

//go:generate mockgen -destination=mock_db/mock_db.go github.com/weaveworks/subscription-timeline/timeline/db DB

// DB is the interface for the database.
type DB interface {
	// GetBundle returns ErrNotFound if there is no such bundle.
	GetBundle(ctx context.Context, bundleID uuid.UUID) (*Bundle, error)
	// GetEntitlements returns the entitlements of a bundle in creation order,
	// each with its transitions sorted by total ordering.
	GetEntitlements(ctx context.Context, bundleID uuid.UUID) ([]timeline.Entitlement, error)
	// GetBlockingStates returns the blocking states of the account, of the
	// bundle, and of the given entitlements.
	GetBlockingStates(ctx context.Context, accountID, bundleID uuid.UUID, entitlementIDs []uuid.UUID) ([]timeline.BlockingState, error)

	InsertBundle(ctx context.Context, bundle Bundle) error
	// InsertEntitlement records an entitlement of an existing bundle, along
	// with its transitions. Transitions of an already known entitlement are
	// added to it.
	InsertEntitlement(ctx context.Context, bundleID uuid.UUID, entitlement timeline.Entitlement) error
	InsertBlockingStates(ctx context.Context, states []timeline.BlockingState) error

	// Transaction runs the given function in a transaction. If fn returns
	// an error the txn will be rolled back.
	Transaction(f func(DB) error) error

	Close(ctx context.Context) error
}

// New creates a new database from the URI
func New(cfg dbconfig.Config) (DB, error) {
	scheme, dataSourceName, migrationsDir, err := cfg.Parameters()
	if err != nil {
		return nil, err
	}
	var d DB
	switch scheme {
	case "memory":
		d = newMemory()
	case "postgres":
		d, err = newPostgres(dataSourceName, migrationsDir)
	default:
		return nil, fmt.Errorf("Unknown database type: %s", scheme)
	}
	if err != nil {
		return nil, err
	}
	return traced{timed{d}}, nil
}
