package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/weaveworks/subscription-timeline/timeline"
	"github.com/weaveworks/subscription-timeline/timeline/db"
)

// GetBundle stores a bundle with a random ID for a new account.
func GetBundle(t *testing.T, database db.DB, timeZone string) db.Bundle {
	bundle := db.Bundle{
		ID:              uuid.New(),
		AccountID:       uuid.New(),
		ExternalKey:     uuid.New().String(),
		AccountTimeZone: timeZone,
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, database.InsertBundle(context.Background(), bundle))
	return bundle
}

// GetEntitlement stores an entitlement of the bundle created at the given
// time, with a trial phase.
func GetEntitlement(t *testing.T, database db.DB, bundleID uuid.UUID, created time.Time) timeline.Entitlement {
	id := uuid.New()
	ent := timeline.Entitlement{
		ID: id,
		Transitions: []timeline.Transition{{
			EntitlementID: id,
			Type:          timeline.TransitionCreate,
			RequestedTime: created,
			EffectiveTime: created,
			CreatedTime:   created,
			NextPhase:     &timeline.Phase{Name: "trial", Plan: "standard-monthly", Product: "Standard", PriceList: "DEFAULT"},
			TotalOrdering: 1,
		}},
	}
	require.NoError(t, database.InsertEntitlement(context.Background(), bundleID, ent))
	return ent
}
