package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaveworks/subscription-timeline/common/dbconfig"
	common_errors "github.com/weaveworks/subscription-timeline/common/errors"
	"github.com/weaveworks/subscription-timeline/timeline"
	"github.com/weaveworks/subscription-timeline/timeline/db"
	"github.com/weaveworks/subscription-timeline/timeline/db/dbtest"
)

var created = time.Date(2013, 1, 1, 15, 43, 25, 0, time.UTC)

func TestNew_UnknownScheme(t *testing.T) {
	_, err := db.New(dbconfig.New("mysql://localhost/timeline", "", ""))
	assert.Error(t, err)
}

func TestDB_GetBundle(t *testing.T) {
	d := dbtest.Setup(t)
	defer dbtest.Cleanup(t, d)
	ctx := context.Background()

	bundle := dbtest.GetBundle(t, d, "Europe/London")
	got, err := d.GetBundle(ctx, bundle.ID)
	require.NoError(t, err)
	assert.Equal(t, bundle.ID, got.ID)
	assert.Equal(t, bundle.AccountID, got.AccountID)
	assert.Equal(t, bundle.ExternalKey, got.ExternalKey)
	assert.Equal(t, "Europe/London", got.AccountTimeZone)

	_, err = d.GetBundle(ctx, uuid.New())
	assert.Equal(t, common_errors.ErrNotFound, errors.Cause(err))
}

func TestDB_GetEntitlements(t *testing.T) {
	d := dbtest.Setup(t)
	defer dbtest.Cleanup(t, d)
	ctx := context.Background()

	bundle := dbtest.GetBundle(t, d, "")
	first := dbtest.GetEntitlement(t, d, bundle.ID, created)
	second := dbtest.GetEntitlement(t, d, bundle.ID, created.AddDate(0, 0, 1))
	dbtest.GetEntitlement(t, d, dbtest.GetBundle(t, d, "").ID, created)

	// Later transitions, inserted out of order.
	cancel := timeline.Transition{
		EntitlementID: first.ID,
		Type:          timeline.TransitionCancel,
		RequestedTime: created.AddDate(0, 0, 45),
		EffectiveTime: created.AddDate(0, 0, 45),
		CreatedTime:   created.AddDate(0, 0, 2),
		PrevPhase:     &timeline.Phase{Name: "evergreen", Plan: "standard-monthly", Product: "Standard", PriceList: "DEFAULT"},
		TotalOrdering: 3,
	}
	phase := timeline.Transition{
		EntitlementID: first.ID,
		Type:          timeline.TransitionPhase,
		RequestedTime: created.AddDate(0, 0, 30),
		EffectiveTime: created.AddDate(0, 0, 30),
		CreatedTime:   created.AddDate(0, 0, 1),
		PrevPhase:     first.Transitions[0].NextPhase,
		NextPhase:     cancel.PrevPhase,
		TotalOrdering: 2,
	}
	require.NoError(t, d.InsertEntitlement(ctx, bundle.ID, timeline.Entitlement{ID: first.ID, Transitions: []timeline.Transition{cancel}}))
	require.NoError(t, d.InsertEntitlement(ctx, bundle.ID, timeline.Entitlement{ID: first.ID, Transitions: []timeline.Transition{phase}}))

	ents, err := d.GetEntitlements(ctx, bundle.ID)
	require.NoError(t, err)
	require.Len(t, ents, 2)
	assert.Equal(t, first.ID, ents[0].ID)
	assert.Equal(t, second.ID, ents[1].ID)

	trs := ents[0].Transitions
	require.Len(t, trs, 3)
	for i, expected := range []timeline.Transition{first.Transitions[0], phase, cancel} {
		assert.Equal(t, expected.EntitlementID, trs[i].EntitlementID)
		assert.Equal(t, expected.Type, trs[i].Type)
		assert.Equal(t, expected.TotalOrdering, trs[i].TotalOrdering)
		assert.True(t, expected.EffectiveTime.Equal(trs[i].EffectiveTime), "transition %d effective time", i)
		assert.Equal(t, expected.PrevPhase, trs[i].PrevPhase)
		assert.Equal(t, expected.NextPhase, trs[i].NextPhase)
	}

	none, err := d.GetEntitlements(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDB_InsertEntitlementUnknownBundle(t *testing.T) {
	d := dbtest.Setup(t)
	defer dbtest.Cleanup(t, d)

	err := d.InsertEntitlement(context.Background(), uuid.New(), timeline.Entitlement{ID: uuid.New()})
	assert.Error(t, err)
}

func TestDB_GetBlockingStates(t *testing.T) {
	d := dbtest.Setup(t)
	defer dbtest.Cleanup(t, d)
	ctx := context.Background()

	bundle := dbtest.GetBundle(t, d, "")
	ent := dbtest.GetEntitlement(t, d, bundle.ID, created)
	other := dbtest.GetBundle(t, d, "")

	state := func(blockedID uuid.UUID, typ timeline.BlockingStateType, days int) timeline.BlockingState {
		at := created.AddDate(0, 0, days)
		return timeline.BlockingState{
			ID:               uuid.New(),
			BlockedID:        blockedID,
			Type:             typ,
			StateName:        timeline.StateBlocked,
			Service:          timeline.EntitlementService,
			BlockChange:      true,
			BlockEntitlement: true,
			EffectiveTime:    at,
			CreatedTime:      at,
			UpdatedTime:      at,
		}
	}
	account := state(bundle.AccountID, timeline.BlockingAccount, 3)
	bundled := state(bundle.ID, timeline.BlockingBundle, 2)
	subscription := state(ent.ID, timeline.BlockingSubscription, 1)
	require.NoError(t, d.InsertBlockingStates(ctx, []timeline.BlockingState{
		account,
		bundled,
		subscription,
		state(other.ID, timeline.BlockingBundle, 1),
		state(other.AccountID, timeline.BlockingAccount, 1),
		state(uuid.New(), timeline.BlockingSubscription, 1),
	}))

	states, err := d.GetBlockingStates(ctx, bundle.AccountID, bundle.ID, []uuid.UUID{ent.ID})
	require.NoError(t, err)
	require.Len(t, states, 3)
	for i, expected := range []timeline.BlockingState{subscription, bundled, account} {
		assert.Equal(t, expected.ID, states[i].ID)
		assert.Equal(t, expected.BlockedID, states[i].BlockedID)
		assert.Equal(t, expected.Type, states[i].Type)
		assert.Equal(t, expected.StateName, states[i].StateName)
		assert.Equal(t, expected.Service, states[i].Service)
		assert.True(t, states[i].BlockEntitlement)
		assert.False(t, states[i].BlockBilling)
		assert.True(t, expected.EffectiveTime.Equal(states[i].EffectiveTime))
	}

	// Without entitlements only the wider scopes are returned.
	states, err = d.GetBlockingStates(ctx, bundle.AccountID, bundle.ID, nil)
	require.NoError(t, err)
	assert.Len(t, states, 2)
}

func TestDB_InsertBlockingStatesDuplicate(t *testing.T) {
	d := dbtest.Setup(t)
	defer dbtest.Cleanup(t, d)
	ctx := context.Background()

	bundle := dbtest.GetBundle(t, d, "")
	state := func() timeline.BlockingState {
		return timeline.BlockingState{
			ID:            uuid.New(),
			BlockedID:     bundle.ID,
			Type:          timeline.BlockingBundle,
			StateName:     timeline.StateBlocked,
			Service:       timeline.EntitlementService,
			EffectiveTime: created,
			CreatedTime:   created,
			UpdatedTime:   created,
		}
	}
	first := state()
	require.NoError(t, d.InsertBlockingStates(ctx, []timeline.BlockingState{first}))

	// Re-inserting an existing ID fails and leaves the rest of the batch out.
	second := state()
	assert.Error(t, d.InsertBlockingStates(ctx, []timeline.BlockingState{second, first}))
	assert.Error(t, d.InsertBlockingStates(ctx, []timeline.BlockingState{second, second}))

	states, err := d.GetBlockingStates(ctx, bundle.AccountID, bundle.ID, nil)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, first.ID, states[0].ID)
}
