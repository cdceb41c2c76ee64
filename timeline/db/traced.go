package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/weaveworks/subscription-timeline/timeline"
)

// traced adds logrus trace lines on each db call
type traced struct {
	d DB
}

func (t traced) trace(name string, args ...interface{}) {
	logrus.Debugf("%s: %#v", name, args)
}

func (t traced) GetBundle(ctx context.Context, bundleID uuid.UUID) (bundle *Bundle, err error) {
	defer func() { t.trace("GetBundle", bundleID, bundle, err) }()
	return t.d.GetBundle(ctx, bundleID)
}

func (t traced) GetEntitlements(ctx context.Context, bundleID uuid.UUID) (es []timeline.Entitlement, err error) {
	// Transitions are not dumped, they flood the debug logs.
	defer func() { t.trace("GetEntitlements", bundleID, len(es), err) }()
	return t.d.GetEntitlements(ctx, bundleID)
}

func (t traced) GetBlockingStates(ctx context.Context, accountID, bundleID uuid.UUID, entitlementIDs []uuid.UUID) (bs []timeline.BlockingState, err error) {
	defer func() { t.trace("GetBlockingStates", accountID, bundleID, entitlementIDs, len(bs), err) }()
	return t.d.GetBlockingStates(ctx, accountID, bundleID, entitlementIDs)
}

func (t traced) InsertBundle(ctx context.Context, bundle Bundle) (err error) {
	defer func() { t.trace("InsertBundle", bundle, err) }()
	return t.d.InsertBundle(ctx, bundle)
}

func (t traced) InsertEntitlement(ctx context.Context, bundleID uuid.UUID, entitlement timeline.Entitlement) (err error) {
	defer func() { t.trace("InsertEntitlement", bundleID, entitlement.ID, len(entitlement.Transitions), err) }()
	return t.d.InsertEntitlement(ctx, bundleID, entitlement)
}

func (t traced) InsertBlockingStates(ctx context.Context, states []timeline.BlockingState) (err error) {
	defer func() { t.trace("InsertBlockingStates", len(states), err) }()
	return t.d.InsertBlockingStates(ctx, states)
}

func (t traced) Transaction(f func(DB) error) error {
	// We don't trace transactions as they are only used in tests
	return t.d.Transaction(f)
}

func (t traced) Close(ctx context.Context) (err error) {
	defer func() { t.trace("Close", err) }()
	return t.d.Close(ctx)
}
