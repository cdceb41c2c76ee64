package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/weaveworks/common/instrument"

	"github.com/weaveworks/subscription-timeline/timeline"
)

var durationCollector = instrument.NewHistogramCollector(prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "timeline",
	Name:      "db_duration_seconds",
	Help:      "Time spent talking to the DB.",
	Buckets:   prometheus.DefBuckets,
}, instrument.HistogramCollectorBuckets))

func init() {
	durationCollector.Register()
}

// timed adds prometheus timings to another database implementation
type timed struct {
	d DB
}

func (t timed) timeRequest(ctx context.Context, method string, f func(context.Context) error) error {
	return instrument.CollectedRequest(ctx, method, durationCollector, nil, f)
}

func (t timed) GetBundle(ctx context.Context, bundleID uuid.UUID) (bundle *Bundle, err error) {
	t.timeRequest(ctx, "GetBundle", func(ctx context.Context) error {
		bundle, err = t.d.GetBundle(ctx, bundleID)
		return err
	})
	return
}

func (t timed) GetEntitlements(ctx context.Context, bundleID uuid.UUID) (es []timeline.Entitlement, err error) {
	t.timeRequest(ctx, "GetEntitlements", func(ctx context.Context) error {
		es, err = t.d.GetEntitlements(ctx, bundleID)
		return err
	})
	return
}

func (t timed) GetBlockingStates(ctx context.Context, accountID, bundleID uuid.UUID, entitlementIDs []uuid.UUID) (bs []timeline.BlockingState, err error) {
	t.timeRequest(ctx, "GetBlockingStates", func(ctx context.Context) error {
		bs, err = t.d.GetBlockingStates(ctx, accountID, bundleID, entitlementIDs)
		return err
	})
	return
}

func (t timed) InsertBundle(ctx context.Context, bundle Bundle) error {
	return t.timeRequest(ctx, "InsertBundle", func(ctx context.Context) error {
		return t.d.InsertBundle(ctx, bundle)
	})
}

func (t timed) InsertEntitlement(ctx context.Context, bundleID uuid.UUID, entitlement timeline.Entitlement) error {
	return t.timeRequest(ctx, "InsertEntitlement", func(ctx context.Context) error {
		return t.d.InsertEntitlement(ctx, bundleID, entitlement)
	})
}

func (t timed) InsertBlockingStates(ctx context.Context, states []timeline.BlockingState) error {
	return t.timeRequest(ctx, "InsertBlockingStates", func(ctx context.Context) error {
		return t.d.InsertBlockingStates(ctx, states)
	})
}

func (t timed) Transaction(f func(DB) error) error {
	// We don't time transactions as they are only used in tests
	return t.d.Transaction(f)
}

func (t timed) Close(ctx context.Context) error {
	return t.timeRequest(ctx, "Close", func(ctx context.Context) error {
		return t.d.Close(ctx)
	})
}
