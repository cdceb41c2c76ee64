package db

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	common_errors "github.com/weaveworks/subscription-timeline/common/errors"
	"github.com/weaveworks/subscription-timeline/timeline"
)

// memory is an in-memory database for testing, and local development
type memory struct {
	mtx            sync.RWMutex
	bundles        map[uuid.UUID]Bundle
	entitlements   map[uuid.UUID][]uuid.UUID // Maps bundles to their entitlements, in creation order
	owners         map[uuid.UUID]uuid.UUID   // Maps entitlements to their bundle
	transitions    map[uuid.UUID][]timeline.Transition
	blockingStates map[uuid.UUID]timeline.BlockingState
}

func newMemory() *memory {
	return &memory{
		bundles:        make(map[uuid.UUID]Bundle),
		entitlements:   make(map[uuid.UUID][]uuid.UUID),
		owners:         make(map[uuid.UUID]uuid.UUID),
		transitions:    make(map[uuid.UUID][]timeline.Transition),
		blockingStates: make(map[uuid.UUID]timeline.BlockingState),
	}
}

func (db *memory) GetBundle(ctx context.Context, bundleID uuid.UUID) (*Bundle, error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	b, ok := db.bundles[bundleID]
	if !ok {
		return nil, common_errors.ErrNotFound
	}
	return &b, nil
}

func (db *memory) GetEntitlements(ctx context.Context, bundleID uuid.UUID) ([]timeline.Entitlement, error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	var result []timeline.Entitlement
	for _, id := range db.entitlements[bundleID] {
		result = append(result, timeline.Entitlement{
			ID:          id,
			Transitions: append([]timeline.Transition(nil), db.transitions[id]...),
		})
	}
	return result, nil
}

func (db *memory) GetBlockingStates(ctx context.Context, accountID, bundleID uuid.UUID, entitlementIDs []uuid.UUID) ([]timeline.BlockingState, error) {
	db.mtx.RLock()
	defer db.mtx.RUnlock()
	wanted := make(map[uuid.UUID]struct{}, len(entitlementIDs))
	for _, id := range entitlementIDs {
		wanted[id] = struct{}{}
	}

	var result []timeline.BlockingState
	for _, bs := range db.blockingStates {
		switch bs.Type {
		case timeline.BlockingAccount:
			if bs.BlockedID != accountID {
				continue
			}
		case timeline.BlockingBundle:
			if bs.BlockedID != bundleID {
				continue
			}
		case timeline.BlockingSubscription:
			if _, ok := wanted[bs.BlockedID]; !ok {
				continue
			}
		default:
			continue
		}
		result = append(result, bs)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch {
		case !a.EffectiveTime.Equal(b.EffectiveTime):
			return a.EffectiveTime.Before(b.EffectiveTime)
		case !a.CreatedTime.Equal(b.CreatedTime):
			return a.CreatedTime.Before(b.CreatedTime)
		}
		return a.ID.String() < b.ID.String()
	})
	return result, nil
}

func (db *memory) InsertBundle(ctx context.Context, bundle Bundle) error {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	if _, ok := db.bundles[bundle.ID]; ok {
		return errors.Errorf("bundle %s already exists", bundle.ID)
	}
	db.bundles[bundle.ID] = bundle
	return nil
}

func (db *memory) InsertEntitlement(ctx context.Context, bundleID uuid.UUID, entitlement timeline.Entitlement) error {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	if _, ok := db.bundles[bundleID]; !ok {
		return errors.Wrapf(common_errors.ErrNotFound, "bundle %s", bundleID)
	}
	if owner, ok := db.owners[entitlement.ID]; !ok {
		db.owners[entitlement.ID] = bundleID
		db.entitlements[bundleID] = append(db.entitlements[bundleID], entitlement.ID)
	} else if owner != bundleID {
		return errors.Errorf("entitlement %s belongs to bundle %s", entitlement.ID, owner)
	}

	transitions := append(db.transitions[entitlement.ID], entitlement.Transitions...)
	sort.SliceStable(transitions, func(i, j int) bool {
		return transitions[i].TotalOrdering < transitions[j].TotalOrdering
	})
	db.transitions[entitlement.ID] = transitions
	return nil
}

func (db *memory) InsertBlockingStates(ctx context.Context, states []timeline.BlockingState) error {
	db.mtx.Lock()
	defer db.mtx.Unlock()
	seen := map[uuid.UUID]struct{}{}
	for _, bs := range states {
		if _, ok := db.blockingStates[bs.ID]; ok {
			return errors.Errorf("blocking state %s already exists", bs.ID)
		}
		if _, ok := seen[bs.ID]; ok {
			return errors.Errorf("blocking state %s already exists", bs.ID)
		}
		seen[bs.ID] = struct{}{}
	}
	for _, bs := range states {
		db.blockingStates[bs.ID] = bs
	}
	return nil
}

func (db *memory) Transaction(f func(DB) error) error {
	return f(db)
}

func (db *memory) Close(ctx context.Context) error {
	return nil
}
