package timeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SubscriptionBundleTimeline is the ordered history of the subscriptions of
// a bundle, built from their transitions and from the blocking states at
// subscription, bundle and account level.
//
// The events are computed on first access and cached; a timeline is safe for
// concurrent use.
type SubscriptionBundleTimeline struct {
	accountTimeZone *time.Location
	accountID       uuid.UUID
	bundleID        uuid.UUID
	externalKey     string
	entitlements    []Entitlement
	blockingStates  []BlockingState

	once   sync.Once
	events []SubscriptionEvent
	err    error
}

// NewSubscriptionBundleTimeline creates a timeline. The input slices are
// copied; a nil accountTimeZone means UTC.
func NewSubscriptionBundleTimeline(accountTimeZone *time.Location, accountID, bundleID uuid.UUID, externalKey string, entitlements []Entitlement, blockingStates []BlockingState) *SubscriptionBundleTimeline {
	if accountTimeZone == nil {
		accountTimeZone = time.UTC
	}
	return &SubscriptionBundleTimeline{
		accountTimeZone: accountTimeZone,
		accountID:       accountID,
		bundleID:        bundleID,
		externalKey:     externalKey,
		entitlements:    append([]Entitlement(nil), entitlements...),
		blockingStates:  append([]BlockingState(nil), blockingStates...),
	}
}

// AccountID returns the ID of the account owning the bundle.
func (t *SubscriptionBundleTimeline) AccountID() uuid.UUID {
	return t.accountID
}

// BundleID returns the ID of the bundle.
func (t *SubscriptionBundleTimeline) BundleID() uuid.UUID {
	return t.bundleID
}

// ExternalKey returns the external key of the bundle.
func (t *SubscriptionBundleTimeline) ExternalKey() string {
	return t.externalKey
}

// AccountTimeZone returns the timezone event dates are resolved in.
func (t *SubscriptionBundleTimeline) AccountTimeZone() *time.Location {
	return t.accountTimeZone
}

// SubscriptionEvents returns the ordered events of the bundle. It returns an
// error, and no events, if a transition history is malformed or a blocking
// state cannot be resolved. The caller owns the returned slice.
func (t *SubscriptionBundleTimeline) SubscriptionEvents() ([]SubscriptionEvent, error) {
	t.once.Do(func() {
		t.events, t.err = t.compute()
	})
	if t.err != nil {
		return nil, t.err
	}
	return append([]SubscriptionEvent(nil), t.events...), nil
}

func (t *SubscriptionBundleTimeline) compute() ([]SubscriptionEvent, error) {
	var events []SubscriptionEvent
	for _, ent := range t.entitlements {
		mapped, err := MapTransitions(ent, t.accountTimeZone)
		if err != nil {
			return nil, err
		}
		events = append(events, mapped...)
	}

	projected, err := ProjectBlockingStates(t.accountTimeZone, t.accountID, t.bundleID, t.entitlements, t.blockingStates)
	if err != nil {
		return nil, err
	}
	events = append(events, projected...)

	log.WithFields(log.Fields{
		"bundle_id":       t.bundleID,
		"entitlements":    len(t.entitlements),
		"blocking_states": len(t.blockingStates),
		"events":          len(events),
	}).Debugf("Computed subscription bundle timeline")
	return OrderEvents(events), nil
}
