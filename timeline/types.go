package timeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	common_time "github.com/weaveworks/subscription-timeline/common/time"
)

// Well-known service names.
const (
	// EntitlementService is the governing service: its blocking states are
	// interpreted as pause/resume/stop signals. Records from any other
	// service are informational.
	EntitlementService = "entitlement-service"
	// BillingService owns billing starts, stops, pauses and plan changes.
	BillingService = "billing-service"
)

// State names used by the entitlement service.
const (
	StateBlocked   = "ENT_BLOCKED"
	StateClear     = "ENT_CLEAR"
	StateCancelled = "ENT_CANCELLED"
)

// Phase references a plan phase from the catalog.
type Phase struct {
	Name      string
	Plan      string
	Product   string
	PriceList string
}

// TransitionType is the kind of a subscription transition.
type TransitionType string

// Transition types. Types not listed here are carried through but do not
// produce any event.
const (
	TransitionCreate             TransitionType = "CREATE"
	TransitionTransfer           TransitionType = "TRANSFER"
	TransitionMigrateEntitlement TransitionType = "MIGRATE_ENTITLEMENT"
	TransitionMigrateBilling     TransitionType = "MIGRATE_BILLING"
	TransitionChange             TransitionType = "CHANGE"
	TransitionPhase              TransitionType = "PHASE"
	TransitionCancel             TransitionType = "CANCEL"
	TransitionUncancel           TransitionType = "UNCANCEL"
)

// Transition is a recorded change of a subscription's plan or phase.
type Transition struct {
	EntitlementID uuid.UUID
	Type          TransitionType
	RequestedTime time.Time
	EffectiveTime time.Time
	PrevPhase     *Phase
	NextPhase     *Phase
	CreatedTime   time.Time
	// TotalOrdering is only used to keep sorting stable.
	TotalOrdering int64
}

// Entitlement is a subscription with its transitions, in chronological order.
type Entitlement struct {
	ID          uuid.UUID
	Transitions []Transition
}

// BlockingStateType is the scope of a blocking state.
type BlockingStateType string

// Blocking state scopes, from the narrowest to the widest.
const (
	BlockingSubscription BlockingStateType = "SUBSCRIPTION"
	BlockingBundle       BlockingStateType = "SUBSCRIPTION_BUNDLE"
	BlockingAccount      BlockingStateType = "ACCOUNT"
)

// BlockingState records that a service suppresses (or restores) the
// entitlement and/or billing capability of a subscription, bundle or account.
type BlockingState struct {
	ID               uuid.UUID
	BlockedID        uuid.UUID
	Type             BlockingStateType
	StateName        string
	Service          string
	BlockChange      bool
	BlockEntitlement bool
	BlockBilling     bool
	EffectiveTime    time.Time
	CreatedTime      time.Time
	UpdatedTime      time.Time
}

// EventType is the kind of a SubscriptionEvent. The declaration order is the
// priority used to order events of one subscription on the same day.
type EventType int

// Event types.
const (
	StartEntitlement EventType = iota
	StartBilling
	PauseEntitlement
	PauseBilling
	ResumeEntitlement
	ResumeBilling
	PhaseChange
	PlanChange
	ServiceStateChange
	StopEntitlement
	StopBilling
)

var eventTypeNames = []string{
	StartEntitlement:   "START_ENTITLEMENT",
	StartBilling:       "START_BILLING",
	PauseEntitlement:   "PAUSE_ENTITLEMENT",
	PauseBilling:       "PAUSE_BILLING",
	ResumeEntitlement:  "RESUME_ENTITLEMENT",
	ResumeBilling:      "RESUME_BILLING",
	PhaseChange:        "PHASE",
	PlanChange:         "CHANGE",
	ServiceStateChange: "SERVICE_STATE_CHANGE",
	StopEntitlement:    "STOP_ENTITLEMENT",
	StopBilling:        "STOP_BILLING",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return fmt.Sprintf("EventType(%d)", int(t))
	}
	return eventTypeNames[t]
}

// SubscriptionEvent is one entry of a bundle timeline.
type SubscriptionEvent struct {
	ID            uuid.UUID
	EntitlementID uuid.UUID
	Type          EventType
	// EffectiveDate is EffectiveTime seen in the account timezone.
	EffectiveDate common_time.LocalDate
	EffectiveTime time.Time
	ServiceName   string
	// ServiceStateName is the blocking state name for blocking events, and
	// the event type name for transition events.
	ServiceStateName   string
	BlockedEntitlement bool
	BlockedBilling     bool
	PrevPhase          *Phase
	NextPhase          *Phase
	// Ordinal is the total ordering of the source transition, 0 for events
	// coming from blocking states.
	Ordinal int64
}

// eventNamespace seeds the deterministic event IDs.
var eventNamespace = uuid.MustParse("9a1b7c4e-2f0d-4b8a-9d65-3f1e0c7a5b21")

// eventID derives a stable ID from the record an event comes from, so that
// computing the same timeline twice yields identical events.
func eventID(source string, entitlementID uuid.UUID, t EventType) uuid.UUID {
	return uuid.NewSHA1(eventNamespace, []byte(fmt.Sprintf("%s/%s/%s", source, entitlementID, t)))
}
