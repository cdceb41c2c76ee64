package timeline

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	common_errors "github.com/weaveworks/subscription-timeline/common/errors"
	common_time "github.com/weaveworks/subscription-timeline/common/time"
)

// MapTransitions converts the transition history of one entitlement into
// events, with dates resolved in loc.
//
// A creation or transfer starts both entitlement and billing. A cancellation
// only stops billing: stopping the entitlement is signalled by the
// entitlement service through a cancelled blocking state.
func MapTransitions(ent Entitlement, loc *time.Location) ([]SubscriptionEvent, error) {
	var (
		events []SubscriptionEvent
		active bool
	)
	for i, tr := range ent.Transitions {
		if tr.EntitlementID != ent.ID {
			return nil, malformed(ent, i, tr, "transition belongs to entitlement %s", tr.EntitlementID)
		}
		if i > 0 && tr.EffectiveTime.Before(ent.Transitions[i-1].EffectiveTime) {
			return nil, malformed(ent, i, tr, "effective time %s is before the previous transition", tr.EffectiveTime.UTC())
		}

		source := fmt.Sprintf("transition/%d/%d", i, tr.TotalOrdering)
		switch tr.Type {
		case TransitionCreate, TransitionTransfer, TransitionMigrateEntitlement:
			switch {
			case active:
				return nil, malformed(ent, i, tr, "entitlement already started")
			case tr.PrevPhase != nil:
				return nil, malformed(ent, i, tr, "start has a previous phase %q", tr.PrevPhase.Name)
			case tr.NextPhase == nil:
				return nil, malformed(ent, i, tr, "start has no phase")
			}
			active = true
			events = append(events, transitionEvent(source, tr, loc, StartEntitlement, EntitlementService))
			if tr.Type != TransitionMigrateEntitlement {
				events = append(events, transitionEvent(source, tr, loc, StartBilling, BillingService))
			}

		case TransitionMigrateBilling:
			if !active {
				return nil, malformed(ent, i, tr, "billing migrated before the entitlement started")
			}
			events = append(events, transitionEvent(source, tr, loc, StartBilling, BillingService))

		case TransitionPhase, TransitionChange:
			if !active {
				return nil, malformed(ent, i, tr, "entitlement is not active")
			}
			if tr.NextPhase == nil {
				return nil, malformed(ent, i, tr, "no next phase")
			}
			eventType := PhaseChange
			if tr.Type == TransitionChange {
				eventType = PlanChange
			}
			events = append(events, transitionEvent(source, tr, loc, eventType, BillingService))

		case TransitionCancel:
			if !active {
				return nil, malformed(ent, i, tr, "entitlement is not active")
			}
			active = false
			event := transitionEvent(source, tr, loc, StopBilling, BillingService)
			event.NextPhase = nil
			events = append(events, event)
		}
	}
	return events, nil
}

func transitionEvent(source string, tr Transition, loc *time.Location, t EventType, service string) SubscriptionEvent {
	return SubscriptionEvent{
		ID:               eventID(source, tr.EntitlementID, t),
		EntitlementID:    tr.EntitlementID,
		Type:             t,
		EffectiveDate:    common_time.DateIn(tr.EffectiveTime, loc),
		EffectiveTime:    tr.EffectiveTime.UTC(),
		ServiceName:      service,
		ServiceStateName: t.String(),
		PrevPhase:        tr.PrevPhase,
		NextPhase:        tr.NextPhase,
		Ordinal:          tr.TotalOrdering,
	}
}

func malformed(ent Entitlement, i int, tr Transition, format string, args ...interface{}) error {
	return errors.Wrapf(common_errors.ErrMalformedTransitions, "entitlement %s: transition %d (%s): %s",
		ent.ID, i, tr.Type, fmt.Sprintf(format, args...))
}

// phaseHistory tells which phase an entitlement was in around an instant.
type phaseHistory struct {
	changes []phaseChange
}

type phaseChange struct {
	at    time.Time
	phase *Phase
	start bool
}

func newPhaseHistory(ent Entitlement) phaseHistory {
	var h phaseHistory
	for _, tr := range ent.Transitions {
		switch tr.Type {
		case TransitionCreate, TransitionTransfer, TransitionMigrateEntitlement:
			h.changes = append(h.changes, phaseChange{at: tr.EffectiveTime, phase: tr.NextPhase, start: true})
		case TransitionPhase, TransitionChange:
			h.changes = append(h.changes, phaseChange{at: tr.EffectiveTime, phase: tr.NextPhase})
		case TransitionCancel:
			h.changes = append(h.changes, phaseChange{at: tr.EffectiveTime})
		}
	}
	return h
}

// around returns the phase in effect strictly before t, the phase in effect
// at t, and whether the entitlement had started by t.
func (h phaseHistory) around(t time.Time) (prev, next *Phase, started bool) {
	for _, c := range h.changes {
		if c.at.After(t) {
			continue
		}
		if c.at.Before(t) {
			prev = c.phase
		}
		next = c.phase
		started = started || c.start
	}
	return prev, next, started
}
