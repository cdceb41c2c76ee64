package timeline

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	common_errors "github.com/weaveworks/subscription-timeline/common/errors"
	common_time "github.com/weaveworks/subscription-timeline/common/time"
)

// ProjectBlockingStates converts the blocking states of a bundle, at any
// scope, into events for the given entitlements.
//
// Entitlement service records are folded in effective order into the last
// known (entitlement, billing) suppression of every entitlement they apply
// to, and only emit an event when one of the two flips. A cancelled state
// stops the entitlement for good. Records from any other service each emit
// a SERVICE_STATE_CHANGE.
//
// Every record must resolve: a target outside the bundle fails the whole
// projection.
func ProjectBlockingStates(loc *time.Location, accountID, bundleID uuid.UUID, entitlements []Entitlement, states []BlockingState) ([]SubscriptionEvent, error) {
	histories := make(map[uuid.UUID]phaseHistory, len(entitlements))
	ids := make([]uuid.UUID, 0, len(entitlements))
	for _, ent := range entitlements {
		if _, ok := histories[ent.ID]; ok {
			continue
		}
		histories[ent.ID] = newPhaseHistory(ent)
		ids = append(ids, ent.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	records := make([]scopedState, 0, len(states))
	for _, bs := range states {
		targets, err := resolveTargets(bs, accountID, bundleID, histories, ids)
		if err != nil {
			return nil, err
		}
		records = append(records, scopedState{BlockingState: bs, targets: targets})
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].before(records[j]) })

	p := projection{
		loc:       loc,
		histories: histories,
		state:     make(map[uuid.UUID]suppression, len(ids)),
	}
	for _, r := range records {
		if r.Service == EntitlementService {
			p.governing(r)
		} else {
			p.informational(r)
		}
	}
	return p.events, nil
}

// scopedState is a blocking state with the entitlements it applies to.
type scopedState struct {
	BlockingState
	targets []uuid.UUID
}

func (s scopedState) before(other scopedState) bool {
	switch {
	case !s.EffectiveTime.Equal(other.EffectiveTime):
		return s.EffectiveTime.Before(other.EffectiveTime)
	case !s.CreatedTime.Equal(other.CreatedTime):
		return s.CreatedTime.Before(other.CreatedTime)
	case scopeWidth(s.Type) != scopeWidth(other.Type):
		return scopeWidth(s.Type) < scopeWidth(other.Type)
	}
	return s.ID.String() < other.ID.String()
}

func scopeWidth(t BlockingStateType) int {
	switch t {
	case BlockingSubscription:
		return 0
	case BlockingBundle:
		return 1
	}
	return 2
}

func resolveTargets(bs BlockingState, accountID, bundleID uuid.UUID, known map[uuid.UUID]phaseHistory, all []uuid.UUID) ([]uuid.UUID, error) {
	switch bs.Type {
	case BlockingSubscription:
		if _, ok := known[bs.BlockedID]; ok {
			return []uuid.UUID{bs.BlockedID}, nil
		}
	case BlockingBundle:
		if bs.BlockedID == bundleID {
			return all, nil
		}
	case BlockingAccount:
		if bs.BlockedID == accountID {
			return all, nil
		}
	default:
		return nil, errors.Wrapf(common_errors.ErrUnresolvedBlockingState, "blocking state %s: unknown type %q", bs.ID, bs.Type)
	}
	return nil, errors.Wrapf(common_errors.ErrUnresolvedBlockingState, "blocking state %s: %s %s is not part of the bundle", bs.ID, bs.Type, bs.BlockedID)
}

// suppression is the last known entitlement service state of an entitlement.
type suppression struct {
	entitlement bool
	billing     bool
	stopped     bool
}

type projection struct {
	loc       *time.Location
	histories map[uuid.UUID]phaseHistory
	state     map[uuid.UUID]suppression
	events    []SubscriptionEvent
}

func (p *projection) governing(r scopedState) {
	for _, id := range r.targets {
		prev, next, started := p.histories[id].around(r.EffectiveTime)
		if !started {
			// Nothing to pause or stop yet.
			continue
		}
		s := p.state[id]
		if s.stopped {
			continue
		}

		if r.StateName == StateCancelled {
			p.emit(r, id, StopEntitlement, EntitlementService, prev, nil)
			s.stopped = true
		} else {
			if r.BlockEntitlement != s.entitlement {
				t := ResumeEntitlement
				if r.BlockEntitlement {
					t = PauseEntitlement
				}
				p.emit(r, id, t, EntitlementService, prev, next)
			}
			// Billing has stopped once no phase is current.
			if r.BlockBilling != s.billing && next != nil {
				t := ResumeBilling
				if r.BlockBilling {
					t = PauseBilling
				}
				p.emit(r, id, t, BillingService, prev, next)
			}
		}
		s.entitlement, s.billing = r.BlockEntitlement, r.BlockBilling
		p.state[id] = s
	}
}

func (p *projection) informational(r scopedState) {
	for _, id := range r.targets {
		prev, next, _ := p.histories[id].around(r.EffectiveTime)
		p.emit(r, id, ServiceStateChange, r.Service, prev, next)
	}
}

func (p *projection) emit(r scopedState, id uuid.UUID, t EventType, service string, prev, next *Phase) {
	p.events = append(p.events, SubscriptionEvent{
		ID:                 eventID("blocking/"+r.ID.String(), id, t),
		EntitlementID:      id,
		Type:               t,
		EffectiveDate:      common_time.DateIn(r.EffectiveTime, p.loc),
		EffectiveTime:      r.EffectiveTime.UTC(),
		ServiceName:        service,
		ServiceStateName:   r.StateName,
		BlockedEntitlement: r.BlockEntitlement,
		BlockedBilling:     r.BlockBilling,
		PrevPhase:          prev,
		NextPhase:          next,
	})
}
