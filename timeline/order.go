package timeline

import "sort"

// OrderEvents returns a copy of events sorted by effective date, then
// entitlement ID, then event type priority. Events of one subscription on
// one day therefore stay together, entitlement starts before billing, and
// billing stops last.
//
// The remaining ties are broken on the effective instant, the ordinal and
// finally the event ID, so any permutation of the same events yields the
// same sequence.
func OrderEvents(events []SubscriptionEvent) []SubscriptionEvent {
	result := make([]SubscriptionEvent, len(events))
	copy(result, events)
	sort.SliceStable(result, func(i, j int) bool {
		return less(&result[i], &result[j])
	})
	return result
}

func less(a, b *SubscriptionEvent) bool {
	if c := a.EffectiveDate.Compare(b.EffectiveDate); c != 0 {
		return c < 0
	}
	if a.EntitlementID != b.EntitlementID {
		return a.EntitlementID.String() < b.EntitlementID.String()
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if !a.EffectiveTime.Equal(b.EffectiveTime) {
		return a.EffectiveTime.Before(b.EffectiveTime)
	}
	if a.Ordinal != b.Ordinal {
		return a.Ordinal < b.Ordinal
	}
	return a.ID.String() < b.ID.String()
}
