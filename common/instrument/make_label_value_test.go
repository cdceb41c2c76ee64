package instrument_test

import (
	"testing"

	"github.com/weaveworks/subscription-timeline/common/instrument"
)

func TestMakeLabelValue(t *testing.T) {
	for input, want := range map[string]string{
		"":                            "unknown", // special case
		"__":                          "unknown",
		"PHASE":                       "phase",
		"START_ENTITLEMENT":           "start_entitlement",
		"SERVICE_STATE_CHANGE":        "service_state_change",
		"entitlement-service":         "entitlement_service",
		"entitlement+billing-service": "entitlement_billing_service",
		"overdue--service_":           "overdue_service",
		"_billing":                    "billing",
	} {
		if have := instrument.MakeLabelValue(input); want != have {
			t.Errorf("%q: want %q, have %q", input, want, have)
		}
	}
}
