package permit

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		serviceEnabled bool
		status         Status
		want           Outcome
	}{
		{"not determined with services on", true, StatusNotDetermined, NotDetermined},
		{"not determined with services off", false, StatusNotDetermined, NotDetermined},
		{"denied with services on", true, StatusDenied, DeniedForTheApp},
		{"denied with services off", false, StatusDenied, DeniedForAllApps},
		{"restricted with services on", true, StatusRestricted, Restricted},
		{"restricted with services off", false, StatusRestricted, DeniedForAllAndRestricted},
		{"always authorized with services on", true, StatusAuthorizedAlways, Allowed},
		{"always authorized with services off", false, StatusAuthorizedAlways, Allowed},
		{"when-in-use authorized with services on", true, StatusAuthorizedWhenInUse, Allowed},
		{"when-in-use authorized with services off", false, StatusAuthorizedWhenInUse, Allowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.serviceEnabled, tt.status); got != tt.want {
				t.Errorf("Classify(%v, %q) = %q, want %q", tt.serviceEnabled, tt.status, got, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	statuses := []Status{
		StatusNotDetermined,
		StatusDenied,
		StatusRestricted,
		StatusAuthorizedAlways,
		StatusAuthorizedWhenInUse,
	}
	for _, enabled := range []bool{true, false} {
		for _, status := range statuses {
			first := Classify(enabled, status)
			second := Classify(enabled, status)
			if first != second {
				t.Errorf("Classify(%v, %q) not deterministic: %q then %q", enabled, status, first, second)
			}
		}
	}
}

func TestOutcomeDecided(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    bool
	}{
		{NotDetermined, false},
		{DeniedForAllAndRestricted, true},
		{Restricted, true},
		{DeniedForAllApps, true},
		{DeniedForTheApp, true},
		{Allowed, true},
	}
	for _, tt := range tests {
		if got := tt.outcome.Decided(); got != tt.want {
			t.Errorf("%q.Decided() = %v, want %v", tt.outcome, got, tt.want)
		}
	}
}

func TestOutcomeAllowed(t *testing.T) {
	for _, outcome := range []Outcome{NotDetermined, DeniedForAllAndRestricted, Restricted, DeniedForAllApps, DeniedForTheApp} {
		if outcome.Allowed() {
			t.Errorf("%q.Allowed() = true, want false", outcome)
		}
	}
	if !Allowed.Allowed() {
		t.Error("Allowed.Allowed() = false, want true")
	}
}
