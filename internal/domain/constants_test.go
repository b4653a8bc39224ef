package domain

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusResolved, true},
		{StatusPending, StatusDismissed, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusDismissed, true},
		{StatusInProgress, StatusPending, false},
		{StatusResolved, StatusPending, false},
		{StatusResolved, StatusDismissed, false},
		{StatusDismissed, StatusResolved, false},
		{StatusDismissed, StatusInProgress, false},
		{"bogus", StatusResolved, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSeverityRank(t *testing.T) {
	if !(SeverityRank(SeverityLow) < SeverityRank(SeverityMedium) &&
		SeverityRank(SeverityMedium) < SeverityRank(SeverityHigh) &&
		SeverityRank(SeverityHigh) < SeverityRank(SeverityCritical)) {
		t.Error("severity ranks out of order")
	}
	if SeverityRank("bogus") >= SeverityRank(SeverityLow) {
		t.Error("unknown severity must rank below low")
	}
}
