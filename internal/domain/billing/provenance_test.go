package billing

import "testing"

func TestCanRemove(t *testing.T) {
	tripStatuses := []string{"", "Pending", "Confirmed", "Approved", "Completed", "Cancelled"}
	orderStatuses := []string{"", "Pending", "Preparing", "Ready", "Served", "Cancelled"}

	for _, s := range tripStatuses {
		if CanRemove(LineItem{Source: SourceTrip, SourceStatus: s}) {
			t.Fatalf("trip line with status %q must not be removable", s)
		}
		if RemovalBlockedReason(LineItem{Source: SourceTrip, SourceStatus: s}) == "" {
			t.Fatalf("trip line with status %q needs a reason", s)
		}
	}
	for _, s := range orderStatuses {
		if CanRemove(LineItem{Source: SourceOrder, SourceStatus: s}) {
			t.Fatalf("order line with status %q must not be removable", s)
		}
	}

	cases := []struct {
		source Source
		want   bool
	}{
		{SourceCustom, true},
		{SourceDiscount, true},
		{SourceBooking, false},
		{"", false},
		{"manual", false},
	}
	for _, tc := range cases {
		if got := CanRemove(LineItem{Source: tc.source}); got != tc.want {
			t.Fatalf("CanRemove(%q) = %v, want %v", tc.source, got, tc.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPaid, StatusPending, true},
		{StatusPaid, StatusPaid, true},
		{StatusCancelled, StatusCancelled, true},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusPaid, false},
		{StatusPending, "void", false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Fatalf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
