package models

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestReservationOverlaps(t *testing.T) {
	existing := Reservation{
		StartDate: date("2024-06-01"),
		EndDate:   date("2024-06-10"),
	}

	cases := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"contained inside", "2024-06-03", "2024-06-05", true},
		{"overlaps tail", "2024-06-05", "2024-06-15", true},
		{"overlaps head", "2024-05-28", "2024-06-02", true},
		{"covers entirely", "2024-05-01", "2024-07-01", true},
		{"identical interval", "2024-06-01", "2024-06-10", true},
		{"starts at checkout day", "2024-06-10", "2024-06-20", false},
		{"ends at checkin day", "2024-05-20", "2024-06-01", false},
		{"before", "2024-05-01", "2024-05-10", false},
		{"after", "2024-07-01", "2024-07-10", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := existing.Overlaps(date(tc.start), date(tc.end))
			if got != tc.want {
				t.Fatalf("Overlaps(%s, %s) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestReservationStatusValid(t *testing.T) {
	for _, s := range []ReservationStatus{ReservationPending, ReservationAccepted, ReservationRejected} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []ReservationStatus{"", "confirmed", "cancelled", "PENDING"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
