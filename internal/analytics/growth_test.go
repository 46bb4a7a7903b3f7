package analytics

import (
	"testing"
	"time"
)

func TestGrowthRate(t *testing.T) {
	cases := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"zero baseline", 500, 0, 0},
		{"negative baseline", 500, -10, 0},
		{"collapse to zero", 0, 200, -100},
	}
	for _, tc := range cases {
		if got := GrowthRate(tc.current, tc.previous); got != tc.want {
			t.Fatalf("%s: GrowthRate(%v, %v) = %v, want %v", tc.name, tc.current, tc.previous, got, tc.want)
		}
	}
}

func TestPreviousWindow(t *testing.T) {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	prevStart, prevEnd := PreviousWindow(start, end)
	if !prevEnd.Equal(start) {
		t.Fatalf("previous window must end where the current one begins, got %v", prevEnd)
	}
	if got := prevEnd.Sub(prevStart); got != end.Sub(start) {
		t.Fatalf("window lengths differ: %v vs %v", got, end.Sub(start))
	}
	if want := time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC); !prevStart.Equal(want) {
		t.Fatalf("prevStart = %v, want %v", prevStart, want)
	}
}
