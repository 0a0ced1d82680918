package middleware

import (
	"testing"
	"time"
)

func TestLimiterFixedWindow(t *testing.T) {
	clock := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	lim := newLimiter(RateLimitOptions{MaxRequests: 3, Window: time.Minute})
	lim.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if !lim.allow(10) {
			t.Fatalf("request %d denied inside the limit", i+1)
		}
	}
	if lim.allow(10) {
		t.Fatal("fourth request allowed inside the window")
	}

	// Another user has an independent window.
	if !lim.allow(11) {
		t.Fatal("independent user denied")
	}

	// The counter resets when the window elapses.
	clock = clock.Add(time.Minute)
	if !lim.allow(10) {
		t.Fatal("request denied after window reset")
	}
}
