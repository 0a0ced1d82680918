package engine

import (
	"testing"
	"time"
)

func TestIDAllocatorMonotonicWithinMillisecond(t *testing.T) {
	frozen := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	a := &IDAllocator{now: func() time.Time { return frozen }}

	first := a.Next()
	if first != frozen.UnixMilli() {
		t.Fatalf("first id = %d, want %d", first, frozen.UnixMilli())
	}
	second := a.Next()
	third := a.Next()
	if second != first+1 || third != second+1 {
		t.Fatalf("same-millisecond ids not consecutive: %d %d %d", first, second, third)
	}
}

func TestIDAllocatorNeverRewinds(t *testing.T) {
	clock := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	a := &IDAllocator{now: func() time.Time { return clock }}

	first := a.Next()
	clock = clock.Add(-time.Second)
	second := a.Next()
	if second <= first {
		t.Fatalf("id rewound: %d after %d", second, first)
	}

	clock = clock.Add(time.Hour)
	third := a.Next()
	if third != clock.UnixMilli() {
		t.Fatalf("forward clock ignored: %d, want %d", third, clock.UnixMilli())
	}
}

func TestIDAllocatorConcurrentUnique(t *testing.T) {
	a := NewIDAllocator()
	const n = 200
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		go func() { ids <- a.Next() }()
	}
	seen := make(map[int64]bool, n)
	for i := 0; i < n; i++ {
		id := <-ids
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}
