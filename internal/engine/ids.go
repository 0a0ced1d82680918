package engine

import (
	"sync"
	"time"
)

// IDAllocator hands out record ids. Ids follow wall-clock milliseconds so
// they stay roughly sortable by creation time, but the allocator never
// returns the same value twice even when two records are created within
// one millisecond.
type IDAllocator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDAllocator constructs an allocator using the real clock.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{now: time.Now}
}

// Next returns the next unique id.
func (a *IDAllocator) Next() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.now().UnixMilli()
	if id <= a.last {
		id = a.last + 1
	}
	a.last = id
	return id
}
