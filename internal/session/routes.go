package session

import "sync"

// RecordKind distinguishes the record types an admin can be routed to.
type RecordKind string

const (
	KindNeed       RecordKind = "need"
	KindPrayer     RecordKind = "prayer"
	KindLiterature RecordKind = "literature"
)

type routeKey struct {
	adminID int64
	kind    RecordKind
}

// RouteTable maps an admin to the record their next free-text action
// applies to, per record kind. At most one outstanding target exists per
// (admin, kind) pair; a newer notification overwrites the older entry.
// Entries never expire on their own; they are cleared when the admin
// completes the action.
type RouteTable struct {
	mu      sync.RWMutex
	targets map[routeKey]int64
}

// NewRouteTable constructs an empty RouteTable.
func NewRouteTable() *RouteTable {
	return &RouteTable{targets: make(map[routeKey]int64)}
}

// SetTarget records that the admin's next action for kind applies to recordID.
func (t *RouteTable) SetTarget(adminID int64, kind RecordKind, recordID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.targets[routeKey{adminID: adminID, kind: kind}] = recordID
}

// Target returns the current target record for (admin, kind).
func (t *RouteTable) Target(adminID int64, kind RecordKind) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.targets[routeKey{adminID: adminID, kind: kind}]
	return id, ok
}

// ClearTarget removes the target record for (admin, kind).
func (t *RouteTable) ClearTarget(adminID int64, kind RecordKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.targets, routeKey{adminID: adminID, kind: kind})
}
