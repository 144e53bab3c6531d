package utils

// IDTracker tracks listing ids already seen in a load
type IDTracker struct {
	seen map[int64]struct{}
}

// NewIDTracker creates a new tracker
func NewIDTracker() *IDTracker {
	return &IDTracker{seen: make(map[int64]struct{})}
}

// Add returns true if the id is new (not seen before), false if duplicate
func (t *IDTracker) Add(id int64) bool {
	if _, exists := t.seen[id]; exists {
		return false
	}
	t.seen[id] = struct{}{}
	return true
}

// Count returns the number of tracked ids
func (t *IDTracker) Count() int {
	return len(t.seen)
}
