package lottery

import "sync"

// CapacityTracker is the in-run seat ledger. It starts from each
// window's configured maximum; persistence is untouched until commit.
type CapacityTracker struct {
	mu        sync.Mutex
	remaining map[string]int
}

func NewCapacityTracker(maxSeats map[string]int) *CapacityTracker {
	remaining := make(map[string]int, len(maxSeats))
	for windowID, seats := range maxSeats {
		remaining[windowID] = seats
	}
	return &CapacityTracker{remaining: remaining}
}

// Reserve atomically takes seats from a window, or takes nothing and
// returns false when not enough remain.
func (t *CapacityTracker) Reserve(windowID string, seats int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seats <= 0 {
		return false
	}
	if t.remaining[windowID] < seats {
		return false
	}
	t.remaining[windowID] -= seats
	return true
}

// Release returns seats to a window after a rolled-back reservation.
func (t *CapacityTracker) Release(windowID string, seats int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seats > 0 {
		t.remaining[windowID] += seats
	}
}

func (t *CapacityTracker) Remaining(windowID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining[windowID]
}
