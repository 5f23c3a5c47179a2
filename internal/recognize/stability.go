// Package recognize implements the streaming decision pipeline that turns
// per-frame sign predictions into discrete announcement events: temporal
// stability detection over a sliding window of labels, and a cooldown gate
// that suppresses duplicate announcements.
package recognize

// StabilityTracker maintains a bounded sliding window of the most recent
// predicted labels and decides when a sign is being held steadily.
// The window is stable when it is full and every entry matches the most
// recently observed label.
//
// The tracker is a plain bookkeeping structure with no locking; it must only
// be used from the goroutine driving the frame loop.
type StabilityTracker struct {
	window []string
	head   int
	count  int
}

// NewStabilityTracker creates a tracker with the given window capacity.
// Capacity must be at least 1; a capacity of 1 means any single qualifying
// prediction is immediately stable.
func NewStabilityTracker(frames int) *StabilityTracker {
	return &StabilityTracker{
		window: make([]string, frames),
	}
}

// Observe appends a qualifying label to the window, evicting the oldest
// entry when the window is at capacity. Returns true iff the window is full
// and unanimous for the observed label.
func (t *StabilityTracker) Observe(label string) bool {
	t.window[t.head] = label
	t.head = (t.head + 1) % len(t.window)
	if t.count < len(t.window) {
		t.count++
	}

	if t.count < len(t.window) {
		return false
	}

	for _, l := range t.window {
		if l != label {
			return false
		}
	}
	return true
}

// Clear empties the window. Called when no hand is present, when confidence
// drops below threshold, or after an announcement fires.
func (t *StabilityTracker) Clear() {
	t.head = 0
	t.count = 0
}

// Len returns the number of labels currently in the window.
func (t *StabilityTracker) Len() int {
	return t.count
}

// Cap returns the window capacity.
func (t *StabilityTracker) Cap() int {
	return len(t.window)
}
