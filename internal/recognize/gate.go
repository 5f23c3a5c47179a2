package recognize

import "time"

// Gate applies the cooldown policy that decides whether a stable recognition
// should actually be announced. A sign fires immediately when it differs from
// the last announced sign; the same sign fires again only after the cooldown
// has strictly elapsed. This prevents a held sign from being re-announced
// every time the stability window refills.
//
// Like StabilityTracker, the gate is owned by the frame-loop goroutine.
type Gate struct {
	cooldown  time.Duration
	lastLabel string
	lastAt    time.Time
	announced bool
}

// NewGate creates a Gate with the given cooldown duration.
func NewGate(cooldown time.Duration) *Gate {
	return &Gate{cooldown: cooldown}
}

// ShouldAnnounce reports whether an announcement for label should fire at
// the given time. When it fires, the gate records {label, now} as the last
// announcement; otherwise the gate state is left unchanged.
func (g *Gate) ShouldAnnounce(label string, now time.Time) bool {
	if g.announced && label == g.lastLabel && now.Sub(g.lastAt) <= g.cooldown {
		return false
	}

	g.lastLabel = label
	g.lastAt = now
	g.announced = true
	return true
}

// Last returns the last announced label and its timestamp.
// The boolean is false if nothing has been announced yet.
func (g *Gate) Last() (string, time.Time, bool) {
	return g.lastLabel, g.lastAt, g.announced
}

// Reset forgets the last announcement, so the next stable sign fires
// regardless of cooldown.
func (g *Gate) Reset() {
	g.lastLabel = ""
	g.lastAt = time.Time{}
	g.announced = false
}
