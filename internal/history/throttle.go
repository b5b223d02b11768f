package history

import "time"

// ThrottleGate suppresses saves of continuous action kinds that arrive within
// a window of the last accepted save.
//
// Discrete actions (create, delete, drag end, merge) always pass: dropping a
// user gesture on timing alone would lose work. Only the fingerprint check
// may reject them.
type ThrottleGate struct {
	window     time.Duration
	continuous map[ActionTag]struct{}
}

// NewThrottleGate creates a gate with the given window and continuous tags.
// A non-positive window disables throttling.
func NewThrottleGate(window time.Duration, continuous ...ActionTag) *ThrottleGate {
	set := make(map[ActionTag]struct{}, len(continuous))
	for _, tag := range continuous {
		set[tag] = struct{}{}
	}
	return &ThrottleGate{window: window, continuous: set}
}

// ShouldThrottle reports whether a save of action at now must be dropped.
// A zero lastAccepted means nothing has been accepted since construction or
// the last clear, and never throttles.
func (g *ThrottleGate) ShouldThrottle(action ActionTag, now, lastAccepted time.Time) bool {
	if g.window <= 0 || lastAccepted.IsZero() {
		return false
	}
	if !g.IsContinuous(action) {
		return false
	}
	return now.Sub(lastAccepted) < g.window
}

// IsContinuous reports whether action is subject to the window.
func (g *ThrottleGate) IsContinuous(action ActionTag) bool {
	_, ok := g.continuous[action]
	return ok
}

// Window returns the throttle window.
func (g *ThrottleGate) Window() time.Duration {
	return g.window
}
