package rewind

import "sync"

// Guard serializes access to a Repeatable, so it can be streamed by one goroutine (such as
// an audio driver) while another one toggles repeating.
//
// Once a Repeatable is guarded, it must only be accessed through the Guard.
type Guard struct {
	mu sync.Mutex
	r  *Repeatable
}

// Guarded returns a Guard for r.
func Guarded(r *Repeatable) *Guard {
	return &Guard{r: r}
}

// Stream streams from the guarded Repeatable.
func (g *Guard) Stream(samples [][2]float64) (n int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.Stream(samples)
}

// Err returns the guarded Repeatable's error.
func (g *Guard) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.Err()
}

// SetRepeat enables or disables repeating.
func (g *Guard) SetRepeat(value bool) {
	g.mu.Lock()
	g.r.SetRepeat(value)
	g.mu.Unlock()
}

// Repeating reports whether repeating is enabled.
func (g *Guard) Repeating() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.r.Repeating()
}

// Do calls f with exclusive access to the guarded Repeatable. f must not keep r after it
// returns.
func (g *Guard) Do(f func(r *Repeatable)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f(g.r)
}
