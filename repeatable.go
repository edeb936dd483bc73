package rewind

import "time"

// Repeatable streams a Source and, while repeating is enabled, starts over from the
// beginning whenever the Source drains. Repeating is disabled initially.
//
// The Source is buffered, so every repetition replays the recorded samples instead of
// pulling (and decoding) the original Source again.
//
// A Repeatable is not safe for concurrent use. It may be handed over to another goroutine,
// but only one goroutine may use it at a time. Use Guarded, or speaker.Lock when playing
// through the speaker, to change it while it's being streamed.
type Repeatable struct {
	start   *Buffered // never streamed
	current *Buffered
	repeat  bool
}

// Repeat returns a Repeatable streaming s. No samples are pulled from s.
func Repeat(s Source) *Repeatable {
	b := Buffer(s)
	return &Repeatable{
		start:   b,
		current: b.Clone(),
	}
}

// SetRepeat enables or disables repeating. The change applies to the next time the current
// pass drains, which then restarts from the beginning of the Source, not from where
// repeating was enabled.
func (r *Repeatable) SetRepeat(value bool) {
	r.repeat = value
}

// Repeating reports whether repeating is enabled.
func (r *Repeatable) Repeating() bool {
	return r.repeat
}

// Next streams a single sample.
//
// When the current pass drains and repeating is enabled, Next restarts from the beginning
// and returns the first sample. The restart happens at most once per call, so an empty
// Source returns false instead of restarting forever. A Source that failed is never
// restarted.
func (r *Repeatable) Next() (sample [2]float64, ok bool) {
	if sample, ok = r.current.Next(); ok || !r.repeat || r.current.Err() != nil {
		return sample, ok
	}
	r.restart()
	return r.current.Next()
}

// Stream streams samples, restarting without a gap each time the current pass drains while
// repeating is enabled. If a restart yields no samples at all, the Source is empty and
// Stream returns what it has. Once the Source fails, Stream returns 0, false for good.
func (r *Repeatable) Stream(samples [][2]float64) (n int, ok bool) {
	restarted := false
	for n < len(samples) {
		sn, sok := r.current.Stream(samples[n:])
		n += sn
		if sn > 0 {
			restarted = false
		}
		if sok {
			continue
		}
		if !r.repeat || restarted || r.current.Err() != nil {
			break
		}
		r.restart()
		restarted = true
	}
	return n, n > 0
}

func (r *Repeatable) restart() {
	r.current = r.start.Clone()
}

// Err propagates the Source's error.
func (r *Repeatable) Err() error {
	return r.current.Err()
}

// Format returns the format of the current pass.
func (r *Repeatable) Format() Format {
	return r.current.Format()
}

// FrameLen returns the number of samples left in the current chunk of the current pass.
func (r *Repeatable) FrameLen() (n int, ok bool) {
	return r.current.FrameLen()
}

// Duration returns the duration of a single pass, regardless of repeating.
func (r *Repeatable) Duration() (d time.Duration, ok bool) {
	return r.current.Duration()
}

// SizeHint returns the number of samples left in the current pass. It doesn't account for
// future repetitions.
func (r *Repeatable) SizeHint() (lower, upper int) {
	return r.current.SizeHint()
}

// Position returns the position within the current pass.
func (r *Repeatable) Position() int {
	return r.current.Position()
}

// Inner returns the cursor of the current pass. Streaming it advances the Repeatable.
func (r *Repeatable) Inner() *Buffered {
	return r.current
}

// SetInner replaces the cursor of the current pass. Restarts still go to the beginning of
// the original Source, even if b isn't a clone of it.
func (r *Repeatable) SetInner(b *Buffered) {
	r.current = b
}

// Unwrap returns the cursor of the current pass. The Repeatable must not be used afterwards.
func (r *Repeatable) Unwrap() *Buffered {
	b := r.current
	r.current, r.start = nil, nil
	return b
}
