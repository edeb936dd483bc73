package rewind

import (
	"sync"
	"time"
)

// chunkSize is the number of samples pulled from the origin at once.
const chunkSize = 512

// Buffered is a cursor over a Source whose samples are recorded the first time any cursor
// reads them. Cursors are created with Clone and share the recording, so replaying the
// Source from a clone never pulls the origin again.
//
// A single Buffered must not be streamed from multiple goroutines at once. Distinct clones
// may be streamed concurrently; the shared recording is guarded by a mutex.
type Buffered struct {
	rec    *record
	chunk  int // index of the current chunk
	offset int // position within the current chunk
	pos    int // samples read by this cursor
}

// record is the recording shared by all clones of a Buffered. Recorded chunks are never
// modified once appended.
type record struct {
	mu     sync.Mutex
	src    Source
	format Format
	chunks [][][2]float64
	total  int
	done   bool
	err    error
}

// Buffer returns a Buffered positioned at the beginning of s. Nothing is pulled from s
// until the returned Buffered, or one of its clones, is streamed.
func Buffer(s Source) *Buffered {
	return &Buffered{
		rec: &record{src: s, format: s.Format()},
	}
}

// Dup returns two Streamers which both stream the same data as the original s. The two
// Streamers can be consumed at different rates and from different goroutines.
//
// All samples of s are kept in memory until both Streamers are garbage collected.
func Dup(s Streamer) (t, u Streamer) {
	b := Buffer(Sourced(s, Format{}))
	return b, b.Clone()
}

// Clone returns an independent cursor at the same position as b. Cloning is cheap, no
// samples are copied.
func (b *Buffered) Clone() *Buffered {
	c := *b
	return &c
}

// Stream streams samples from the recording, recording more from the origin as needed.
// Once the origin fails, no cursor streams any more samples, not even recorded ones.
func (b *Buffered) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		chunk, recorded := b.rec.get(b.chunk)
		if !recorded {
			break
		}
		if b.offset >= len(chunk) {
			b.chunk++
			b.offset = 0
			continue
		}
		c := copy(samples[n:], chunk[b.offset:])
		b.offset += c
		b.pos += c
		n += c
	}
	return n, n > 0
}

// Next streams a single sample. It returns false once b is drained.
func (b *Buffered) Next() (sample [2]float64, ok bool) {
	var tmp [1][2]float64
	n, _ := b.Stream(tmp[:])
	return tmp[0], n == 1
}

// Err propagates the origin's error.
func (b *Buffered) Err() error {
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	return b.rec.err
}

// Format returns the format of the origin.
func (b *Buffered) Format() Format {
	return b.rec.format
}

// Position returns the number of samples streamed by this cursor.
func (b *Buffered) Position() int {
	return b.pos
}

// FrameLen returns the number of samples left in the chunk b is currently reading. At the
// end of the recording it asks the origin, and reports 0 once the origin is drained.
func (b *Buffered) FrameLen() (n int, ok bool) {
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	for i, off := b.chunk, b.offset; i < len(b.rec.chunks); i, off = i+1, 0 {
		if left := len(b.rec.chunks[i]) - off; left > 0 {
			return left, true
		}
	}
	if b.rec.done {
		return 0, true
	}
	return b.rec.src.FrameLen()
}

// Duration returns the duration of the origin.
func (b *Buffered) Duration() (d time.Duration, ok bool) {
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	return b.rec.src.Duration()
}

// SizeHint returns the number of recorded samples ahead of b plus the origin's hint.
func (b *Buffered) SizeHint() (lower, upper int) {
	b.rec.mu.Lock()
	defer b.rec.mu.Unlock()
	ahead := b.rec.total - b.pos
	if b.rec.done {
		return ahead, ahead
	}
	lower, upper = b.rec.src.SizeHint()
	if upper >= 0 {
		upper += ahead
	}
	return lower + ahead, upper
}

// get returns the i-th chunk, pulling the origin until it's recorded. It returns false if
// the origin drained before producing it, and for every chunk once the origin failed.
func (r *record) get(i int) ([][2]float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, false
	}
	for i >= len(r.chunks) {
		if r.done {
			return nil, false
		}
		buf := make([][2]float64, chunkSize)
		n, ok := r.src.Stream(buf)
		if n > 0 {
			r.chunks = append(r.chunks, buf[:n:n])
			r.total += n
		}
		if !ok {
			r.done = true
			r.err = r.src.Err()
		}
	}
	return r.chunks[i], true
}
