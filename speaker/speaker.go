// Package speaker implements playback of rewind.Streamer values through physical speakers.
package speaker

import (
	"io"
	"sync"

	"github.com/faiface/rewind"
	"github.com/hajimehoshi/oto/v2"
	"github.com/pkg/errors"
)

const channelCount = 2
const bitDepthInBytes = 2
const bytesPerSample = bitDepthInBytes * channelCount

var (
	mu      sync.Mutex
	mix     mixer
	context *oto.Context
	player  oto.Player
)

// Init initializes audio playback through speaker. Must be called before using this package.
//
// The bufferSize argument specifies the number of samples of the speaker's buffer. Bigger
// bufferSize means lower CPU usage and more reliable playback. Lower bufferSize means better
// responsiveness and less delay.
func Init(sampleRate rewind.SampleRate, bufferSize int) error {
	if context != nil {
		return errors.New("speaker cannot be initialized more than once")
	}

	mix = mixer{}

	var err error
	var readyChan chan struct{}
	context, readyChan, err = oto.NewContext(int(sampleRate), channelCount, bitDepthInBytes)
	if err != nil {
		return errors.Wrap(err, "failed to initialize speaker")
	}
	<-readyChan

	player = context.NewPlayer(newReaderFromStreamer(&mix))
	if bs, ok := player.(oto.BufferSizeSetter); ok {
		bs.SetBufferSize(bufferSize * bytesPerSample)
	}
	player.Play()

	return nil
}

// Close stops the playback and drops all playing Streamers.
func Close() {
	if player != nil {
		player.Close()
		player = nil
		Clear()
	}
}

// Lock locks the speaker. While locked, speaker won't pull new data from the playing Streamers.
// Lock if you want to modify any currently playing Streamers, such as toggling repeating on a
// rewind.Repeatable, to avoid race conditions.
//
// Always lock speaker for as little time as possible, to avoid playback glitches.
func Lock() {
	mu.Lock()
}

// Unlock unlocks the speaker. Call after modifying any currently playing Streamer.
func Unlock() {
	mu.Unlock()
}

// Play starts playing all provided Streamers through the speaker.
func Play(s ...rewind.Streamer) {
	mu.Lock()
	mix.add(s...)
	mu.Unlock()
}

// SetRepeat enables or disables repeating of r while it's playing through the speaker.
func SetRepeat(r *rewind.Repeatable, value bool) {
	mu.Lock()
	r.SetRepeat(value)
	mu.Unlock()
}

// ToggleRepeat flips repeating of r while it's playing through the speaker and returns the
// new setting. The current pass keeps playing either way; the change shows when it ends.
func ToggleRepeat(r *rewind.Repeatable) bool {
	mu.Lock()
	defer mu.Unlock()
	r.SetRepeat(!r.Repeating())
	return r.Repeating()
}

// Playing returns the number of Streamers currently playing. Drained Streamers are dropped
// as soon as the speaker pulls past their end.
func Playing() int {
	mu.Lock()
	defer mu.Unlock()
	return mix.len()
}

// Clear removes all currently playing Streamers from the speaker.
func Clear() {
	mu.Lock()
	mix.clear()
	mu.Unlock()
}

// sampleReader is a wrapper for rewind.Streamer to implement io.Reader.
type sampleReader struct {
	s   rewind.Streamer
	buf [][2]float64
}

func newReaderFromStreamer(s rewind.Streamer) *sampleReader {
	return &sampleReader{
		s: s,
	}
}

// Read pulls samples from the reader and fills buf with the encoded
// samples. Read expects the size of buf be divisible by the length
// of a sample (= channel count * bit depth in bytes).
func (s *sampleReader) Read(buf []byte) (n int, err error) {
	if len(buf)%bytesPerSample != 0 {
		return 0, errors.New("requested number of bytes do not align with the samples")
	}
	ns := len(buf) / bytesPerSample
	if len(s.buf) < ns {
		s.buf = make([][2]float64, ns)
	}
	mu.Lock()
	ns, ok := s.s.Stream(s.buf[:ns])
	mu.Unlock()
	if !ok {
		if err := s.s.Err(); err != nil {
			return 0, errors.Wrap(err, "streamer returned error when requesting samples")
		}
		if ns == 0 {
			return 0, io.EOF
		}
	}

	for i := range s.buf[:ns] {
		for c := range s.buf[i] {
			val := s.buf[i][c]
			if val < -1 {
				val = -1
			}
			if val > +1 {
				val = +1
			}
			valInt16 := int16(val * (1<<15 - 1))
			buf[i*bytesPerSample+c*bitDepthInBytes+0] = byte(valInt16)
			buf[i*bytesPerSample+c*bitDepthInBytes+1] = byte(valInt16 >> 8)
		}
	}

	return ns * bytesPerSample, nil
}
