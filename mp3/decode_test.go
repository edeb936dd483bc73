package mp3_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiface/rewind"
	"github.com/faiface/rewind/mp3"
)

type trackingCloser struct {
	io.Reader
	closed bool
}

func (tc *trackingCloser) Close() error {
	tc.closed = true
	return nil
}

func TestDecodeRejectsGarbage(t *testing.T) {
	rc := &trackingCloser{Reader: bytes.NewReader(bytes.Repeat([]byte("not audio "), 64))}
	_, _, err := mp3.Decode(rc)
	assert.Error(t, err)
	assert.True(t, rc.closed, "the reader must be closed when decoding fails")
}

type seekCloser struct {
	*bytes.Reader
	closed bool
}

func (sc *seekCloser) Close() error {
	sc.closed = true
	return nil
}

const (
	silentFrames    = 10
	samplesPerFrame = 1152
)

// silence returns MPEG-1 Layer III frames at 44.1 kHz, 128 kbit/s, mono. Their side info
// and main data are all zeros, so every granule decodes to silence.
func silence(frames int) []byte {
	const frameSize = 144 * 128000 / 44100
	var buf bytes.Buffer
	for i := 0; i < frames; i++ {
		frame := make([]byte, frameSize)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0xC0})
		buf.Write(frame)
	}
	return buf.Bytes()
}

func TestDecodeLoop(t *testing.T) {
	rc := &seekCloser{Reader: bytes.NewReader(silence(silentFrames))}
	s, format, err := mp3.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, rewind.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}, format)

	passLen := silentFrames * samplesPerFrame
	assert.Equal(t, passLen, s.Len())

	src, ok := s.(rewind.Source)
	require.True(t, ok)
	d, ok := src.Duration()
	require.True(t, ok)
	assert.Equal(t, format.SampleRate.D(passLen), d)

	r := rewind.Repeat(src)
	r.SetRepeat(true)

	got := make([][2]float64, 3*passLen)
	for i := range got {
		got[i] = [2]float64{1, 1}
	}
	n, ok := r.Stream(got)
	require.True(t, ok)
	require.Equal(t, len(got), n)
	for i := range got {
		require.Equal(t, [2]float64{}, got[i], "sample %d", i)
	}
	require.NoError(t, r.Err())

	require.NoError(t, s.Close())
	assert.True(t, rc.closed)
}

func TestDecodeUnknownLength(t *testing.T) {
	rc := &trackingCloser{Reader: bytes.NewReader(silence(2))}
	s, _, err := mp3.Decode(rc)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(rewind.Source).Duration()
	assert.False(t, ok, "the length needs a seekable reader")

	_, upper := s.(rewind.Source).SizeHint()
	assert.Negative(t, upper)
}
