package flac_test

import (
	"bytes"
	"io"
	"testing"

	goflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiface/rewind"
	"github.com/faiface/rewind/flac"
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
	_, _, err := flac.Decode(rc)
	assert.Error(t, err)
	assert.True(t, rc.closed, "the reader must be closed when decoding fails")
}

const (
	testBlockSize = 1024
	testBlocks    = 3
)

// encodeTestStream encodes a 16-bit stereo ramp with the mewkiz/flac encoder and returns it
// along with the samples it holds.
func encodeTestStream(t *testing.T) ([]byte, [][2]float64) {
	t.Helper()
	n := testBlockSize * testBlocks
	info := &meta.StreamInfo{
		BlockSizeMin:  testBlockSize,
		BlockSizeMax:  testBlockSize,
		SampleRate:    44100,
		NChannels:     2,
		BitsPerSample: 16,
		NSamples:      uint64(n),
	}
	var buf bytes.Buffer
	enc, err := goflac.NewEncoder(&buf, info)
	require.NoError(t, err)

	var want [][2]float64
	for b := 0; b < testBlocks; b++ {
		left := make([]int32, testBlockSize)
		right := make([]int32, testBlockSize)
		for i := range left {
			v := int32((b*testBlockSize+i)%400-200) * 100
			left[i], right[i] = v, -v
			want = append(want, [2]float64{float64(v) / (1 << 15), float64(-v) / (1 << 15)})
		}
		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         testBlockSize,
				SampleRate:        44100,
				Channels:          frame.ChannelsLR,
				BitsPerSample:     16,
			},
			Subframes: []*frame.Subframe{
				{SubHeader: frame.SubHeader{Pred: frame.PredVerbatim}, Samples: left, NSamples: testBlockSize},
				{SubHeader: frame.SubHeader{Pred: frame.PredVerbatim}, Samples: right, NSamples: testBlockSize},
			},
		}
		require.NoError(t, enc.WriteFrame(f))
	}
	require.NoError(t, enc.Close())
	return buf.Bytes(), want
}

func TestDecodeLoop(t *testing.T) {
	data, want := encodeTestStream(t)
	rc := &trackingCloser{Reader: bytes.NewReader(data)}

	s, format, err := flac.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, rewind.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}, format)
	assert.Equal(t, len(want), s.Len())

	src, ok := s.(rewind.Source)
	require.True(t, ok)
	d, ok := src.Duration()
	require.True(t, ok)
	assert.Equal(t, format.SampleRate.D(len(want)), d)

	r := rewind.Repeat(src)
	r.SetRepeat(true)

	got := make([][2]float64, 3*len(want))
	n, ok := r.Stream(got)
	require.True(t, ok)
	require.Equal(t, len(got), n)
	for p := 0; p < 3; p++ {
		require.InDeltaSlice(t, flatten(want), flatten(got[p*len(want):(p+1)*len(want)]), 1e-9, "pass %d", p)
	}
	require.NoError(t, r.Err())

	require.NoError(t, s.Close())
	assert.True(t, rc.closed)
}

func flatten(samples [][2]float64) []float64 {
	flat := make([]float64, 0, 2*len(samples))
	for _, s := range samples {
		flat = append(flat, s[0], s[1])
	}
	return flat
}
