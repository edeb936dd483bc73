package pcm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiface/rewind"
	"github.com/faiface/rewind/pcm"
)

var format = rewind.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}

func drain(t *testing.T, s rewind.Streamer) [][2]float64 {
	t.Helper()
	var (
		out [][2]float64
		buf [100][2]float64
	)
	for {
		n, ok := s.Stream(buf[:])
		if !ok {
			require.NoError(t, s.Err())
			return out
		}
		out = append(out, buf[:n]...)
	}
}

func TestRoundTripRepeated(t *testing.T) {
	clip := [][2]float64{{0.5, -0.5}, {0.25, -0.25}, {0, 0}, {-1, 1}}

	var raw bytes.Buffer
	for _, sample := range clip {
		p := make([]byte, format.Width())
		format.EncodeSigned(p, sample)
		raw.Write(p)
	}

	src, err := pcm.Decode(&raw, format)
	require.NoError(t, err)
	assert.Equal(t, format, src.Format())

	r := rewind.Repeat(src)
	r.SetRepeat(true)

	var out bytes.Buffer
	require.NoError(t, pcm.Encode(&out, rewind.Take(3*len(clip), r), format))
	require.Equal(t, 3*len(clip)*format.Width(), out.Len())

	again, err := pcm.Decode(&out, format)
	require.NoError(t, err)
	got := drain(t, again)
	require.Len(t, got, 3*len(clip))
	for i := range got {
		want := clip[i%len(clip)]
		assert.InDelta(t, want[0], got[i][0], 1e-4, "sample %d", i)
		assert.InDelta(t, want[1], got[i][1], 1e-4, "sample %d", i)
	}
}

func TestDecodePartialSample(t *testing.T) {
	// one full sample and a dangling byte
	src, err := pcm.Decode(bytes.NewReader([]byte{0, 0, 0, 0, 1}), format)
	require.NoError(t, err)
	assert.Len(t, drain(t, src), 1)
}

func TestDecodeInvalidFormat(t *testing.T) {
	_, err := pcm.Decode(bytes.NewReader(nil), rewind.Format{SampleRate: 8000})
	assert.Error(t, err)
}
