package speaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiface/rewind"
)

type constStreamer struct {
	value float64
	left  int
}

func (c *constStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if c.left == 0 {
		return 0, false
	}
	if len(samples) > c.left {
		samples = samples[:c.left]
	}
	for i := range samples {
		samples[i] = [2]float64{c.value, c.value}
	}
	c.left -= len(samples)
	return len(samples), true
}

func (c *constStreamer) Err() error { return nil }

func TestMixerSumsAndDrops(t *testing.T) {
	var m mixer
	m.add(&constStreamer{0.25, 10}, &constStreamer{0.5, 4})

	buf := make([][2]float64, 6)
	n, ok := m.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 6, n)
	assert.Equal(t, [2]float64{0.75, 0.75}, buf[0])
	assert.Equal(t, [2]float64{0.25, 0.25}, buf[5])

	m.Stream(buf)
	assert.Equal(t, 1, m.len(), "the drained streamer is dropped")

	m.Stream(buf)
	assert.Zero(t, m.len())
	n, ok = m.Stream(buf)
	assert.True(t, ok, "an empty mixer streams silence")
	assert.Equal(t, 6, n)
	assert.Equal(t, [2]float64{}, buf[0])
}

func TestMixerClear(t *testing.T) {
	var m mixer
	m.add(rewind.Silence(-1))
	m.clear()
	assert.Zero(t, m.len())
}

func TestSampleReaderEncodes(t *testing.T) {
	r := newReaderFromStreamer(&constStreamer{1, 2})

	buf := make([]byte, 4*bytesPerSample)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2*bytesPerSample, n)
	assert.Equal(t, []byte{0xff, 0x7f, 0xff, 0x7f}, buf[:bytesPerSample])

	_, err = r.Read(buf[:3])
	assert.Error(t, err)
}
