package effects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faiface/rewind"
	"github.com/faiface/rewind/effects"
)

func TestVolume(t *testing.T) {
	for name, tc := range map[string]struct {
		volume effects.Volume
		gain   float64
	}{
		"unchanged": {effects.Volume{Base: 2, Volume: 0}, 1},
		"halved":    {effects.Volume{Base: 2, Volume: -1}, 0.5},
		"doubled":   {effects.Volume{Base: 2, Volume: 1}, 2},
		"silent":    {effects.Volume{Base: 2, Volume: 1, Silent: true}, 0},
	} {
		t.Run(name, func(t *testing.T) {
			v := tc.volume
			v.Streamer = rewind.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
				for i := range samples {
					samples[i] = [2]float64{0.25, -0.25}
				}
				return len(samples), true
			})
			buf := make([][2]float64, 3)
			n, ok := v.Stream(buf)
			assert.True(t, ok)
			assert.Equal(t, 3, n)
			assert.InDelta(t, 0.25*tc.gain, buf[2][0], 1e-12)
			assert.InDelta(t, -0.25*tc.gain, buf[2][1], 1e-12)
			assert.NoError(t, v.Err())
		})
	}
}
