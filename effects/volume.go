// Package effects implements sample-level effects applied on top of a rewind.Streamer.
package effects

import (
	"math"

	"github.com/faiface/rewind"
)

// Volume adjusts the loudness of the wrapped Streamer. The gain is Base raised to Volume, so
// with Base 2 each step of Volume doubles or halves the amplitude. Volume 0 leaves the samples
// unchanged, Silent mutes them.
//
// Fields may be changed while streaming, under speaker.Lock when playing through the speaker.
type Volume struct {
	Streamer rewind.Streamer
	Base     float64
	Volume   float64
	Silent   bool
}

// Gain returns the factor every sample is multiplied by.
func (v *Volume) Gain() float64 {
	if v.Silent {
		return 0
	}
	return math.Pow(v.Base, v.Volume)
}

// Stream streams the wrapped Streamer with the gain applied.
func (v *Volume) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = v.Streamer.Stream(samples)
	gain := v.Gain()
	for i := range samples[:n] {
		samples[i][0] *= gain
		samples[i][1] *= gain
	}
	return n, ok
}

// Err propagates the wrapped Streamer's errors.
func (v *Volume) Err() error {
	return v.Streamer.Err()
}
