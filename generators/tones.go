// Package generators implements synthesized audio sources.
package generators

import (
	"math"

	"github.com/faiface/rewind"
	"github.com/pkg/errors"
)

// Shape maps a phase in [0, 1) to a sample value in [-1, 1].
type Shape func(phase float64) float64

// Sine is a sine wave.
func Sine(phase float64) float64 {
	return math.Sin(phase * 2 * math.Pi)
}

// Square is a square wave.
func Square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

// Triangle is a triangle wave.
func Triangle(phase float64) float64 {
	if phase < 0.5 {
		return 4*phase - 1
	}
	return 3 - 4*phase
}

type tone struct {
	shape Shape
	dt    float64
	t     float64
}

// Tone returns an infinite Streamer producing a wave of the given shape and frequency. Limit it
// with rewind.Take, or use Clip for a loopable finite Source.
//
// The sample rate must be at least twice the frequency.
func Tone(sr rewind.SampleRate, freq float64, shape Shape) (rewind.Streamer, error) {
	dt := freq / float64(sr)
	if dt <= 0 || dt >= 0.5 {
		return nil, errors.Errorf("generators: frequency %v out of range (0, %v)", freq, float64(sr)/2)
	}
	return &tone{shape: shape, dt: dt}, nil
}

func (g *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := g.shape(g.t)
		samples[i] = [2]float64{v, v}
		_, g.t = math.Modf(g.t + g.dt)
	}
	return len(samples), true
}

func (*tone) Err() error {
	return nil
}

// Clip returns a finite Source of whole periods of a wave, the same length as periods periods
// rounded to whole samples. Repeating it keeps the wave in phase at the loop boundary when the
// period is a whole number of samples.
func Clip(sr rewind.SampleRate, freq float64, shape Shape, periods int) (rewind.Source, error) {
	s, err := Tone(sr, freq, shape)
	if err != nil {
		return nil, err
	}
	if periods <= 0 {
		return nil, errors.New("generators: clip needs at least one period")
	}
	n := int(math.Round(float64(periods) * float64(sr) / freq))
	format := rewind.Format{SampleRate: sr, NumChannels: 1, Precision: 2}
	return rewind.Sourced(rewind.Take(n, s), format), nil
}
