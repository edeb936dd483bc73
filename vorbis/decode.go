// Package vorbis implements audio data decoding in oggvorbis format.
package vorbis

import (
	"io"
	"time"

	"github.com/faiface/rewind"
	"github.com/jfreymuth/oggvorbis"
	"github.com/pkg/errors"
)

// oggvorbis decodes to float32, the precision is only used when re-encoding
const govorbisPrecision = 2

// Decode takes a ReadCloser containing audio data in ogg/vorbis format and returns a StreamSeekCloser,
// which streams that audio. Seeking requires rc to be an io.Seeker.
//
// Mono files are streamed with the same value in both channels. Channels beyond the first two
// are dropped.
//
// Do not close the supplied ReadCloser, instead, use the Close method of the returned
// StreamSeekCloser when you want to release the resources.
func Decode(rc io.ReadCloser) (s rewind.StreamSeekCloser, format rewind.Format, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "ogg/vorbis")
		}
	}()
	d, err := oggvorbis.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, rewind.Format{}, err
	}
	format = rewind.Format{
		SampleRate:  rewind.SampleRate(d.SampleRate()),
		NumChannels: d.Channels(),
		Precision:   govorbisPrecision,
	}
	return &decoder{closer: rc, d: d, f: format}, format, nil
}

type decoder struct {
	closer io.Closer
	d      *oggvorbis.Reader
	f      rewind.Format
	tmp    []float32
	err    error
}

func (d *decoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}
	channels := d.f.NumChannels
	if cap(d.tmp) < len(samples)*channels {
		d.tmp = make([]float32, len(samples)*channels)
	}
	for n < len(samples) {
		dn, err := d.d.Read(d.tmp[:(len(samples)-n)*channels])
		for i := 0; i+channels <= dn; i += channels {
			left, right := d.tmp[i], d.tmp[i]
			if channels >= 2 {
				right = d.tmp[i+1]
			}
			samples[n] = [2]float64{float64(left), float64(right)}
			n++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			d.err = errors.Wrap(err, "ogg/vorbis")
			break
		}
		if dn == 0 {
			break
		}
	}
	return n, n > 0
}

func (d *decoder) Err() error {
	return d.err
}

func (d *decoder) Len() int {
	return int(d.d.Length())
}

func (d *decoder) Position() int {
	return int(d.d.Position())
}

func (d *decoder) Seek(p int) error {
	err := d.d.SetPosition(int64(p))
	if err != nil {
		return errors.Wrap(err, "ogg/vorbis")
	}
	return nil
}

func (d *decoder) Close() error {
	err := d.closer.Close()
	if err != nil {
		return errors.Wrap(err, "ogg/vorbis")
	}
	return nil
}

func (d *decoder) Format() rewind.Format {
	return d.f
}

func (d *decoder) FrameLen() (n int, ok bool) {
	return 0, false
}

func (d *decoder) Duration() (time.Duration, bool) {
	if d.d.Length() <= 0 {
		return 0, false
	}
	return d.f.D(d.Len()), true
}

func (d *decoder) SizeHint() (lower, upper int) {
	if d.d.Length() <= 0 {
		return 0, -1
	}
	left := d.Len() - d.Position()
	return left, left
}
