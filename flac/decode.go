// Package flac implements audio data decoding in FLAC format.
package flac

import (
	"fmt"
	"io"
	"time"

	"github.com/faiface/rewind"
	"github.com/mewkiz/flac"
	"github.com/pkg/errors"
)

// Decode takes a ReadCloser containing audio data in FLAC format and returns a StreamSeekCloser,
// which streams that audio. Seeking requires rc to be an io.Seeker.
//
// The returned StreamSeekCloser also implements rewind.Source. Its FrameLen reports the
// samples left in the current FLAC frame.
//
// Do not close the supplied ReadCloser, instead, use the Close method of the returned
// StreamSeekCloser when you want to release the resources.
func Decode(rc io.ReadCloser) (s rewind.StreamSeekCloser, format rewind.Format, err error) {
	d := decoder{rc: rc}
	defer func() { // hacky way to always close rc if an error occurred
		if err != nil {
			d.rc.Close()
		}
	}()
	if rs, ok := rc.(io.ReadSeeker); ok {
		d.stream, err = flac.NewSeek(rs)
	} else {
		d.stream, err = flac.New(rc)
	}
	if err != nil {
		return nil, rewind.Format{}, errors.Wrap(err, "flac")
	}
	info := d.stream.Info
	if info.NChannels == 0 || info.BitsPerSample == 0 || info.BitsPerSample > 32 {
		return nil, rewind.Format{}, errors.Errorf("flac: unsupported stream (%d channels, %d bits per sample)", info.NChannels, info.BitsPerSample)
	}
	d.f = rewind.Format{
		SampleRate:  rewind.SampleRate(info.SampleRate),
		NumChannels: int(info.NChannels),
		Precision:   (int(info.BitsPerSample) + 7) / 8,
	}
	d.scale = 1 / float64(uint64(1)<<(info.BitsPerSample-1))
	return &d, d.f, nil
}

type decoder struct {
	rc     io.ReadCloser
	stream *flac.Stream
	f      rewind.Format
	scale  float64
	buf    [][2]float64
	pos    int
	err    error
	eof    bool
}

func (d *decoder) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) && d.err == nil {
		if len(d.buf) == 0 {
			if d.eof {
				break
			}
			if err := d.refill(); err != nil {
				if err == io.EOF {
					d.eof = true
				} else {
					d.err = errors.Wrap(err, "flac")
				}
				break
			}
		}
		c := copy(samples[n:], d.buf)
		d.buf = d.buf[c:]
		n += c
	}
	d.pos += n
	return n, n > 0
}

// refill decodes the next frame into the decode buffer.
func (d *decoder) refill() error {
	frame, err := d.stream.ParseNext()
	if err != nil {
		return err
	}
	n := len(frame.Subframes[0].Samples)
	if cap(d.buf) < n {
		d.buf = make([][2]float64, n)
	}
	d.buf = d.buf[:n]
	left, right := frame.Subframes[0].Samples, frame.Subframes[0].Samples
	if len(frame.Subframes) >= 2 {
		right = frame.Subframes[1].Samples
	}
	for i := range d.buf {
		d.buf[i][0] = float64(left[i]) * d.scale
		d.buf[i][1] = float64(right[i]) * d.scale
	}
	return nil
}

func (d *decoder) Err() error {
	return d.err
}

func (d *decoder) Len() int {
	return int(d.stream.Info.NSamples)
}

func (d *decoder) Position() int {
	return d.pos
}

func (d *decoder) Seek(p int) error {
	if _, ok := d.rc.(io.Seeker); !ok {
		panic(fmt.Errorf("flac: seek: resource is not io.Seeker"))
	}
	if p < 0 || d.Len() < p {
		return fmt.Errorf("flac: seek position %v out of range [%v, %v]", p, 0, d.Len())
	}
	start, err := d.stream.Seek(uint64(p))
	if err != nil {
		return errors.Wrap(err, "flac: seek error")
	}
	d.buf, d.eof = d.buf[:0], false
	// Seek lands on the frame containing p, skip to p within it
	if skip := p - int(start); skip > 0 {
		if err := d.refill(); err != nil {
			return errors.Wrap(err, "flac: seek error")
		}
		if skip > len(d.buf) {
			skip = len(d.buf)
		}
		d.buf = d.buf[skip:]
	}
	d.pos = p
	return nil
}

func (d *decoder) Close() error {
	err := d.rc.Close()
	if err != nil {
		return errors.Wrap(err, "flac")
	}
	return nil
}

func (d *decoder) Format() rewind.Format {
	return d.f
}

func (d *decoder) FrameLen() (n int, ok bool) {
	if len(d.buf) > 0 {
		return len(d.buf), true
	}
	if d.eof {
		return 0, true
	}
	return 0, false
}

func (d *decoder) Duration() (time.Duration, bool) {
	if d.stream.Info.NSamples == 0 {
		return 0, false
	}
	return d.f.D(d.Len()), true
}

func (d *decoder) SizeHint() (lower, upper int) {
	if d.stream.Info.NSamples == 0 {
		return len(d.buf), -1
	}
	left := d.Len() - d.pos
	return left, left
}
