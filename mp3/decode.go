// Package mp3 implements audio data decoding in MP3 format.
package mp3

import (
	"fmt"
	"io"
	"time"

	"github.com/faiface/rewind"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/pkg/errors"
)

const (
	gomp3NumChannels   = 2
	gomp3Precision     = 2
	gomp3BytesPerFrame = gomp3NumChannels * gomp3Precision
)

// Decode takes a ReadCloser containing audio data in MP3 format and returns a StreamSeekCloser,
// which streams that audio. The Seek method will panic if rc is not io.Seeker.
//
// The returned StreamSeekCloser also implements rewind.Source.
//
// Do not close the supplied ReadCloser, instead, use the Close method of the returned
// StreamSeekCloser when you want to release the resources.
func Decode(rc io.ReadCloser) (s rewind.StreamSeekCloser, format rewind.Format, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "mp3")
		}
	}()
	d, err := gomp3.NewDecoder(rc)
	if err != nil {
		rc.Close()
		return nil, rewind.Format{}, err
	}
	format = rewind.Format{
		SampleRate:  rewind.SampleRate(d.SampleRate()),
		NumChannels: gomp3NumChannels,
		Precision:   gomp3Precision,
	}
	return &decoder{closer: rc, d: d, f: format}, format, nil
}

type decoder struct {
	closer io.Closer
	d      *gomp3.Decoder
	f      rewind.Format
	buf    []byte
	pos    int
	err    error
}

func (d *decoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}
	numBytes := len(samples) * gomp3BytesPerFrame
	if cap(d.buf) < numBytes {
		d.buf = make([]byte, numBytes)
	}
	p := d.buf[:numBytes]
	nbytes, err := io.ReadFull(d.d, p)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		d.err = errors.Wrap(err, "mp3")
	}
	for off := 0; off+gomp3BytesPerFrame <= nbytes; off += gomp3BytesPerFrame {
		samples[n], _ = d.f.DecodeSigned(p[off:])
		n++
	}
	d.pos += n * gomp3BytesPerFrame
	return n, n > 0
}

func (d *decoder) Err() error {
	return d.err
}

func (d *decoder) Len() int {
	return int(d.d.Length()) / gomp3BytesPerFrame
}

func (d *decoder) Position() int {
	return d.pos / gomp3BytesPerFrame
}

func (d *decoder) Seek(p int) error {
	if p < 0 || d.Len() < p {
		return fmt.Errorf("mp3: seek position %v out of range [%v, %v]", p, 0, d.Len())
	}
	_, err := d.d.Seek(int64(p)*gomp3BytesPerFrame, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "mp3")
	}
	d.pos = p * gomp3BytesPerFrame
	return nil
}

func (d *decoder) Close() error {
	err := d.closer.Close()
	if err != nil {
		return errors.Wrap(err, "mp3")
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
	if d.d.Length() < 0 {
		return 0, false
	}
	return d.f.D(d.Len()), true
}

func (d *decoder) SizeHint() (lower, upper int) {
	if d.d.Length() < 0 {
		return 0, -1
	}
	left := d.Len() - d.Position()
	return left, left
}
