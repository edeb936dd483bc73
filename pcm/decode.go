// Package pcm implements raw PCM audio decoding and encoding.
package pcm

import (
	"io"

	"github.com/faiface/rewind"
	"github.com/pkg/errors"
)

// Decode takes a Reader containing audio data in raw, signed, little-endian PCM format and
// returns a Source, which streams that audio.
func Decode(r io.Reader, format rewind.Format) (rewind.Source, error) {
	if format.Width() <= 0 {
		return nil, errors.New("pcm: invalid format (zero sample width)")
	}
	return rewind.Sourced(&stream{
		r:   r,
		f:   format,
		buf: make([]byte, 512*format.Width()),
	}, format), nil
}

type stream struct {
	r   io.Reader
	f   rewind.Format
	buf []byte
	len int
	pos int
	eof bool
	err error
}

func (s *stream) Err() error { return s.err }

func (s *stream) Stream(samples [][2]float64) (n int, ok bool) {
	width := s.f.Width()
	// keep reading until there's at least one full sample, or the reader ends
	for s.len-s.pos < width && !s.eof && s.err == nil {
		// move the partial sample to the beginning of the buffer
		s.len = copy(s.buf, s.buf[s.pos:s.len])
		s.pos = 0
		nbytes, err := s.r.Read(s.buf[s.len:])
		s.len += nbytes
		if err == io.EOF {
			s.eof = true
		} else if err != nil {
			s.err = errors.Wrap(err, "pcm")
		}
	}
	for n < len(samples) && s.len-s.pos >= width {
		samples[n], _ = s.f.DecodeSigned(s.buf[s.pos:])
		n++
		s.pos += width
	}
	return n, n > 0
}
