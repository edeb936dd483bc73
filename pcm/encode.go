package pcm

import (
	"bufio"
	"io"

	"github.com/faiface/rewind"
	"github.com/pkg/errors"
)

// Encode writes all audio streamed from s to w in raw, signed, little-endian PCM format.
//
// Don't pass a repeating Streamer without limiting it with rewind.Take, it never drains.
func Encode(w io.Writer, s rewind.Streamer, format rewind.Format) error {
	var (
		bw      = bufio.NewWriter(w)
		samples = make([][2]float64, 512)
		buffer  = make([]byte, len(samples)*format.Width())
	)
	for {
		n, ok := s.Stream(samples)
		if !ok {
			break
		}
		var offset int
		for _, sample := range samples[:n] {
			offset += format.EncodeSigned(buffer[offset:], sample)
		}
		if _, err := bw.Write(buffer[:offset]); err != nil {
			return errors.Wrap(err, "pcm")
		}
	}
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "pcm: streamer failed")
	}
	return errors.Wrap(bw.Flush(), "pcm")
}
