// Package wav implements audio data decoding and encoding in WAVE format.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/faiface/rewind"
	"github.com/pkg/errors"
)

// headerSize is the size of the canonical header read and written by this package.
const headerSize = 44

// Decode takes a ReadCloser containing audio data in WAVE format and returns a StreamSeekCloser,
// which streams that audio. The Seek method will panic if rc is not io.Seeker.
//
// The returned StreamSeekCloser also implements rewind.Source.
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
	if err := binary.Read(rc, binary.LittleEndian, &d.h); err != nil {
		return nil, rewind.Format{}, errors.Wrap(err, "wav")
	}
	if string(d.h.RiffMark[:]) != "RIFF" {
		return nil, rewind.Format{}, errors.New("wav: missing RIFF at the beginning")
	}
	if string(d.h.WaveMark[:]) != "WAVE" {
		return nil, rewind.Format{}, errors.New("wav: unsupported file type")
	}
	if string(d.h.FmtMark[:]) != "fmt " {
		return nil, rewind.Format{}, errors.New("wav: missing format chunk marker")
	}
	if string(d.h.DataMark[:]) != "data" {
		return nil, rewind.Format{}, errors.New("wav: missing data chunk marker")
	}
	if d.h.FormatType != 1 {
		return nil, rewind.Format{}, errors.New("wav: unsupported format type")
	}
	if d.h.NumChans <= 0 {
		return nil, rewind.Format{}, errors.New("wav: invalid number of channels (less than 1)")
	}
	if d.h.BitsPerSample != 8 && d.h.BitsPerSample != 16 && d.h.BitsPerSample != 24 {
		return nil, rewind.Format{}, errors.New("wav: unsupported number of bits per sample, 8, 16 or 24 are supported")
	}
	d.f = rewind.Format{
		SampleRate:  rewind.SampleRate(d.h.SampleRate),
		NumChannels: int(d.h.NumChans),
		Precision:   int(d.h.BitsPerSample / 8),
	}
	if int(d.h.BytesPerFrame) != d.f.Width() {
		return nil, rewind.Format{}, errors.Errorf("wav: inconsistent frame size %d for %d channels", d.h.BytesPerFrame, d.h.NumChans)
	}
	return &d, d.f, nil
}

type header struct {
	RiffMark      [4]byte
	FileSize      int32
	WaveMark      [4]byte
	FmtMark       [4]byte
	FormatSize    int32
	FormatType    int16
	NumChans      int16
	SampleRate    int32
	ByteRate      int32
	BytesPerFrame int16
	BitsPerSample int16
	DataMark      [4]byte
	DataSize      int32
}

type decoder struct {
	rc  io.ReadCloser
	h   header
	f   rewind.Format
	buf []byte
	pos int32
	err error
}

func (d *decoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil || d.pos >= d.h.DataSize {
		return 0, false
	}
	width := d.f.Width()
	numBytes := len(samples) * width
	if left := int(d.h.DataSize - d.pos); numBytes > left {
		numBytes = left - left%width
	}
	if cap(d.buf) < numBytes {
		d.buf = make([]byte, numBytes)
	}
	p := d.buf[:numBytes]
	nbytes, err := io.ReadFull(d.rc, p)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		d.err = errors.Wrap(err, "wav")
	}
	// 8-bit WAVE is unsigned, everything wider is signed
	decode := d.f.DecodeSigned
	if d.f.Precision == 1 {
		decode = d.f.DecodeUnsigned
	}
	for off := 0; off+width <= nbytes; off += width {
		samples[n], _ = decode(p[off:])
		n++
	}
	d.pos += int32(nbytes)
	if nbytes < numBytes && d.err == nil {
		// truncated file, stop here
		d.pos = d.h.DataSize
	}
	return n, n > 0
}

func (d *decoder) Err() error {
	return d.err
}

func (d *decoder) Len() int {
	return int(d.h.DataSize) / d.f.Width()
}

func (d *decoder) Position() int {
	return int(d.pos) / d.f.Width()
}

func (d *decoder) Seek(p int) error {
	seeker, ok := d.rc.(io.Seeker)
	if !ok {
		panic(fmt.Errorf("wav: seek: resource is not io.Seeker"))
	}
	if p < 0 || d.Len() < p {
		return fmt.Errorf("wav: seek position %v out of range [%v, %v]", p, 0, d.Len())
	}
	pos := int32(p * d.f.Width())
	_, err := seeker.Seek(int64(pos)+headerSize, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "wav: seek error")
	}
	d.pos = pos
	return nil
}

func (d *decoder) Close() error {
	err := d.rc.Close()
	if err != nil {
		return errors.Wrap(err, "wav")
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
	return d.f.D(d.Len()), true
}

func (d *decoder) SizeHint() (lower, upper int) {
	left := d.Len() - d.Position()
	return left, left
}
