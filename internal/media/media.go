// Package media opens audio files as rewind Sources.
package media

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/pkg/errors"

	"github.com/faiface/rewind"
	"github.com/faiface/rewind/flac"
	"github.com/faiface/rewind/internal/config"
	"github.com/faiface/rewind/mp3"
	"github.com/faiface/rewind/pcm"
	"github.com/faiface/rewind/vorbis"
	"github.com/faiface/rewind/wav"
)

// Track is an opened audio file.
type Track struct {
	rewind.Source

	// Title is taken from the file's tags, or from its name if it has none.
	Title  string
	Artist string

	closer io.Closer
}

// Close releases the file.
func (t *Track) Close() error {
	return t.closer.Close()
}

// Open decodes the file at path, picking the decoder by its extension. Raw PCM files (.pcm,
// .raw) are decoded in the given format.
func Open(path string, raw config.PCM) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open audio file")
	}

	t := &Track{closer: f}
	t.Title, t.Artist = readTags(f)
	if t.Title == "" {
		t.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "could not rewind audio file")
	}

	var (
		s      rewind.Streamer
		format rewind.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		s, format, err = wav.Decode(f)
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".ogg", ".oga":
		s, format, err = vorbis.Decode(f)
	case ".flac":
		s, format, err = flac.Decode(f)
	case ".pcm", ".raw":
		format = rewind.Format{
			SampleRate:  rewind.SampleRate(raw.SampleRate),
			NumChannels: raw.NumChannels,
			Precision:   raw.Precision,
		}
		s, err = pcm.Decode(f, format)
		if err != nil {
			f.Close()
		}
	default:
		f.Close()
		return nil, errors.Errorf("unsupported audio file extension %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode %q", path)
	}

	t.Source = rewind.Sourced(s, format)
	return t, nil
}

// readTags returns the title and artist tags, or empty strings if the file has none.
func readTags(r io.ReadSeeker) (title, artist string) {
	m, err := tag.ReadFrom(r)
	if err != nil {
		return "", ""
	}
	return m.Title(), m.Artist()
}
