package main

import (
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/faiface/rewind"
	"github.com/faiface/rewind/internal/config"
	"github.com/faiface/rewind/wav"
)

var errNoInput = errors.New("either a file or --tone is required")

type renderCmd struct {
	input `embed:""`

	Out       string        `arg:"" help:"WAV file to write."`
	For       time.Duration `help:"Length of the output." default:"10s"`
	Repeat    bool          `help:"Loop the input, overrides the config file."`
	Precision int           `help:"Bytes per sample in the output (1, 2 or 3)." default:"2"`
}

func (c *renderCmd) Run(cfg *config.Config) error {
	if c.Repeat {
		cfg.Repeat = true
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return errors.Wrap(errs[0], "invalid config")
	}

	src, title, release, err := c.open(cfg)
	if err != nil {
		return err
	}
	defer release()

	r := rewind.Repeat(src)
	r.SetRepeat(cfg.Repeat)

	format := r.Format()
	format.Precision = c.Precision
	if format.NumChannels > 2 {
		format.NumChannels = 2
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return errors.Wrap(err, "could not create output")
	}
	defer f.Close()

	n := format.SampleRate.N(c.For)
	if err := wav.Encode(f, rewind.Take(n, r), format); err != nil {
		return err
	}
	if err := r.Err(); err != nil {
		return errors.Wrap(err, "decoding failed")
	}
	log.Printf("rendered %v of %q to %s", c.For, title, c.Out)
	return f.Close()
}
