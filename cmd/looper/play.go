package main

import (
	"log"
	"time"

	"github.com/gdamore/tcell"
	"github.com/pkg/errors"

	"github.com/faiface/rewind"
	"github.com/faiface/rewind/internal/config"
	"github.com/faiface/rewind/speaker"
)

type playCmd struct {
	input `embed:""`

	Repeat bool    `help:"Start with repeating enabled, overrides the config file."`
	Volume float64 `help:"Volume, each step doubles or halves the amplitude. Overrides the config file when non-zero."`
}

func (c *playCmd) Run(cfg *config.Config) error {
	if c.Repeat {
		cfg.Repeat = true
	}
	if c.Volume != 0 {
		cfg.Volume = c.Volume
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			log.Printf("config: %v", err)
		}
		return errors.New("invalid config")
	}

	src, title, release, err := c.open(cfg)
	if err != nil {
		return err
	}
	defer release()

	r := rewind.Repeat(src)
	r.SetRepeat(cfg.Repeat)

	sr := r.Format().SampleRate
	if err := speaker.Init(sr, sr.N(cfg.BufferSize)); err != nil {
		return err
	}
	defer speaker.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "could not open terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "could not open terminal")
	}
	defer screen.Fini()

	ap := newAudioPanel(title, r, cfg.Volume)

	redraw := func() {
		screen.Clear()
		ap.draw(screen)
		screen.Show()
	}
	redraw()

	done := make(chan struct{})
	ap.play(done)

	ticks := time.NewTicker(time.Second / 4)
	defer ticks.Stop()

	events := make(chan tcell.Event)
	go func() {
		for {
			events <- screen.PollEvent()
		}
	}()

loop:
	for {
		select {
		case event := <-events:
			changed, quit := ap.handle(event)
			if quit {
				break loop
			}
			if changed {
				redraw()
			}
		case <-ticks.C:
			redraw()
		case <-done:
			break loop
		}
	}

	speaker.Lock()
	err = r.Err()
	speaker.Unlock()
	return errors.Wrap(err, "decoding failed")
}
