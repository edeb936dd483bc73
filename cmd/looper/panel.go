package main

import (
	"fmt"
	"time"
	"unicode"

	"github.com/gdamore/tcell"

	"github.com/faiface/rewind"
	"github.com/faiface/rewind/effects"
	"github.com/faiface/rewind/speaker"
)

func drawTextLine(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// ctrl streams silence while paused, without advancing the wrapped Streamer.
type ctrl struct {
	Streamer rewind.Streamer
	Paused   bool
}

func (c *ctrl) Stream(samples [][2]float64) (n int, ok bool) {
	if c.Paused {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}
	return c.Streamer.Stream(samples)
}

func (c *ctrl) Err() error {
	return c.Streamer.Err()
}

type audioPanel struct {
	title      string
	sampleRate rewind.SampleRate
	length     time.Duration
	repeatable *rewind.Repeatable
	ctrl       *ctrl
	volume     *effects.Volume
}

func newAudioPanel(title string, r *rewind.Repeatable, volume float64) *audioPanel {
	sr := r.Format().SampleRate
	length, _ := r.Duration()
	ctrl := &ctrl{Streamer: r}
	return &audioPanel{
		title:      title,
		sampleRate: sr,
		length:     length,
		repeatable: r,
		ctrl:       ctrl,
		volume:     &effects.Volume{Streamer: ctrl, Base: 2, Volume: volume},
	}
}

// play starts playback, done is closed once the stream ends for good.
func (ap *audioPanel) play(done chan<- struct{}) {
	speaker.Play(rewind.Seq(ap.volume, rewind.Callback(func() {
		close(done)
	})))
}

func (ap *audioPanel) draw(screen tcell.Screen) {
	mainStyle := tcell.StyleDefault.
		Background(tcell.NewHexColor(0x2E3440)).
		Foreground(tcell.NewHexColor(0xD8DEE9))
	statusStyle := mainStyle.
		Foreground(tcell.NewHexColor(0xEBCB8B)).
		Bold(true)

	screen.Fill(' ', mainStyle)

	drawTextLine(screen, 0, 0, "Looping "+ap.title, mainStyle)
	drawTextLine(screen, 0, 1, "Press [ESC] to quit.", mainStyle)
	drawTextLine(screen, 0, 2, "Press [SPACE] to pause/resume.", mainStyle)

	speaker.Lock()
	position := ap.sampleRate.D(ap.repeatable.Position())
	repeat := ap.repeatable.Repeating()
	paused := ap.ctrl.Paused
	volume := ap.volume.Volume
	speaker.Unlock()

	positionStatus := position.Round(time.Second).String()
	if ap.length > 0 {
		positionStatus += " / " + ap.length.Round(time.Second).String()
	}
	if paused {
		positionStatus += " (paused)"
	}
	repeatStatus := "off"
	if repeat {
		repeatStatus = "on"
	}

	drawTextLine(screen, 0, 4, "Position:", mainStyle)
	drawTextLine(screen, 16, 4, positionStatus, statusStyle)

	drawTextLine(screen, 0, 5, "Repeat   (R):", mainStyle)
	drawTextLine(screen, 16, 5, repeatStatus, statusStyle)

	drawTextLine(screen, 0, 6, "Volume (A/S):", mainStyle)
	drawTextLine(screen, 16, 6, fmt.Sprintf("%.1f", volume), statusStyle)
}

func (ap *audioPanel) handle(event tcell.Event) (changed, quit bool) {
	switch event := event.(type) {
	case *tcell.EventKey:
		if event.Key() == tcell.KeyESC || event.Key() == tcell.KeyCtrlC {
			return false, true
		}

		if event.Key() != tcell.KeyRune {
			return false, false
		}

		switch unicode.ToLower(event.Rune()) {
		case ' ':
			speaker.Lock()
			ap.ctrl.Paused = !ap.ctrl.Paused
			speaker.Unlock()
			return true, false

		case 'r':
			speaker.ToggleRepeat(ap.repeatable)
			return true, false

		case 'a':
			speaker.Lock()
			ap.volume.Volume -= 0.1
			speaker.Unlock()
			return true, false

		case 's':
			speaker.Lock()
			ap.volume.Volume += 0.1
			speaker.Unlock()
			return true, false
		}

	case *tcell.EventResize:
		return true, false
	}
	return false, false
}
