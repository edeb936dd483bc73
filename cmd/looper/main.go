// Command looper plays or renders an audio file, looping it from the start on demand.
package main

import (
	"log"
	"math"

	"github.com/alecthomas/kong"

	"github.com/faiface/rewind"
	"github.com/faiface/rewind/generators"
	"github.com/faiface/rewind/internal/config"
	"github.com/faiface/rewind/internal/media"
)

// version is set via ldflags at build time
var version = "dev"

var cli struct {
	Config  string           `help:"YAML config file." type:"path"`
	Version kong.VersionFlag `help:"Show version information."`

	Play   playCmd   `cmd:"" help:"Play through the speaker, press R to toggle repeating."`
	Render renderCmd `cmd:"" help:"Write the looped audio to a WAV file."`
}

// input selects what to loop: a file, or a synthesized tone when no file is given.
type input struct {
	File     string  `arg:"" optional:"" help:"Audio file (wav, mp3, ogg, flac, pcm)." type:"existingfile"`
	Tone     float64 `help:"Loop a sine tone of this frequency instead of a file." placeholder:"HZ"`
	ToneRate int     `help:"Sample rate of the tone." default:"44100" placeholder:"HZ"`
}

// open returns the Source to loop, its title and a function releasing it.
func (in input) open(cfg *config.Config) (rewind.Source, string, func(), error) {
	if in.File != "" {
		track, err := media.Open(in.File, cfg.PCM)
		if err != nil {
			return nil, "", nil, err
		}
		title := track.Title
		if track.Artist != "" {
			title = track.Artist + " - " + title
		}
		return track, title, func() { track.Close() }, nil
	}
	if in.Tone <= 0 {
		return nil, "", nil, errNoInput
	}
	// about a second of whole periods, at least one for tones below 1 Hz
	periods := max(1, int(math.Round(in.Tone)))
	clip, err := generators.Clip(rewind.SampleRate(in.ToneRate), in.Tone, generators.Sine, periods)
	if err != nil {
		return nil, "", nil, err
	}
	return clip, "sine tone", func() {}, nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("looper"),
		kong.Description("Play an audio file and loop it from the start, without decoding it again."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)

	cfg, path, err := config.Load(cli.Config)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if path != "" {
		log.Printf("parsed config file %q", path)
	}

	ctx.FatalIfErrorf(ctx.Run(cfg))
}
