// Package config holds the settings of the looper program.
package config

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is read from a YAML file. Command-line flags take precedence over it.
type Config struct {
	// Repeat enables looping from the start.
	Repeat bool `yaml:"repeat"`

	// BufferSize is the length of the speaker's buffer. Longer buffers are more robust,
	// shorter ones react faster to toggling repeat.
	BufferSize time.Duration `yaml:"buffer-size"`

	// Volume is passed to effects.Volume with base 2, so -1 halves the amplitude.
	Volume float64 `yaml:"volume"`

	// PCM describes the raw files, which carry no header.
	PCM PCM `yaml:"pcm"`
}

// PCM is the format of raw PCM input.
type PCM struct {
	SampleRate  int `yaml:"sample-rate"`
	NumChannels int `yaml:"channels"`
	Precision   int `yaml:"precision"`
}

// DefaultFiles are tried in order when no config file is given.
var DefaultFiles = []string{
	"$XDG_CONFIG_HOME/looper.yaml",
	"$HOME/.config/looper.yaml",
	"$HOME/.looper.yaml",
}

// Default returns the configuration used without a config file.
func Default() *Config {
	return &Config{
		BufferSize: 100 * time.Millisecond,
		PCM: PCM{
			SampleRate:  44100,
			NumChannels: 2,
			Precision:   2,
		},
	}
}

// ParseWithDefaults parses the contents of r into c. Settings missing from r keep their
// defaults.
func (c *Config) ParseWithDefaults(r io.Reader) error {
	def := Default()
	if err := yaml.NewDecoder(r).Decode(c); err != nil && err != io.EOF {
		return errors.Wrap(err, "could not decode configuration file")
	}
	if c.BufferSize == 0 {
		c.BufferSize = def.BufferSize
	}
	if c.PCM.SampleRate == 0 {
		c.PCM.SampleRate = def.PCM.SampleRate
	}
	if c.PCM.NumChannels == 0 {
		c.PCM.NumChannels = def.PCM.NumChannels
	}
	if c.PCM.Precision == 0 {
		c.PCM.Precision = def.PCM.Precision
	}
	return nil
}

// Validate returns every problem with the configuration.
func (c *Config) Validate() []error {
	var errs []error
	if c.BufferSize < time.Millisecond || c.BufferSize > 10*time.Second {
		errs = append(errs, errors.Errorf("buffer-size %v out of range [1ms, 10s]", c.BufferSize))
	}
	if c.Volume > 4 {
		errs = append(errs, errors.Errorf("volume %v is too loud (at most 4)", c.Volume))
	}
	if c.PCM.SampleRate <= 0 {
		errs = append(errs, errors.New("pcm sample-rate must be positive"))
	}
	if c.PCM.NumChannels != 1 && c.PCM.NumChannels != 2 {
		errs = append(errs, errors.Errorf("pcm channels must be 1 or 2, not %d", c.PCM.NumChannels))
	}
	if c.PCM.Precision < 1 || c.PCM.Precision > 3 {
		errs = append(errs, errors.Errorf("pcm precision must be 1, 2 or 3 bytes, not %d", c.PCM.Precision))
	}
	return errs
}

// Load reads the config file at path. An empty path means the first existing file of
// DefaultFiles, or the defaults if there's none.
func Load(path string) (*Config, string, error) {
	if path == "" {
		for _, candidate := range DefaultFiles {
			full := os.ExpandEnv(candidate)
			if _, err := os.Stat(full); err == nil {
				path = full
				break
			}
		}
	}
	c := Default()
	if path == "" {
		return c, "", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, path, errors.Wrap(err, "could not open config file")
	}
	defer f.Close()

	if err := c.ParseWithDefaults(f); err != nil {
		return nil, path, errors.Wrapf(err, "could not parse %q", path)
	}
	return c, path, nil
}
