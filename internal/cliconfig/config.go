package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yyyoichi/videomark"
)

var validate = validator.New()

// Config holds CLI configuration for videomark.
type Config struct {
	FrameInterval  int     `validate:"gte=1"`
	FrameRate      int     `validate:"gte=1"`
	SampleRate     int     `validate:"gte=1"`
	BitDuration    float64 `validate:"gt=0"`
	AudioFrequency float64 `validate:"gt=0"`

	FFmpegPath  string `validate:"required"`
	FFprobePath string `validate:"required"`
	WorkDir     string
	KeepWorkDir bool
	Sequential  bool

	LogLevel string `validate:"oneof=trace debug info warn error disabled"`
	JSON     bool
	Settle   time.Duration `validate:"gt=0"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	dc := videomark.DefaultConfig()
	return Config{
		FrameInterval:  dc.FrameInterval,
		FrameRate:      dc.FrameRate,
		SampleRate:     dc.SampleRate,
		BitDuration:    dc.BitDuration,
		AudioFrequency: dc.AudioFrequency,
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
		LogLevel:       "info",
		Settle:         500 * time.Millisecond,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Options converts the configuration into decoder options.
func (c *Config) Options() []videomark.Option {
	return []videomark.Option{
		videomark.WithFrameInterval(c.FrameInterval),
		videomark.WithFrameRate(c.FrameRate),
		videomark.WithSampleRate(c.SampleRate),
		videomark.WithBitDuration(c.BitDuration),
		videomark.WithAudioFrequency(c.AudioFrequency),
		videomark.WithTools(c.FFmpegPath, c.FFprobePath),
		videomark.WithWorkDir(c.WorkDir, c.KeepWorkDir),
		videomark.WithSequential(c.Sequential),
	}
}

// configSetter writes file and env values into a Config, leaving fields whose
// flag was given on the command line untouched. Zero and non-positive values
// count as unset.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) skip(flag, raw string) bool {
	return raw == "" || s.changed[flag]
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if !s.skip(flag, value) {
		*dst = value
	}
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value > 0 && !s.changed[flag] {
		*dst = value
	}
}

func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value > 0 && !s.changed[flag] {
		*dst = value
	}
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value != nil && !s.changed[flag] {
		*dst = *value
	}
}

func (s *configSetter) setDuration(flag, raw string, dst *time.Duration) error {
	if s.skip(flag, raw) {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) parseInt(flag, raw string, dst *int) error {
	if s.skip(flag, raw) {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	s.setInt(flag, v, dst)
	return nil
}

func (s *configSetter) parseFloat(flag, raw string, dst *float64) error {
	if s.skip(flag, raw) {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	s.setFloat(flag, v, dst)
	return nil
}

// parseBool treats "true" and "1" as set, any other value as cleared.
func (s *configSetter) parseBool(flag, raw string, dst *bool) {
	if !s.skip(flag, raw) {
		*dst = raw == "true" || raw == "1"
	}
}
