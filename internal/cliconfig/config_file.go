package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig is the TOML form of Config. Pointers tell an absent bool from
// false and the settle delay is a duration string such as "750ms".
type FileConfig struct {
	FrameInterval  int     `toml:"frame_interval"`
	FrameRate      int     `toml:"frame_rate"`
	SampleRate     int     `toml:"sample_rate"`
	BitDuration    float64 `toml:"bit_duration"`
	AudioFrequency float64 `toml:"audio_frequency"`
	FFmpegPath     string  `toml:"ffmpeg"`
	FFprobePath    string  `toml:"ffprobe"`
	WorkDir        string  `toml:"work_dir"`
	KeepWorkDir    *bool   `toml:"keep_work_dir"`
	Sequential     *bool   `toml:"sequential"`
	LogLevel       string  `toml:"log_level"`
	JSON           *bool   `toml:"json"`
	Settle         string  `toml:"settle"`
}

// LoadFileConfig decodes the TOML file at path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.videomark/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".videomark", "config.toml")
	}
	return ""
}

// ApplyFileConfig overlays the values set in fc on cfg, except for fields
// whose flag is in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("frame-interval", fc.FrameInterval, &cfg.FrameInterval)
	s.setInt("frame-rate", fc.FrameRate, &cfg.FrameRate)
	s.setInt("sample-rate", fc.SampleRate, &cfg.SampleRate)
	s.setFloat("bit-duration", fc.BitDuration, &cfg.BitDuration)
	s.setFloat("audio-frequency", fc.AudioFrequency, &cfg.AudioFrequency)

	s.setString("ffmpeg", fc.FFmpegPath, &cfg.FFmpegPath)
	s.setString("ffprobe", fc.FFprobePath, &cfg.FFprobePath)
	s.setString("work-dir", fc.WorkDir, &cfg.WorkDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setBool("keep-work-dir", fc.KeepWorkDir, &cfg.KeepWorkDir)
	s.setBool("sequential", fc.Sequential, &cfg.Sequential)
	s.setBool("json", fc.JSON, &cfg.JSON)

	if err := s.setDuration("settle", fc.Settle, &cfg.Settle); err != nil {
		return err
	}
	return nil
}

// FileExists reports whether p can be stat'ed.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
