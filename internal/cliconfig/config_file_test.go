package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	tests := []struct {
		name     string
		fc       FileConfig
		changed  map[string]bool
		expected func(Config) Config
		wantErr  bool
	}{
		{
			name: "applies all values",
			fc: FileConfig{
				FrameInterval:  4,
				FrameRate:      25,
				SampleRate:     48000,
				BitDuration:    0.05,
				AudioFrequency: 20,
				FFmpegPath:     "/opt/ffmpeg",
				FFprobePath:    "/opt/ffprobe",
				WorkDir:        "/tmp/work",
				KeepWorkDir:    &trueVal,
				Sequential:     &trueVal,
				LogLevel:       "debug",
				JSON:           &trueVal,
				Settle:         "2s",
			},
			changed: map[string]bool{},
			expected: func(c Config) Config {
				c.FrameInterval = 4
				c.FrameRate = 25
				c.SampleRate = 48000
				c.BitDuration = 0.05
				c.AudioFrequency = 20
				c.FFmpegPath = "/opt/ffmpeg"
				c.FFprobePath = "/opt/ffprobe"
				c.WorkDir = "/tmp/work"
				c.KeepWorkDir = true
				c.Sequential = true
				c.LogLevel = "debug"
				c.JSON = true
				c.Settle = 2 * time.Second
				return c
			},
		},
		{
			name:     "respects changed flags",
			fc:       FileConfig{FrameInterval: 4, FFmpegPath: "/opt/ffmpeg", JSON: &trueVal},
			changed:  map[string]bool{"frame-interval": true, "json": true},
			expected: func(c Config) Config { c.FFmpegPath = "/opt/ffmpeg"; return c },
		},
		{
			name:     "zero values are ignored",
			fc:       FileConfig{},
			changed:  map[string]bool{},
			expected: func(c Config) Config { return c },
		},
		{
			name:    "invalid settle",
			fc:      FileConfig{Settle: "soon"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := ApplyFileConfig(&cfg, tt.fc, tt.changed)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected(DefaultConfig()), cfg)
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
frame_interval = 5
sample_rate = 22050
bit_duration = 0.2
ffmpeg = "/usr/local/bin/ffmpeg"
keep_work_dir = true
settle = "1s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fc, err := LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, fc.FrameInterval)
	assert.Equal(t, 22050, fc.SampleRate)
	assert.Equal(t, 0.2, fc.BitDuration)
	assert.Equal(t, "/usr/local/bin/ffmpeg", fc.FFmpegPath)
	require.NotNil(t, fc.KeepWorkDir)
	assert.True(t, *fc.KeepWorkDir)
	assert.Nil(t, fc.JSON)
	assert.Equal(t, "1s", fc.Settle)
}

func TestLoadFileConfig_Invalid(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "invalid.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not valid toml\n"), 0o644))
	_, err = LoadFileConfig(path)
	assert.Error(t, err)
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if path != "" {
		assert.True(t, strings.HasSuffix(path, filepath.Join(".videomark", "config.toml")))
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "exists.toml")
	require.NoError(t, os.WriteFile(existing, nil, 0o644))
	assert.True(t, FileExists(existing))
	assert.False(t, FileExists(filepath.Join(dir, "missing.toml")))
}
