// Package media drives ffmpeg and ffprobe to turn a video file into the raw
// inputs of the channel decoders: frame images, mono PCM and container tags.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	ErrNoAudioTrack = errors.New("no audio track")
	ErrToolFailed   = errors.New("media tool failed")
)

type Config struct {
	FFmpegPath  string
	FFprobePath string
	// WorkRoot is the parent of the per-run staging directories.
	WorkRoot  string
	FrameRate int
	// KeepWork leaves the staging directory in place after a run.
	KeepWork bool
}

func DefaultConfig() Config {
	return Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		FrameRate:   30,
	}
}

// runner executes a tool and returns its standard output.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// FFmpeg extracts frames, audio and tags through the ffmpeg tool suite.
type FFmpeg struct {
	cfg Config
	run runner
}

func New(cfg Config) *FFmpeg {
	def := DefaultConfig()
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = def.FFmpegPath
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = def.FFprobePath
	}
	if cfg.FrameRate < 1 {
		cfg.FrameRate = def.FrameRate
	}
	return &FFmpeg{cfg: cfg, run: execRun}
}

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w: %s", ErrToolFailed, name, err, lastLine(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
