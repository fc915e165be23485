package media

import (
	"context"
	"encoding/json"
	"fmt"
)

func (f *FFmpeg) probeArgs(videoPath string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		videoPath,
	}
}

type probeOutput struct {
	Format struct {
		Tags map[string]string `json:"tags"`
	} `json:"format"`
}

// ParseProbe extracts the container tags from ffprobe's JSON output.
// A container without tags yields an empty map.
func ParseProbe(b []byte) (map[string]string, error) {
	var out probeOutput
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: parse ffprobe output: %w", ErrToolFailed, err)
	}
	if out.Format.Tags == nil {
		return map[string]string{}, nil
	}
	return out.Format.Tags, nil
}

// Tags returns the container level tags of the video.
func (f *FFmpeg) Tags(ctx context.Context, videoPath string) (map[string]string, error) {
	b, err := f.run(ctx, f.cfg.FFprobePath, f.probeArgs(videoPath)...)
	if err != nil {
		return nil, fmt.Errorf("probe metadata: %w", err)
	}
	return ParseProbe(b)
}
