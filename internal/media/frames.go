package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const framePattern = "frame_%05d.png"

func (f *FFmpeg) frameArgs(videoPath, outDir string) []string {
	return []string{
		"-v", "error",
		"-i", videoPath,
		"-vf", "fps=" + strconv.Itoa(f.cfg.FrameRate),
		filepath.Join(outDir, framePattern),
	}
}

// Frames rasterizes the video to PNG images and returns their bytes in
// temporal order.
func (f *FFmpeg) Frames(ctx context.Context, videoPath string) ([][]byte, error) {
	ws, err := newWorkspace(f.cfg.WorkRoot, "frames", f.cfg.KeepWork)
	if err != nil {
		return nil, err
	}
	defer ws.Remove()

	if _, err := f.run(ctx, f.cfg.FFmpegPath, f.frameArgs(videoPath, ws.dir)...); err != nil {
		return nil, fmt.Errorf("extract frames: %w", err)
	}
	entries, err := os.ReadDir(ws.dir)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".png") {
			names = append(names, e.Name())
		}
	}
	// zero padded names sort in frame order
	slices.Sort(names)

	frames := make([][]byte, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(ws.path(name))
		if err != nil {
			return nil, fmt.Errorf("read frame: %w", err)
		}
		frames = append(frames, b)
	}
	return frames, nil
}
