package media

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
)

const (
	audioFile = "extracted.wav"
	// canonicalHeaderLen is the size of a plain RIFF/WAVE PCM header.
	canonicalHeaderLen = 44
)

func (f *FFmpeg) audioArgs(videoPath, outPath string, sampleRate int) []string {
	return []string{
		"-v", "error",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
		outPath,
	}
}

// PCM extracts the audio track as mono signed 16-bit little-endian samples.
// A failing extraction is reported as ErrNoAudioTrack.
func (f *FFmpeg) PCM(ctx context.Context, videoPath string, sampleRate int) ([]byte, error) {
	ws, err := newWorkspace(f.cfg.WorkRoot, "audio", f.cfg.KeepWork)
	if err != nil {
		return nil, err
	}
	defer ws.Remove()

	out := ws.path(audioFile)
	if _, err := f.run(ctx, f.cfg.FFmpegPath, f.audioArgs(videoPath, out, sampleRate)...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrNoAudioTrack, err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no output written", ErrNoAudioTrack)
		}
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return StripWAV(b), nil
}

// StripWAV returns the sample data of a RIFF/WAVE buffer. It walks the chunk
// list to the data chunk; without one it skips the canonical 44 byte header.
// Buffers that are not RIFF/WAVE are returned unchanged.
func StripWAV(b []byte) []byte {
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return b
	}
	for at := 12; at+8 <= len(b); {
		id := string(b[at : at+4])
		size := int(binary.LittleEndian.Uint32(b[at+4 : at+8]))
		body := at + 8
		if id == "data" {
			// streamed output leaves the size unset
			if size == 0 || size > len(b)-body {
				return b[body:]
			}
			return b[body : body+size]
		}
		if size > len(b)-body {
			break
		}
		at = body + size + size%2
	}
	if len(b) <= canonicalHeaderLen {
		return nil
	}
	return b[canonicalHeaderLen:]
}
