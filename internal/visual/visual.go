// Package visual recovers a framed message from the least significant bits of
// the compressed pixel data in sampled video frames.
package visual

import (
	"bytes"
	"fmt"

	"github.com/yyyoichi/videomark/internal/bitframe"
)

const (
	// signatureLen is the fixed PNG file signature skipped before the chunk scan.
	signatureLen = 8
	// dataOffset is the distance from the chunk tag to the first sampled byte.
	dataOffset = 8
)

// dataTag is the tag of the compressed pixel data chunk.
var dataTag = []byte("IDAT")

type Config struct {
	Interval   int // sample every Interval-th frame
	Stride     int // byte distance between sampled bytes
	MaxBits    int // bits read per frame at most
	TailMargin int // bytes left unread at the end of a frame
}

func DefaultConfig() Config {
	return Config{
		Interval:   10,
		Stride:     7,
		MaxBits:    10000,
		TailMargin: 100,
	}
}

type Decoder struct {
	cfg Config
}

func New(cfg Config) (*Decoder, error) {
	if cfg.Interval < 1 || cfg.Stride < 1 || cfg.MaxBits < 1 || cfg.TailMargin < 0 {
		return nil, fmt.Errorf("invalid visual config: %+v", cfg)
	}
	return &Decoder{cfg: cfg}, nil
}

// Sample returns the frames at positions 0, Interval, 2*Interval, ...
func (d *Decoder) Sample(frames [][]byte) [][]byte {
	sampled := make([][]byte, 0, (len(frames)+d.cfg.Interval-1)/d.cfg.Interval)
	for i := 0; i < len(frames); i += d.cfg.Interval {
		sampled = append(sampled, frames[i])
	}
	return sampled
}

// DataStart returns the offset of the first payload byte, or -1 when the
// frame has no data chunk.
func DataStart(frame []byte) int {
	if len(frame) <= signatureLen {
		return -1
	}
	at := bytes.Index(frame[signatureLen:], dataTag)
	if at < 0 {
		return -1
	}
	start := signatureLen + at + dataOffset
	if start >= len(frame) {
		return -1
	}
	return start
}

// ExtractFrame reads the LSB of every Stride-th byte of the frame's data region.
func (d *Decoder) ExtractFrame(frame []byte) []bool {
	start := DataStart(frame)
	if start < 0 {
		return nil
	}
	var bits []bool
	for at := start; at < len(frame)-d.cfg.TailMargin && len(bits) < d.cfg.MaxBits; at += d.cfg.Stride {
		bits = append(bits, frame[at]&1 == 1)
	}
	return bits
}

// Decode concatenates the bits of the sampled frames in order and unframes them.
func (d *Decoder) Decode(frames [][]byte) (string, error) {
	s := bitframe.NewStream()
	for _, frame := range d.Sample(frames) {
		s.Append(d.ExtractFrame(frame)...)
	}
	return s.Unframe()
}
