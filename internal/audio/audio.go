// Package audio recovers a framed message from a mono 16-bit PCM waveform by
// correlating fixed-length windows against two reference tones.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/yyyoichi/videomark/internal/bitframe"
	"gonum.org/v1/gonum/floats"
)

// fullScale normalizes signed 16-bit samples to [-1, 1].
const fullScale = 32768.0

type Config struct {
	SampleRate  int     // samples per second
	BitDuration float64 // seconds per bit
	Frequency   float64 // high tone in Hz, the low tone is half of it
}

func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		BitDuration: 0.1,
		Frequency:   18,
	}
}

// WindowLen is the number of samples carrying one bit.
func (c Config) WindowLen() int {
	return int(math.Floor(float64(c.SampleRate) * c.BitDuration))
}

type Decoder struct {
	cfg       Config
	low, high []float64
}

// New precomputes the reference tones. The time base restarts at every
// window, so one table per tone serves all windows.
func New(cfg Config) (*Decoder, error) {
	n := cfg.WindowLen()
	if cfg.SampleRate < 1 || n < 1 || cfg.Frequency <= 0 {
		return nil, fmt.Errorf("invalid audio config: %+v", cfg)
	}
	d := &Decoder{
		cfg:  cfg,
		low:  make([]float64, n),
		high: make([]float64, n),
	}
	rate := float64(cfg.SampleRate)
	for j := range n {
		t := float64(j) / rate
		d.low[j] = math.Sin(2 * math.Pi * (cfg.Frequency * 0.5) * t)
		d.high[j] = math.Sin(2 * math.Pi * cfg.Frequency * t)
	}
	return d, nil
}

// Samples converts little-endian signed 16-bit PCM to normalized floats.
// A trailing odd byte is ignored.
func Samples(pcm []byte) []float64 {
	samples := make([]float64, len(pcm)/2)
	for i := range samples {
		samples[i] = float64(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / fullScale
	}
	return samples
}

// Energies returns the correlation of one window with the low and high tones.
// floats.Dot may sum in a different order than a plain loop, so a window whose
// energies tie to within rounding can decide differently than a sequential sum.
func (d *Decoder) Energies(window []float64) (low, high float64) {
	return floats.Dot(window, d.low), floats.Dot(window, d.high)
}

// Demodulate decides one bit per complete window; a final partial window is dropped.
func (d *Decoder) Demodulate(samples []float64) []bool {
	n := len(d.low)
	bits := make([]bool, 0, len(samples)/n)
	for i := 0; i+n <= len(samples); i += n {
		low, high := d.Energies(samples[i : i+n])
		bits = append(bits, math.Abs(high) > math.Abs(low))
	}
	return bits
}

// Decode demodulates raw PCM and unframes the resulting bits.
func (d *Decoder) Decode(pcm []byte) (string, error) {
	s := bitframe.NewStream()
	s.Append(d.Demodulate(Samples(pcm))...)
	return s.Unframe()
}
