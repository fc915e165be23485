package videomark

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/yyyoichi/videomark/internal/audio"
	"github.com/yyyoichi/videomark/internal/media"
	"github.com/yyyoichi/videomark/internal/metadata"
	"github.com/yyyoichi/videomark/internal/visual"
)

var validate = validator.New()

// Config is the parameter snapshot shared by every channel of one decode.
// The defaults match the embedder and must not change for existing assets.
type Config struct {
	// FrameInterval samples every n-th extracted frame.
	FrameInterval int `validate:"gte=1"`
	// FrameRate is the rate frames are extracted at.
	FrameRate int `validate:"gte=1"`
	// SampleRate of the extracted audio, in Hz.
	SampleRate int `validate:"gte=1"`
	// BitDuration is the audio length carrying one bit, in seconds.
	BitDuration float64 `validate:"gt=0"`
	// AudioFrequency is the high tone in Hz; the low tone is half of it.
	AudioFrequency float64 `validate:"gt=0"`
	PixelStride    int     `validate:"gte=1"`
	MaxFrameBits   int     `validate:"gte=1"`
	TailMargin     int     `validate:"gte=0"`
	CommentTag     string  `validate:"required"`
}

func DefaultConfig() Config {
	v, a := visual.DefaultConfig(), audio.DefaultConfig()
	return Config{
		FrameInterval:  v.Interval,
		FrameRate:      media.DefaultConfig().FrameRate,
		SampleRate:     a.SampleRate,
		BitDuration:    a.BitDuration,
		AudioFrequency: a.Frequency,
		PixelStride:    v.Stride,
		MaxFrameBits:   v.MaxBits,
		TailMargin:     v.TailMargin,
		CommentTag:     metadata.CommentTag,
	}
}

func (c Config) visual() visual.Config {
	return visual.Config{
		Interval:   c.FrameInterval,
		Stride:     c.PixelStride,
		MaxBits:    c.MaxFrameBits,
		TailMargin: c.TailMargin,
	}
}

func (c Config) audio() audio.Config {
	return audio.Config{
		SampleRate:  c.SampleRate,
		BitDuration: c.BitDuration,
		Frequency:   c.AudioFrequency,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.audio().WindowLen() < 1 {
		return fmt.Errorf("%w: %d Hz x %gs is shorter than one sample", ErrInvalidConfig, c.SampleRate, c.BitDuration)
	}
	return nil
}

type Option func(*Decoder) error

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(d *Decoder) error {
		d.cfg = cfg
		return nil
	}
}

// WithFrameInterval samples every n-th frame. Default 10.
func WithFrameInterval(n int) Option {
	return func(d *Decoder) error {
		d.cfg.FrameInterval = n
		return nil
	}
}

// WithFrameRate sets the frame extraction rate of the default frame source. Default 30.
func WithFrameRate(fps int) Option {
	return func(d *Decoder) error {
		d.cfg.FrameRate = fps
		return nil
	}
}

// WithSampleRate sets the audio sample rate. Default 44100.
func WithSampleRate(hz int) Option {
	return func(d *Decoder) error {
		d.cfg.SampleRate = hz
		return nil
	}
}

// WithBitDuration sets the seconds of audio per bit. Default 0.1.
func WithBitDuration(seconds float64) Option {
	return func(d *Decoder) error {
		d.cfg.BitDuration = seconds
		return nil
	}
}

// WithAudioFrequency sets the high watermark tone. Default 18 Hz.
func WithAudioFrequency(hz float64) Option {
	return func(d *Decoder) error {
		d.cfg.AudioFrequency = hz
		return nil
	}
}

// WithPixelLayout sets how frame bytes are sampled: every stride-th byte,
// at most maxBits per frame, leaving tailMargin bytes unread.
// Defaults 7, 10000 and 100.
func WithPixelLayout(stride, maxBits, tailMargin int) Option {
	return func(d *Decoder) error {
		d.cfg.PixelStride = stride
		d.cfg.MaxFrameBits = maxBits
		d.cfg.TailMargin = tailMargin
		return nil
	}
}

func WithObserver(o Observer) Option {
	return func(d *Decoder) error {
		if o == nil {
			return fmt.Errorf("%w: nil observer", ErrInvalidConfig)
		}
		d.observer = o
		return nil
	}
}

func WithFrameSource(s FrameSource) Option {
	return func(d *Decoder) error {
		d.frames = s
		return nil
	}
}

func WithAudioSource(s AudioSource) Option {
	return func(d *Decoder) error {
		d.audio = s
		return nil
	}
}

func WithMetadataSource(s MetadataSource) Option {
	return func(d *Decoder) error {
		d.metadata = s
		return nil
	}
}

// WithTools sets the ffmpeg and ffprobe binaries of the default sources.
func WithTools(ffmpegPath, ffprobePath string) Option {
	return func(d *Decoder) error {
		d.media.FFmpegPath = ffmpegPath
		d.media.FFprobePath = ffprobePath
		return nil
	}
}

// WithWorkDir stages extracted frames and audio under dir. With keep the
// staging directories are left in place.
func WithWorkDir(dir string, keep bool) Option {
	return func(d *Decoder) error {
		d.media.WorkRoot = dir
		d.media.KeepWork = keep
		return nil
	}
}

// WithSequential runs the channels one after another (visual, audio,
// metadata) instead of concurrently.
func WithSequential(sequential bool) Option {
	return func(d *Decoder) error {
		d.sequential = sequential
		return nil
	}
}
