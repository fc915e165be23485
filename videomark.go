// Package videomark recovers a text message embedded redundantly in a video
// through three channels: LSB steganography in the frames, a two-tone audio
// watermark and a hex encoded comment tag. The channels are decoded
// independently and reconciled into a verdict.
package videomark

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/yyyoichi/videomark/internal/audio"
	"github.com/yyyoichi/videomark/internal/consensus"
	"github.com/yyyoichi/videomark/internal/media"
	"github.com/yyyoichi/videomark/internal/metadata"
	"github.com/yyyoichi/videomark/internal/visual"
	"golang.org/x/sync/errgroup"
)

// Verdict classifies the agreement between channels.
type Verdict = consensus.Verdict

const (
	VerdictNone     = consensus.None
	VerdictPartial  = consensus.Partial
	VerdictVerified = consensus.Verified
)

// MetadataInfo holds descriptive container tags.
type MetadataInfo = metadata.Info

type Channel uint8

const (
	ChannelVisual Channel = iota
	ChannelAudio
	ChannelMetadata
)

func (c Channel) String() string {
	switch c {
	case ChannelVisual:
		return "visual"
	case ChannelAudio:
		return "audio"
	case ChannelMetadata:
		return "metadata"
	}
	return fmt.Sprintf("channel(%d)", uint8(c))
}

// ChannelResult is the optional message of one channel. Found is false when
// the channel recovered nothing; Err then says why. An empty Message with
// Found set is a valid zero-length payload.
type ChannelResult struct {
	Channel Channel
	Message string
	Found   bool
	Err     error
}

func (r ChannelResult) candidate() consensus.Candidate {
	return consensus.Candidate{Message: r.Message, Present: r.Found}
}

type Result struct {
	Visual   ChannelResult
	Audio    ChannelResult
	Metadata ChannelResult
	Info     MetadataInfo
	Verdict  Verdict
}

// Channels returns the channel results in visual, audio, metadata order.
func (r *Result) Channels() []ChannelResult {
	return []ChannelResult{r.Visual, r.Audio, r.Metadata}
}

// Found reports whether any channel recovered a message.
func (r *Result) Found() bool {
	return r.Visual.Found || r.Audio.Found || r.Metadata.Found
}

type Decoder struct {
	cfg        Config
	media      media.Config
	observer   Observer
	sequential bool

	frames   FrameSource
	audio    AudioSource
	metadata MetadataSource

	visualDec *visual.Decoder
	audioDec  *audio.Decoder
}

// New initializes a decoder. Sources not given as options are served by
// ffmpeg and ffprobe.
func New(opts ...Option) (*Decoder, error) {
	d := new(Decoder)
	if err := d.init(opts...); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Decoder) init(opts ...Option) error {
	d.cfg = DefaultConfig()
	d.media = media.DefaultConfig()
	d.observer = NopObserver{}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return err
		}
	}
	if err := d.cfg.Validate(); err != nil {
		return err
	}
	var err error
	if d.visualDec, err = visual.New(d.cfg.visual()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if d.audioDec, err = audio.New(d.cfg.audio()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if d.frames == nil || d.audio == nil || d.metadata == nil {
		d.media.FrameRate = d.cfg.FrameRate
		ff := media.New(d.media)
		if d.frames == nil {
			d.frames = ff
		}
		if d.audio == nil {
			d.audio = ff
		}
		if d.metadata == nil {
			d.metadata = ff
		}
	}
	return nil
}

// Config returns the configuration snapshot used by every decode.
func (d *Decoder) Config() Config {
	return d.cfg
}

// Decode extracts and decodes all channels of the video at videoPath.
// Only an unreadable video or a cancelled context is returned as an error;
// channel failures are recorded in the Result.
func (d *Decoder) Decode(ctx context.Context, videoPath string) (*Result, error) {
	if err := checkVideo(videoPath); err != nil {
		return nil, err
	}
	return d.decode(ctx, videoPath, d.frames, d.audio, d.metadata)
}

// DecodeAssets decodes inputs that were extracted beforehand.
func (d *Decoder) DecodeAssets(ctx context.Context, a Assets) (*Result, error) {
	s := assetSource{a: a}
	return d.decode(ctx, "", s, s, s)
}

func checkVideo(videoPath string) error {
	f, err := os.Open(videoPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVideoUnreadable, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVideoUnreadable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrVideoUnreadable, videoPath)
	}
	return nil
}

func (d *Decoder) decode(ctx context.Context, videoPath string, fs FrameSource, as AudioSource, ms MetadataSource) (*Result, error) {
	res := &Result{
		Visual:   ChannelResult{Channel: ChannelVisual},
		Audio:    ChannelResult{Channel: ChannelAudio},
		Metadata: ChannelResult{Channel: ChannelMetadata},
	}

	tasks := []struct {
		out *ChannelResult
		fn  func(ctx context.Context) (string, error)
	}{
		{&res.Visual, func(ctx context.Context) (string, error) {
			frames, err := fs.Frames(ctx, videoPath)
			if err != nil {
				return "", extractionErr(ctx, err)
			}
			return d.visualDec.Decode(frames)
		}},
		{&res.Audio, func(ctx context.Context) (string, error) {
			pcm, err := as.PCM(ctx, videoPath, d.cfg.SampleRate)
			if err != nil {
				return "", extractionErr(ctx, err)
			}
			return d.audioDec.Decode(pcm)
		}},
		{&res.Metadata, func(ctx context.Context) (string, error) {
			tags, err := ms.Tags(ctx, videoPath)
			if err != nil {
				return "", extractionErr(ctx, err)
			}
			res.Info = metadata.ReadInfo(tags)
			return metadata.Decode(tags, d.cfg.CommentTag)
		}},
	}

	if d.sequential {
		for _, t := range tasks {
			if err := d.runChannel(ctx, t.out, t.fn); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for _, t := range tasks {
			g.Go(func() error {
				return d.runChannel(gctx, t.out, t.fn)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Verdict = consensus.Reconcile(res.Visual.candidate(), res.Audio.candidate(), res.Metadata.candidate())
	d.observer.Observe(Event{Kind: EventVerdict, Verdict: res.Verdict})
	return res, nil
}

// runChannel fills out and only fails on cancellation.
func (d *Decoder) runChannel(ctx context.Context, out *ChannelResult, fn func(context.Context) (string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.observer.Observe(Event{Kind: EventChannelAttempted, Channel: out.Channel})
	start := time.Now()
	msg, err := fn(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	elapsed := time.Since(start)
	if err != nil {
		out.Err = err
		d.observer.Observe(Event{Kind: EventChannelEmpty, Channel: out.Channel, Err: err, Elapsed: elapsed})
		return nil
	}
	out.Message, out.Found = msg, true
	d.observer.Observe(Event{Kind: EventChannelDecoded, Channel: out.Channel, Message: msg, Elapsed: elapsed})
	return nil
}

func extractionErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, ErrExtractionUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrExtractionUnavailable, err)
}
