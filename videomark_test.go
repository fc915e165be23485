package videomark

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/videomark/internal/fixture"
)

type fakeSources struct {
	frames    [][]byte
	framesErr error
	pcm       []byte
	pcmErr    error
	tags      map[string]string
	tagsErr   error

	mu         sync.Mutex
	sampleRate int
	paths      []string
}

func (f *fakeSources) record(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
}

func (f *fakeSources) Frames(_ context.Context, p string) ([][]byte, error) {
	f.record(p)
	return f.frames, f.framesErr
}

func (f *fakeSources) PCM(_ context.Context, p string, sampleRate int) ([]byte, error) {
	f.record(p)
	f.mu.Lock()
	f.sampleRate = sampleRate
	f.mu.Unlock()
	return f.pcm, f.pcmErr
}

func (f *fakeSources) Tags(_ context.Context, p string) (map[string]string, error) {
	f.record(p)
	return f.tags, f.tagsErr
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) Observe(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) kinds(ch Channel) []EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	var kinds []EventKind
	for _, e := range l.events {
		if e.Kind != EventVerdict && e.Channel == ch {
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}

func videoFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "in.mp4")
	require.NoError(t, os.WriteFile(p, []byte("not really a video"), 0o644))
	return p
}

func newWithSources(t *testing.T, src *fakeSources, opts ...Option) *Decoder {
	t.Helper()
	opts = append([]Option{
		WithFrameSource(src),
		WithAudioSource(src),
		WithMetadataSource(src),
	}, opts...)
	d, err := New(opts...)
	require.NoError(t, err)
	return d
}

func TestDecode(t *testing.T) {
	const msg = "meet at dawn"

	t.Run("all channels agree", func(t *testing.T) {
		for _, sequential := range []bool{false, true} {
			src := &fakeSources{
				frames: fixture.MessageFrames(msg, 25, 10),
				pcm:    fixture.MessageTones(msg),
				tags:   fixture.CommentTags(msg),
			}
			log := &eventLog{}
			d := newWithSources(t, src, WithObserver(log), WithSequential(sequential))
			path := videoFile(t)

			res, err := d.Decode(context.Background(), path)
			require.NoError(t, err)
			for _, ch := range res.Channels() {
				assert.True(t, ch.Found, ch.Channel.String())
				assert.Equal(t, msg, ch.Message)
				assert.NoError(t, ch.Err)
				assert.Equal(t, []EventKind{EventChannelAttempted, EventChannelDecoded}, log.kinds(ch.Channel))
			}
			assert.Equal(t, VerdictVerified, res.Verdict)
			assert.True(t, res.Found())
			assert.Equal(t, 44100, src.sampleRate)
			assert.Equal(t, []string{path, path, path}, src.paths)
			assert.Equal(t, EventVerdict, log.events[len(log.events)-1].Kind)
		}
	})

	t.Run("no audio track only skips audio", func(t *testing.T) {
		src := &fakeSources{
			frames: fixture.MessageFrames(msg, 1, 10),
			pcmErr: ErrNoAudioTrack,
			tags:   fixture.CommentTags(msg),
		}
		res, err := newWithSources(t, src).Decode(context.Background(), videoFile(t))
		require.NoError(t, err)
		assert.True(t, res.Visual.Found)
		assert.True(t, res.Metadata.Found)
		assert.False(t, res.Audio.Found)
		assert.ErrorIs(t, res.Audio.Err, ErrNoAudioTrack)
		assert.ErrorIs(t, res.Audio.Err, ErrExtractionUnavailable)
		assert.Equal(t, "no_audio_track", Kind(res.Audio.Err))
		assert.Equal(t, VerdictPartial, res.Verdict)
	})

	t.Run("nothing embedded", func(t *testing.T) {
		src := &fakeSources{
			frames: [][]byte{fixture.BlankFrame(), fixture.BlankFrame()},
			pcm:    make([]byte, 4410*2*40),
			tags:   map[string]string{"encoder": "Lavf60.16.100"},
		}
		res, err := newWithSources(t, src).Decode(context.Background(), videoFile(t))
		require.NoError(t, err)
		assert.False(t, res.Found())
		assert.ErrorIs(t, res.Visual.Err, ErrInsufficientData)
		assert.ErrorIs(t, res.Audio.Err, ErrInvalidLength)
		assert.ErrorIs(t, res.Metadata.Err, ErrNoTag)
		assert.Equal(t, VerdictNone, res.Verdict)
	})

	t.Run("extraction failures degrade to empty channels", func(t *testing.T) {
		toolErr := errors.New("ffmpeg exited with status 1")
		src := &fakeSources{framesErr: toolErr, pcmErr: toolErr, tagsErr: toolErr}
		log := &eventLog{}
		res, err := newWithSources(t, src, WithObserver(log)).Decode(context.Background(), videoFile(t))
		require.NoError(t, err)
		for _, ch := range res.Channels() {
			assert.False(t, ch.Found)
			assert.ErrorIs(t, ch.Err, ErrExtractionUnavailable)
			assert.ErrorIs(t, ch.Err, toolErr)
			assert.Equal(t, []EventKind{EventChannelAttempted, EventChannelEmpty}, log.kinds(ch.Channel))
		}
		assert.Equal(t, VerdictNone, res.Verdict)
	})

	t.Run("malformed comment", func(t *testing.T) {
		src := &fakeSources{tags: map[string]string{"Comment": "created with a phone"}}
		res, err := newWithSources(t, src).Decode(context.Background(), videoFile(t))
		require.NoError(t, err)
		assert.ErrorIs(t, res.Metadata.Err, ErrMalformedTag)
		assert.Equal(t, "malformed_tag", Kind(res.Metadata.Err))
	})

	t.Run("missing video is fatal", func(t *testing.T) {
		src := &fakeSources{}
		_, err := newWithSources(t, src).Decode(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
		assert.ErrorIs(t, err, ErrVideoUnreadable)
		assert.Empty(t, src.paths)

		_, err = newWithSources(t, src).Decode(context.Background(), t.TempDir())
		assert.ErrorIs(t, err, ErrVideoUnreadable)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newWithSources(t, &fakeSources{}).Decode(ctx, videoFile(t))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancelled during extraction", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		src := &cancellingSource{cancel: cancel}
		d, err := New(WithFrameSource(src), WithAudioSource(src), WithMetadataSource(src), WithSequential(true))
		require.NoError(t, err)
		_, err = d.Decode(ctx, videoFile(t))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type cancellingSource struct {
	fakeSources
	cancel context.CancelFunc
}

func (c *cancellingSource) Frames(ctx context.Context, _ string) ([][]byte, error) {
	c.cancel()
	return nil, ctx.Err()
}

func TestDecodeAssets(t *testing.T) {
	const msg = "X"
	d, err := New()
	require.NoError(t, err)

	test := []struct {
		name   string
		assets Assets
		want   Verdict
		found  [3]bool
	}{
		{"all three", Assets{
			Frames:   fixture.MessageFrames(msg, 11, 10),
			PCM:      fixture.MessageTones(msg),
			HasAudio: true,
			Tags:     fixture.CommentTags(msg),
		}, VerdictVerified, [3]bool{true, true, true}},
		{"visual and audio", Assets{
			Frames:   fixture.MessageFrames(msg, 3, 10),
			PCM:      fixture.MessageTones(msg),
			HasAudio: true,
		}, VerdictPartial, [3]bool{true, true, false}},
		{"pcm ignored without audio", Assets{
			Frames: fixture.MessageFrames(msg, 3, 10),
			PCM:    fixture.MessageTones(msg),
			Tags:   fixture.CommentTags("Y"),
		}, VerdictNone, [3]bool{true, false, true}},
		{"empty", Assets{}, VerdictNone, [3]bool{}},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.DecodeAssets(context.Background(), tt.assets)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Verdict)
			for i, ch := range res.Channels() {
				assert.Equal(t, tt.found[i], ch.Found, ch.Channel.String())
			}
		})
	}
}

func TestDecodeAssetsInfo(t *testing.T) {
	d, err := New()
	require.NoError(t, err)
	tags := fixture.CommentTags("hi")
	tags["Title"] = "holiday"
	res, err := d.DecodeAssets(context.Background(), Assets{Tags: tags})
	require.NoError(t, err)
	assert.Equal(t, "holiday", res.Info.Title)
	assert.Equal(t, "6869", res.Info.Comment)
	assert.Equal(t, "hi", res.Metadata.Message)
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		d, err := New()
		require.NoError(t, err)
		assert.Equal(t, Config{
			FrameInterval:  10,
			FrameRate:      30,
			SampleRate:     44100,
			BitDuration:    0.1,
			AudioFrequency: 18,
			PixelStride:    7,
			MaxFrameBits:   10000,
			TailMargin:     100,
			CommentTag:     "comment",
		}, d.Config())
		assert.NotNil(t, d.frames)
		assert.NotNil(t, d.audio)
		assert.NotNil(t, d.metadata)
	})

	t.Run("options", func(t *testing.T) {
		d, err := New(
			WithFrameInterval(5),
			WithFrameRate(24),
			WithSampleRate(8000),
			WithBitDuration(0.05),
			WithAudioFrequency(200),
			WithPixelLayout(3, 500, 10),
			WithTools("/usr/bin/ffmpeg", "/usr/bin/ffprobe"),
			WithWorkDir("/tmp/vm", true),
		)
		require.NoError(t, err)
		cfg := d.Config()
		assert.Equal(t, 5, cfg.FrameInterval)
		assert.Equal(t, 24, cfg.FrameRate)
		assert.Equal(t, 8000, cfg.SampleRate)
		assert.Equal(t, 0.05, cfg.BitDuration)
		assert.Equal(t, 200.0, cfg.AudioFrequency)
		assert.Equal(t, [3]int{3, 500, 10}, [3]int{cfg.PixelStride, cfg.MaxFrameBits, cfg.TailMargin})
		assert.Equal(t, "/usr/bin/ffmpeg", d.media.FFmpegPath)
		assert.Equal(t, "/tmp/vm", d.media.WorkRoot)
		assert.True(t, d.media.KeepWork)
		assert.Equal(t, 24, d.media.FrameRate)
	})

	t.Run("invalid", func(t *testing.T) {
		for name, opt := range map[string]Option{
			"frame interval": WithFrameInterval(0),
			"sample rate":    WithSampleRate(-1),
			"bit duration":   WithBitDuration(0),
			"frequency":      WithAudioFrequency(-18),
			"stride":         WithPixelLayout(0, 10000, 100),
			"tail margin":    WithPixelLayout(7, 10000, -1),
			"window":         WithBitDuration(0.00001),
			"observer":       WithObserver(nil),
			"comment tag":    WithConfig(Config{}),
		} {
			_, err := New(opt)
			assert.ErrorIs(t, err, ErrInvalidConfig, name)
		}
	})
}

func TestKind(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, "insufficient_data", Kind(ErrInsufficientData))
	assert.Equal(t, "invalid_length", Kind(ErrInvalidLength))
	assert.Equal(t, "extraction_unavailable", Kind(ErrExtractionUnavailable))
	assert.Equal(t, "no_tag", Kind(ErrNoTag))
	assert.Equal(t, "unknown", Kind(errors.New("other")))
}
