package videomark

import "context"

// FrameSource rasterizes a video into still images in temporal order.
type FrameSource interface {
	Frames(ctx context.Context, videoPath string) ([][]byte, error)
}

// AudioSource returns the audio track as mono signed 16-bit little-endian
// PCM at sampleRate, or ErrNoAudioTrack.
type AudioSource interface {
	PCM(ctx context.Context, videoPath string, sampleRate int) ([]byte, error)
}

// MetadataSource returns the container tags of a video.
type MetadataSource interface {
	Tags(ctx context.Context, videoPath string) (map[string]string, error)
}

// Assets are the already extracted inputs of one video.
type Assets struct {
	Frames [][]byte
	// PCM is ignored when HasAudio is false.
	PCM      []byte
	HasAudio bool
	Tags     map[string]string
}

// assetSource serves Assets through the source interfaces.
type assetSource struct {
	a Assets
}

var (
	_ FrameSource    = assetSource{}
	_ AudioSource    = assetSource{}
	_ MetadataSource = assetSource{}
)

func (s assetSource) Frames(context.Context, string) ([][]byte, error) { return s.a.Frames, nil }

func (s assetSource) PCM(context.Context, string, int) ([]byte, error) {
	if !s.a.HasAudio {
		return nil, ErrNoAudioTrack
	}
	return s.a.PCM, nil
}

func (s assetSource) Tags(context.Context, string) (map[string]string, error) { return s.a.Tags, nil }
