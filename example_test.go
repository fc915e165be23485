package videomark_test

import (
	"context"
	"fmt"

	"github.com/yyyoichi/videomark"
	"github.com/yyyoichi/videomark/internal/fixture"
)

func Example_decodeAssets() {
	// Inputs as they would come out of ffmpeg and ffprobe
	assets := videomark.Assets{
		Frames:   fixture.MessageFrames("Test-Mark", 30, 10),
		PCM:      fixture.MessageTones("Test-Mark"),
		HasAudio: true,
		Tags:     fixture.CommentTags("Test-Mark"),
	}

	d, err := videomark.New()
	if err != nil {
		fmt.Printf("Error creating decoder: %v\n", err)
		return
	}
	res, err := d.DecodeAssets(context.Background(), assets)
	if err != nil {
		fmt.Printf("Error decoding: %v\n", err)
		return
	}

	for _, ch := range res.Channels() {
		fmt.Printf("%s: %s\n", ch.Channel, ch.Message)
	}
	fmt.Println(res.Verdict)

	// Output:
	// visual: Test-Mark
	// audio: Test-Mark
	// metadata: Test-Mark
	// verified
}

func Example_observer() {
	d, _ := videomark.New(
		videomark.WithSequential(true),
		videomark.WithObserver(videomark.ObserverFunc(func(e videomark.Event) {
			switch e.Kind {
			case videomark.EventChannelEmpty:
				fmt.Printf("%s: %s\n", e.Channel, videomark.Kind(e.Err))
			case videomark.EventVerdict:
				fmt.Println(e.Verdict)
			}
		})),
	)
	_, _ = d.DecodeAssets(context.Background(), videomark.Assets{
		Tags: map[string]string{"comment": "not hex"},
	})

	// Output:
	// visual: insufficient_data
	// audio: no_audio_track
	// metadata: malformed_tag
	// none
}
