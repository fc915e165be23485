package videomark

import (
	"errors"

	"github.com/yyyoichi/videomark/internal/bitframe"
	"github.com/yyyoichi/videomark/internal/media"
	"github.com/yyyoichi/videomark/internal/metadata"
)

var (
	// ErrInsufficientData means fewer than 32 bits were recovered.
	ErrInsufficientData = bitframe.ErrInsufficientData
	// ErrInvalidLength means the length prefix is zero or exceeds the recovered bits.
	ErrInvalidLength = bitframe.ErrInvalidLength
	// ErrMalformedTag means the comment tag is not a hex string.
	ErrMalformedTag = metadata.ErrMalformedTag
	// ErrNoTag means the container has no comment tag.
	ErrNoTag = metadata.ErrNoTag
	// ErrNoAudioTrack is returned by an AudioSource for a video without audio.
	ErrNoAudioTrack = media.ErrNoAudioTrack

	ErrExtractionUnavailable = errors.New("extraction unavailable")
	ErrVideoUnreadable       = errors.New("video unreadable")
	ErrInvalidConfig         = errors.New("invalid configuration")
)

// Kind names the reason a channel produced no message.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, ErrNoAudioTrack):
		return "no_audio_track"
	case errors.Is(err, ErrExtractionUnavailable):
		return "extraction_unavailable"
	case errors.Is(err, ErrMalformedTag):
		return "malformed_tag"
	case errors.Is(err, ErrNoTag):
		return "no_tag"
	}
	return "unknown"
}
