package videomark

import (
	"time"

	"github.com/rs/zerolog"
)

type EventKind uint8

const (
	// EventChannelAttempted is emitted before a channel starts extracting.
	EventChannelAttempted EventKind = iota
	// EventChannelDecoded carries the recovered message.
	EventChannelDecoded
	// EventChannelEmpty carries the reason the channel has no message.
	EventChannelEmpty
	// EventVerdict is emitted once all channels finished.
	EventVerdict
)

func (k EventKind) String() string {
	switch k {
	case EventChannelAttempted:
		return "channel_attempted"
	case EventChannelDecoded:
		return "channel_decoded"
	case EventChannelEmpty:
		return "channel_empty"
	case EventVerdict:
		return "verdict"
	}
	return "unknown"
}

type Event struct {
	Kind    EventKind
	Channel Channel
	Message string
	Err     error
	Verdict Verdict
	Elapsed time.Duration
}

// Observer receives decode events. Channels run concurrently, so Observe
// must be safe for concurrent use.
type Observer interface {
	Observe(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) Observe(Event) {}

// LogObserver writes events to a zerolog.Logger.
type LogObserver struct {
	logger zerolog.Logger
}

func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Observe(e Event) {
	switch e.Kind {
	case EventChannelAttempted:
		o.logger.Debug().Stringer("channel", e.Channel).Msg("decoding channel")
	case EventChannelDecoded:
		o.logger.Info().
			Stringer("channel", e.Channel).
			Str("message", e.Message).
			Dur("elapsed", e.Elapsed).
			Msg("channel decoded")
	case EventChannelEmpty:
		o.logger.Info().
			Stringer("channel", e.Channel).
			Str("kind", Kind(e.Err)).
			Err(e.Err).
			Dur("elapsed", e.Elapsed).
			Msg("no data found")
	case EventVerdict:
		o.logger.Info().Stringer("verdict", e.Verdict).Msg("channels reconciled")
	}
}
