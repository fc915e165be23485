package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yyyoichi/videomark"
)

const (
	lineVerified = "All layers match! Message verified."
	lineMismatch = "Some layers don't match - this is often a false detection and can be ignored."
	lineNone     = "No hidden message found in any layer"
)

// report is the JSON form of a decode result. Absent channels encode as null.
type report struct {
	Video    string                  `json:"video"`
	Visual   *string                 `json:"visual"`
	Audio    *string                 `json:"audio"`
	Metadata *string                 `json:"metadata"`
	Verdict  videomark.Verdict       `json:"verdict"`
	Info     *videomark.MetadataInfo `json:"info,omitempty"`
	Reasons  map[string]string       `json:"reasons,omitempty"`
}

func newReport(video string, res *videomark.Result) report {
	r := report{Video: video, Verdict: res.Verdict}
	if res.Info != (videomark.MetadataInfo{}) {
		info := res.Info
		r.Info = &info
	}
	for _, ch := range res.Channels() {
		var dst **string
		switch ch.Channel {
		case videomark.ChannelVisual:
			dst = &r.Visual
		case videomark.ChannelAudio:
			dst = &r.Audio
		case videomark.ChannelMetadata:
			dst = &r.Metadata
		}
		if ch.Found {
			msg := ch.Message
			*dst = &msg
			continue
		}
		if ch.Err != nil {
			if r.Reasons == nil {
				r.Reasons = make(map[string]string)
			}
			r.Reasons[ch.Channel.String()] = videomark.Kind(ch.Err)
		}
	}
	return r
}

func writeJSON(w io.Writer, video string, res *videomark.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newReport(video, res))
}

func writeHuman(w io.Writer, video string, res *videomark.Result) error {
	ew := &errWriter{w: w}
	ew.printf("%s\n", video)
	if res.Info.Title != "" {
		ew.printf("  title:    %s\n", res.Info.Title)
	}
	for _, ch := range res.Channels() {
		if ch.Found {
			ew.printf("  %-9s %q\n", ch.Channel.String()+":", ch.Message)
			continue
		}
		reason := "no data"
		if ch.Err != nil {
			reason = "no data (" + videomark.Kind(ch.Err) + ")"
		}
		ew.printf("  %-9s %s\n", ch.Channel.String()+":", reason)
	}
	ew.printf("%s\n", verdictLine(res))
	return ew.err
}

func verdictLine(res *videomark.Result) string {
	switch {
	case !res.Found():
		return lineNone
	case res.Verdict == videomark.VerdictVerified:
		return lineVerified
	default:
		return lineMismatch
	}
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
