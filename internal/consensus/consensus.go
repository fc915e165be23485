// Package consensus classifies how far the channel messages agree.
package consensus

import "fmt"

type Verdict uint8

const (
	None Verdict = iota
	Partial
	Verified
)

func (v Verdict) String() string {
	switch v {
	case None:
		return "none"
	case Partial:
		return "partial"
	case Verified:
		return "verified"
	}
	return fmt.Sprintf("verdict(%d)", uint8(v))
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*v = None
	case "partial":
		*v = Partial
	case "verified":
		*v = Verified
	default:
		return fmt.Errorf("unknown verdict %q", b)
	}
	return nil
}

// Candidate is one channel's optional message.
type Candidate struct {
	Message string
	Present bool
}

func Some(msg string) Candidate { return Candidate{Message: msg, Present: true} }

// Reconcile returns Verified when every candidate is present, equal and
// non-empty, Partial when any two present candidates are equal, None otherwise.
// An empty message counts as present for Partial but never verifies.
func Reconcile(candidates ...Candidate) Verdict {
	if len(candidates) == 0 {
		return None
	}
	all := true
	for _, c := range candidates {
		if !c.Present || c.Message != candidates[0].Message {
			all = false
			break
		}
	}
	if all && candidates[0].Message != "" {
		return Verified
	}
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[i].Present && candidates[j].Present && candidates[i].Message == candidates[j].Message {
				return Partial
			}
		}
	}
	return None
}
