// Package metadata recovers a message stored as hex pairs in a container tag.
package metadata

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/yyyoichi/videomark/internal/bitconv"
)

// CommentTag is the tag carrying the encoded message.
const CommentTag = "comment"

var (
	ErrNoTag        = errors.New("tag not present")
	ErrMalformedTag = errors.New("malformed tag")
)

// Lookup returns the first non-empty value of key, trying the lower-case
// spelling before the capitalized one.
func Lookup(tags map[string]string, key string) (string, bool) {
	if v := tags[key]; v != "" {
		return v, true
	}
	if key == "" {
		return "", false
	}
	v := tags[strings.ToUpper(key[:1])+key[1:]]
	return v, v != ""
}

// DecodeHex maps each hex byte pair to the character with that code.
// Any malformed pair, or an odd length, rejects the whole value.
func DecodeHex(s string) (string, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedTag, err)
	}
	return bitconv.Latin1(b), nil
}

// Decode reads the tag named key and decodes it.
func Decode(tags map[string]string, key string) (string, error) {
	v, ok := Lookup(tags, key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoTag, key)
	}
	return DecodeHex(v)
}

// Info holds the descriptive tags reported next to the decoded message.
type Info struct {
	Title       string `json:"title,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Description string `json:"description,omitempty"`
}

func ReadInfo(tags map[string]string) Info {
	var info Info
	info.Title, _ = Lookup(tags, "title")
	info.Comment, _ = Lookup(tags, "comment")
	info.Description, _ = Lookup(tags, "description")
	return info
}
