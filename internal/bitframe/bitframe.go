// Package bitframe implements the length-prefixed bit framing shared by the
// visual and audio channels: a 32-bit big-endian length in bits followed by
// that many payload bits, 8 bits per character.
package bitframe

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/videomark/internal/bitconv"
)

// PrefixBits is the width of the length prefix.
const PrefixBits = 32

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidLength    = errors.New("invalid length")
)

// Stream is an append-only bit sequence built by a single channel decoder.
type Stream struct {
	w *bitstream.BitWriter[uint64]
}

func NewStream() *Stream {
	return &Stream{w: bitstream.NewBitWriter[uint64](0, 0)}
}

// Append adds bits to the end of the stream.
func (s *Stream) Append(bits ...bool) {
	for _, b := range bits {
		s.w.WriteBool(b)
	}
}

// Len returns the number of bits written so far.
func (s *Stream) Len() int {
	return s.w.Bits()
}

// Unframe decodes the message carried by the stream.
func (s *Stream) Unframe() (string, error) {
	total := s.w.Bits()
	if total < PrefixBits {
		return "", fmt.Errorf("%w: %d bits", ErrInsufficientData, total)
	}
	r := bitstream.NewBitReader(s.w.Data(), 0, 0)
	r.SetBits(total)

	var (
		n   uint64
		err error
	)
	for i := range PrefixBits {
		var bit bool
		bit, err = r.ReadBitAt(i)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidLength, err)
		}
		n <<= 1
		if bit {
			n |= 1
		}
	}
	if n == 0 || n > uint64(total-PrefixBits) {
		return "", fmt.Errorf("%w: %d of %d payload bits", ErrInvalidLength, n, total-PrefixBits)
	}

	// a partial trailing byte is dropped
	payload := make([]bool, int(n)/8*8)
	for k := range payload {
		if payload[k], err = r.ReadBitAt(PrefixBits + k); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidLength, err)
		}
	}
	return bitconv.Latin1(bitconv.BoolsToBytes(payload)), nil
}

// Unframe decodes a message from a plain bit slice.
func Unframe(bits []bool) (string, error) {
	s := NewStream()
	s.Append(bits...)
	return s.Unframe()
}

// Frame is the inverse of Unframe: the bit length of payload as a 32-bit
// big-endian prefix followed by the payload bits.
func Frame(payload []byte) []bool {
	n := uint32(len(payload) * 8)
	bits := make([]bool, 0, PrefixBits+int(n))
	for i := PrefixBits - 1; i >= 0; i-- {
		bits = append(bits, (n>>uint(i))&1 == 1)
	}
	return append(bits, bitconv.BytesToBools(payload)...)
}
