// Package fixture builds synthetic channel inputs for tests: PNG-shaped
// frames carrying LSB payloads and two-tone PCM.
package fixture

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/yyyoichi/videomark/internal/bitframe"
)

// chunkLead is the number of data chunk bytes before the first sampled byte.
const chunkLead = 4

var PNGSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Frame builds a buffer whose data chunk carries bits in the LSB of every
// stride-th byte, followed by tail filler bytes. The first four chunk bytes
// are left to the compressor, so sampling starts eight bytes after the tag.
// Every other byte has its LSB set so misaligned reads are visible.
func Frame(bits []bool, stride, tail int) []byte {
	buf := append([]byte{}, PNGSignature...)
	buf = append(buf, 0, 0, 0, 13, 'I', 'H', 'D', 'R')
	buf = append(buf, make([]byte, 17)...)

	region := filled(len(bits)*stride, 0xff)
	for i, b := range bits {
		v := byte(0x40)
		if b {
			v |= 1
		}
		region[i*stride] = v
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(chunkLead+len(region)))
	buf = append(buf, 'I', 'D', 'A', 'T')
	buf = append(buf, filled(chunkLead, 0xff)...)
	buf = append(buf, region...)
	return append(buf, filled(tail, 0xff)...)
}

// DefaultFrame uses stride 7 and a 100 byte tail.
func DefaultFrame(bits []bool) []byte {
	return Frame(bits, 7, 100)
}

// BlankFrame has a PNG signature but no data chunk.
func BlankFrame() []byte {
	return append(append([]byte{}, PNGSignature...), make([]byte, 400)...)
}

// MessageFrames returns n frames where every interval-th frame carries the
// whole framed message and the others carry a run of set bits.
func MessageFrames(msg string, n, interval int) [][]byte {
	bits := bitframe.Frame([]byte(msg))
	noise := []bool{true, true, true, true, true, true, true, true}
	frames := make([][]byte, n)
	for i := range frames {
		if i%interval == 0 {
			frames[i] = DefaultFrame(bits)
		} else {
			frames[i] = DefaultFrame(noise)
		}
	}
	return frames
}

// Tones writes one burst per bit of windowLen samples, the high tone for a
// set bit and half of it otherwise. The phase restarts every window.
func Tones(bits []bool, sampleRate int, bitDuration, freq, amplitude float64) []byte {
	n := int(math.Floor(float64(sampleRate) * bitDuration))
	pcm := make([]byte, 0, len(bits)*n*2)
	for _, bit := range bits {
		f := freq * 0.5
		if bit {
			f = freq
		}
		for j := range n {
			t := float64(j) / float64(sampleRate)
			v := int16(math.Round(amplitude * 32767 * math.Sin(2*math.Pi*f*t)))
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(v))
		}
	}
	return pcm
}

// MessageTones encodes msg with the default audio parameters.
func MessageTones(msg string) []byte {
	return Tones(bitframe.Frame([]byte(msg)), 44100, 0.1, 18, 0.3)
}

// CommentTags returns container tags carrying msg as hex.
func CommentTags(msg string) map[string]string {
	return map[string]string{
		"comment": hex.EncodeToString([]byte(msg)),
		"encoder": "Lavf60.16.100",
	}
}

func filled(n int, v byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = v
	}
	return b
}
