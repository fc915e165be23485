package bitframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prefix(n uint32) []bool {
	bits := make([]bool, 32)
	for i := range bits {
		bits[i] = (n>>uint(31-i))&1 == 1
	}
	return bits
}

func TestUnframe(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, s := range []string{"a", "Hello", "TEST_MARK", "hello world!", "~!@#$%^&*()_+ {}[]"} {
			got, err := Unframe(Frame([]byte(s)))
			require.NoError(t, err, s)
			assert.Equal(t, s, got)
		}
	})

	t.Run("insufficient data", func(t *testing.T) {
		for _, n := range []int{0, 1, 8, 31} {
			_, err := Unframe(make([]bool, n))
			assert.ErrorIs(t, err, ErrInsufficientData, n)
		}
	})

	t.Run("invalid length", func(t *testing.T) {
		test := []struct {
			name string
			bits []bool
		}{
			{"zero prefix", make([]bool, 64)},
			{"exactly 32 zero bits", make([]bool, 32)},
			{"prefix exceeds payload", append(prefix(17), make([]bool, 16)...)},
			{"max prefix", append(prefix(^uint32(0)), make([]bool, 64)...)},
		}
		for _, tt := range test {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Unframe(tt.bits)
				assert.ErrorIs(t, err, ErrInvalidLength)
			})
		}
	})

	t.Run("trailing partial byte is ignored", func(t *testing.T) {
		bits := append(prefix(13), Frame([]byte("AB"))[32:]...)
		got, err := Unframe(bits)
		require.NoError(t, err)
		assert.Equal(t, "A", got)
	})

	t.Run("fewer than 8 payload bits yields empty message", func(t *testing.T) {
		bits := append(prefix(5), true, false, true, false, true)
		got, err := Unframe(bits)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("extra bits after payload are ignored", func(t *testing.T) {
		bits := append(Frame([]byte("Hi")), true, true, true, false, true)
		got, err := Unframe(bits)
		require.NoError(t, err)
		assert.Equal(t, "Hi", got)
	})

	t.Run("high bytes map to their character codes", func(t *testing.T) {
		got, err := Unframe(Frame([]byte{0xe9}))
		require.NoError(t, err)
		assert.Equal(t, "é", got)
	})
}

func TestStream(t *testing.T) {
	s := NewStream()
	assert.Zero(t, s.Len())
	bits := Frame([]byte("Hi"))
	s.Append(bits[:10]...)
	s.Append(bits[10:]...)
	assert.Equal(t, len(bits), s.Len())
	got, err := s.Unframe()
	require.NoError(t, err)
	assert.Equal(t, "Hi", got)
}
