package sbct11

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntelHexRoundTrip(t *testing.T) {
	src := NewMemory("rom", MemRead)
	for i := 0; i < 100; i++ {
		src.UIWriteByte(0x1000+uint16(i), byte(i*7))
	}

	var buf bytes.Buffer
	require.NoError(t, SaveIntelHex(src, &buf, 0x1000, 100))

	dst := NewMemory("rom", MemRead)
	n, err := LoadIntelHex(dst, &buf)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	for i := 0; i < 100; i++ {
		assert.Equal(t, byte(i*7), dst.UIReadByte(0x1000+uint16(i)))
	}
}

func TestIntelHexChecksumRejected(t *testing.T) {
	m := NewMemory("rom", MemRead)
	_, err := LoadIntelHex(m, strings.NewReader(":0110000041FF\n:00000001FF\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum")
}

func TestIntelHexMissingEOF(t *testing.T) {
	m := NewMemory("rom", MemRead)
	_, err := LoadIntelHex(m, strings.NewReader(":0110000041AE\n"))
	require.Error(t, err)
}

// absFrame builds one absolute loader frame with a correct checksum.
func absFrame(addr uint16, data []byte) []byte {
	length := len(data) + 6
	f := []byte{1, 0, byte(length), byte(length >> 8), byte(addr), byte(addr >> 8)}
	f = append(f, data...)
	var sum byte
	for _, b := range f {
		sum += b
	}
	return append(f, -sum)
}

func TestAbsoluteLoader(t *testing.T) {
	var tape bytes.Buffer
	tape.Write([]byte{0, 0, 0}) // leader padding
	tape.Write(absFrame(001000, []byte{0x12, 0x34, 0x56}))
	tape.Write(absFrame(002000, []byte{0x78}))
	tape.Write(absFrame(001000, nil)) // end frame carries the transfer address

	m := NewMemory("ram", MemRead|MemWrite)
	start, err := LoadAbsolute(m, &tape)
	require.NoError(t, err)
	assert.Equal(t, uint16(001000), start)
	assert.Equal(t, byte(0x12), m.UIReadByte(001000))
	assert.Equal(t, byte(0x56), m.UIReadByte(001002))
	assert.Equal(t, byte(0x78), m.UIReadByte(002000))
}

func TestAbsoluteLoaderBadChecksum(t *testing.T) {
	frame := absFrame(001000, []byte{0x12})
	frame[len(frame)-1]++ // corrupt
	m := NewMemory("ram", MemRead|MemWrite)
	_, err := LoadAbsolute(m, bytes.NewReader(frame))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum")
}

func TestAbsoluteLoaderNoEndFrame(t *testing.T) {
	m := NewMemory("ram", MemRead|MemWrite)
	_, err := LoadAbsolute(m, bytes.NewReader(absFrame(001000, []byte{1, 2})))
	require.Error(t, err)
}

func TestLoadImageRaw(t *testing.T) {
	m := NewMemory("ram", MemRead|MemWrite)
	n, err := LoadImage(m, bytes.NewReader([]byte{1, 2, 3}), 001000)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, byte(2), m.UIReadByte(001001))

	// an image that will not fit at its base is rejected
	_, err = LoadImage(m, bytes.NewReader(make([]byte, 0x20000)), 0)
	require.Error(t, err)
}
