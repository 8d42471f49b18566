package c64basic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/claude6502/go6502/bus"
	"github.com/claude6502/go6502/c64basic"
)

type flatBus struct {
	mem [0x10000]uint8
}

func (f *flatBus) Read(addr uint16, _ bool) uint8   { return f.mem[addr] }
func (f *flatBus) Write(addr uint16, v uint8)       { f.mem[addr] = v }
func (f *flatBus) RaiseInterrupt(bus.InterruptKind) {}

// writeLine encodes one tokenized BASIC line (next-line pointer, line
// number, tokens, NUL terminator) at addr and returns the address just
// past it.
func writeLine(b *flatBus, addr, next, lineNum uint16, tokens []byte) uint16 {
	b.mem[addr] = uint8(next)
	b.mem[addr+1] = uint8(next >> 8)
	b.mem[addr+2] = uint8(lineNum)
	b.mem[addr+3] = uint8(lineNum >> 8)
	pos := addr + 4
	for _, t := range tokens {
		b.mem[pos] = t
		pos++
	}
	b.mem[pos] = 0x00
	return pos + 1
}

func TestListSingleLine(t *testing.T) {
	b := &flatBus{}
	start := uint16(0x0801)
	// 10 PRINT"HI"
	end := writeLine(b, start, 0, 10, append([]byte{0x99}, []byte(`"HI"`)...))
	b.mem[end] = 0x00
	b.mem[end+1] = 0x00 // end-of-program link

	// Patch the next-line pointer now that we know where the terminator is.
	b.mem[start] = uint8(end)
	b.mem[start+1] = uint8(end >> 8)

	out, newPC, err := c64basic.List(start, b)
	require.NoError(t, err)
	require.Equal(t, `10 PRINT"HI"`, out)
	require.Equal(t, end, newPC)

	out2, newPC2, err2 := c64basic.List(newPC, b)
	require.NoError(t, err2)
	require.Equal(t, "", out2)
	require.Equal(t, uint16(0x0000), newPC2)
}

func TestListSyntaxErrorOnOutOfRangeToken(t *testing.T) {
	b := &flatBus{}
	start := uint16(0x0801)
	end := writeLine(b, start, 0, 10, []byte{0xFF})
	b.mem[start] = uint8(end)
	b.mem[start+1] = uint8(end >> 8)

	_, _, err := c64basic.List(start, b)
	require.Error(t, err)
}

func TestListMultipleTokens(t *testing.T) {
	b := &flatBus{}
	start := uint16(0x0801)
	// 20 FOR I=0 TO 9 would be heavier to encode; keep to two tokens.
	end := writeLine(b, start, 0, 20, []byte{0x99, 0x20, 0x8F}) // PRINT " " REM
	b.mem[start] = uint8(end)
	b.mem[start+1] = uint8(end >> 8)

	out, _, err := c64basic.List(start, b)
	require.NoError(t, err)
	require.Equal(t, "20 PRINT REM", out)
}
