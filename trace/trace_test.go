package trace_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/claude6502/go6502/bus"
	"github.com/claude6502/go6502/cpu"
	"github.com/claude6502/go6502/trace"
)

type flatBus struct {
	mem [0x10000]uint8
}

func (f *flatBus) Read(addr uint16, _ bool) uint8   { return f.mem[addr] }
func (f *flatBus) Write(addr uint16, v uint8)       { f.mem[addr] = v }
func (f *flatBus) RaiseInterrupt(bus.InterruptKind) {}

func TestFlagStringAllClear(t *testing.T) {
	require.Equal(t, "........", trace.FlagString(0))
}

func TestFlagStringCarrySet(t *testing.T) {
	s := trace.FlagString(cpu.FlagC)
	require.Equal(t, byte('C'), s[0])
	require.Equal(t, "C.......", s)
}

func TestFlagStringAllSet(t *testing.T) {
	all := cpu.FlagC | cpu.FlagZ | cpu.FlagI | cpu.FlagD | cpu.FlagB | cpu.FlagU | cpu.FlagV | cpu.FlagN
	require.Equal(t, "CZIDBUVN", trace.FlagString(all))
}

func TestDisassembleImmediate(t *testing.T) {
	b := &flatBus{}
	b.mem[0x0600] = 0xA9
	b.mem[0x0601] = 0x42
	out := trace.Disassemble(0x0600, b)
	require.True(t, strings.Contains(out, "LDA"))
	require.True(t, strings.Contains(out, "#$42"))
	require.True(t, strings.HasPrefix(out, "$0600"))
}

func TestDisassembleMarksNonStandard(t *testing.T) {
	b := &flatBus{}
	b.mem[0x0600] = 0x07 // SLO zp, non-standard
	b.mem[0x0601] = 0x10
	out := trace.Disassemble(0x0600, b)
	require.True(t, strings.Contains(out, "*SLO"))
}

func TestLineFormat(t *testing.T) {
	b := &flatBus{}
	b.mem[0x0600] = 0xA9
	b.mem[0x0601] = 0x99
	snap := cpu.Snapshot{A: 0x00, X: 0x01, Y: 0x02, SP: 0xFD, PC: 0x0600, P: 0x24}
	line := trace.Line(snap, b, 7)
	require.True(t, strings.HasPrefix(line, "0600"))
	require.True(t, strings.Contains(line, "A9 99"))
	require.True(t, strings.Contains(line, "LDA"))
	require.True(t, strings.Contains(line, "A:00 X:01 Y:02 P:24 SP:FD"))
	require.True(t, strings.Contains(line, "CYC:7"))
}

func TestLoggerEmitWritesOneLine(t *testing.T) {
	b := &flatBus{}
	b.mem[0x0600] = 0xEA
	var buf bytes.Buffer
	l := &trace.Logger{W: &buf}
	snap := cpu.Snapshot{PC: 0x0600, P: 0x24, SP: 0xFD}
	l.Emit(snap, b, 2)
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestLoggerEmitNilIsNoop(t *testing.T) {
	var l *trace.Logger
	b := &flatBus{}
	l.Emit(cpu.Snapshot{}, b, 0) // must not panic
}
