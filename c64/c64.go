// Package c64 implements the thin Commodore 64 memory-map shell described
// in spec §4.5: 64 KiB of RAM, three ROM regions, and processor-port
// banking at $0001 driving which of RAM/ROM/I-O is visible at a given
// address. It owns an embedded cpu.CPU and drives it one tick at a time.
package c64

import (
	"fmt"
	"io"

	"github.com/claude6502/go6502/bus"
	"github.com/claude6502/go6502/cpu"
	"github.com/claude6502/go6502/irq"
	"github.com/claude6502/go6502/trace"
)

const (
	basicROMSize  = 0x2000
	charROMSize   = 0x1000
	kernalROMSize = 0x2000

	basicStart  = 0xA000
	charStart   = 0xD000
	ioStart     = 0xD000
	ioEnd       = 0xDFFF
	kernalStart = 0xE000
)

// ROMSet is the build-supplied byte content of the three mask ROMs (spec
// §1: "ROM image blobs ... provided by the build").
type ROMSet struct {
	Basic  []byte
	Char   []byte
	Kernal []byte
}

// ROMError reports a ROM blob of the wrong size at construction time —
// the one host-side I/O failure kind from spec §7, surfaced at New, never
// during a tick.
type ROMError struct {
	Region   string
	Wanted   int
	Received int
}

func (e ROMError) Error() string {
	return fmt.Sprintf("%s ROM: want %d bytes, got %d", e.Region, e.Wanted, e.Received)
}

// Shell is the C64 memory map plus an embedded CPU core.
type Shell struct {
	ram       [0x10000]byte
	basicROM  [basicROMSize]byte
	charROM   [charROMSize]byte
	kernalROM [kernalROMSize]byte
	cpu       *cpu.CPU
	pending   irq.Latch
	Logger    io.Writer
	TraceLog  *trace.Logger
}

// New constructs a Shell with the given ROM content copied in. logger may
// be nil, in which case port/I-O notices are discarded.
func New(roms ROMSet, logger io.Writer) (*Shell, error) {
	if len(roms.Basic) != basicROMSize {
		return nil, ROMError{Region: "BASIC", Wanted: basicROMSize, Received: len(roms.Basic)}
	}
	if len(roms.Char) != charROMSize {
		return nil, ROMError{Region: "CHAR", Wanted: charROMSize, Received: len(roms.Char)}
	}
	if len(roms.Kernal) != kernalROMSize {
		return nil, ROMError{Region: "KERNAL", Wanted: kernalROMSize, Received: len(roms.Kernal)}
	}
	if logger == nil {
		logger = io.Discard
	}

	s := &Shell{cpu: cpu.New(), Logger: logger}
	copy(s.basicROM[:], roms.Basic)
	copy(s.charROM[:], roms.Char)
	copy(s.kernalROM[:], roms.Kernal)
	return s, nil
}

// Reset implements spec §4.5's lifecycle: the default port value 0b010
// is written, then the CPU is reset (§4.2.6).
func (s *Shell) Reset() {
	s.ram[0x0001] = 0b010
	s.cpu.Reset(s)
}

// Clock implements spec §4.5's clock(): one CPU tick, then, if that tick
// completed an instruction, any latched interrupt is delivered and
// cleared (NMI before IRQ), then Complete() is returned.
func (s *Shell) Clock() bool {
	s.cpu.Clock(s)
	if s.TraceLog != nil && s.cpu.Complete() {
		s.TraceLog.Emit(s.cpu.Snapshot(), s, s.cpu.TotalCycles)
	}
	if s.cpu.Complete() {
		if s.pending.TakeNMI() {
			s.cpu.NMI(s)
		} else if s.pending.TakeIRQ() {
			s.cpu.IRQ(s)
		}
	}
	return s.cpu.Complete()
}

// CPU returns a read-only register-file view (spec §6.2's cpu() accessor).
func (s *Shell) CPU() cpu.Snapshot {
	return s.cpu.Snapshot()
}

// Fault returns the fatal fault raised by the embedded CPU, if any.
func (s *Shell) Fault() error {
	return s.cpu.Fault()
}

// Disassemble renders the single-line embedding-surface form from
// spec §6.2 for the instruction at addr.
func (s *Shell) Disassemble(addr uint16) string {
	return trace.Disassemble(addr, s)
}

// LoadPRG copies a .prg image (a little-endian load address followed by
// raw bytes) into RAM, returning the load address. Grounded on the
// teacher's convertprg/disassembler .prg handling, generalized into a
// shell method.
func (s *Shell) LoadPRG(data []byte) (uint16, error) {
	if len(data) < 2 {
		return 0, fmt.Errorf("c64: PRG image too short (%d bytes)", len(data))
	}
	load := uint16(data[0]) | uint16(data[1])<<8
	copy(s.ram[load:], data[2:])
	return load, nil
}

func (s *Shell) ioRegionName(addr uint16) string {
	switch {
	case addr <= 0xD3FF:
		return "VIC-II"
	case addr <= 0xD7FF:
		return "SID"
	case addr <= 0xDBFF:
		return "COLOR RAM"
	case addr <= 0xDCFF:
		return "CIA 1"
	case addr <= 0xDDFF:
		return "CIA 2"
	case addr <= 0xDEFF:
		return "I/O 1"
	default:
		return "I/O 2"
	}
}

func (s *Shell) port() (charen, hiram, loram bool) {
	p := s.ram[0x0001]
	return p&0b100 != 0, p&0b010 != 0, p&0b001 != 0
}

// Read implements bus.Bus per the banking table in spec §4.5.
func (s *Shell) Read(addr uint16, readOnly bool) uint8 {
	charen, hiram, loram := s.port()

	switch {
	case hiram && loram && addr >= basicStart && addr <= 0xBFFF:
		return s.basicROM[addr-basicStart]

	case charen && (hiram || loram) && addr >= ioStart && addr <= ioEnd:
		if !readOnly {
			if addr == 0xD012 {
				fmt.Fprintf(s.Logger, "[VIC-II] Reading I/O: $%04X\n", addr)
			} else {
				fmt.Fprintf(s.Logger, "[%s] Reading I/O: $%04X\n", s.ioRegionName(addr), addr)
			}
		}
		if addr == 0xD012 { // VIC raster counter sentinel
			return 0x00
		}
		return s.ram[addr]

	case (hiram || loram) && addr >= charStart && addr <= 0xDFFF:
		return s.charROM[addr-charStart]

	case hiram && addr >= kernalStart:
		return s.kernalROM[addr-kernalStart]
	}
	return s.ram[addr]
}

// Write implements bus.Bus. Writes to $0000/$0001 and the I-O range are
// logged but always shadowed into RAM, per spec §4.5.
func (s *Shell) Write(addr uint16, value uint8) {
	switch {
	case addr == 0x0000:
		fmt.Fprintf(s.Logger, "[CPU IO $0] %02X\n", value)
	case addr == 0x0001:
		fmt.Fprintf(s.Logger, "[CPU IO $1] %02X\n", value)
	case addr >= ioStart && addr <= ioEnd:
		fmt.Fprintf(s.Logger, "[%s] Writing I/O: $%04X <- %02X\n", s.ioRegionName(addr), addr, value)
	}
	s.ram[addr] = value
}

// RaiseInterrupt implements bus.Bus: latches the interrupt for delivery
// at the next Clock boundary.
func (s *Shell) RaiseInterrupt(kind bus.InterruptKind) {
	switch kind {
	case bus.NMILine:
		s.pending.SetNMI()
	case bus.IRQLine:
		s.pending.SetIRQ()
	}
}
