// Package functional runs the Klaus Dormann 6502 functional and timing
// test ROMs against the cpu package, grounded on the teacher's
// functionality_test.go TestROMs harness and on original_source's
// run_klaus_test trap-detection loop. The ROM images are not checked into
// this repository; tests skip themselves when testdata/ does not carry
// the expected binary.
package functional

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/claude6502/go6502/bus"
	"github.com/claude6502/go6502/cpu"
)

const testDir = "testdata"

type flatBus struct {
	mem [0x10000]uint8
}

func (f *flatBus) Read(addr uint16, _ bool) uint8   { return f.mem[addr] }
func (f *flatBus) Write(addr uint16, v uint8)       { f.mem[addr] = v }
func (f *flatBus) RaiseInterrupt(bus.InterruptKind) {}

func loadROM(t *testing.T, name string) *flatBus {
	t.Helper()
	path := filepath.Join(testDir, name)
	if _, err := os.Stat(path); err != nil {
		t.Skipf("skipping: %s not present", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	b := &flatBus{}
	copy(b.mem[:], data)
	return b
}

// TestKlausFunctionalROM runs 6502_functional_test.bin until the CPU
// either traps (a real bug) or reaches the success trap at $3469, the
// same termination condition original_source's run_klaus_test uses: the
// program counter stops advancing, meaning it has looped back onto a
// single BNE *-testing itself (the test suite's "stuck" convention).
func TestKlausFunctionalROM(t *testing.T) {
	b := loadROM(t, "6502_functional_test.bin")

	c := cpu.New()
	// The functional test ROM expects execution to start at $0400; point
	// the reset vector there before a normal reset.
	b.mem[0xFFFC], b.mem[0xFFFD] = 0x00, 0x04
	c.Reset(b)

	var lastPC uint16
	for {
		c.Clock(b)
		if err := c.Fault(); err != nil {
			t.Fatalf("cpu faulted: %v", err)
		}
		if !c.Complete() {
			continue
		}
		pc := c.Snapshot().PC
		if pc == lastPC {
			break
		}
		lastPC = pc
	}

	if got, want := lastPC, uint16(0x3469); got != want {
		t.Fatalf("functional test stopped looping at PC=$%04X, want $%04X", got, want)
	}
}

// TestTimingROM runs a short fixed-length timing ROM and checks the exact
// total cycle count the reference implementation reports, matching
// spec §8 scenario F. Unlike the Klaus functional ROM, this one does not
// self-loop at termination; it simply reaches $1269 and keeps going, so
// completion is the literal PC equality original_source's
// test_6502_timings.cpp checks for, not a "PC stopped advancing"
// heuristic.
func TestTimingROM(t *testing.T) {
	b := loadROM(t, "timing_test.bin")

	c := cpu.New()
	b.mem[0xFFFC], b.mem[0xFFFD] = 0x00, 0x10
	c.Reset(b)
	// original_source zeroes the cycle counter right after reset. The 8
	// cycles Reset charges are clocked off after this point, so they are
	// part of the measured total.
	c.TotalCycles = 0

	for {
		c.Clock(b)
		if err := c.Fault(); err != nil {
			t.Fatalf("cpu faulted: %v", err)
		}
		if c.Complete() && c.Snapshot().PC == 0x1269 {
			break
		}
	}

	if got, want := c.TotalCycles, uint64(1141); got != want {
		t.Fatalf("total cycles = %d, want %d", got, want)
	}
}
