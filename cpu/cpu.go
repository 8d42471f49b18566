// Package cpu implements a cycle-accurate NMOS 6502 core: register file,
// addressing modes, the full 256-opcode dispatch table (documented and the
// commonly-relied-upon undocumented set), interrupt sequencing, and BCD
// arithmetic. The core never reasons about what is mapped behind an
// address; every memory access flows through a bus.Bus passed into Clock.
package cpu

import (
	"fmt"

	"github.com/claude6502/go6502/bus"
)

// Status flag bit positions, matching the NMOS 6502 processor status byte.
const (
	FlagC uint8 = 1 << 0 // Carry
	FlagZ uint8 = 1 << 1 // Zero
	FlagI uint8 = 1 << 2 // Interrupt disable
	FlagD uint8 = 1 << 3 // Decimal mode
	FlagB uint8 = 1 << 4 // Break (only meaningful in the byte pushed to the stack)
	FlagU uint8 = 1 << 5 // Unused, always reads as 1
	FlagV uint8 = 1 << 6 // Overflow
	FlagN uint8 = 1 << 7 // Negative
)

const (
	nmiVector   = uint16(0xFFFA)
	resetVector = uint16(0xFFFC)
	irqVector   = uint16(0xFFFE)
	stackBase   = uint16(0x0100)
)

// FaultError reports execution of a truly illegal opcode — one of the
// unimplemented-trap slots in the opcode map. It is the only error the
// core ever raises; CPU state is left as-is for post-mortem inspection.
type FaultError struct {
	PC     uint16
	Opcode uint8
}

func (e FaultError) Error() string {
	return fmt.Sprintf("illegal opcode $%02X at $%04X", e.Opcode, e.PC)
}

// CPU holds the full programmer-visible register file plus the transient
// state needed to drive one instruction across multiple Clock calls.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16
	P  uint8

	// Transient per-instruction state.
	addrAbs     uint16
	addrRel     uint8
	fetchedIsA  bool // fetchedIsAccumulator
	opcode      uint8
	cyclesLeft  uint8
	TotalCycles uint64

	// branchExtra accumulates the cycle(s) a taken branch adds directly
	// (spec §4.2.4); it is folded into cyclesLeft once per Clock and reset.
	branchExtra uint8

	fault error
}

// Snapshot is a read-only view of the programmer-visible registers, used
// by the trace package and by the embedding surface's cpu() accessor.
type Snapshot struct {
	A, X, Y, SP uint8
	PC          uint16
	P           uint8
}

// New returns a CPU with all registers zeroed; call Reset before clocking
// it to establish the documented power-on/reset state.
func New() *CPU {
	return &CPU{}
}

// Snapshot returns the current register file without exposing mutable
// internals.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC, P: c.P}
}

// Fault returns the fatal fault raised by a Clock call since the last
// Reset, if any. Once set it is sticky until Reset; the host decides
// whether to keep clocking.
func (c *CPU) Fault() error {
	return c.fault
}

// Complete reports whether the CPU is at an instruction boundary and may
// be given a new opcode on the next Clock call.
func (c *CPU) Complete() bool {
	return c.cyclesLeft == 0
}

// Reset implements spec §4.2.6: registers cleared, sp=0xFD, p=U|I, pc
// loaded from the reset vector, cycles charged as 8.
func (c *CPU) Reset(b bus.Bus) {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = FlagU | FlagI
	c.addrAbs, c.addrRel = 0, 0
	c.fetchedIsA = false
	c.fault = nil

	lo := uint16(b.Read(resetVector, false))
	hi := uint16(b.Read(resetVector+1, false))
	c.PC = hi<<8 | lo
	c.cyclesLeft = 8
}

// Clock implements spec §4.2: on an instruction boundary, fetch and
// dispatch an opcode, charging base cycles plus any page-crossing
// extension; every call then decrements cyclesLeft and increments
// TotalCycles by exactly one.
func (c *CPU) Clock(b bus.Bus) {
	if c.cyclesLeft == 0 {
		c.opcode = b.Read(c.PC, false)
		c.PC++
		c.fetchedIsA = false

		entry := opcodeTable[c.opcode]
		if entry.Instr == nil {
			c.fault = FaultError{PC: c.PC - 1, Opcode: c.opcode}
			c.cyclesLeft = 1
		} else {
			addrExtra := entry.Addr(c, b)
			instrExtra := entry.Instr(c, b)
			c.cyclesLeft = entry.BaseCycles
			if addrExtra == 1 && instrExtra == 1 {
				c.cyclesLeft++
			}
			c.cyclesLeft += c.branchExtra
			c.branchExtra = 0
		}
	}

	c.cyclesLeft--
	c.TotalCycles++
}

// fetch implements spec §4.2.2: returns A when the addressing mode is
// IMP-accumulator, otherwise the byte at addrAbs.
func (c *CPU) fetch(b bus.Bus) uint8 {
	if c.fetchedIsA {
		return c.A
	}
	return b.Read(c.addrAbs, false)
}

func (c *CPU) getFlag(flag uint8) bool {
	return c.P&flag != 0
}

func (c *CPU) setFlag(flag uint8, v bool) {
	if v {
		c.P |= flag
	} else {
		c.P &^= flag
	}
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, v&0x80 != 0)
}

func (c *CPU) push(b bus.Bus, v uint8) {
	b.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop(b bus.Bus) uint8 {
	c.SP++
	return b.Read(stackBase+uint16(c.SP), false)
}

func (c *CPU) pushPC(b bus.Bus) {
	c.push(b, uint8(c.PC>>8))
	c.push(b, uint8(c.PC&0xFF))
}

func (c *CPU) popPC(b bus.Bus) {
	lo := uint16(c.pop(b))
	hi := uint16(c.pop(b))
	c.PC = hi<<8 | lo
}

// IRQ implements spec §4.2.5: honoured only when I is clear.
func (c *CPU) IRQ(b bus.Bus) {
	if c.getFlag(FlagI) {
		return
	}
	c.pushPC(b)
	c.push(b, (c.P&^FlagB)|FlagU)
	c.setFlag(FlagI, true)
	lo := uint16(b.Read(irqVector, false))
	hi := uint16(b.Read(irqVector+1, false))
	c.PC = hi<<8 | lo
	c.cyclesLeft = 7
}

// NMI implements spec §4.2.5: always honoured.
func (c *CPU) NMI(b bus.Bus) {
	c.pushPC(b)
	c.push(b, (c.P&^FlagB)|FlagU)
	c.setFlag(FlagI, true)
	lo := uint16(b.Read(nmiVector, false))
	hi := uint16(b.Read(nmiVector+1, false))
	c.PC = hi<<8 | lo
	c.cyclesLeft = 8
}
