package cpu

import "github.com/claude6502/go6502/bus"

// addrModeFn evaluates an addressing mode, setting addrAbs/addrRel/
// fetchedIsA as appropriate, and reports 1 if this particular evaluation
// crossed a page boundary (the instruction decides, via its own return
// value, whether that matters).
type addrModeFn func(c *CPU, b bus.Bus) uint8

// addrIMP: operand is the accumulator.
func addrIMP(c *CPU, b bus.Bus) uint8 {
	c.fetchedIsA = true
	return 0
}

// addrIMM: operand is the byte immediately following the opcode.
func addrIMM(c *CPU, b bus.Bus) uint8 {
	c.addrAbs = c.PC
	c.PC++
	return 0
}

// addrZP0: zero-page direct.
func addrZP0(c *CPU, b bus.Bus) uint8 {
	c.addrAbs = uint16(b.Read(c.PC, false))
	c.PC++
	return 0
}

// addrZPX: zero-page indexed by X, wrapping within the zero page.
func addrZPX(c *CPU, b bus.Bus) uint8 {
	c.addrAbs = uint16(b.Read(c.PC, false)+c.X) & 0xFF
	c.PC++
	return 0
}

// addrZPY: zero-page indexed by Y, wrapping within the zero page.
func addrZPY(c *CPU, b bus.Bus) uint8 {
	c.addrAbs = uint16(b.Read(c.PC, false)+c.Y) & 0xFF
	c.PC++
	return 0
}

// addrREL: signed branch displacement, resolved by the branch instructions.
func addrREL(c *CPU, b bus.Bus) uint8 {
	c.addrRel = b.Read(c.PC, false)
	c.PC++
	return 0
}

// addrABS: little-endian absolute address.
func addrABS(c *CPU, b bus.Bus) uint8 {
	lo := uint16(b.Read(c.PC, false))
	c.PC++
	hi := uint16(b.Read(c.PC, false))
	c.PC++
	c.addrAbs = hi<<8 | lo
	return 0
}

// addrABX: absolute indexed by X; reports a page cross.
func addrABX(c *CPU, b bus.Bus) uint8 {
	lo := uint16(b.Read(c.PC, false))
	c.PC++
	hi := uint16(b.Read(c.PC, false))
	c.PC++
	base := hi << 8 | lo
	c.addrAbs = base + uint16(c.X)
	if c.addrAbs&0xFF00 != base&0xFF00 {
		return 1
	}
	return 0
}

// addrABY: absolute indexed by Y; reports a page cross.
func addrABY(c *CPU, b bus.Bus) uint8 {
	lo := uint16(b.Read(c.PC, false))
	c.PC++
	hi := uint16(b.Read(c.PC, false))
	c.PC++
	base := hi << 8 | lo
	c.addrAbs = base + uint16(c.Y)
	if c.addrAbs&0xFF00 != base&0xFF00 {
		return 1
	}
	return 0
}

// addrIND: indirect absolute, used only by JMP. Reproduces the hardware
// page-wrap bug: when the pointer's low byte is $FF, the high byte of the
// target is read from the start of the same page instead of the next one.
func addrIND(c *CPU, b bus.Bus) uint8 {
	ptrLo := uint16(b.Read(c.PC, false))
	c.PC++
	ptrHi := uint16(b.Read(c.PC, false))
	c.PC++
	ptr := ptrHi<<8 | ptrLo

	var hiAddr uint16
	if ptrLo == 0x00FF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	lo := uint16(b.Read(ptr, false))
	hi := uint16(b.Read(hiAddr, false))
	c.addrAbs = hi<<8 | lo
	return 0
}

// addrIZX: indexed indirect, (zp,X). Both the pointer fetch and the
// pointer itself wrap within the zero page.
func addrIZX(c *CPU, b bus.Bus) uint8 {
	t := uint16(b.Read(c.PC, false))
	c.PC++
	lo := uint16(b.Read((t+uint16(c.X))&0xFF, false))
	hi := uint16(b.Read((t+uint16(c.X)+1)&0xFF, false))
	c.addrAbs = hi<<8 | lo
	return 0
}

// addrIZY: indirect indexed, (zp),Y. Reports a page cross after adding Y.
func addrIZY(c *CPU, b bus.Bus) uint8 {
	t := uint16(b.Read(c.PC, false))
	c.PC++
	lo := uint16(b.Read(t&0xFF, false))
	hi := uint16(b.Read((t+1)&0xFF, false))
	base := hi<<8 | lo
	c.addrAbs = base + uint16(c.Y)
	if c.addrAbs&0xFF00 != base&0xFF00 {
		return 1
	}
	return 0
}
