package cpu

import "github.com/claude6502/go6502/bus"

// instrFn executes an instruction body and reports 1 if this instruction
// is page-penalty eligible (loads, compares, logical and arithmetic ops,
// and the variant NOPs); stores and read-modify-write instructions always
// report 0. Combined with the addressing mode's own signal via the "both
// 1" rule in Clock.
type instrFn func(c *CPU, b bus.Bus) uint8

func (c *CPU) store(b bus.Bus, v uint8) {
	if c.fetchedIsA {
		c.A = v
		return
	}
	b.Write(c.addrAbs, v)
}

// --- load / arithmetic / logical (page-penalty eligible) ---

func iLDA(c *CPU, b bus.Bus) uint8 {
	c.A = c.fetch(b)
	c.setZN(c.A)
	return 1
}

func iLDX(c *CPU, b bus.Bus) uint8 {
	c.X = c.fetch(b)
	c.setZN(c.X)
	return 1
}

func iLDY(c *CPU, b bus.Bus) uint8 {
	c.Y = c.fetch(b)
	c.setZN(c.Y)
	return 1
}

func iAND(c *CPU, b bus.Bus) uint8 {
	c.A &= c.fetch(b)
	c.setZN(c.A)
	return 1
}

func iORA(c *CPU, b bus.Bus) uint8 {
	c.A |= c.fetch(b)
	c.setZN(c.A)
	return 1
}

func iEOR(c *CPU, b bus.Bus) uint8 {
	c.A ^= c.fetch(b)
	c.setZN(c.A)
	return 1
}

// adc implements spec §4.2.3's binary add plus the decimal-mode
// correction. In decimal mode Z and V are derived from the binary sum, N
// from the high nibble after the low-nibble correction but before the
// high-nibble correction, and only A and C carry the full BCD correction
// (spec §9 open question, see DESIGN.md).
func (c *CPU) adc(m uint8) {
	carryIn := uint16(0)
	if c.getFlag(FlagC) {
		carryIn = 1
	}
	bin := uint16(c.A) + uint16(m) + carryIn

	if c.getFlag(FlagD) {
		al := (c.A & 0x0F) + (m & 0x0F) + uint8(carryIn)
		ah := (c.A >> 4) + (m >> 4)
		if al > 9 {
			al += 6
		}
		if al > 0x0F {
			ah++
			al &= 0x0F
		}
		c.setFlag(FlagZ, uint8(bin) == 0)
		c.setFlag(FlagN, ah&0x08 != 0)
		c.setFlag(FlagV, (^(uint16(c.A)^uint16(m))&(uint16(c.A)^bin))&0x80 != 0)
		if ah > 9 {
			ah += 6
		}
		c.setFlag(FlagC, ah > 0x0F)
		c.A = ah<<4 | al&0x0F
		return
	}

	c.setFlag(FlagC, bin > 0xFF)
	c.setFlag(FlagV, (^(uint16(c.A)^uint16(m))&(uint16(c.A)^bin))&0x80 != 0)
	c.A = uint8(bin)
	c.setZN(c.A)
}

// sbc mirrors adc: the binary borrow/flags are always computed first
// (this is what real hardware exposes for N/V/Z/C even in decimal mode),
// then the decimal-corrected digits replace A when D is set.
func (c *CPU) sbc(m uint8) {
	carryIn := uint16(0)
	if c.getFlag(FlagC) {
		carryIn = 1
	}
	inv := uint16(m) ^ 0x00FF
	bin := uint16(c.A) + inv + carryIn

	c.setFlag(FlagC, bin > 0xFF)
	c.setFlag(FlagV, ((bin^uint16(c.A))&(bin^inv)&0x80) != 0)
	result := uint8(bin)
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, result&0x80 != 0)

	if c.getFlag(FlagD) {
		al := int16(c.A&0x0F) - int16(m&0x0F) + int16(carryIn) - 1
		ah := int16(c.A>>4) - int16(m>>4)
		if al < 0 {
			al = (al - 6) & 0x0F
			ah--
		}
		if ah < 0 {
			ah = (ah - 6) & 0x0F
		}
		c.A = uint8(ah<<4) | uint8(al&0x0F)
		return
	}
	c.A = result
}

func iADC(c *CPU, b bus.Bus) uint8 {
	c.adc(c.fetch(b))
	return 1
}

func iSBC(c *CPU, b bus.Bus) uint8 {
	c.sbc(c.fetch(b))
	return 1
}

func (c *CPU) compare(reg, m uint8) {
	c.setFlag(FlagC, reg >= m)
	c.setFlag(FlagZ, reg == m)
	c.setFlag(FlagN, (reg-m)&0x80 != 0)
}

func iCMP(c *CPU, b bus.Bus) uint8 {
	c.compare(c.A, c.fetch(b))
	return 1
}

func iCPX(c *CPU, b bus.Bus) uint8 {
	c.compare(c.X, c.fetch(b))
	return 1
}

func iCPY(c *CPU, b bus.Bus) uint8 {
	c.compare(c.Y, c.fetch(b))
	return 1
}

func iBIT(c *CPU, b bus.Bus) uint8 {
	m := c.fetch(b)
	c.setFlag(FlagZ, c.A&m == 0)
	c.setFlag(FlagN, m&0x80 != 0)
	c.setFlag(FlagV, m&0x40 != 0)
	return 0
}

// --- read-modify-write (never page-penalty eligible) ---

func iASL(c *CPU, b bus.Bus) uint8 {
	v := c.fetch(b)
	c.setFlag(FlagC, v&0x80 != 0)
	v <<= 1
	c.store(b, v)
	c.setZN(v)
	return 0
}

func iLSR(c *CPU, b bus.Bus) uint8 {
	v := c.fetch(b)
	c.setFlag(FlagC, v&0x01 != 0)
	v >>= 1
	c.store(b, v)
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, false) // bit7 of a right shift is always 0
	return 0
}

func iROL(c *CPU, b bus.Bus) uint8 {
	v := c.fetch(b)
	carryIn := uint8(0)
	if c.getFlag(FlagC) {
		carryIn = 1
	}
	c.setFlag(FlagC, v&0x80 != 0)
	v = v<<1 | carryIn
	c.store(b, v)
	c.setZN(v)
	return 0
}

func iROR(c *CPU, b bus.Bus) uint8 {
	v := c.fetch(b)
	carryIn := uint8(0)
	if c.getFlag(FlagC) {
		carryIn = 0x80
	}
	c.setFlag(FlagC, v&0x01 != 0)
	v = v>>1 | carryIn
	c.store(b, v)
	c.setZN(v)
	return 0
}

func iINC(c *CPU, b bus.Bus) uint8 {
	v := c.fetch(b) + 1
	c.store(b, v)
	c.setZN(v)
	return 0
}

func iDEC(c *CPU, b bus.Bus) uint8 {
	v := c.fetch(b) - 1
	c.store(b, v)
	c.setZN(v)
	return 0
}

// --- stores ---

func iSTA(c *CPU, b bus.Bus) uint8 {
	b.Write(c.addrAbs, c.A)
	return 0
}

func iSTX(c *CPU, b bus.Bus) uint8 {
	b.Write(c.addrAbs, c.X)
	return 0
}

func iSTY(c *CPU, b bus.Bus) uint8 {
	b.Write(c.addrAbs, c.Y)
	return 0
}

// --- register transfers ---

func iTAX(c *CPU, b bus.Bus) uint8 { c.X = c.A; c.setZN(c.X); return 0 }
func iTAY(c *CPU, b bus.Bus) uint8 { c.Y = c.A; c.setZN(c.Y); return 0 }
func iTXA(c *CPU, b bus.Bus) uint8 { c.A = c.X; c.setZN(c.A); return 0 }
func iTYA(c *CPU, b bus.Bus) uint8 { c.A = c.Y; c.setZN(c.A); return 0 }
func iTSX(c *CPU, b bus.Bus) uint8 { c.X = c.SP; c.setZN(c.X); return 0 }
func iTXS(c *CPU, b bus.Bus) uint8 { c.SP = c.X; return 0 }

// --- increment / decrement registers ---

func iINX(c *CPU, b bus.Bus) uint8 { c.X++; c.setZN(c.X); return 0 }
func iINY(c *CPU, b bus.Bus) uint8 { c.Y++; c.setZN(c.Y); return 0 }
func iDEX(c *CPU, b bus.Bus) uint8 { c.X--; c.setZN(c.X); return 0 }
func iDEY(c *CPU, b bus.Bus) uint8 { c.Y--; c.setZN(c.Y); return 0 }

// --- flag instructions ---

func iCLC(c *CPU, b bus.Bus) uint8 { c.setFlag(FlagC, false); return 0 }
func iSEC(c *CPU, b bus.Bus) uint8 { c.setFlag(FlagC, true); return 0 }
func iCLD(c *CPU, b bus.Bus) uint8 { c.setFlag(FlagD, false); return 0 }
func iSED(c *CPU, b bus.Bus) uint8 { c.setFlag(FlagD, true); return 0 }
func iCLI(c *CPU, b bus.Bus) uint8 { c.setFlag(FlagI, false); return 0 }
func iSEI(c *CPU, b bus.Bus) uint8 { c.setFlag(FlagI, true); return 0 }
func iCLV(c *CPU, b bus.Bus) uint8 { c.setFlag(FlagV, false); return 0 }

// --- stack instructions ---

func iPHA(c *CPU, b bus.Bus) uint8 { c.push(b, c.A); return 0 }

func iPHP(c *CPU, b bus.Bus) uint8 {
	c.push(b, c.P|FlagB|FlagU)
	return 0
}

func iPLA(c *CPU, b bus.Bus) uint8 {
	c.A = c.pop(b)
	c.setZN(c.A)
	return 0
}

func iPLP(c *CPU, b bus.Bus) uint8 {
	c.P = (c.pop(b) &^ FlagB) | FlagU
	return 0
}

// --- branches: addressing mode REL has already set addrRel ---

func (c *CPU) branch(taken bool) uint8 {
	if !taken {
		return 0
	}
	target := c.PC + uint16(int8(c.addrRel))
	extra := uint8(1)
	if target&0xFF00 != c.PC&0xFF00 {
		extra++
	}
	c.branchExtra += extra
	c.PC = target
	return 0
}

func iBCC(c *CPU, b bus.Bus) uint8 { return c.branch(!c.getFlag(FlagC)) }
func iBCS(c *CPU, b bus.Bus) uint8 { return c.branch(c.getFlag(FlagC)) }
func iBEQ(c *CPU, b bus.Bus) uint8 { return c.branch(c.getFlag(FlagZ)) }
func iBNE(c *CPU, b bus.Bus) uint8 { return c.branch(!c.getFlag(FlagZ)) }
func iBMI(c *CPU, b bus.Bus) uint8 { return c.branch(c.getFlag(FlagN)) }
func iBPL(c *CPU, b bus.Bus) uint8 { return c.branch(!c.getFlag(FlagN)) }
func iBVC(c *CPU, b bus.Bus) uint8 { return c.branch(!c.getFlag(FlagV)) }
func iBVS(c *CPU, b bus.Bus) uint8 { return c.branch(c.getFlag(FlagV)) }

// --- jumps / subroutines ---

func iJMP(c *CPU, b bus.Bus) uint8 {
	c.PC = c.addrAbs
	return 0
}

func iJSR(c *CPU, b bus.Bus) uint8 {
	c.PC--
	c.pushPC(b)
	c.PC = c.addrAbs
	return 0
}

func iRTS(c *CPU, b bus.Bus) uint8 {
	c.popPC(b)
	c.PC++
	return 0
}

// --- interrupts / break ---

func iBRK(c *CPU, b bus.Bus) uint8 {
	c.PC++ // BRK is followed by a padding byte, conventionally skipped
	c.pushPC(b)
	c.push(b, c.P|FlagB|FlagU)
	c.setFlag(FlagI, true)
	lo := uint16(b.Read(irqVector, false))
	hi := uint16(b.Read(irqVector+1, false))
	c.PC = hi<<8 | lo
	return 0
}

func iRTI(c *CPU, b bus.Bus) uint8 {
	c.P = (c.pop(b) &^ FlagB) | FlagU
	c.popPC(b)
	return 0
}

func iNOP(c *CPU, b bus.Bus) uint8 { return 0 }

// nopReadsOperand is used by the multi-form NOPs whose addressing mode
// actually reads an operand (and so is page-penalty eligible).
func nopReadsOperand(c *CPU, b bus.Bus) uint8 {
	_ = c.fetch(b)
	return 1
}

// --- undocumented composite opcodes: sequential composition of two
// primitive operations on the same effective address, per spec §4.2.3
// and §9 ("do not reimplement their flag semantics from scratch").

func iSLO(c *CPU, b bus.Bus) uint8 {
	iASL(c, b)
	iORA(c, b)
	return 0
}

func iRLA(c *CPU, b bus.Bus) uint8 {
	iROL(c, b)
	iAND(c, b)
	return 0
}

func iSRE(c *CPU, b bus.Bus) uint8 {
	iLSR(c, b)
	iEOR(c, b)
	return 0
}

func iRRA(c *CPU, b bus.Bus) uint8 {
	iROR(c, b)
	iADC(c, b)
	return 0
}

func iDCP(c *CPU, b bus.Bus) uint8 {
	iDEC(c, b)
	c.compare(c.A, c.fetch(b))
	return 0
}

func iISB(c *CPU, b bus.Bus) uint8 {
	iINC(c, b)
	iSBC(c, b)
	return 0
}

func iSAX(c *CPU, b bus.Bus) uint8 {
	b.Write(c.addrAbs, c.A&c.X)
	return 0
}

func iLAX(c *CPU, b bus.Bus) uint8 {
	c.A = c.fetch(b)
	c.X = c.A
	c.setZN(c.A)
	return 1
}

// iANC: AND with immediate, then C <- N of the result.
func iANC(c *CPU, b bus.Bus) uint8 {
	c.A &= c.fetch(b)
	c.setZN(c.A)
	c.setFlag(FlagC, c.A&0x80 != 0)
	return 0
}
