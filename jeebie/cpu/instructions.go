package cpu

import "github.com/valerio/jeebie-sm83/jeebie/bit"

// inc returns value+1, setting Z, N and H. Carry is never touched.
func (c *CPU) inc(value uint8) uint8 {
	result := value + 1

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(halfCarryFlag, (value&0xF) == 0xF)
	c.resetFlag(subFlag)

	return result
}

// dec returns value-1, setting Z, N and H. Carry is never touched.
func (c *CPU) dec(value uint8) uint8 {
	result := value - 1

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlagToCondition(halfCarryFlag, (value&0xF) == 0)
	c.setFlag(subFlag)

	return result
}

// alu applies one of the 8 bit ALU group operations between A and value.
func (c *CPU) alu(operation aluOp, value uint8) {
	switch operation {
	case aluADD:
		c.addToA(value, 0)
	case aluADC:
		c.addToA(value, c.flagToBit(carryFlag))
	case aluSUB:
		c.a = c.sub(value, 0)
	case aluSBC:
		c.a = c.sub(value, c.flagToBit(carryFlag))
	case aluAND:
		c.and(value)
	case aluXOR:
		c.xor(value)
	case aluOR:
		c.or(value)
	case aluCP:
		c.sub(value, 0)
	}
}

// addToA sets the result of adding value (and the carry in) to A, while setting all relevant flags.
func (c *CPU) addToA(value, carry uint8) {
	a := c.a
	result := a + value + carry

	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(carryFlag, bit.CarryAdd(a, value, carry))
	c.setFlagToCondition(halfCarryFlag, bit.HalfCarryAdd(a, value, carry))

	c.a = result
}

// sub returns A minus value (and the carry in), setting all flags.
// A is left untouched so that CP can share it.
func (c *CPU) sub(value, carry uint8) uint8 {
	a := c.a
	result := a - value - carry

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, bit.Borrow(a, value, carry))
	c.setFlagToCondition(halfCarryFlag, bit.HalfBorrow(a, value, carry))

	return result
}

func (c *CPU) and(value uint8) {
	c.a &= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) or(value uint8) {
	c.a |= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

// addToHL sets the result of adding a 16 bit value to HL. Z is preserved.
func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	result := hl + value

	c.resetFlag(subFlag)
	c.setFlagToCondition(carryFlag, uint32(hl)+uint32(value) > 0xFFFF)
	c.setFlagToCondition(halfCarryFlag, (hl&0xFFF)+(value&0xFFF) > 0xFFF)

	c.setHL(result)
}

// addSigned returns SP + e for ADD SP,e and LD HL,SP+e.
// Flags come from the unsigned addition of the low byte, Z and N are reset.
func (c *CPU) addSigned(e uint8) uint16 {
	sp := c.sp
	result := sp + uint16(int8(e))

	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagToCondition(carryFlag, bit.CarryAdd(bit.Low(sp), e, 0))
	c.setFlagToCondition(halfCarryFlag, bit.HalfCarryAdd(bit.Low(sp), e, 0))

	return result
}

// daa adjusts A to a valid BCD number after an addition or subtraction.
func (c *CPU) daa() {
	a := c.a
	carry := c.isSetFlag(carryFlag)
	halfCarry := c.isSetFlag(halfCarryFlag)

	var adjust uint8
	if !c.isSetFlag(subFlag) {
		if carry || a > 0x99 {
			adjust |= 0x60
			carry = true
		}
		if halfCarry || a&0x0F > 0x09 {
			adjust |= 0x06
		}
		a += adjust
	} else {
		if carry {
			adjust |= 0x60
		}
		if halfCarry {
			adjust |= 0x06
		}
		a -= adjust
	}

	c.a = a
	c.setFlagToCondition(zeroFlag, a == 0)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) cpl() {
	c.a = ^c.a
	c.setFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

func (c *CPU) scf() {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlag(carryFlag)
}

func (c *CPU) ccf() {
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, !c.isSetFlag(carryFlag))
}

// rotate applies one of the CB rotation/shift operations and sets all flags.
func (c *CPU) rotate(operation cbOp, value uint8) uint8 {
	var result uint8
	var carry bool

	switch operation {
	case cbRLC:
		carry = value > 0x7F
		result = (value << 1) | (value >> 7)
	case cbRRC:
		carry = value&1 == 1
		result = (value >> 1) | (value << 7)
	case cbRL:
		carry = value > 0x7F
		result = (value << 1) | c.flagToBit(carryFlag)
	case cbRR:
		carry = value&1 == 1
		result = (value >> 1) | (c.flagToBit(carryFlag) << 7)
	case cbSLA:
		carry = value > 0x7F
		result = value << 1
	case cbSRA:
		carry = value&1 == 1
		result = (value >> 1) | (value & 0x80)
	case cbSWAP:
		result = (value << 4) | (value >> 4)
	case cbSRL:
		carry = value&1 == 1
		result = value >> 1
	}

	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)

	return result
}

// bitTest sets Z if the bit is 0. H is always set, carry untouched.
func (c *CPU) bitTest(index, value uint8) {
	c.setFlagToCondition(zeroFlag, !bit.IsSet(index, value))
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

// cb applies a CB prefixed operation to value. The returned bool is false
// for BIT, which has nothing to write back.
func (c *CPU) cb(in *instruction, value uint8) (uint8, bool) {
	switch in.cb {
	case cbBIT:
		c.bitTest(in.bit, value)
		return value, false
	case cbRES:
		return bit.Reset(in.bit, value), true
	case cbSET:
		return bit.Set(in.bit, value), true
	}
	return c.rotate(in.cb, value), true
}
