package cpu

import (
	"fmt"

	"github.com/valerio/jeebie-sm83/jeebie/bit"
)

// Flag is one of the 4 possible flags used in the flag register (low part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// reg8 selects an 8 bit register using the 3 bit encoding of the opcodes.
// regHLInd is (HL), handled by the instructions that accept it.
type reg8 uint8

const (
	regB reg8 = iota
	regC
	regD
	regE
	regH
	regL
	regHLInd
	regA
)

var reg8Names = [...]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

func (r reg8) String() string { return reg8Names[r] }

// reg16 selects a register pair.
type reg16 uint8

const (
	regBC reg16 = iota
	regDE
	regHL
	regSP
	regAF
)

// Registers holds the SM83 register file. Pairs are stored as separate
// halves, the 16 bit view is always assembled high byte first.
type Registers struct {
	a  uint8
	f  uint8
	b  uint8
	c  uint8
	d  uint8
	e  uint8
	h  uint8
	l  uint8
	sp uint16
	pc uint16

	ime bool
}

func (r *Registers) setFlag(flag Flag) {
	r.f |= uint8(flag)
}

func (r *Registers) resetFlag(flag Flag) {
	r.f &^= uint8(flag)
}

func (r Registers) isSetFlag(flag Flag) bool {
	return r.f&uint8(flag) != 0
}

// flagToBit will return 1 if the passed flag is set, 0 otherwise
func (r Registers) flagToBit(flag Flag) uint8 {
	if r.isSetFlag(flag) {
		return 1
	}

	return 0
}

func (r *Registers) setFlagToCondition(flag Flag, condition bool) {
	if !condition {
		r.resetFlag(flag)
		return
	}

	r.setFlag(flag)
}

func (r Registers) Zero() bool      { return r.isSetFlag(zeroFlag) }
func (r Registers) Sub() bool       { return r.isSetFlag(subFlag) }
func (r Registers) HalfCarry() bool { return r.isSetFlag(halfCarryFlag) }
func (r Registers) Carry() bool     { return r.isSetFlag(carryFlag) }

func (r *Registers) SetZero(v bool)      { r.setFlagToCondition(zeroFlag, v) }
func (r *Registers) SetSub(v bool)       { r.setFlagToCondition(subFlag, v) }
func (r *Registers) SetHalfCarry(v bool) { r.setFlagToCondition(halfCarryFlag, v) }
func (r *Registers) SetCarry(v bool)     { r.setFlagToCondition(carryFlag, v) }

func (r *Registers) setBC(value uint16) {
	r.b = bit.High(value)
	r.c = bit.Low(value)
}

func (r Registers) getBC() uint16 {
	return bit.Combine(r.b, r.c)
}

func (r *Registers) setDE(value uint16) {
	r.d = bit.High(value)
	r.e = bit.Low(value)
}

func (r Registers) getDE() uint16 {
	return bit.Combine(r.d, r.e)
}

func (r *Registers) setHL(value uint16) {
	r.h = bit.High(value)
	r.l = bit.Low(value)
}

func (r Registers) getHL() uint16 {
	return bit.Combine(r.h, r.l)
}

func (r *Registers) setAF(value uint16) {
	r.a = bit.High(value)
	// F register lower 4 bits must be 0
	r.f = bit.Low(value) & 0xF0
}

func (r Registers) getAF() uint16 {
	return bit.Combine(r.a, r.f)
}

func (r Registers) get8(reg reg8) uint8 {
	switch reg {
	case regB:
		return r.b
	case regC:
		return r.c
	case regD:
		return r.d
	case regE:
		return r.e
	case regH:
		return r.h
	case regL:
		return r.l
	case regA:
		return r.a
	}
	panic(fmt.Sprintf("get8: not a register: %s", reg))
}

func (r *Registers) set8(reg reg8, value uint8) {
	switch reg {
	case regB:
		r.b = value
	case regC:
		r.c = value
	case regD:
		r.d = value
	case regE:
		r.e = value
	case regH:
		r.h = value
	case regL:
		r.l = value
	case regA:
		r.a = value
	default:
		panic(fmt.Sprintf("set8: not a register: %s", reg))
	}
}

func (r Registers) get16(reg reg16) uint16 {
	switch reg {
	case regBC:
		return r.getBC()
	case regDE:
		return r.getDE()
	case regHL:
		return r.getHL()
	case regSP:
		return r.sp
	case regAF:
		return r.getAF()
	}
	panic(fmt.Sprintf("get16: unknown pair %d", reg))
}

func (r *Registers) set16(reg reg16, value uint16) {
	switch reg {
	case regBC:
		r.setBC(value)
	case regDE:
		r.setDE(value)
	case regHL:
		r.setHL(value)
	case regSP:
		r.sp = value
	case regAF:
		r.setAF(value)
	default:
		panic(fmt.Sprintf("set16: unknown pair %d", reg))
	}
}

// Debug getter methods for register display
func (r Registers) GetA() uint8   { return r.a }
func (r Registers) GetF() uint8   { return r.f }
func (r Registers) GetB() uint8   { return r.b }
func (r Registers) GetC() uint8   { return r.c }
func (r Registers) GetD() uint8   { return r.d }
func (r Registers) GetE() uint8   { return r.e }
func (r Registers) GetH() uint8   { return r.h }
func (r Registers) GetL() uint8   { return r.l }
func (r Registers) GetAF() uint16 { return r.getAF() }
func (r Registers) GetBC() uint16 { return r.getBC() }
func (r Registers) GetDE() uint16 { return r.getDE() }
func (r Registers) GetHL() uint16 { return r.getHL() }
func (r Registers) GetSP() uint16 { return r.sp }
func (r Registers) GetPC() uint16 { return r.pc }
func (r Registers) GetIME() bool  { return r.ime }

// GetFlagString returns a human-readable representation of the flag register
func (r Registers) GetFlagString() string {
	flags := []byte("----")
	for i, f := range [...]struct {
		flag Flag
		name byte
	}{{zeroFlag, 'Z'}, {subFlag, 'N'}, {halfCarryFlag, 'H'}, {carryFlag, 'C'}} {
		if r.isSetFlag(f.flag) {
			flags[i] = f.name
		}
	}
	return string(flags)
}

func (r Registers) String() string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X %s IME=%t",
		r.getAF(), r.getBC(), r.getDE(), r.getHL(), r.sp, r.pc, r.GetFlagString(), r.ime)
}
