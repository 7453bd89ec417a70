package cpu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPairAliasing(t *testing.T) {
	pairs := []struct {
		pair      reg16
		high, low reg8
	}{
		{regBC, regB, regC},
		{regDE, regD, regE},
		{regHL, regH, regL},
	}

	for _, p := range pairs {
		t.Run(fmt.Sprintf("pair %d", p.pair), func(t *testing.T) {
			var r Registers

			r.set16(p.pair, 0xABCD)
			assert.Equal(t, uint8(0xAB), r.get8(p.high))
			assert.Equal(t, uint8(0xCD), r.get8(p.low))

			r.set8(p.high, 0x12)
			assert.Equal(t, uint16(0x12CD), r.get16(p.pair))
			r.set8(p.low, 0x34)
			assert.Equal(t, uint16(0x1234), r.get16(p.pair))
		})
	}

	t.Run("AF", func(t *testing.T) {
		var r Registers
		r.set16(regAF, 0xABCD)
		assert.Equal(t, uint8(0xAB), r.a)
		assert.Equal(t, uint8(0xC0), r.f, "low nibble of F always reads 0")
		assert.Equal(t, uint16(0xABC0), r.get16(regAF))
	})
}

func TestFlagsAreIndependent(t *testing.T) {
	flags := []Flag{zeroFlag, subFlag, halfCarryFlag, carryFlag}

	for initial := 0; initial < 16; initial++ {
		for _, flag := range flags {
			r := Registers{f: uint8(initial) << 4}
			others := r.f &^ uint8(flag)

			r.setFlagToCondition(flag, true)
			assert.True(t, r.isSetFlag(flag))
			r.setFlagToCondition(flag, false)
			assert.False(t, r.isSetFlag(flag))

			assert.Equal(t, others, r.f, "flag 0x%02X from 0x%02X", uint8(flag), initial<<4)
		}
	}
}

func TestFlagString(t *testing.T) {
	r := Registers{}
	r.SetZero(true)
	r.SetCarry(true)
	assert.Equal(t, "Z--C", r.GetFlagString())
	assert.Equal(t, uint8(0x90), r.GetF())
}

func TestRegisterPanicsOnIndirect(t *testing.T) {
	var r Registers
	assert.Panics(t, func() { r.get8(regHLInd) })
	assert.Panics(t, func() { r.set8(regHLInd, 0) })
}
