package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var illegalOpcodes = []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}

func TestDecodeIsTotal(t *testing.T) {
	illegal := map[uint8]bool{}
	for _, op := range illegalOpcodes {
		illegal[op] = true
	}

	for i := 0; i < 256; i++ {
		opcode := uint8(i)
		in := decode(opcode)
		assert.Equal(t, opcode, in.opcode)
		assert.Zero(t, in.step)

		if illegal[opcode] {
			assert.Equal(t, opNOP, in.op, "0x%02X", opcode)
			assert.Equal(t, "unused opcode", Name(opcode))
			continue
		}
		if opcode != 0x00 {
			assert.NotEqual(t, opNOP, in.op, "0x%02X (%s) decodes to NOP", opcode, Name(opcode))
		}
	}
}

func TestDecodeCBIsTotal(t *testing.T) {
	for i := 0; i < 256; i++ {
		opcode := uint8(i)
		in := decodeCB(opcode)

		assert.Equal(t, reg8(opcode&0x07), in.r)
		if in.r == regHLInd {
			assert.Equal(t, opCBhl, in.op)
		} else {
			assert.Equal(t, opCBr, in.op)
		}
		if opcode >= 0x40 {
			assert.Equal(t, (opcode>>3)&0x07, in.bit)
		}
	}
}

func TestDecodeOperands(t *testing.T) {
	tests := []struct {
		opcode uint8
		want   instruction
	}{
		{0x01, instruction{op: opLDrrnn, rr: regBC}},
		{0x22, instruction{op: opLDIndr, r: regA, rr: regHL, hl: 1}},
		{0x3A, instruction{op: opLDrInd, r: regA, rr: regHL, hl: -1}},
		{0x46, instruction{op: opLDrInd, r: regB, rr: regHL}},
		{0x78, instruction{op: opLDrr, r: regA, r2: regB}},
		{0x9E, instruction{op: opALUhl, alu: aluSBC}},
		{0xC2, instruction{op: opJPnn, cond: condNZ}},
		{0xD8, instruction{op: opRETcc, cond: condC}},
		{0xEF, instruction{op: opRST, vec: 0x28}},
		{0xF1, instruction{op: opPOP, rr: regAF}},
	}

	for _, tt := range tests {
		got := decode(tt.opcode)
		tt.want.opcode = tt.opcode
		assert.Equal(t, tt.want, got, "0x%02X (%s)", tt.opcode, Name(tt.opcode))
	}
}

func TestOpcodeNames(t *testing.T) {
	assert.Equal(t, "LD A,n", Name(0x3E))
	assert.Equal(t, "LD (HL+),A", Name(0x22))
	assert.Equal(t, "RST 0x38", Name(0xFF))
	assert.Equal(t, "BIT 7,H", NameCB(0x7C))
	assert.Equal(t, "SWAP (HL)", NameCB(0x36))
	assert.Equal(t, "SET 0,A", NameCB(0xC7))
	assert.Equal(t, 3, Length(0xC3))
	assert.Equal(t, 2, Length(0xCB))
}
