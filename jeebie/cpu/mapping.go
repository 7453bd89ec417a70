package cpu

import "fmt"

// decode returns a fresh instruction for a base opcode. Every value decodes,
// the unused opcodes behave as NOP.
func decode(opcode uint8) instruction {
	in := opcodes[opcode]
	in.opcode = opcode
	return in
}

// decodeCB returns a fresh instruction for the byte following a 0xCB prefix.
func decodeCB(opcode uint8) instruction {
	in := opcodesCB[opcode]
	in.opcode = opcode
	return in
}

var opcodes = [256]instruction{
	0x00: {op: opNOP},
	0x01: {op: opLDrrnn, rr: regBC},
	0x02: {op: opLDIndr, r: regA, rr: regBC},
	0x03: {op: opINCrr, rr: regBC},
	0x04: {op: opINCr, r: regB},
	0x05: {op: opDECr, r: regB},
	0x06: {op: opLDrn, r: regB},
	0x07: {op: opRotA, cb: cbRLC},
	0x08: {op: opLDnnSP},
	0x09: {op: opADDHLrr, rr: regBC},
	0x0A: {op: opLDrInd, r: regA, rr: regBC},
	0x0B: {op: opDECrr, rr: regBC},
	0x0C: {op: opINCr, r: regC},
	0x0D: {op: opDECr, r: regC},
	0x0E: {op: opLDrn, r: regC},
	0x0F: {op: opRotA, cb: cbRRC},
	0x10: {op: opSTOP},
	0x11: {op: opLDrrnn, rr: regDE},
	0x12: {op: opLDIndr, r: regA, rr: regDE},
	0x13: {op: opINCrr, rr: regDE},
	0x14: {op: opINCr, r: regD},
	0x15: {op: opDECr, r: regD},
	0x16: {op: opLDrn, r: regD},
	0x17: {op: opRotA, cb: cbRL},
	0x18: {op: opJR, cond: condAlways},
	0x19: {op: opADDHLrr, rr: regDE},
	0x1A: {op: opLDrInd, r: regA, rr: regDE},
	0x1B: {op: opDECrr, rr: regDE},
	0x1C: {op: opINCr, r: regE},
	0x1D: {op: opDECr, r: regE},
	0x1E: {op: opLDrn, r: regE},
	0x1F: {op: opRotA, cb: cbRR},
	0x20: {op: opJR, cond: condNZ},
	0x21: {op: opLDrrnn, rr: regHL},
	0x22: {op: opLDIndr, r: regA, rr: regHL, hl: 1},
	0x23: {op: opINCrr, rr: regHL},
	0x24: {op: opINCr, r: regH},
	0x25: {op: opDECr, r: regH},
	0x26: {op: opLDrn, r: regH},
	0x27: {op: opDAA},
	0x28: {op: opJR, cond: condZ},
	0x29: {op: opADDHLrr, rr: regHL},
	0x2A: {op: opLDrInd, r: regA, rr: regHL, hl: 1},
	0x2B: {op: opDECrr, rr: regHL},
	0x2C: {op: opINCr, r: regL},
	0x2D: {op: opDECr, r: regL},
	0x2E: {op: opLDrn, r: regL},
	0x2F: {op: opCPL},
	0x30: {op: opJR, cond: condNC},
	0x31: {op: opLDrrnn, rr: regSP},
	0x32: {op: opLDIndr, r: regA, rr: regHL, hl: -1},
	0x33: {op: opINCrr, rr: regSP},
	0x34: {op: opINChl},
	0x35: {op: opDEChl},
	0x36: {op: opLDHLn},
	0x37: {op: opSCF},
	0x38: {op: opJR, cond: condC},
	0x39: {op: opADDHLrr, rr: regSP},
	0x3A: {op: opLDrInd, r: regA, rr: regHL, hl: -1},
	0x3B: {op: opDECrr, rr: regSP},
	0x3C: {op: opINCr, r: regA},
	0x3D: {op: opDECr, r: regA},
	0x3E: {op: opLDrn, r: regA},
	0x3F: {op: opCCF},
	0x40: {op: opLDrr, r: regB, r2: regB},
	0x41: {op: opLDrr, r: regB, r2: regC},
	0x42: {op: opLDrr, r: regB, r2: regD},
	0x43: {op: opLDrr, r: regB, r2: regE},
	0x44: {op: opLDrr, r: regB, r2: regH},
	0x45: {op: opLDrr, r: regB, r2: regL},
	0x46: {op: opLDrInd, r: regB, rr: regHL},
	0x47: {op: opLDrr, r: regB, r2: regA},
	0x48: {op: opLDrr, r: regC, r2: regB},
	0x49: {op: opLDrr, r: regC, r2: regC},
	0x4A: {op: opLDrr, r: regC, r2: regD},
	0x4B: {op: opLDrr, r: regC, r2: regE},
	0x4C: {op: opLDrr, r: regC, r2: regH},
	0x4D: {op: opLDrr, r: regC, r2: regL},
	0x4E: {op: opLDrInd, r: regC, rr: regHL},
	0x4F: {op: opLDrr, r: regC, r2: regA},
	0x50: {op: opLDrr, r: regD, r2: regB},
	0x51: {op: opLDrr, r: regD, r2: regC},
	0x52: {op: opLDrr, r: regD, r2: regD},
	0x53: {op: opLDrr, r: regD, r2: regE},
	0x54: {op: opLDrr, r: regD, r2: regH},
	0x55: {op: opLDrr, r: regD, r2: regL},
	0x56: {op: opLDrInd, r: regD, rr: regHL},
	0x57: {op: opLDrr, r: regD, r2: regA},
	0x58: {op: opLDrr, r: regE, r2: regB},
	0x59: {op: opLDrr, r: regE, r2: regC},
	0x5A: {op: opLDrr, r: regE, r2: regD},
	0x5B: {op: opLDrr, r: regE, r2: regE},
	0x5C: {op: opLDrr, r: regE, r2: regH},
	0x5D: {op: opLDrr, r: regE, r2: regL},
	0x5E: {op: opLDrInd, r: regE, rr: regHL},
	0x5F: {op: opLDrr, r: regE, r2: regA},
	0x60: {op: opLDrr, r: regH, r2: regB},
	0x61: {op: opLDrr, r: regH, r2: regC},
	0x62: {op: opLDrr, r: regH, r2: regD},
	0x63: {op: opLDrr, r: regH, r2: regE},
	0x64: {op: opLDrr, r: regH, r2: regH},
	0x65: {op: opLDrr, r: regH, r2: regL},
	0x66: {op: opLDrInd, r: regH, rr: regHL},
	0x67: {op: opLDrr, r: regH, r2: regA},
	0x68: {op: opLDrr, r: regL, r2: regB},
	0x69: {op: opLDrr, r: regL, r2: regC},
	0x6A: {op: opLDrr, r: regL, r2: regD},
	0x6B: {op: opLDrr, r: regL, r2: regE},
	0x6C: {op: opLDrr, r: regL, r2: regH},
	0x6D: {op: opLDrr, r: regL, r2: regL},
	0x6E: {op: opLDrInd, r: regL, rr: regHL},
	0x6F: {op: opLDrr, r: regL, r2: regA},
	0x70: {op: opLDIndr, r: regB, rr: regHL},
	0x71: {op: opLDIndr, r: regC, rr: regHL},
	0x72: {op: opLDIndr, r: regD, rr: regHL},
	0x73: {op: opLDIndr, r: regE, rr: regHL},
	0x74: {op: opLDIndr, r: regH, rr: regHL},
	0x75: {op: opLDIndr, r: regL, rr: regHL},
	0x76: {op: opHALT},
	0x77: {op: opLDIndr, r: regA, rr: regHL},
	0x78: {op: opLDrr, r: regA, r2: regB},
	0x79: {op: opLDrr, r: regA, r2: regC},
	0x7A: {op: opLDrr, r: regA, r2: regD},
	0x7B: {op: opLDrr, r: regA, r2: regE},
	0x7C: {op: opLDrr, r: regA, r2: regH},
	0x7D: {op: opLDrr, r: regA, r2: regL},
	0x7E: {op: opLDrInd, r: regA, rr: regHL},
	0x7F: {op: opLDrr, r: regA, r2: regA},
	0x80: {op: opALUr, alu: aluADD, r2: regB},
	0x81: {op: opALUr, alu: aluADD, r2: regC},
	0x82: {op: opALUr, alu: aluADD, r2: regD},
	0x83: {op: opALUr, alu: aluADD, r2: regE},
	0x84: {op: opALUr, alu: aluADD, r2: regH},
	0x85: {op: opALUr, alu: aluADD, r2: regL},
	0x86: {op: opALUhl, alu: aluADD},
	0x87: {op: opALUr, alu: aluADD, r2: regA},
	0x88: {op: opALUr, alu: aluADC, r2: regB},
	0x89: {op: opALUr, alu: aluADC, r2: regC},
	0x8A: {op: opALUr, alu: aluADC, r2: regD},
	0x8B: {op: opALUr, alu: aluADC, r2: regE},
	0x8C: {op: opALUr, alu: aluADC, r2: regH},
	0x8D: {op: opALUr, alu: aluADC, r2: regL},
	0x8E: {op: opALUhl, alu: aluADC},
	0x8F: {op: opALUr, alu: aluADC, r2: regA},
	0x90: {op: opALUr, alu: aluSUB, r2: regB},
	0x91: {op: opALUr, alu: aluSUB, r2: regC},
	0x92: {op: opALUr, alu: aluSUB, r2: regD},
	0x93: {op: opALUr, alu: aluSUB, r2: regE},
	0x94: {op: opALUr, alu: aluSUB, r2: regH},
	0x95: {op: opALUr, alu: aluSUB, r2: regL},
	0x96: {op: opALUhl, alu: aluSUB},
	0x97: {op: opALUr, alu: aluSUB, r2: regA},
	0x98: {op: opALUr, alu: aluSBC, r2: regB},
	0x99: {op: opALUr, alu: aluSBC, r2: regC},
	0x9A: {op: opALUr, alu: aluSBC, r2: regD},
	0x9B: {op: opALUr, alu: aluSBC, r2: regE},
	0x9C: {op: opALUr, alu: aluSBC, r2: regH},
	0x9D: {op: opALUr, alu: aluSBC, r2: regL},
	0x9E: {op: opALUhl, alu: aluSBC},
	0x9F: {op: opALUr, alu: aluSBC, r2: regA},
	0xA0: {op: opALUr, alu: aluAND, r2: regB},
	0xA1: {op: opALUr, alu: aluAND, r2: regC},
	0xA2: {op: opALUr, alu: aluAND, r2: regD},
	0xA3: {op: opALUr, alu: aluAND, r2: regE},
	0xA4: {op: opALUr, alu: aluAND, r2: regH},
	0xA5: {op: opALUr, alu: aluAND, r2: regL},
	0xA6: {op: opALUhl, alu: aluAND},
	0xA7: {op: opALUr, alu: aluAND, r2: regA},
	0xA8: {op: opALUr, alu: aluXOR, r2: regB},
	0xA9: {op: opALUr, alu: aluXOR, r2: regC},
	0xAA: {op: opALUr, alu: aluXOR, r2: regD},
	0xAB: {op: opALUr, alu: aluXOR, r2: regE},
	0xAC: {op: opALUr, alu: aluXOR, r2: regH},
	0xAD: {op: opALUr, alu: aluXOR, r2: regL},
	0xAE: {op: opALUhl, alu: aluXOR},
	0xAF: {op: opALUr, alu: aluXOR, r2: regA},
	0xB0: {op: opALUr, alu: aluOR, r2: regB},
	0xB1: {op: opALUr, alu: aluOR, r2: regC},
	0xB2: {op: opALUr, alu: aluOR, r2: regD},
	0xB3: {op: opALUr, alu: aluOR, r2: regE},
	0xB4: {op: opALUr, alu: aluOR, r2: regH},
	0xB5: {op: opALUr, alu: aluOR, r2: regL},
	0xB6: {op: opALUhl, alu: aluOR},
	0xB7: {op: opALUr, alu: aluOR, r2: regA},
	0xB8: {op: opALUr, alu: aluCP, r2: regB},
	0xB9: {op: opALUr, alu: aluCP, r2: regC},
	0xBA: {op: opALUr, alu: aluCP, r2: regD},
	0xBB: {op: opALUr, alu: aluCP, r2: regE},
	0xBC: {op: opALUr, alu: aluCP, r2: regH},
	0xBD: {op: opALUr, alu: aluCP, r2: regL},
	0xBE: {op: opALUhl, alu: aluCP},
	0xBF: {op: opALUr, alu: aluCP, r2: regA},
	0xC0: {op: opRETcc, cond: condNZ},
	0xC1: {op: opPOP, rr: regBC},
	0xC2: {op: opJPnn, cond: condNZ},
	0xC3: {op: opJPnn, cond: condAlways},
	0xC4: {op: opCALL, cond: condNZ},
	0xC5: {op: opPUSH, rr: regBC},
	0xC6: {op: opALUn, alu: aluADD},
	0xC7: {op: opRST, vec: 0x00},
	0xC8: {op: opRETcc, cond: condZ},
	0xC9: {op: opRET},
	0xCA: {op: opJPnn, cond: condZ},
	0xCB: {op: opPrefixCB},
	0xCC: {op: opCALL, cond: condZ},
	0xCD: {op: opCALL, cond: condAlways},
	0xCE: {op: opALUn, alu: aluADC},
	0xCF: {op: opRST, vec: 0x08},
	0xD0: {op: opRETcc, cond: condNC},
	0xD1: {op: opPOP, rr: regDE},
	0xD2: {op: opJPnn, cond: condNC},
	0xD3: {op: opNOP}, // illegal
	0xD4: {op: opCALL, cond: condNC},
	0xD5: {op: opPUSH, rr: regDE},
	0xD6: {op: opALUn, alu: aluSUB},
	0xD7: {op: opRST, vec: 0x10},
	0xD8: {op: opRETcc, cond: condC},
	0xD9: {op: opRETI},
	0xDA: {op: opJPnn, cond: condC},
	0xDB: {op: opNOP}, // illegal
	0xDC: {op: opCALL, cond: condC},
	0xDD: {op: opNOP}, // illegal
	0xDE: {op: opALUn, alu: aluSBC},
	0xDF: {op: opRST, vec: 0x18},
	0xE0: {op: opLDHnA},
	0xE1: {op: opPOP, rr: regHL},
	0xE2: {op: opLDHCA},
	0xE3: {op: opNOP}, // illegal
	0xE4: {op: opNOP}, // illegal
	0xE5: {op: opPUSH, rr: regHL},
	0xE6: {op: opALUn, alu: aluAND},
	0xE7: {op: opRST, vec: 0x20},
	0xE8: {op: opADDSPe},
	0xE9: {op: opJPHL},
	0xEA: {op: opLDnnA},
	0xEB: {op: opNOP}, // illegal
	0xEC: {op: opNOP}, // illegal
	0xED: {op: opNOP}, // illegal
	0xEE: {op: opALUn, alu: aluXOR},
	0xEF: {op: opRST, vec: 0x28},
	0xF0: {op: opLDHAn},
	0xF1: {op: opPOP, rr: regAF},
	0xF2: {op: opLDHAC},
	0xF3: {op: opDI},
	0xF4: {op: opNOP}, // illegal
	0xF5: {op: opPUSH, rr: regAF},
	0xF6: {op: opALUn, alu: aluOR},
	0xF7: {op: opRST, vec: 0x30},
	0xF8: {op: opLDHLSPe},
	0xF9: {op: opLDSPHL},
	0xFA: {op: opLDAnn},
	0xFB: {op: opEI},
	0xFC: {op: opNOP}, // illegal
	0xFD: {op: opNOP}, // illegal
	0xFE: {op: opALUn, alu: aluCP},
	0xFF: {op: opRST, vec: 0x38},
}

// opcodesCB is fully regular: bits 0-2 select the register, bits 3-5 the
// rotation or bit index and bits 6-7 the group (rotations, BIT, RES, SET).
var opcodesCB = func() (table [256]instruction) {
	for i := range table {
		r := reg8(i & 0x07)
		y := uint8(i>>3) & 0x07

		in := instruction{op: opCBr, r: r}
		if r == regHLInd {
			in.op = opCBhl
		}

		switch i >> 6 {
		case 0:
			in.cb = cbOp(y)
		case 1:
			in.cb, in.bit = cbBIT, y
		case 2:
			in.cb, in.bit = cbRES, y
		case 3:
			in.cb, in.bit = cbSET, y
		}
		table[i] = in
	}
	return table
}()

// Name returns the mnemonic of a base opcode.
func Name(opcode uint8) string {
	return opcodeNames[opcode]
}

// NameCB returns the mnemonic of a CB prefixed opcode.
func NameCB(opcode uint8) string {
	return opcodeNamesCB[opcode]
}

// Length returns the size in bytes of a base opcode including its operands.
func Length(opcode uint8) int {
	return opcodeLengths[opcode]
}

var opcodeLengths = [256]int{
	1, 3, 1, 1, 1, 1, 2, 1, 3, 1, 1, 1, 1, 1, 2, 1,
	2, 3, 1, 1, 1, 1, 2, 1, 2, 1, 1, 1, 1, 1, 2, 1,
	2, 3, 1, 1, 1, 1, 2, 1, 2, 1, 1, 1, 1, 1, 2, 1,
	2, 3, 1, 1, 1, 1, 2, 1, 2, 1, 1, 1, 1, 1, 2, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 3, 3, 3, 1, 2, 1, 1, 1, 3, 2, 3, 3, 2, 1,
	1, 1, 3, 1, 3, 1, 2, 1, 1, 1, 3, 1, 3, 1, 2, 1,
	2, 1, 1, 1, 1, 1, 2, 1, 2, 1, 3, 1, 1, 1, 2, 1,
	2, 1, 1, 1, 1, 1, 2, 1, 2, 1, 3, 1, 1, 1, 2, 1,
}

var opcodeNames = [...]string{
	"NOP", "LD BC,nn", "LD (BC),A", "INC BC", "INC B", "DEC B", "LD B,n", "RLCA", "LD (nn),SP", "ADD HL,BC", "LD A,(BC)", "DEC BC", "INC C", "DEC C", "LD C,n", "RRCA",
	"STOP", "LD DE,nn", "LD (DE),A", "INC DE", "INC D", "DEC D", "LD D,n", "RLA", "JR n", "ADD HL,DE", "LD A,(DE)", "DEC DE", "INC E", "DEC E", "LD E,n", "RRA",
	"JR NZ,n", "LD HL,nn", "LD (HL+),A", "INC HL", "INC H", "DEC H", "LD H,n", "DAA", "JR Z,n", "ADD HL,HL", "LD A,(HL+)", "DEC HL", "INC L", "DEC L", "LD L,n", "CPL",
	"JR NC,n", "LD SP,nn", "LD (HL-),A", "INC SP", "INC (HL)", "DEC (HL)", "LD (HL),n", "SCF", "JR C,n", "ADD HL,SP", "LD A,(HL-)", "DEC SP", "INC A", "DEC A", "LD A,n", "CCF",
	"LD B,B", "LD B,C", "LD B,D", "LD B,E", "LD B,H", "LD B,L", "LD B,(HL)", "LD B,A", "LD C,B", "LD C,C", "LD C,D", "LD C,E", "LD C,H", "LD C,L", "LD C,(HL)", "LD C,A",
	"LD D,B", "LD D,C", "LD D,D", "LD D,E", "LD D,H", "LD D,L", "LD D,(HL)", "LD D,A", "LD E,B", "LD E,C", "LD E,D", "LD E,E", "LD E,H", "LD E,L", "LD E,(HL)", "LD E,A",
	"LD H,B", "LD H,C", "LD H,D", "LD H,E", "LD H,H", "LD H,L", "LD H,(HL)", "LD H,A", "LD L,B", "LD L,C", "LD L,D", "LD L,E", "LD L,H", "LD L,L", "LD L,(HL)", "LD L,A",
	"LD (HL),B", "LD (HL),C", "LD (HL),D", "LD (HL),E", "LD (HL),H", "LD (HL),L", "HALT", "LD (HL),A", "LD A,B", "LD A,C", "LD A,D", "LD A,E", "LD A,H", "LD A,L", "LD A,(HL)", "LD A,A",
	"ADD A,B", "ADD A,C", "ADD A,D", "ADD A,E", "ADD A,H", "ADD A,L", "ADD A,(HL)", "ADD A,A", "ADC A,B", "ADC A,C", "ADC A,D", "ADC A,E", "ADC A,H", "ADC A,L", "ADC A,(HL)", "ADC A,A",
	"SUB B", "SUB C", "SUB D", "SUB E", "SUB H", "SUB L", "SUB (HL)", "SUB A", "SBC A,B", "SBC A,C", "SBC A,D", "SBC A,E", "SBC A,H", "SBC A,L", "SBC A,(HL)", "SBC A,A",
	"AND B", "AND C", "AND D", "AND E", "AND H", "AND L", "AND (HL)", "AND A", "XOR B", "XOR C", "XOR D", "XOR E", "XOR H", "XOR L", "XOR (HL)", "XOR A",
	"OR B", "OR C", "OR D", "OR E", "OR H", "OR L", "OR (HL)", "OR A", "CP B", "CP C", "CP D", "CP E", "CP H", "CP L", "CP (HL)", "CP A",
	"RET NZ", "POP BC", "JP NZ,nn", "JP nn", "CALL NZ,nn", "PUSH BC", "ADD A,n", "RST 0x00", "RET Z", "RET", "JP Z,nn", "PREFIX CB", "CALL Z,nn", "CALL nn", "ADC A,n", "RST 0x08",
	"RET NC", "POP DE", "JP NC,nn", "unused opcode", "CALL NC,nn", "PUSH DE", "SUB n", "RST 0x10", "RET C", "RETI", "JP C,nn", "unused opcode", "CALL C,nn", "unused opcode", "SBC A,n", "RST 0x18",
	"LD (0xFF00+n),A", "POP HL", "LD (0xFF00+C),A", "unused opcode", "unused opcode", "PUSH HL", "AND n", "RST 0x20", "ADD SP,n", "JP (HL)", "LD (nn),A", "unused opcode", "unused opcode", "unused opcode", "XOR n", "RST 0x28",
	"LD A,(0xFF00+n)", "POP AF", "LD A,(0xFF00+C)", "DI", "unused opcode", "PUSH AF", "OR n", "RST 0x30", "LD HL,SP+n", "LD SP,HL", "LD A,(nn)", "EI", "unused opcode", "unused opcode", "CP n", "RST 0x38",
}

var opcodeNamesCB = func() (names [256]string) {
	rotations := [...]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}
	for i := range names {
		r := reg8(i & 0x07)
		y := (i >> 3) & 0x07
		switch i >> 6 {
		case 0:
			names[i] = fmt.Sprintf("%s %s", rotations[y], r)
		case 1:
			names[i] = fmt.Sprintf("BIT %d,%s", y, r)
		case 2:
			names[i] = fmt.Sprintf("RES %d,%s", y, r)
		case 3:
			names[i] = fmt.Sprintf("SET %d,%s", y, r)
		}
	}
	return names
}()
