package disasm

import (
	"fmt"
	"strings"

	"github.com/valerio/jeebie-sm83/jeebie/cpu"
)

// Reader gives access to memory without side effects or bus locks.
type Reader interface {
	Peek(address uint16) byte
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Instruction string
	Length      int
}

// At disassembles the instruction at the given program counter.
func At(pc uint16, reader Reader) DisassemblyLine {
	var operands [3]byte
	for i := range operands {
		operands[i] = reader.Peek(pc + uint16(i))
	}
	instruction, length := format(pc, operands[:])
	return DisassemblyLine{Address: pc, Instruction: instruction, Length: length}
}

// Range disassembles count instructions starting from the given PC.
func Range(startPC uint16, count int, reader Reader) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	pc := startPC

	for i := 0; i < count; i++ {
		line := At(pc, reader)
		lines = append(lines, line)
		pc += uint16(line.Length)
	}

	return lines
}

// DisassembleBytes disassembles the instruction at offset in a byte slice.
// Operands past the end of data read as 0.
func DisassembleBytes(data []byte, offset int) (string, int) {
	var operands [3]byte
	for i := range operands {
		if offset+i < len(data) {
			operands[i] = data[offset+i]
		}
	}
	return format(0, operands[:])
}

// format renders the opcode in b[0] with its operands. pc is used to
// resolve relative jump targets.
func format(pc uint16, b []byte) (string, int) {
	opcode := b[0]
	if opcode == 0xCB {
		return cpu.NameCB(b[1]), 2
	}

	name := cpu.Name(opcode)
	length := cpu.Length(opcode)

	switch {
	case isRelativeJump(opcode):
		target := pc + 2 + uint16(int8(b[1]))
		return strings.Replace(name, "n", fmt.Sprintf("0x%04X", target), 1), length
	case length == 3:
		nn := uint16(b[2])<<8 | uint16(b[1])
		return strings.Replace(name, "nn", fmt.Sprintf("0x%04X", nn), 1), length
	case length == 2:
		i := strings.LastIndex(name, "n")
		if i < 0 {
			// STOP carries a padding byte only
			return name, length
		}
		return name[:i] + fmt.Sprintf("0x%02X", b[1]) + name[i+1:], length
	}
	return name, length
}

func isRelativeJump(opcode uint8) bool {
	switch opcode {
	case 0x18, 0x20, 0x28, 0x30, 0x38:
		return true
	}
	return false
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = ">"
	}

	return fmt.Sprintf("%s0x%04X: %s", prefix, line.Address, line.Instruction)
}
