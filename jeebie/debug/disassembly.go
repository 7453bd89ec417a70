package debug

import (
	"github.com/valerio/jeebie-sm83/jeebie/disasm"
)

type DisasmLine struct {
	Address     uint16
	Instruction string
	IsCurrent   bool
}

// CreateDisassembly decodes the snapshot and returns at most maxLines lines
// centered on pc. Decoding starts at the beginning of the snapshot, so the
// snapshot should start on an instruction boundary.
func CreateDisassembly(snapshot *MemorySnapshot, pc uint16, maxLines int) []DisasmLine {
	if snapshot == nil || maxLines <= 0 {
		return nil
	}

	end := int(snapshot.StartAddr) + len(snapshot.Bytes)
	if int(pc) < int(snapshot.StartAddr) || int(pc) >= end {
		lines := decode(snapshot, pc, maxLines-1)
		return append(lines, DisasmLine{
			Address:     pc,
			Instruction: "[PC outside snapshot range]",
			IsCurrent:   true,
		})
	}

	all := decode(snapshot, pc, -1)

	// the line containing pc, which is pc itself unless decoding went
	// through the middle of an instruction
	current := 0
	for i, line := range all {
		if line.Address > pc {
			break
		}
		current = i
	}

	start := current - maxLines/2
	if start < 0 {
		start = 0
	}
	stop := start + maxLines
	if stop > len(all) {
		stop = len(all)
		start = max(0, stop-maxLines)
	}
	return all[start:stop]
}

// decode disassembles up to limit instructions, or all of them if limit is negative.
func decode(snapshot *MemorySnapshot, pc uint16, limit int) []DisasmLine {
	var lines []DisasmLine
	for i := 0; i < len(snapshot.Bytes) && (limit < 0 || len(lines) < limit); {
		address := snapshot.StartAddr + uint16(i)
		instruction, length := disasm.DisassembleBytes(snapshot.Bytes, i)
		lines = append(lines, DisasmLine{
			Address:     address,
			Instruction: instruction,
			IsCurrent:   address == pc,
		})
		i += length
	}
	return lines
}
