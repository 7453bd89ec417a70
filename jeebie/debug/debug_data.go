package debug

import "github.com/valerio/jeebie-sm83/jeebie/cpu"

// CPUState contains all CPU register information for debugging
type CPUState struct {
	A uint8
	F uint8
	B uint8
	C uint8
	D uint8
	E uint8
	H uint8
	L uint8

	SP     uint16
	PC     uint16
	IME    bool
	Cycles uint64
}

// NewCPUState copies the register file.
func NewCPUState(r cpu.Registers, cycles uint64) CPUState {
	return CPUState{
		A: r.GetA(), F: r.GetF(),
		B: r.GetB(), C: r.GetC(),
		D: r.GetD(), E: r.GetE(),
		H: r.GetH(), L: r.GetL(),
		SP:     r.GetSP(),
		PC:     r.GetPC(),
		IME:    r.GetIME(),
		Cycles: cycles,
	}
}

// MemorySnapshot contains a snapshot of memory for disassembly
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerRunning:
		return "running"
	case DebuggerPaused:
		return "paused"
	case DebuggerStepInstruction:
		return "step"
	}
	return "unknown"
}

// CompleteDebugData contains all debug information needed by debug displays
type CompleteDebugData struct {
	CPU             CPUState
	Memory          *MemorySnapshot
	DebuggerState   DebuggerState
	InterruptEnable uint8 // IE register at 0xFFFF
	InterruptFlags  uint8 // IF register at 0xFF0F
	PPUMode         string
	LY              uint8
	Serial          string
}
