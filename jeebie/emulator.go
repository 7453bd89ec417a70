package jeebie

import (
	"github.com/valerio/jeebie-sm83/jeebie/cpu"
	"github.com/valerio/jeebie-sm83/jeebie/debug"
	"github.com/valerio/jeebie-sm83/jeebie/memory"
)

// Emulator is what the frontends drive: the CLI runner and the terminal
// monitor.
type Emulator interface {
	Step() cpu.Registers
	StepInstruction()
	RunCycles(n int)
	Press(key memory.JoypadKey)
	Release(key memory.JoypadKey)
	Snapshot() *debug.Snapshot
	DebugData() *debug.CompleteDebugData
}

var _ Emulator = (*DMG)(nil)
