package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-sm83/jeebie/memory"
)

const programStart uint16 = 0xC000

// newTestCPU returns a CPU with the given program loaded in WRAM, PC
// pointing at it and every other register cleared.
func newTestCPU(t *testing.T, program ...uint8) (*CPU, *memory.MMU) {
	t.Helper()

	mmu := memory.New()
	c := New(mmu, mmu.Timer(), mmu.Joypad(), WithBootState(BootState{PC: programStart, SP: 0xDFFE}))
	for i, b := range program {
		mmu.Write(programStart+uint16(i), b, memory.SourceCPU)
	}
	return c, mmu
}

// step ticks until the instruction in flight retires and returns the
// M-cycles it took.
func step(t *testing.T, c *CPU) int {
	t.Helper()

	for cycles := 1; cycles <= 16; cycles++ {
		c.Tick()
		if c.Idle() {
			return cycles
		}
	}
	require.FailNow(t, "instruction did not finish", "pc=0x%04X", c.pc)
	return 0
}
