package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/jeebie-sm83/jeebie/addr"
	"github.com/valerio/jeebie-sm83/jeebie/memory"
)

func enableInterrupts(mmu *memory.MMU, mask uint8) {
	mmu.Write(addr.IE, mask, memory.SourceCPU)
}

func TestInterruptPriority(t *testing.T) {
	mmu := memory.New()
	h := interruptHandler{bus: mmu}

	assert.False(t, h.isQueued())

	mmu.Write(addr.IF, uint8(addr.VBlankInterrupt|addr.JoypadInterrupt), memory.SourceCPU)
	enableInterrupts(mmu, uint8(addr.VBlankInterrupt|addr.JoypadInterrupt))
	require.True(t, h.isQueued())

	assert.Equal(t, addr.VBlankInterrupt, h.pop())
	assert.Equal(t, uint8(addr.JoypadInterrupt), mmu.Read(addr.IF, memory.SourceCPU)&addr.InterruptMask)
	assert.True(t, h.isQueued())

	assert.Equal(t, addr.JoypadInterrupt, h.pop())
	assert.False(t, h.isQueued())
}

func TestInterruptNeedsEnable(t *testing.T) {
	mmu := memory.New()
	h := interruptHandler{bus: mmu}

	mmu.RequestInterrupt(addr.TimerInterrupt)
	enableInterrupts(mmu, uint8(addr.VBlankInterrupt))
	assert.False(t, h.isQueued())
	assert.Equal(t, addr.Interrupt(0), h.pop())
}

func TestServiceRoutine(t *testing.T) {
	for _, interrupt := range addr.Interrupts {
		t.Run(interrupt.String(), func(t *testing.T) {
			c, mmu := newTestCPU(t, 0x00)
			c.ime = true
			sp := c.sp
			enableInterrupts(mmu, 0x1F)
			mmu.RequestInterrupt(interrupt)

			assert.Equal(t, 5, step(t, c))
			assert.Equal(t, interrupt.Vector(), c.pc)
			assert.False(t, c.ime)
			assert.Equal(t, sp-2, c.sp)
			assert.Equal(t, uint8(0xC0), mmu.Read(sp-1, memory.SourceCPU))
			assert.Equal(t, uint8(0x00), mmu.Read(sp-2, memory.SourceCPU))
			assert.Zero(t, mmu.Read(addr.IF, memory.SourceCPU)&uint8(interrupt))
		})
	}
}

func TestInterruptIgnoredWithoutIME(t *testing.T) {
	c, mmu := newTestCPU(t, 0x00, 0x00)
	enableInterrupts(mmu, 0x1F)
	mmu.RequestInterrupt(addr.VBlankInterrupt)

	assert.Equal(t, 1, step(t, c))
	assert.Equal(t, programStart+1, c.pc)
	assert.NotZero(t, mmu.Read(addr.IF, memory.SourceCPU)&uint8(addr.VBlankInterrupt))
}

func TestHalt(t *testing.T) {
	t.Run("wakes up without IME and resumes after HALT", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x76, 0x3C) // HALT; INC A
		enableInterrupts(mmu, uint8(addr.SerialInterrupt))

		for i := 0; i < 10; i++ {
			c.Tick()
		}
		assert.True(t, c.Halted())
		assert.Equal(t, programStart+1, c.pc)

		mmu.RequestInterrupt(addr.SerialInterrupt)
		c.Tick()
		assert.True(t, c.Idle())

		step(t, c)
		assert.Equal(t, uint8(1), c.a)
		assert.Equal(t, programStart+2, c.pc)
	})

	t.Run("services the interrupt with IME", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x76) // HALT
		c.ime = true
		enableInterrupts(mmu, uint8(addr.VBlankInterrupt))

		for i := 0; i < 3; i++ {
			c.Tick()
		}
		mmu.RequestInterrupt(addr.VBlankInterrupt)
		c.Tick()
		require.True(t, c.Idle())

		assert.Equal(t, 5, step(t, c))
		assert.Equal(t, uint16(0x0040), c.pc)
		returnAddress := uint16(c.read(c.sp+1))<<8 | uint16(c.read(c.sp))
		assert.Equal(t, programStart+1, returnAddress)
	})

	t.Run("bug repeats the next byte", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x76, 0x3C, 0x00) // HALT; INC A; NOP
		enableInterrupts(mmu, uint8(addr.TimerInterrupt))
		mmu.RequestInterrupt(addr.TimerInterrupt)

		assert.Equal(t, 2, step(t, c), "HALT takes one extra cycle")
		assert.False(t, c.Halted())

		step(t, c)
		assert.Equal(t, programStart+1, c.pc, "INC A is read without moving PC")
		step(t, c)
		assert.Equal(t, programStart+2, c.pc)
		assert.Equal(t, uint8(2), c.a)
	})

	t.Run("EI then HALT services the interrupt and returns to HALT", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0xFB, 0x76, 0x00) // EI; HALT; NOP
		enableInterrupts(mmu, uint8(addr.TimerInterrupt))
		mmu.RequestInterrupt(addr.TimerInterrupt)

		step(t, c)
		assert.Equal(t, 2, step(t, c), "HALT takes the bug path while IME is still clear")
		require.True(t, c.ime)

		assert.Equal(t, 5, step(t, c))
		assert.False(t, c.haltBug)
		assert.Equal(t, uint16(0x0050), c.pc)
		returnAddress := uint16(c.read(c.sp+1))<<8 | uint16(c.read(c.sp))
		assert.Equal(t, programStart+1, returnAddress)

		// no cartridge: the vector reads 0xFF, RST 0x38
		step(t, c)
		assert.Equal(t, uint16(0x0038), c.pc)
		returnAddress = uint16(c.read(c.sp+1))<<8 | uint16(c.read(c.sp))
		assert.Equal(t, uint16(0x0051), returnAddress, "the vector byte advanced PC")
	})
}

func TestEIDelay(t *testing.T) {
	t.Run("enabled after the next instruction", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0xFB, 0x00, 0x00) // EI; NOP; NOP
		enableInterrupts(mmu, uint8(addr.VBlankInterrupt))
		mmu.RequestInterrupt(addr.VBlankInterrupt)

		step(t, c)
		assert.False(t, c.ime)
		step(t, c)
		assert.True(t, c.ime)
		assert.Equal(t, programStart+2, c.pc)

		assert.Equal(t, 5, step(t, c))
		assert.Equal(t, uint16(0x0040), c.pc)
	})

	t.Run("DI cancels a pending EI", func(t *testing.T) {
		c, _ := newTestCPU(t, 0xFB, 0xF3, 0x00, 0x00) // EI; DI; NOP; NOP
		for i := 0; i < 4; i++ {
			step(t, c)
		}
		assert.False(t, c.ime)
	})

	t.Run("immediate when disabled", func(t *testing.T) {
		mmu := memory.New()
		c := New(mmu, mmu.Timer(), mmu.Joypad(),
			WithBootState(BootState{PC: programStart, SP: 0xDFFE}),
			WithEIDelay(false))
		mmu.Write(programStart, 0xFB, memory.SourceCPU)

		step(t, c)
		assert.True(t, c.ime)
	})

	t.Run("RETI enables immediately", func(t *testing.T) {
		c, _ := newTestCPU(t, 0xD9)
		step(t, c)
		assert.True(t, c.ime)
	})
}

func TestStop(t *testing.T) {
	c, mmu := newTestCPU(t, 0x10, 0x00, 0x3C) // STOP; INC A
	mmu.SetTimerSeed(0xABCC)

	c.Tick()
	assert.True(t, c.Stopped())
	assert.Equal(t, programStart+2, c.pc, "STOP skips its padding byte")
	assert.Equal(t, uint16(0), mmu.Timer().Counter())

	for i := 0; i < 100; i++ {
		c.Tick()
	}
	assert.True(t, c.Stopped())
	assert.Equal(t, uint16(0), mmu.Timer().Counter(), "the timer doesn't run while stopped")

	mmu.Press(memory.JoypadStart)
	c.Tick()
	assert.True(t, c.Idle())

	step(t, c)
	assert.Equal(t, uint8(1), c.a)
}
