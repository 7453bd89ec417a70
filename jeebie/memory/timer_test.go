package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/jeebie-sm83/jeebie/addr"
)

func newTestTimer() (*Timer, *int) {
	interrupts := 0
	timer := &Timer{TimerInterruptHandler: func() { interrupts++ }}
	return timer, &interrupts
}

func TestTimerDIV(t *testing.T) {
	timer, _ := newTestTimer()

	for i := 0; i < 64; i++ {
		timer.Tick()
	}
	assert.Equal(t, uint8(1), timer.Read(addr.DIV), "DIV increments every 64 M-cycles")

	timer.SetSeed(0xABCC)
	assert.Equal(t, uint8(0xAB), timer.Read(addr.DIV))

	timer.Write(addr.DIV, 0x99)
	assert.Equal(t, uint8(0x00), timer.Read(addr.DIV), "any write resets")
	assert.Equal(t, uint16(0), timer.Counter())
}

func TestTimerFrequencies(t *testing.T) {
	tests := []struct {
		tac    uint8
		period int
	}{
		{0x04, 256},
		{0x05, 4},
		{0x06, 16},
		{0x07, 64},
	}

	for _, tt := range tests {
		timer, _ := newTestTimer()
		timer.Write(addr.TAC, tt.tac)

		ticks := tt.period * 10
		for i := 0; i < ticks; i++ {
			timer.Tick()
		}
		assert.Equalf(t, uint8(10), timer.Read(addr.TIMA), "TAC=0x%02X", tt.tac)
	}
}

func TestTimerDisabled(t *testing.T) {
	timer, _ := newTestTimer()
	timer.Write(addr.TAC, 0x01)
	for i := 0; i < 100; i++ {
		timer.Tick()
	}
	assert.Equal(t, uint8(0), timer.Read(addr.TIMA))
	assert.Equal(t, uint8(0xF9), timer.Read(addr.TAC), "unused bits read as 1")
}

func TestTimerOverflowIsDelayed(t *testing.T) {
	timer, interrupts := newTestTimer()
	timer.Write(addr.TMA, 0xAB)
	timer.Write(addr.TIMA, 0xFF)
	timer.Write(addr.TAC, 0x05)

	for i := 0; i < 4; i++ {
		timer.Tick()
	}
	assert.Equal(t, uint8(0x00), timer.Read(addr.TIMA), "TIMA reads 0 for one cycle")
	assert.Equal(t, 0, *interrupts)

	timer.Tick()
	assert.Equal(t, uint8(0xAB), timer.Read(addr.TIMA))
	assert.Equal(t, 1, *interrupts)
}

func TestTimerReloadWindow(t *testing.T) {
	t.Run("TIMA write cancels reload", func(t *testing.T) {
		timer, interrupts := newTestTimer()
		timer.Write(addr.TMA, 0xAB)
		timer.Write(addr.TIMA, 0xFF)
		timer.Write(addr.TAC, 0x05)
		for i := 0; i < 4; i++ {
			timer.Tick()
		}

		timer.Write(addr.TIMA, 0x10)
		timer.Tick()
		assert.Equal(t, uint8(0x10), timer.Read(addr.TIMA))
		assert.Equal(t, 0, *interrupts)
	})

	t.Run("TMA write is picked up by the reload", func(t *testing.T) {
		timer, interrupts := newTestTimer()
		timer.Write(addr.TMA, 0xAB)
		timer.Write(addr.TIMA, 0xFF)
		timer.Write(addr.TAC, 0x05)
		for i := 0; i < 4; i++ {
			timer.Tick()
		}

		timer.Write(addr.TMA, 0xCD)
		timer.Tick()
		assert.Equal(t, uint8(0xCD), timer.Read(addr.TIMA))
		assert.Equal(t, 1, *interrupts)
	})
}

func TestTimerDIVResetEdge(t *testing.T) {
	timer, _ := newTestTimer()
	timer.Write(addr.TAC, 0x05)

	// counter = 8, bit 3 is high
	timer.Tick()
	timer.Tick()
	assert.Equal(t, uint8(0), timer.Read(addr.TIMA))

	timer.Write(addr.DIV, 0)
	assert.Equal(t, uint8(1), timer.Read(addr.TIMA), "reset caused a falling edge")
}

func TestMMUTimerInterrupt(t *testing.T) {
	mmu := New()
	mmu.Write(addr.TIMA, 0xFF, SourceCPU)
	mmu.Write(addr.TAC, 0x05, SourceCPU)

	for i := 0; i < 5; i++ {
		mmu.Timer().Tick()
	}
	assert.Equal(t, uint8(0xE4), mmu.Read(addr.IF, SourceCPU))
}
