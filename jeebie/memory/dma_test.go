package memory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/valerio/jeebie-sm83/jeebie/addr"
)

func TestDMATransfer(t *testing.T) {
	mmu := New()
	dma := NewDMA(mmu)

	want := make([]byte, addr.OAMSize)
	for i := range want {
		want[i] = uint8(i*3 + 1)
		mmu.Write(0xC100+uint16(i), want[i], SourceCPU)
	}

	dma.Tick()
	assert.False(t, dma.Active(), "idle without a trigger")

	mmu.Write(addr.DMA, 0xC1, SourceCPU)

	lockedTicks := 0
	for i := 0; i < 200; i++ {
		dma.Tick()
		if mmu.Locked(LockDMA) {
			lockedTicks++
			assert.Equal(t, uint8(0xFF), mmu.Read(0xC100, SourceCPU))
		}
	}
	assert.Equal(t, 160, lockedTicks)
	assert.False(t, dma.Active())
	assert.Equal(t, uint8(0x00), mmu.Read(addr.DMA, SourceCPU), "trigger cleared")

	got := make([]byte, addr.OAMSize)
	for i := range got {
		got[i] = mmu.Read(addr.OAMStart+uint16(i), SourceCPU)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("OAM mismatch (-want +got):\n%s", diff)
	}
}

func TestDMACopiesOneBytePerCycle(t *testing.T) {
	mmu := New()
	dma := NewDMA(mmu)
	mmu.Write(0xC000, 0xAA, SourceCPU)
	mmu.Write(0xC001, 0xBB, SourceCPU)

	mmu.Write(addr.DMA, 0xC0, SourceCPU)
	dma.Tick()
	assert.True(t, dma.Active())
	assert.Equal(t, uint8(0x00), mmu.Peek(0xFE00))

	dma.Tick()
	assert.Equal(t, uint8(0xAA), mmu.Peek(0xFE00))
	assert.Equal(t, uint8(0x00), mmu.Peek(0xFE01))

	dma.Tick()
	assert.Equal(t, uint8(0xBB), mmu.Peek(0xFE01))
}
