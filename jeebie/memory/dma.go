package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-sm83/jeebie/addr"
)

// DMA copies OAM data from a 256 byte aligned source to 0xFE00-0xFE9F,
// one byte per M-cycle. While a transfer is running the bus is locked to
// every other source.
type DMA struct {
	bus  *MMU
	lock *BusLock

	step int
	bank uint8
}

// NewDMA creates a DMA controller for the given bus.
func NewDMA(bus *MMU) *DMA {
	lock, err := bus.NewLock(SourceDMA)
	if err != nil {
		panic(err)
	}
	return &DMA{bus: bus, lock: lock}
}

// Active reports whether a transfer is in progress.
func (d *DMA) Active() bool {
	return d.step != 0
}

// Tick advances the controller by one M-cycle.
//
// Step 0 polls the trigger register, steps 1 to 160 copy one byte each, the
// last copy releases the bus and clears the trigger.
func (d *DMA) Tick() {
	if d.step == 0 {
		trigger := d.bus.Read(addr.DMA, SourceDMA)
		if trigger == 0 {
			return
		}
		d.bank = trigger
		d.lock.Lock(LockDMA)
		d.step = 1
		slog.Debug("DMA transfer started", "source", fmt.Sprintf("0x%02X00", d.bank))
		return
	}

	offset := uint16(d.step - 1)
	value := d.bus.Read(uint16(d.bank)<<8+offset, SourceDMA)
	d.bus.Write(addr.OAMStart+offset, value, SourceDMA)

	if d.step == addr.OAMSize {
		d.lock.Unlock(LockDMA)
		d.bus.Write(addr.DMA, 0, SourceDMA)
		d.step = 0
		return
	}
	d.step++
}
