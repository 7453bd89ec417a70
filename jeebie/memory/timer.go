package memory

import (
	"github.com/valerio/jeebie-sm83/jeebie/addr"
	"github.com/valerio/jeebie-sm83/jeebie/bit"
)

// tacLookup maps TAC input clock select (bits 1–0) to the bit position
// of the 16‑bit internal divider (systemCounter) used as the timer’s
// clock source. The counter runs at the T-cycle rate, DIV is its upper byte.
//
//	00 -> bit 9  (4096 Hz, every 256 M-cycles)
//	01 -> bit 3  (262144 Hz, every 4 M-cycles)
//	10 -> bit 5  (65536 Hz, every 16 M-cycles)
//	11 -> bit 7  (16384 Hz, every 64 M-cycles)
var tacLookup = [4]uint8{9, 3, 5, 7}

// Timer encapsulates the Game Boy DIV/TIMA/TMA/TAC behavior.
// It is advanced one M-cycle at a time by the CPU.
type Timer struct {
	systemCounter uint16 // Internal 16-bit counter, DIV is upper 8 bits
	lastTimerBit  bool   // Previous state of the selected bit for edge detection
	overflow      bool   // TIMA wrapped on the previous tick, reload pending

	tima byte
	tma  byte
	tac  byte

	// IRQ requester callback
	TimerInterruptHandler func()
}

// SetSeed initializes the internal divider counter and writes DIV accordingly.
func (t *Timer) SetSeed(seed uint16) {
	t.systemCounter = seed
	t.lastTimerBit = t.selectedBit()
	t.overflow = false
}

// Tick advances the timer by one M-cycle.
func (t *Timer) Tick() {
	t.systemCounter += 4

	// overflow from the previous tick: reload and request the interrupt now
	if t.overflow {
		t.overflow = false
		t.tima = t.tma
		if t.TimerInterruptHandler != nil {
			t.TimerInterruptHandler()
		}
	}

	t.detectEdge()
}

func (t *Timer) selectedBit() bool {
	return bit.IsSet(2, t.tac) && bit.IsSet16(tacLookup[t.tac&0x03], t.systemCounter)
}

// detectEdge increments TIMA on a falling edge of the selected counter bit.
func (t *Timer) detectEdge() {
	current := t.selectedBit()
	if t.lastTimerBit && !current {
		t.incrementTIMA()
	}
	t.lastTimerBit = current
}

func (t *Timer) incrementTIMA() {
	t.tima++
	if t.tima == 0 {
		t.overflow = true
	}
}

// Counter returns the full internal divider, for debugging.
func (t *Timer) Counter() uint16 {
	return t.systemCounter
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return byte(t.systemCounter >> 8)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		// any write resets the whole counter, which can itself be a falling edge
		t.systemCounter = 0
		t.detectEdge()
	case addr.TIMA:
		// writing during the reload window cancels reload and interrupt
		t.tima = value
		t.overflow = false
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
		t.detectEdge()
	}
}
