package addr

import "fmt"

// Interrupt is an enum that represents one of the possible interrupts.
// The value is the interrupt's bit in IF/IE, lower bits have higher priority.
type Interrupt uint8

const (
	// VBlankInterrupt is fired when the GPU has completed a frame.
	VBlankInterrupt Interrupt = 1 << iota
	// LCDSTATInterrupt is fired based on one of the conditions in the LCDSTAT register.
	LCDSTATInterrupt
	// TimerInterrupt is fired when the timer register (TIMA) overflows (i.e. goes from 0xFF to 0x00).
	TimerInterrupt
	// SerialInterrupt is fired when a serial transfer has completed on the game link port.
	SerialInterrupt
	// JoypadInterrupt is fired when any of the keypad inputs goes from high to low.
	JoypadInterrupt
)

// InterruptMask covers the five interrupt bits of IF and IE.
const InterruptMask uint8 = 0x1F

const baseInterruptVector uint16 = 0x40

// Interrupts lists every interrupt in priority order.
var Interrupts = [...]Interrupt{VBlankInterrupt, LCDSTATInterrupt, TimerInterrupt, SerialInterrupt, JoypadInterrupt}

// Bit returns the index of the interrupt bit in IF/IE.
func (i Interrupt) Bit() uint8 {
	for n := uint8(0); n < 5; n++ {
		if uint8(i) == 1<<n {
			return n
		}
	}
	panic(fmt.Sprintf("invalid interrupt: 0x%02X", uint8(i)))
}

// Vector returns the address of the service routine for the interrupt.
// Handlers are 8 bytes apart: 0x40 - 0x48 - 0x50 - 0x58 - 0x60
func (i Interrupt) Vector() uint16 {
	return baseInterruptVector + uint16(i.Bit())*8
}

func (i Interrupt) String() string {
	switch i {
	case VBlankInterrupt:
		return "VBLANK"
	case LCDSTATInterrupt:
		return "LCD"
	case TimerInterrupt:
		return "TIMER"
	case SerialInterrupt:
		return "SERIAL"
	case JoypadInterrupt:
		return "JOYPAD"
	}
	return fmt.Sprintf("Interrupt(0x%02X)", uint8(i))
}
