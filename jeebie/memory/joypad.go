package memory

import "github.com/valerio/jeebie-sm83/jeebie/bit"

// JoypadKey represents a key on the Gameboy joypad
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

var joypadKeyNames = [...]string{"right", "left", "up", "down", "a", "b", "select", "start"}

func (k JoypadKey) String() string {
	if int(k) < len(joypadKeyNames) {
		return joypadKeyNames[k]
	}
	return "unknown"
}

// ParseJoypadKey maps a key name (as returned by String) to its JoypadKey.
func ParseJoypadKey(name string) (JoypadKey, bool) {
	for i, n := range joypadKeyNames {
		if n == name {
			return JoypadKey(i), true
		}
	}
	return 0, false
}

// Joypad holds the button state behind the P1 register.
// Note that 1 -> button released, 0 -> button pressed.
type Joypad struct {
	buttons uint8 // A, B, Select, Start in bits 0-3
	dpad    uint8 // Right, Left, Up, Down in bits 0-3
	sel     uint8 // selection bits 4-5 as last written

	irq bool
}

// NewJoypad creates a joypad with every key released and no line selected.
func NewJoypad() *Joypad {
	return &Joypad{
		buttons: 0x0F,
		dpad:    0x0F,
		sel:     0x30,
	}
}

// Joyp returns the low nibble of P1 for the given selection:
//   - buttons selected: A, B, Select, Start
//   - dpad selected: the 4 directions
//   - both selected: hw does an AND of both sets
//   - neither: 0x0F (high impedance)
func (j *Joypad) Joyp(selectButtons, selectDpad bool) uint8 {
	switch {
	case selectButtons && selectDpad:
		return j.buttons & j.dpad & 0x0F
	case selectButtons:
		return j.buttons & 0x0F
	case selectDpad:
		return j.dpad & 0x0F
	}
	return 0x0F
}

// Read returns the full P1 value. Bits 6-7 are unused and read as 1.
// A button group is selected if the corresponding bit is 0.
func (j *Joypad) Read() uint8 {
	nibble := j.Joyp(!bit.IsSet(5, j.sel), !bit.IsSet(4, j.sel))
	return 0xC0 | j.sel | nibble
}

// Write updates the selection, only bits 4-5 are writable.
func (j *Joypad) Write(value uint8) {
	j.sel = value & 0x30
}

// Press updates the joypad state when a key is pressed.
func (j *Joypad) Press(key JoypadKey) {
	oldButtons, oldDpad := j.buttons, j.dpad

	if key >= JoypadA {
		j.buttons = bit.Reset(uint8(key-JoypadA), j.buttons)
	} else {
		j.dpad = bit.Reset(uint8(key), j.dpad)
	}

	if (oldButtons&^j.buttons)|(oldDpad&^j.dpad) != 0 {
		j.irq = true
	}
}

// Release updates the joypad state when a key is released.
func (j *Joypad) Release(key JoypadKey) {
	if key >= JoypadA {
		j.buttons = bit.Set(uint8(key-JoypadA), j.buttons)
	} else {
		j.dpad = bit.Set(uint8(key), j.dpad)
	}
}

// Pressed reports whether any key is currently held, regardless of selection.
func (j *Joypad) Pressed() bool {
	return j.buttons&j.dpad&0x0F != 0x0F
}

// InterruptPending reports a press transition not yet acknowledged.
func (j *Joypad) InterruptPending() bool {
	return j.irq
}

func (j *Joypad) ClearInterrupt() {
	j.irq = false
}
