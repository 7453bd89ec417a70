package video

import (
	"fmt"

	"github.com/valerio/jeebie-sm83/jeebie/addr"
	"github.com/valerio/jeebie-sm83/jeebie/bit"
	"github.com/valerio/jeebie-sm83/jeebie/memory"
)

// Mode is the PPU mode as reported in the two low bits of STAT.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Transfer
)

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBLANK"
	case VBlank:
		return "VBLANK"
	case OAMScan:
		return "OAM"
	case Transfer:
		return "TRANSFER"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

const (
	oamScanDots  = 80
	transferDots = 172
	hblankDots   = 204
	lineDots     = oamScanDots + transferDots + hblankDots

	visibleLines = 144
	totalLines   = 154
)

// LCDC (LCD Control) Register bit values
// Bit 7 - LCD Display Enable (0=Off, 1=On)
// Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
// Bit 5 - Window Display Enable (0=Off, 1=On)
// Bit 4 - BG & Window Tile Data Select (0=8800-97FF, 1=8000-8FFF)
// Bit 3 - BG Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
// Bit 2 - OBJ (Sprite) Size (0=8x8, 1=8x16)
// Bit 1 - OBJ (Sprite) Display Enable (0=Off, 1=On)
// Bit 0 - BG Display (0=Off, 1=On)
const lcdDisplayEnable uint8 = 7

// STAT bits
const (
	statCoincidence     uint8 = 2
	statHBlankSource    uint8 = 3
	statVBlankSource    uint8 = 4
	statOAMSource       uint8 = 5
	statLYCSource       uint8 = 6
	statModeMask        uint8 = 0x03
	statWritableBitMask uint8 = 0x78
)

// Sequencer drives the PPU timing without drawing anything: it walks the
// modes of every scanline, owns LY and the read only part of STAT, locks
// OAM and VRAM while the PPU would be using them and raises the VBLANK and
// STAT interrupts.
type Sequencer struct {
	bus  *memory.MMU
	lock *memory.BusLock

	enabled bool
	mode    Mode
	line    uint8
	dot     int
	frames  uint64

	// statLine is the last value of the STAT interrupt line, the interrupt
	// is requested on its rising edge only.
	statLine bool
}

// NewSequencer returns a sequencer that is switched on by LCDC bit 7.
func NewSequencer(bus *memory.MMU) *Sequencer {
	lock, err := bus.NewLock(memory.SourcePPU)
	if err != nil {
		panic(err)
	}
	return &Sequencer{bus: bus, lock: lock, mode: HBlank}
}

// Tick advances the PPU by one dot, 4 dots make an M-cycle.
func (s *Sequencer) Tick() {
	if !bit.IsSet(lcdDisplayEnable, s.read(addr.LCDC)) {
		if s.enabled {
			s.disable()
		}
		return
	}

	if !s.enabled {
		s.enabled = true
		s.dot = 0
		s.setLine(0)
		s.enterMode(OAMScan)
	}

	s.dot++

	switch s.mode {
	case OAMScan:
		if s.dot == oamScanDots {
			s.enterMode(Transfer)
		}
	case Transfer:
		if s.dot == oamScanDots+transferDots {
			s.enterMode(HBlank)
		}
	case HBlank:
		if s.dot == lineDots {
			s.setLine(s.line + 1)
			if s.line == visibleLines {
				s.enterMode(VBlank)
				s.bus.RequestInterrupt(addr.VBlankInterrupt)
				s.frames++
			} else {
				s.enterMode(OAMScan)
			}
		}
	case VBlank:
		if s.dot == lineDots {
			if s.line+1 == totalLines {
				s.setLine(0)
				s.enterMode(OAMScan)
			} else {
				s.setLine(s.line + 1)
			}
		}
	}

	s.updateStat()
}

func (s *Sequencer) disable() {
	s.enabled = false
	s.lock.Unlock(memory.LockOAM)
	s.lock.Unlock(memory.LockVRAM)
	s.mode = HBlank
	s.dot = 0
	s.statLine = false
	s.setLine(0)
	s.write(addr.STAT, s.read(addr.STAT)&statWritableBitMask)
}

func (s *Sequencer) setLine(line uint8) {
	s.line = line
	s.dot = 0
	s.write(addr.LY, line)
}

func (s *Sequencer) enterMode(mode Mode) {
	s.mode = mode
	switch mode {
	case OAMScan:
		s.lock.Lock(memory.LockOAM)
	case Transfer:
		s.lock.Lock(memory.LockOAM)
		s.lock.Lock(memory.LockVRAM)
	default:
		s.lock.Unlock(memory.LockOAM)
		s.lock.Unlock(memory.LockVRAM)
	}
}

// updateStat refreshes the mode and coincidence bits and requests the STAT
// interrupt when one of the enabled sources becomes active.
func (s *Sequencer) updateStat() {
	stat := s.read(addr.STAT)&statWritableBitMask | uint8(s.mode)
	coincidence := s.line == s.read(addr.LYC)
	stat = bit.SetTo(statCoincidence, stat, coincidence)
	s.write(addr.STAT, stat)

	line := (bit.IsSet(statHBlankSource, stat) && s.mode == HBlank) ||
		(bit.IsSet(statVBlankSource, stat) && s.mode == VBlank) ||
		(bit.IsSet(statOAMSource, stat) && s.mode == OAMScan) ||
		(bit.IsSet(statLYCSource, stat) && coincidence)

	if line && !s.statLine {
		s.bus.RequestInterrupt(addr.LCDSTATInterrupt)
	}
	s.statLine = line
}

func (s *Sequencer) read(address uint16) uint8 {
	return s.bus.Read(address, memory.SourcePPU)
}

func (s *Sequencer) write(address uint16, value uint8) {
	s.bus.Write(address, value, memory.SourcePPU)
}

// Mode returns the current PPU mode.
func (s *Sequencer) Mode() Mode { return s.mode }

// Line returns the scanline being processed (LY).
func (s *Sequencer) Line() uint8 { return s.line }

// Enabled reports whether the LCD is switched on.
func (s *Sequencer) Enabled() bool { return s.enabled }

// Frames returns the number of frames completed, counted at each VBLANK.
func (s *Sequencer) Frames() uint64 { return s.frames }
