package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-sm83/jeebie/addr"
	"github.com/valerio/jeebie-sm83/jeebie/serial"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionUnused
	regionIO
	regionHRAM
)

// MMU allows access to all memory mapped I/O and data/registers.
// Every access is tagged with the Source performing it, locked regions
// read as open bus (0xFF) and drop writes for sources without access.
type MMU struct {
	cart      *Cartridge
	mbc       MBC
	memory    []byte
	regionMap [256]memRegion

	vramLocked bool
	oamLocked  bool
	dmaLocked  bool

	joypad *Joypad
	serial *serial.Supervisor
	timer  *Timer
}

// New creates a new memory unit with default data, i.e. no cartridge loaded.
// Equivalent to turning on a Gameboy without a cartridge in.
func New(opts ...serial.Option) *MMU {
	mmu := &MMU{
		memory: make([]byte, 0x10000),
		joypad: NewJoypad(),
		timer:  &Timer{},
	}
	mmu.serial = serial.NewSupervisor(func() { mmu.RequestInterrupt(addr.SerialInterrupt) }, opts...)
	mmu.timer.TimerInterruptHandler = func() { mmu.RequestInterrupt(addr.TimerInterrupt) }
	initRegionMap(mmu)
	return mmu
}

// NewWithCartridge creates a new memory unit with the provided cartridge loaded.
// Equivalent to turning on a Gameboy with a cartridge in.
func NewWithCartridge(cart *Cartridge, opts ...serial.Option) (*MMU, error) {
	mbc, err := NewMBC(cart, nil)
	if err != nil {
		return nil, err
	}

	mmu := New(opts...)
	mmu.cart = cart
	mmu.mbc = mbc

	slog.Info("Cartridge loaded",
		"title", cart.Title(),
		"type", fmt.Sprintf("0x%02X", cart.Type()),
		"mbc", cart.MBCType().String(),
		"rom_banks", cart.ROMBanks(),
		"ram_banks", cart.RAMBanks())

	return mmu, nil
}

func initRegionMap(m *MMU) {
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	// OAM: 0xFE00-0xFE9F, Unused: 0xFEA0-0xFEFF
	m.regionMap[0xFE] = regionOAM
	// IO + HRAM + IE: 0xFF00-0xFFFF
	m.regionMap[0xFF] = regionIO
}

func (m *MMU) regionOf(address uint16) memRegion {
	region := m.regionMap[address>>8]
	switch {
	case region == regionOAM && address > addr.OAMEnd:
		return regionUnused
	case region == regionIO && address >= addr.HRAMStart && address <= addr.HRAMEnd:
		return regionHRAM
	}
	return region
}

// Cartridge returns the loaded cartridge, nil if none.
func (m *MMU) Cartridge() *Cartridge { return m.cart }

// Timer returns the timer, ticked by the CPU.
func (m *MMU) Timer() *Timer { return m.timer }

// Joypad returns the joypad wired to P1.
func (m *MMU) Joypad() *Joypad { return m.joypad }

// Serial returns the serial port supervisor wired to SB/SC.
func (m *MMU) Serial() *serial.Supervisor { return m.serial }

// SetTimerSeed initializes the internal timer divider seed and DIV register.
func (m *MMU) SetTimerSeed(seed uint16) {
	m.timer.SetSeed(seed)
}

// RequestInterrupt sets the interrupt flag (IF register) of the chosen interrupt to 1.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.memory[addr.IF] |= uint8(interrupt) & addr.InterruptMask
}

// Press marks a key as held and requests the joypad interrupt on a
// released to pressed transition.
func (m *MMU) Press(key JoypadKey) {
	m.joypad.Press(key)
	if m.joypad.InterruptPending() {
		m.RequestInterrupt(addr.JoypadInterrupt)
		m.joypad.ClearInterrupt()
	}
}

// Release marks a key as released.
func (m *MMU) Release(key JoypadKey) {
	m.joypad.Release(key)
}

// Read returns the byte at address as seen by source.
func (m *MMU) Read(address uint16, source Source) byte {
	region := m.regionOf(address)
	if !m.allowed(region, source) {
		return 0xFF
	}
	return m.read(region, address)
}

// Peek reads a byte ignoring every lock, for debuggers and snapshots.
func (m *MMU) Peek(address uint16) byte {
	return m.read(m.regionOf(address), address)
}

func (m *MMU) read(region memRegion, address uint16) byte {
	switch region {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			return 0xFF
		}
		return m.mbc.Read(address)
	case regionVRAM, regionWRAM, regionOAM, regionHRAM:
		return m.memory[address]
	case regionEcho:
		return m.memory[address-0x2000]
	case regionUnused:
		return 0x00
	case regionIO:
		return m.readIO(address)
	default:
		panic(fmt.Sprintf("Attempted read at unmapped address: 0x%X", address))
	}
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return m.joypad.Read()
	case address == addr.SB || address == addr.SC:
		return m.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return m.timer.Read(address)
	case address == addr.IF:
		// upper 3 bits are unused and always read as 1
		return m.memory[address] | 0xE0
	case address == addr.STAT:
		return m.memory[address] | 0x80
	case address >= addr.LCDC && address <= addr.WX,
		address >= addr.AudioStart && address <= addr.AudioEnd,
		address == addr.IE:
		return m.memory[address]
	}
	// unassigned registers, open bus
	return 0xFF
}

// Write stores value at address on behalf of source.
func (m *MMU) Write(address uint16, value byte, source Source) {
	region := m.regionOf(address)
	if !m.allowed(region, source) {
		return
	}

	switch region {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			slog.Warn("Writing to cartridge space with no cartridge", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
			return
		}
		m.mbc.Write(address, value)
	case regionVRAM, regionWRAM, regionOAM, regionHRAM:
		m.memory[address] = value
	case regionEcho:
		m.memory[address-0x2000] = value
	case regionUnused:
	case regionIO:
		m.writeIO(address, value, source)
	default:
		panic(fmt.Sprintf("Attempted write at unmapped address: 0x%X", address))
	}
}

func (m *MMU) writeIO(address uint16, value byte, source Source) {
	switch {
	case address == addr.P1:
		m.joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		m.serial.Write(address, value)
	case address >= addr.DIV && address <= addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF:
		m.memory[address] = value & addr.InterruptMask
	case address == addr.LY:
		// read only, owned by the PPU
		if source == SourcePPU {
			m.memory[address] = value
		}
	case address == addr.STAT:
		// mode and coincidence bits are owned by the PPU
		if source == SourcePPU {
			m.memory[address] = value & 0x7F
		} else {
			m.memory[address] = value&0x78 | m.memory[address]&0x07
		}
	case address >= addr.LCDC && address <= addr.WX,
		address >= addr.AudioStart && address <= addr.AudioEnd,
		address == addr.IE:
		m.memory[address] = value
	}
}
