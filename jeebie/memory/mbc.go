package memory

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnsupportedMBC is returned when the cartridge type byte selects a
// controller that isn't emulated.
var ErrUnsupportedMBC = errors.New("unsupported MBC type")

// MBC represents a Memory Bank Controller interface that all MBC types must implement.
// The bus only routes 0x0000-0x7FFF and 0xA000-0xBFFF to it.
type MBC interface {
	// Read reads a byte from the specified address
	Read(addr uint16) uint8
	// Write handles a write to ROM (bank control) or external RAM
	Write(addr uint16, value uint8)
}

// NewMBC builds the controller selected by the cartridge header.
// A nil clock makes MBC3 timers follow the host clock.
func NewMBC(cart *Cartridge, clock Clock) (MBC, error) {
	switch cart.mbcType {
	case NoMBCType:
		return NewNoMBC(cart.data, cart.hasRAM), nil
	case MBC1Type:
		return NewMBC1(cart.data, cart.ramBankCount), nil
	case MBC3Type:
		return NewMBC3(cart.data, cart.ramBankCount, cart.hasRTC, clock), nil
	}
	return nil, fmt.Errorf("%w: 0x%02X", ErrUnsupportedMBC, cart.cartType)
}

func romOffset(rom []uint8, bank uint32, addr uint16) uint32 {
	offset := bank * 0x4000
	if offset >= uint32(len(rom)) {
		// If bank would be out of bounds, wrap around
		offset %= uint32(len(rom))
	}
	return offset + uint32(addr-0x4000)
}

func ramOffset(ram []uint8, bank uint8, addr uint16) uint32 {
	offset := uint32(bank) * 0x2000
	if offset >= uint32(len(ram)) {
		offset %= uint32(len(ram))
	}
	return offset + uint32(addr-0xA000)
}

// NoMBC represents cartridges with no memory banking capabilities.
// The ROM (32KB or less) is directly mapped to 0x0000-0x7FFF, some of them
// carry a single 8KB bank of RAM at 0xA000-0xBFFF.
type NoMBC struct {
	rom []uint8
	ram []uint8
}

// NewNoMBC creates a new NoMBC controller
func NewNoMBC(romData []uint8, hasRAM bool) *NoMBC {
	m := &NoMBC{rom: romData}
	if hasRAM {
		m.ram = make([]uint8, 0x2000)
	}
	return m
}

func (m *NoMBC) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		if int(addr) >= len(m.rom) {
			return 0xFF
		}
		return m.rom[addr]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ram == nil {
			return 0xFF
		}
		return m.ram[addr-0xA000]
	}
	panic(fmt.Sprintf("NoMBC: read outside mapped window: 0x%04X", addr))
}

func (m *NoMBC) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x7FFF:
		// ROM is read only and there are no control registers
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ram != nil {
			m.ram[addr-0xA000] = value
		}
	default:
		panic(fmt.Sprintf("NoMBC: write outside mapped window: 0x%04X", addr))
	}
}

// MBC1 is the first and most common MBC chip. Features include:
// - Supports up to 2MB ROM (125 16KB banks)
// - Up to 32KB RAM (4 8KB banks)
// - Bank 0 always mapped to 0x0000-0x3FFF
// - Switchable ROM bank at 0x4000-0x7FFF
// - Optional RAM banking at 0xA000-0xBFFF
// - Two banking modes:
//   - Mode 0 (ROM): Allows access to full ROM but only 8KB RAM
//   - Mode 1 (RAM): Restricts ROM banking but allows full RAM access
type MBC1 struct {
	rom         []uint8
	ram         []uint8
	romBank     uint8
	ramBank     uint8
	ramEnabled  bool
	bankingMode uint8
}

// NewMBC1 creates a new MBC1 controller
func NewMBC1(romData []uint8, ramBankCount uint8) *MBC1 {
	return &MBC1{
		rom:     romData,
		ram:     make([]uint8, uint32(ramBankCount)*0x2000),
		romBank: 1,
	}
}

func (m *MBC1) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		return m.rom[romOffset(m.rom, uint32(m.romBank), addr)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[ramOffset(m.ram, m.ramBank, addr)]
	}
	panic(fmt.Sprintf("MBC1: read outside mapped window: 0x%04X", addr))
}

func (m *MBC1) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr <= 0x3FFF:
		// ROM Bank Number (lower 5 bits), 0 selects 1
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = (m.romBank & 0x60) | bank
	case addr <= 0x5FFF:
		if m.bankingMode == 0 {
			m.romBank = (m.romBank & 0x1F) | ((value & 0x03) << 5)
		} else {
			m.ramBank = value & 0x03
		}
	case addr <= 0x7FFF:
		m.bankingMode = value & 0x01
		if m.bankingMode == 1 {
			m.romBank &= 0x1F
		} else {
			m.ramBank = 0
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		m.ram[ramOffset(m.ram, m.ramBank, addr)] = value
	default:
		panic(fmt.Sprintf("MBC1: write outside mapped window: 0x%04X", addr))
	}
}

type Clock interface {
	Now() time.Time
}

type systemClockFunc func() time.Time

func (s systemClockFunc) Now() time.Time {
	return s()
}

// MBC3 is an MBC chip with RTC support. Features include:
// - Supports up to 2MB ROM (128 16KB banks)
// - Up to 32KB RAM (4 8KB banks)
// - Real-Time Clock, mapped in place of RAM when banks 0x08-0x0C are selected
type MBC3 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint8
	ramBank    uint8
	ramEnabled bool
	rtc        *rtc
}

// NewMBC3 creates a new MBC3 controller
func NewMBC3(romData []uint8, ramBankCount uint8, hasRTC bool, clock Clock) *MBC3 {
	m := &MBC3{
		rom:     romData,
		ram:     make([]uint8, uint32(ramBankCount)*0x2000),
		romBank: 1,
	}
	if hasRTC {
		if clock == nil {
			clock = systemClockFunc(time.Now)
		}
		m.rtc = newRTC(clock)
	}
	return m
}

func (m *MBC3) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		return m.rom[romOffset(m.rom, uint32(m.romBank), addr)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		switch {
		case m.ramBank <= 0x03 && len(m.ram) > 0:
			return m.ram[ramOffset(m.ram, m.ramBank, addr)]
		case m.rtc != nil && m.ramBank >= 0x08 && m.ramBank <= 0x0C:
			return m.rtc.read(m.ramBank)
		}
		return 0xFF
	}
	panic(fmt.Sprintf("MBC3: read outside mapped window: 0x%04X", addr))
}

func (m *MBC3) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr <= 0x5FFF:
		m.ramBank = value
	case addr <= 0x7FFF:
		if m.rtc != nil {
			m.rtc.latchWrite(value)
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		switch {
		case m.ramBank <= 0x03 && len(m.ram) > 0:
			m.ram[ramOffset(m.ram, m.ramBank, addr)] = value
		case m.rtc != nil && m.ramBank >= 0x08 && m.ramBank <= 0x0C:
			m.rtc.write(m.ramBank, value)
		}
	default:
		panic(fmt.Sprintf("MBC3: write outside mapped window: 0x%04X", addr))
	}
}

const (
	rtcSeconds uint8 = 0x08
	rtcMinutes uint8 = 0x09
	rtcHours   uint8 = 0x0A
	rtcDaysLow uint8 = 0x0B
	rtcControl uint8 = 0x0C

	rtcHaltBit  = 0x40
	rtcCarryBit = 0x80

	secondsPerDay = 24 * 60 * 60
	maxDays       = 512
)

// rtc keeps time as a duration: elapsed is the counter value at since,
// the live value adds the host time passed since then unless halted.
type rtc struct {
	clock   Clock
	since   time.Time
	elapsed time.Duration
	halted  bool
	carry   bool

	latched  [5]uint8
	latchArm bool
}

func newRTC(clock Clock) *rtc {
	r := &rtc{clock: clock, since: clock.Now()}
	r.latch()
	return r
}

func (r *rtc) live() time.Duration {
	d := r.elapsed
	if !r.halted {
		d += r.clock.Now().Sub(r.since)
	}
	return d
}

// split returns seconds, minutes, hours and days of the live counter,
// folding day overflow into the carry flag.
func (r *rtc) split() (s, m, h, d int64) {
	total := int64(r.live() / time.Second)
	d = total / secondsPerDay
	if d >= maxDays {
		r.carry = true
		r.elapsed -= time.Duration(d/maxDays*maxDays*secondsPerDay) * time.Second
		d %= maxDays
	}
	return total % 60, total / 60 % 60, total / 3600 % 24, d
}

func (r *rtc) set(s, m, h, d int64) {
	r.elapsed = time.Duration(d*secondsPerDay+h*3600+m*60+s) * time.Second
	r.since = r.clock.Now()
}

// latchWrite latches the live counter on a 0x00 -> 0x01 write sequence.
func (r *rtc) latchWrite(value uint8) {
	if value == 0x01 && r.latchArm {
		r.latch()
	}
	r.latchArm = value == 0x00
}

func (r *rtc) latch() {
	s, m, h, d := r.split()
	r.latched[0] = uint8(s)
	r.latched[1] = uint8(m)
	r.latched[2] = uint8(h)
	r.latched[3] = uint8(d)
	control := uint8(d>>8) & 0x01
	if r.halted {
		control |= rtcHaltBit
	}
	if r.carry {
		control |= rtcCarryBit
	}
	r.latched[4] = control
}

func (r *rtc) read(reg uint8) uint8 {
	return r.latched[reg-rtcSeconds]
}

func (r *rtc) write(reg, value uint8) {
	s, m, h, d := r.split()
	switch reg {
	case rtcSeconds:
		s = int64(value & 0x3F)
	case rtcMinutes:
		m = int64(value & 0x3F)
	case rtcHours:
		h = int64(value & 0x1F)
	case rtcDaysLow:
		d = d&0x100 | int64(value)
	case rtcControl:
		d = d&0xFF | int64(value&0x01)<<8
		r.halted = value&rtcHaltBit != 0
		r.carry = value&rtcCarryBit != 0
	}
	r.set(s, m, h, d)
	r.latched[reg-rtcSeconds] = value
}
