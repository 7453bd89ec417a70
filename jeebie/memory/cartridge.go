package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/jeebie-sm83/jeebie/bit"
)

const (
	titleAddress          = 0x134
	titleLength           = 16
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	versionNumberAddress  = 0x14C
	headerChecksumAddress = 0x14D
	globalChecksumAddress = 0x14E

	headerEnd = 0x150
)

// ErrCartridgeTooSmall is returned for images that don't contain a full header.
var ErrCartridgeTooSmall = errors.New("cartridge image too small")

// MBCType is the memory bank controller family declared by the header.
type MBCType uint8

const (
	NoMBCType MBCType = iota
	MBC1Type
	MBC3Type
	MBCUnknownType
)

func (t MBCType) String() string {
	switch t {
	case NoMBCType:
		return "ROM ONLY"
	case MBC1Type:
		return "MBC1"
	case MBC3Type:
		return "MBC3"
	}
	return "UNKNOWN"
}

// ramBanksBySize maps the header RAM size byte to 8KB banks.
// 0x01 is an unofficial 2KB size, it gets a whole bank.
var ramBanksBySize = map[uint8]uint8{0x00: 0, 0x01: 1, 0x02: 1, 0x03: 4, 0x04: 16, 0x05: 8}

// Cartridge is a ROM image with its parsed header.
type Cartridge struct {
	data []byte

	title          string
	cartType       uint8
	mbcType        MBCType
	romSize        uint8
	ramSize        uint8
	version        uint8
	headerChecksum uint8
	globalChecksum uint16

	romBankCount uint16
	ramBankCount uint8
	hasRAM       bool
	hasBattery   bool
	hasRTC       bool
}

// NewCartridgeWithData initializes a new Cartridge from a slice of bytes.
// The image is copied.
func NewCartridgeWithData(bytes []byte) (*Cartridge, error) {
	if len(bytes) < headerEnd {
		return nil, fmt.Errorf("%w: %d bytes", ErrCartridgeTooSmall, len(bytes))
	}

	cart := &Cartridge{
		data:           make([]byte, len(bytes)),
		title:          cleanGameboyTitle(bytes[titleAddress : titleAddress+titleLength]),
		cartType:       bytes[cartridgeTypeAddress],
		romSize:        bytes[romSizeAddress],
		ramSize:        bytes[ramSizeAddress],
		version:        bytes[versionNumberAddress],
		headerChecksum: bytes[headerChecksumAddress],
		globalChecksum: bit.Combine(bytes[globalChecksumAddress], bytes[globalChecksumAddress+1]),
	}
	copy(cart.data, bytes)

	cart.parseType()
	if cart.romSize <= 0x08 {
		cart.romBankCount = 2 << cart.romSize
	}
	cart.ramBankCount = ramBanksBySize[cart.ramSize]
	if !cart.hasRAM {
		cart.ramBankCount = 0
	}

	return cart, nil
}

func (c *Cartridge) parseType() {
	switch c.cartType {
	case 0x00:
		c.mbcType = NoMBCType
	case 0x08:
		c.mbcType, c.hasRAM = NoMBCType, true
	case 0x09:
		c.mbcType, c.hasRAM, c.hasBattery = NoMBCType, true, true
	case 0x01:
		c.mbcType = MBC1Type
	case 0x02:
		c.mbcType, c.hasRAM = MBC1Type, true
	case 0x03:
		c.mbcType, c.hasRAM, c.hasBattery = MBC1Type, true, true
	case 0x0F:
		c.mbcType, c.hasRTC, c.hasBattery = MBC3Type, true, true
	case 0x10:
		c.mbcType, c.hasRTC, c.hasRAM, c.hasBattery = MBC3Type, true, true, true
	case 0x11:
		c.mbcType = MBC3Type
	case 0x12:
		c.mbcType, c.hasRAM = MBC3Type, true
	case 0x13:
		c.mbcType, c.hasRAM, c.hasBattery = MBC3Type, true, true
	default:
		c.mbcType = MBCUnknownType
	}
}

// Title returns the cleaned up header title.
func (c *Cartridge) Title() string { return c.title }

// Type returns the raw cartridge type byte (0x147).
func (c *Cartridge) Type() uint8 { return c.cartType }

// MBCType returns the controller family selected by the type byte.
func (c *Cartridge) MBCType() MBCType { return c.mbcType }

// ROMBanks returns the number of 16KB ROM banks declared by the header.
func (c *Cartridge) ROMBanks() int { return int(c.romBankCount) }

// RAMBanks returns the number of 8KB external RAM banks.
func (c *Cartridge) RAMBanks() int { return int(c.ramBankCount) }

func (c *Cartridge) HasBattery() bool { return c.hasBattery }

func (c *Cartridge) HasRTC() bool { return c.hasRTC }

// Version returns the mask ROM version number.
func (c *Cartridge) Version() uint8 { return c.version }

// Size returns the image size in bytes.
func (c *Cartridge) Size() int { return len(c.data) }

// HeaderChecksumValid verifies the 0x14D checksum over 0x134-0x14C,
// the same check the boot ROM performs.
func (c *Cartridge) HeaderChecksumValid() bool {
	var sum uint8
	for _, b := range c.data[titleAddress:headerChecksumAddress] {
		sum = sum - b - 1
	}
	return sum == c.headerChecksum
}
