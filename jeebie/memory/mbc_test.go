package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bankedROM fills each 16KB bank with its own bank number.
func bankedROM(banks int) []uint8 {
	rom := make([]uint8, banks*0x4000)
	for i := range rom {
		rom[i] = uint8(i / 0x4000)
	}
	return rom
}

func TestNoMBC(t *testing.T) {
	rom := make([]uint8, 0x8000)
	for i := range rom {
		rom[i] = uint8(i & 0xFF)
	}

	t.Run("ROM is mapped directly", func(t *testing.T) {
		mbc := NewNoMBC(rom, false)
		for _, addr := range []uint16{0x0000, 0x0150, 0x3FFF, 0x4000, 0x7FFF} {
			if got, want := mbc.Read(addr), uint8(addr&0xFF); got != want {
				t.Errorf("Read(0x%04X) = 0x%02X; want 0x%02X", addr, got, want)
			}
		}
		mbc.Write(0x2000, 0x05)
		assert.Equal(t, uint8(0x00), mbc.Read(0x4000), "writes don't switch banks")
	})

	t.Run("optional RAM", func(t *testing.T) {
		noRAM := NewNoMBC(rom, false)
		noRAM.Write(0xA000, 0x42)
		assert.Equal(t, uint8(0xFF), noRAM.Read(0xA000))

		withRAM := NewNoMBC(rom, true)
		withRAM.Write(0xBFFF, 0x42)
		assert.Equal(t, uint8(0x42), withRAM.Read(0xBFFF))
	})

	t.Run("outside window is a contract violation", func(t *testing.T) {
		mbc := NewNoMBC(rom, false)
		assert.Panics(t, func() { mbc.Read(0xC000) })
		assert.Panics(t, func() { mbc.Write(0x8000, 0) })
	})
}

func TestMBC1(t *testing.T) {
	t.Run("ROM Bank 0 (Fixed)", func(t *testing.T) {
		rom := make([]uint8, 0x8000)
		for i := range rom {
			rom[i] = uint8(i & 0xFF)
		}

		mbc := NewMBC1(rom, 0)

		for addr := uint16(0x0000); addr < 0x4000; addr++ {
			got := mbc.Read(addr)
			want := uint8(addr & 0xFF)
			if got != want {
				t.Errorf("Read(0x%04X) = 0x%02X; want 0x%02X", addr, got, want)
			}
		}
	})

	t.Run("ROM Bank Switching", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(4), 0)

		tests := []struct {
			name     string
			bankNum  uint8
			wantByte uint8
		}{
			{"Default Bank (1)", 1, 1},
			{"Switch to Bank 2", 2, 2},
			{"Switch to Bank 3", 3, 3},
			{"Bank 0 selects 1", 0, 1},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mbc.Write(0x2000, tt.bankNum)
				got := mbc.Read(0x4000)
				if got != tt.wantByte {
					t.Errorf("Bank %d: Read(0x4000) = 0x%02X; want 0x%02X",
						tt.bankNum, got, tt.wantByte)
				}
			})
		}
	})

	t.Run("RAM Banking", func(t *testing.T) {
		mbc := NewMBC1(make([]uint8, 0x8000), 4)

		assert.Equal(t, uint8(0xFF), mbc.Read(0xA000), "RAM disabled by default")

		mbc.Write(0x0000, 0x0A)
		mbc.Write(0xA000, 0x42)
		assert.Equal(t, uint8(0x42), mbc.Read(0xA000))

		mbc.Write(0x0000, 0x00)
		assert.Equal(t, uint8(0xFF), mbc.Read(0xA000), "RAM disabled again")
		mbc.Write(0xA000, 0x99)

		mbc.Write(0x0000, 0x0A)
		mbc.Write(0x6000, 1)
		values := []uint8{0x42, 0x43, 0x44, 0x45}
		for bank, v := range values {
			mbc.Write(0x4000, uint8(bank))
			mbc.Write(0xA000, v)
		}
		for bank, v := range values {
			mbc.Write(0x4000, uint8(bank))
			assert.Equalf(t, v, mbc.Read(0xA000), "bank %d", bank)
		}
	})

	t.Run("Banking Modes", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(8), 4)

		mbc.Write(0x6000, 0)
		mbc.Write(0x2000, 5)
		mbc.Write(0x4000, 0)
		assert.Equal(t, uint8(5), mbc.Read(0x4000))

		// bank 37 wraps to 37 % 8 = 5
		mbc.Write(0x4000, 1)
		assert.Equal(t, uint8(5), mbc.Read(0x4000))

		// RAM mode, upper bits go to the RAM bank
		mbc.Write(0x6000, 1)
		mbc.Write(0x2000, 6)
		mbc.Write(0x4000, 2)
		assert.Equal(t, uint8(6), mbc.romBank)
		assert.Equal(t, uint8(2), mbc.ramBank)
	})
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestMBC3(t *testing.T) {
	t.Run("ROM banks use 7 bits", func(t *testing.T) {
		mbc := NewMBC3(bankedROM(128), 0, false, nil)
		mbc.Write(0x2000, 0x7F)
		assert.Equal(t, uint8(0x7F), mbc.Read(0x4000))
		mbc.Write(0x2000, 0x00)
		assert.Equal(t, uint8(0x01), mbc.Read(0x4000))
	})

	t.Run("RAM", func(t *testing.T) {
		mbc := NewMBC3(bankedROM(4), 4, false, nil)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0x4000, 0x03)
		mbc.Write(0xA123, 0x77)
		mbc.Write(0x4000, 0x00)
		assert.NotEqual(t, uint8(0x77), mbc.Read(0xA123))
		mbc.Write(0x4000, 0x03)
		assert.Equal(t, uint8(0x77), mbc.Read(0xA123))

		// no RTC on this cartridge
		mbc.Write(0x4000, 0x08)
		assert.Equal(t, uint8(0xFF), mbc.Read(0xA000))
	})

	t.Run("RTC latch", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
		mbc := NewMBC3(bankedROM(4), 0, true, clock)
		mbc.Write(0x0000, 0x0A)

		clock.Advance(26*time.Hour + 3*time.Minute + 7*time.Second)

		readRTC := func(reg uint8) uint8 {
			mbc.Write(0x4000, reg)
			return mbc.Read(0xA000)
		}

		assert.Equal(t, uint8(0), readRTC(0x08), "not latched yet")

		mbc.Write(0x6000, 0x00)
		mbc.Write(0x6000, 0x01)

		assert.Equal(t, uint8(7), readRTC(0x08))
		assert.Equal(t, uint8(3), readRTC(0x09))
		assert.Equal(t, uint8(2), readRTC(0x0A))
		assert.Equal(t, uint8(1), readRTC(0x0B))
		assert.Equal(t, uint8(0), readRTC(0x0C))

		clock.Advance(time.Minute)
		assert.Equal(t, uint8(3), readRTC(0x09), "latched value is stable")
	})

	t.Run("RTC halt and write", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
		mbc := NewMBC3(bankedROM(4), 0, true, clock)
		mbc.Write(0x0000, 0x0A)

		mbc.Write(0x4000, 0x0C)
		mbc.Write(0xA000, 0x40) // halt
		mbc.Write(0x4000, 0x09)
		mbc.Write(0xA000, 30)

		clock.Advance(time.Hour)
		mbc.Write(0x6000, 0x00)
		mbc.Write(0x6000, 0x01)

		mbc.Write(0x4000, 0x09)
		assert.Equal(t, uint8(30), mbc.Read(0xA000))
		mbc.Write(0x4000, 0x0A)
		assert.Equal(t, uint8(0), mbc.Read(0xA000), "halted clock doesn't count")
		mbc.Write(0x4000, 0x0C)
		assert.Equal(t, uint8(0x40), mbc.Read(0xA000))
	})

	t.Run("RTC day carry", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
		mbc := NewMBC3(bankedROM(4), 0, true, clock)
		mbc.Write(0x0000, 0x0A)

		clock.Advance(513 * 24 * time.Hour)
		mbc.Write(0x6000, 0x00)
		mbc.Write(0x6000, 0x01)

		mbc.Write(0x4000, 0x0B)
		assert.Equal(t, uint8(1), mbc.Read(0xA000))
		mbc.Write(0x4000, 0x0C)
		assert.Equal(t, uint8(0x80), mbc.Read(0xA000))
	})
}

func TestNewMBC(t *testing.T) {
	tests := []struct {
		cartType uint8
		want     MBCType
	}{
		{0x00, NoMBCType},
		{0x09, NoMBCType},
		{0x01, MBC1Type},
		{0x03, MBC1Type},
		{0x0F, MBC3Type},
		{0x13, MBC3Type},
	}
	for _, tt := range tests {
		cart, err := NewCartridgeWithData(testROM(tt.cartType, 0x00, 0x02))
		require.NoError(t, err)
		assert.Equal(t, tt.want, cart.MBCType())

		mbc, err := NewMBC(cart, nil)
		require.NoError(t, err)
		assert.NotNil(t, mbc)
	}

	t.Run("unsupported", func(t *testing.T) {
		for _, cartType := range []uint8{0x05, 0x19, 0xFF} {
			cart, err := NewCartridgeWithData(testROM(cartType, 0x00, 0x00))
			require.NoError(t, err)

			_, err = NewMBC(cart, nil)
			assert.Truef(t, errors.Is(err, ErrUnsupportedMBC), "type 0x%02X: %v", cartType, err)

			_, err = NewWithCartridge(cart)
			assert.ErrorIs(t, err, ErrUnsupportedMBC)
		}
	})
}
