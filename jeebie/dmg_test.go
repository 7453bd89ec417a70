package jeebie

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/valerio/jeebie-sm83/jeebie/config"
	"github.com/valerio/jeebie-sm83/jeebie/memory"
)

// buildROM returns a 32KB ROM only image with program at the entry point.
func buildROM(program ...byte) []byte {
	data := make([]byte, 0x8000)
	copy(data[0x134:], "TEST")
	copy(data[0x100:], program)
	return data
}

// serialPrint returns code that sends text over the serial port, one byte
// at a time, then loops forever.
func serialPrint(text string) []byte {
	var code []byte
	for _, c := range []byte(text) {
		code = append(code,
			0x3E, c, // LD A,c
			0xE0, 0x01, // LDH (SB),A
			0x3E, 0x81, // LD A,0x81
			0xE0, 0x02, // LDH (SC),A
		)
	}
	return append(code, 0x18, 0xFE) // JR -2
}

// counterLoop increments a WRAM byte forever.
var counterLoop = []byte{
	0x21, 0x00, 0xC0, // LD HL,0xC000
	0x34,       // INC (HL)
	0x18, 0xFD, // JR -3
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Serial.LogOutput = false
	cfg.Run.MaxCycles = 100_000
	return cfg
}

func TestNewRejectsBadCartridges(t *testing.T) {
	_, err := New(make([]byte, 0x100), testConfig())
	assert.ErrorIs(t, err, memory.ErrCartridgeTooSmall)

	rom := buildROM()
	rom[0x147] = 0xFC
	_, err = New(rom, testConfig())
	assert.ErrorIs(t, err, memory.ErrUnsupportedMBC)
}

func TestNewStartsFromBootState(t *testing.T) {
	cfg := testConfig()
	cfg.CPU.BootSP = 0xDFF0

	d, err := New(buildROM(), cfg)
	require.NoError(t, err)

	regs := d.Registers()
	assert.Equal(t, uint16(0x0100), regs.GetPC())
	assert.Equal(t, uint16(0xDFF0), regs.GetSP())
	assert.Equal(t, uint8(0x01), regs.GetA())
	assert.Equal(t, "TEST", d.Cartridge().Title())
	assert.Equal(t, uint64(0), d.Cycles())
}

func TestSerialOutput(t *testing.T) {
	d, err := New(buildROM(serialPrint("Passed\n")...), testConfig())
	require.NoError(t, err)

	err = d.RunUntil(context.Background(), func(d *DMG) bool {
		return strings.HasSuffix(d.SerialOutput(), "\n")
	})
	require.NoError(t, err)
	assert.Equal(t, "Passed\n", d.SerialOutput())
	assert.Equal(t, "Passed\n", d.DebugData().Serial)
}

func TestRunUntilCycleLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Run.MaxCycles = 500

	d, err := New(buildROM(counterLoop...), cfg)
	require.NoError(t, err)

	err = d.RunUntil(context.Background(), func(*DMG) bool { return false })
	assert.ErrorIs(t, err, ErrCycleLimit)
	assert.Equal(t, uint64(500), d.Cycles())
}

func TestRunUntilCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.Run.MaxCycles = 0

	d, err := New(buildROM(counterLoop...), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = d.RunUntil(ctx, func(*DMG) bool { return false })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStepInstruction(t *testing.T) {
	d, err := New(buildROM(counterLoop...), testConfig())
	require.NoError(t, err)

	d.StepInstruction() // LD HL,nn
	assert.Equal(t, uint64(3), d.Cycles())
	assert.Equal(t, uint16(0x0103), d.Registers().GetPC())
	assert.Equal(t, uint16(0xC000), d.Registers().GetHL())

	d.StepInstruction() // INC (HL)
	assert.Equal(t, uint64(6), d.Cycles())
	assert.Equal(t, uint8(1), d.Memory().Peek(0xC000))
}

func TestDebugData(t *testing.T) {
	d, err := New(buildROM(counterLoop...), testConfig())
	require.NoError(t, err)
	d.StepInstruction()

	data := d.DebugData()
	require.NotNil(t, data)
	assert.Equal(t, uint16(0x0103), data.CPU.PC)
	require.NotNil(t, data.Memory)
	assert.Equal(t, uint16(0x0103), data.Memory.StartAddr)
	assert.Equal(t, uint8(0x34), data.Memory.Bytes[0])
	assert.Equal(t, "OAM", data.PPUMode)

	assert.Nil(t, (&DMG{}).DebugData())
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.gb")
	require.NoError(t, os.WriteFile(path, buildROM(counterLoop...), 0644))

	d, err := NewWithFile(path, testConfig())
	require.NoError(t, err)
	d.RunCycles(100)
	assert.Equal(t, uint64(100), d.Cycles())

	_, err = NewWithFile(filepath.Join(t.TempDir(), "missing.gb"), testConfig())
	assert.Error(t, err)
}

func TestConcurrentMachinesAreIndependent(t *testing.T) {
	const machines = 4
	const cycles = 20_000

	fingerprints := make([]uint64, machines)
	counters := make([]uint8, machines)

	var g errgroup.Group
	for i := 0; i < machines; i++ {
		g.Go(func() error {
			d, err := New(buildROM(counterLoop...), testConfig())
			if err != nil {
				return fmt.Errorf("machine %d: %w", i, err)
			}
			d.RunCycles(cycles)
			fingerprints[i] = d.Snapshot().Fingerprint()
			counters[i] = d.Memory().Peek(0xC000)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := 1; i < machines; i++ {
		assert.Equal(t, fingerprints[0], fingerprints[i], "machine %d", i)
		assert.Equal(t, counters[0], counters[i], "machine %d", i)
	}
	assert.NotZero(t, counters[0])
}
