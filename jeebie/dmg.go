package jeebie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-sm83/jeebie/addr"
	"github.com/valerio/jeebie-sm83/jeebie/config"
	"github.com/valerio/jeebie-sm83/jeebie/cpu"
	"github.com/valerio/jeebie-sm83/jeebie/debug"
	"github.com/valerio/jeebie-sm83/jeebie/memory"
	"github.com/valerio/jeebie-sm83/jeebie/rom"
	"github.com/valerio/jeebie-sm83/jeebie/serial"
	"github.com/valerio/jeebie-sm83/jeebie/video"
)

// ErrCycleLimit is returned by RunUntil when run.max_cycles is reached
// before the condition holds.
var ErrCycleLimit = errors.New("cycle limit reached")

// dots per M-cycle
const ppuTicksPerCycle = 4

// how many bytes of memory after PC are included in debug data
const debugWindow = 64

// DMG is a complete machine: every component is owned by the instance, so
// any number of them can run side by side.
type DMG struct {
	cfg config.Config

	mem    *memory.MMU
	dma    *memory.DMA
	ppu    *video.Sequencer
	cpu    *cpu.CPU
	serial *serial.Supervisor
	sink   *serial.LogSink

	regs   cpu.Registers
	cycles uint64
}

// New builds a machine for the given cartridge image.
func New(cart []byte, cfg config.Config) (*DMG, error) {
	cartridge, err := memory.NewCartridgeWithData(cart)
	if err != nil {
		return nil, err
	}

	mem, err := memory.NewWithCartridge(cartridge)
	if err != nil {
		return nil, err
	}

	d := &DMG{
		cfg:    cfg,
		mem:    mem,
		dma:    memory.NewDMA(mem),
		ppu:    video.NewSequencer(mem),
		serial: mem.Serial(),
		sink:   serial.NewLogSink(),
	}
	if !cfg.Serial.LogOutput {
		d.sink.SetLogger(nil)
	}
	d.sink.Attach(d.serial)

	d.cpu = cpu.New(mem, mem.Timer(), mem.Joypad(), cfg.CPUOptions()...)
	mem.SetTimerSeed(cfg.Timer.DivSeed)
	d.regs = d.cpu.Registers

	return d, nil
}

// NewWithFile loads the ROM at path (archives included) and builds a
// machine for it.
func NewWithFile(path string, cfg config.Config) (*DMG, error) {
	data, err := rom.Load(path)
	if err != nil {
		return nil, err
	}

	slog.Info("Loaded ROM", "path", path, "bytes", len(data))

	d, err := New(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Step runs one M-cycle: CPU first, then 4 PPU dots, then DMA and the
// serial port.
func (d *DMG) Step() cpu.Registers {
	d.regs = d.cpu.Tick()
	for i := 0; i < ppuTicksPerCycle; i++ {
		d.ppu.Tick()
	}
	d.dma.Tick()
	d.serial.Tick()
	d.cycles++
	return d.regs
}

// StepInstruction runs until the instruction in flight retires. A halted
// or stopped CPU advances by a single cycle.
func (d *DMG) StepInstruction() {
	d.Step()
	for !d.cpu.Idle() && !d.cpu.Halted() && !d.cpu.Stopped() {
		d.Step()
	}
}

// RunCycles runs n M-cycles.
func (d *DMG) RunCycles(n int) {
	for i := 0; i < n; i++ {
		d.Step()
	}
}

// RunUntil steps the machine until done returns true at an instruction
// boundary, the context is cancelled or the configured cycle limit is hit.
func (d *DMG) RunUntil(ctx context.Context, done func(*DMG) bool) error {
	limit := d.cfg.Run.MaxCycles
	for {
		if d.cpu.Idle() && done(d) {
			return nil
		}
		if limit > 0 && d.cycles >= limit {
			return fmt.Errorf("%w: %d", ErrCycleLimit, limit)
		}
		// checking the context every cycle is expensive
		if d.cycles%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		d.Step()
	}
}

func (d *DMG) Press(key memory.JoypadKey) {
	d.mem.Press(key)
}

func (d *DMG) Release(key memory.JoypadKey) {
	d.mem.Release(key)
}

// Cycles returns the number of M-cycles run.
func (d *DMG) Cycles() uint64 {
	return d.cycles
}

// Registers returns the CPU registers as of the last cycle.
func (d *DMG) Registers() cpu.Registers {
	return d.regs
}

// Cartridge returns the loaded cartridge.
func (d *DMG) Cartridge() *memory.Cartridge {
	return d.mem.Cartridge()
}

// Memory returns the bus, for inspection.
func (d *DMG) Memory() *memory.MMU {
	return d.mem
}

// SerialOutput returns everything the game sent over the serial port.
func (d *DMG) SerialOutput() string {
	return d.sink.Output()
}

// Snapshot captures registers and the whole address space.
func (d *DMG) Snapshot() *debug.Snapshot {
	s := debug.Capture(debug.NewCPUState(d.regs, d.cycles), d.mem)
	s.PPUMode = d.ppu.Mode().String()
	return s
}

// DebugData collects what the monitor displays.
func (d *DMG) DebugData() *debug.CompleteDebugData {
	if d.cpu == nil || d.mem == nil {
		return nil
	}

	pc := d.regs.GetPC()
	size := debugWindow
	if int(pc)+size > 0x10000 {
		size = 0x10000 - int(pc)
	}
	bytes := make([]uint8, size)
	for i := range bytes {
		bytes[i] = d.mem.Peek(pc + uint16(i))
	}

	return &debug.CompleteDebugData{
		CPU:             debug.NewCPUState(d.regs, d.cycles),
		Memory:          &debug.MemorySnapshot{StartAddr: pc, Bytes: bytes},
		InterruptEnable: d.mem.Peek(addr.IE),
		InterruptFlags:  d.mem.Peek(addr.IF),
		PPUMode:         d.ppu.Mode().String(),
		LY:              d.ppu.Line(),
		Serial:          d.sink.Output(),
	}
}
