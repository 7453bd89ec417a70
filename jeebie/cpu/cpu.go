package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/jeebie-sm83/jeebie/addr"
	"github.com/valerio/jeebie-sm83/jeebie/memory"
)

// Bus is the view of the address space the CPU needs. Every access carries
// the source that issued it, the bus decides whether locks apply.
type Bus interface {
	Read(address uint16, source memory.Source) byte
	Write(address uint16, value byte, source memory.Source)
}

// Timer is advanced once per M-cycle, except while the CPU is stopped.
type Timer interface {
	Tick()
}

// Joypad reports whether any key is held, which is what wakes up STOP.
type Joypad interface {
	Pressed() bool
}

// BootState holds the register values the CPU starts from.
type BootState struct {
	PC, SP         uint16
	AF, BC, DE, HL uint16
}

// DMGBootState is the register state left behind by the DMG boot ROM.
var DMGBootState = BootState{
	PC: 0x0100,
	SP: 0xFFFE,
	AF: 0x01B0,
	BC: 0x0013,
	DE: 0x00D8,
	HL: 0x014D,
}

// Option configures a CPU at construction.
type Option func(*CPU)

// WithBootState overrides the post-boot registers.
func WithBootState(state BootState) Option {
	return func(c *CPU) {
		c.boot = state
	}
}

// WithEIDelay selects whether EI takes effect after the next instruction
// (hardware behavior, the default) or immediately.
func WithEIDelay(enabled bool) Option {
	return func(c *CPU) {
		c.eiDelayEnabled = enabled
	}
}

// WithTrace logs every fetched opcode at debug level.
func WithTrace(enabled bool) Option {
	return func(c *CPU) {
		c.trace = enabled
	}
}

// CPU is the cycle stepped SM83 core. Every call to Tick advances it by
// exactly one M-cycle.
type CPU struct {
	Registers

	bus        Bus
	timer      Timer
	joypad     Joypad
	interrupts interruptHandler

	// cur is the executing instruction, valid while busy is set
	cur      instruction
	busy     bool
	prefixed instruction

	// haltBug makes the next opcode fetch skip the PC increment
	haltBug bool

	// eiDelay counts the instructions left to retire before IME is set
	eiDelay        int
	eiDelayEnabled bool

	trace  bool
	boot   BootState
	cycles uint64
}

func initializeMemory(bus Bus) {
	w := func(address uint16, value byte) {
		bus.Write(address, value, memory.SourceCPU)
	}

	w(addr.P1, 0xCF)
	w(addr.TIMA, 0x00)
	w(addr.TMA, 0x00)
	w(addr.TAC, 0x00)
	w(addr.NR10, 0x80)
	w(addr.NR11, 0xBF)
	w(addr.NR12, 0xF3)
	w(addr.NR14, 0xBF)
	w(addr.NR21, 0x3F)
	w(addr.NR22, 0x00)
	w(addr.NR24, 0xBF)
	w(addr.NR30, 0x7F)
	w(addr.NR31, 0xFF)
	w(addr.NR32, 0x9F)
	w(addr.NR33, 0xBF)
	w(addr.NR41, 0xFF)
	w(addr.NR42, 0x00)
	w(addr.NR43, 0x00)
	w(addr.NR44, 0xBF)
	w(addr.NR50, 0x77)
	w(addr.NR51, 0xF3)
	w(addr.NR52, 0xF1)
	w(addr.LCDC, 0x91)
	w(addr.SCY, 0x00)
	w(addr.SCX, 0x00)
	w(addr.LYC, 0x00)
	w(addr.BGP, 0xFC)
	w(addr.OBP0, 0xFF)
	w(addr.OBP1, 0xFF)
	w(addr.WY, 0x00)
	w(addr.WX, 0x00)
	w(addr.IE, 0x00)
}

// New returns a CPU in the DMG post-boot state. The I/O registers are
// initialized through the bus, DMA is never written so no transfer starts.
func New(bus Bus, timer Timer, joypad Joypad, opts ...Option) *CPU {
	c := &CPU{
		bus:            bus,
		timer:          timer,
		joypad:         joypad,
		interrupts:     interruptHandler{bus: bus},
		eiDelayEnabled: true,
		boot:           DMGBootState,
	}
	for _, opt := range opts {
		opt(c)
	}

	initializeMemory(bus)

	c.setAF(c.boot.AF)
	c.setBC(c.boot.BC)
	c.setDE(c.boot.DE)
	c.setHL(c.boot.HL)
	c.sp = c.boot.SP
	c.pc = c.boot.PC

	return c
}

// Tick advances the CPU by one M-cycle and returns the registers as they
// are at the end of it.
func (c *CPU) Tick() Registers {
	if !c.busy && c.ime && c.interrupts.isQueued() {
		if interrupt := c.interrupts.pop(); interrupt != 0 {
			c.ime = false
			c.eiDelay = 0
			if c.haltBug {
				// EI; HALT with a pending interrupt: the handler returns to
				// the HALT instead of repeating the next byte
				c.haltBug = false
				c.pc--
			}
			c.install(serviceRoutine(interrupt))
		}
	}

	if !c.busy {
		c.fetch()
	}

	status := c.execute(&c.cur)

	if status == Finished {
		c.retire()
	}

	if status != Stop {
		c.timer.Tick()
	}

	switch {
	case status == Halt && c.interrupts.isQueued():
		c.retire()
	case status == Stop && c.joypad.Pressed():
		c.retire()
	}

	c.cycles++
	return c.Registers
}

func (c *CPU) install(in instruction) {
	c.cur = in
	c.busy = true
}

// fetch reads the opcode at PC and installs its instruction. Its first step
// runs in this same cycle.
func (c *CPU) fetch() {
	pc := c.pc
	opcode := c.read(pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}

	if c.trace {
		slog.Debug("exec",
			"pc", fmt.Sprintf("0x%04X", pc),
			"opcode", fmt.Sprintf("0x%02X", opcode),
			"name", Name(opcode),
			"regs", c.Registers.String())
	}

	c.install(decode(opcode))
}

// retire clears the instruction slot and counts down a pending EI.
func (c *CPU) retire() {
	c.busy = false
	if c.eiDelay > 0 {
		c.eiDelay--
		if c.eiDelay == 0 {
			c.ime = true
		}
	}
}

// Idle reports whether no instruction is in flight, i.e. the next Tick
// starts a new one.
func (c *CPU) Idle() bool {
	return !c.busy
}

// Halted reports whether the CPU is suspended by HALT.
func (c *CPU) Halted() bool {
	return c.busy && c.cur.op == opHALT && c.cur.data == 0
}

// Stopped reports whether the CPU is suspended by STOP.
func (c *CPU) Stopped() bool {
	return c.busy && c.cur.op == opSTOP
}

// Cycles returns the number of M-cycles executed so far.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

func (c *CPU) read(address uint16) uint8 {
	return c.bus.Read(address, memory.SourceCPU)
}

func (c *CPU) write(address uint16, value uint8) {
	c.bus.Write(address, value, memory.SourceCPU)
}

// readPC reads the byte at PC and moves past it.
func (c *CPU) readPC() uint8 {
	value := c.read(c.pc)
	c.pc++
	return value
}

func (c *CPU) resetDivider() {
	c.write(addr.DIV, 0)
}
