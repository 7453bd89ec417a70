package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/jeebie-sm83/jeebie/backend/terminal/render"
	"github.com/valerio/jeebie-sm83/jeebie/debug"
	"github.com/valerio/jeebie-sm83/jeebie/memory"
	"github.com/valerio/jeebie-sm83/jeebie/timing"
)

const (
	registerHeight = 11
	disasmHeight   = 12
	minTermWidth   = 60
	minTermHeight  = 24
	leftPanelWidth = 36
)

// Key expiry timeout, terminals don't report key releases so a key is held
// until it stops repeating.
const keyTimeout = 100 * time.Millisecond

// Machine is what the monitor drives and inspects.
type Machine interface {
	RunCycles(n int)
	StepInstruction()
	Press(key memory.JoypadKey)
	Release(key memory.JoypadKey)
	DebugData() *debug.CompleteDebugData
}

// Monitor is a tcell based debugger: registers, disassembly around PC and
// the log output, with single stepping and run/pause.
type Monitor struct {
	screen    tcell.Screen
	machine   Machine
	logBuffer *render.LogBuffer
	logLevel  slog.Level

	state   debug.DebuggerState
	running bool

	keyStates map[memory.JoypadKey]time.Time
}

// New creates a monitor for the given machine, it starts paused.
func New(machine Machine) *Monitor {
	return &Monitor{
		machine:   machine,
		logLevel:  slog.LevelInfo,
		state:     debug.DebuggerPaused,
		keyStates: make(map[memory.JoypadKey]time.Time),
	}
}

// Init opens the terminal and routes slog to the log panel.
func (m *Monitor) Init() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return m.InitWithScreen(screen)
}

// InitWithScreen is Init on an existing screen.
func (m *Monitor) InitWithScreen(screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	m.screen = screen
	m.running = true

	m.logBuffer = render.NewLogBuffer(100)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(m.logBuffer, slog.LevelDebug)))
	slog.Info("Monitor initialized")

	m.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	m.screen.Clear()
	return nil
}

// Cleanup restores the terminal.
func (m *Monitor) Cleanup() {
	if m.screen != nil {
		m.screen.Fini()
	}
}

// Run processes input and redraws once per frame until quit or ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	limiter := timing.NewTickerLimiter()
	defer limiter.Stop()

	for m.running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-limiter.C():
		}

		for m.screen.HasPendingEvent() {
			switch ev := m.screen.PollEvent().(type) {
			case *tcell.EventKey:
				m.HandleKey(ev, time.Now())
			case *tcell.EventResize:
				m.screen.Sync()
			}
		}
		m.releaseExpiredKeys(time.Now())

		if m.state == debug.DebuggerRunning {
			m.machine.RunCycles(timing.CyclesPerFrame)
		}
		m.Draw()
	}
	return nil
}

var joypadKeys = map[tcell.Key]memory.JoypadKey{
	tcell.KeyUp:        memory.JoypadUp,
	tcell.KeyDown:      memory.JoypadDown,
	tcell.KeyLeft:      memory.JoypadLeft,
	tcell.KeyRight:     memory.JoypadRight,
	tcell.KeyEnter:     memory.JoypadStart,
	tcell.KeyBackspace: memory.JoypadSelect,
}

var joypadRunes = map[rune]memory.JoypadKey{
	'z': memory.JoypadA,
	'x': memory.JoypadB,
}

// HandleKey applies a key event. It returns false once the monitor quits.
func (m *Monitor) HandleKey(ev *tcell.EventKey, now time.Time) bool {
	if key, ok := joypadKeys[ev.Key()]; ok {
		m.press(key, now)
		return m.running
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		m.running = false
	case tcell.KeyRune:
		if key, ok := joypadRunes[ev.Rune()]; ok {
			m.press(key, now)
			break
		}
		switch ev.Rune() {
		case 'q':
			m.running = false
		case ' ':
			m.state = debug.DebuggerStepInstruction
			m.machine.StepInstruction()
			m.state = debug.DebuggerPaused
		case 'r':
			if m.state == debug.DebuggerRunning {
				m.state = debug.DebuggerPaused
			} else {
				m.state = debug.DebuggerRunning
			}
			slog.Info("Debugger state changed", "state", m.state)
		case '+', '=':
			m.changeLogLevel(1)
		case '-', '_':
			m.changeLogLevel(-1)
		}
	}
	return m.running
}

func (m *Monitor) press(key memory.JoypadKey, now time.Time) {
	if _, held := m.keyStates[key]; !held {
		slog.Debug("Key press", "key", key)
		m.machine.Press(key)
	}
	m.keyStates[key] = now
}

func (m *Monitor) releaseExpiredKeys(now time.Time) {
	for key, lastPressed := range m.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			slog.Debug("Key release", "key", key)
			m.machine.Release(key)
			delete(m.keyStates, key)
		}
	}
}

// State returns the debugger state.
func (m *Monitor) State() debug.DebuggerState {
	return m.state
}

func (m *Monitor) changeLogLevel(direction int) {
	levels := []slog.Level{slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug}
	for i, level := range levels {
		if level != m.logLevel {
			continue
		}
		next := i + direction
		if next >= 0 && next < len(levels) {
			oldLevel := m.logLevel
			m.logLevel = levels[next]
			slog.Info("Log filter changed", "from", oldLevel, "to", m.logLevel)
		}
		return
	}
}

// Draw renders one frame of the monitor.
func (m *Monitor) Draw() {
	termWidth, termHeight := m.screen.Size()
	m.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		m.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		m.screen.Show()
		return
	}

	data := m.machine.DebugData()
	dividerX := leftPanelWidth
	rightX := dividerX + 2

	m.drawBorders(termWidth, termHeight, dividerX)
	if data != nil {
		m.drawRegisters(data, 1, 1, leftPanelWidth-1)
		m.drawDisassembly(data, 1, registerHeight+2, leftPanelWidth-1)
	}
	m.drawLogs(rightX, 1, termWidth-rightX, termHeight)

	m.screen.Show()
}

func (m *Monitor) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		m.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}
	for x := 0; x < dividerX; x++ {
		m.screen.SetContent(x, registerHeight+1, '─', nil, borderStyle)
	}
	m.screen.SetContent(dividerX, registerHeight+1, '┤', nil, borderStyle)

	m.drawText(1, 0, dividerX-1, " CPU Registers ", titleStyle)
	m.drawText(1, registerHeight+1, dividerX-1, " Disassembly ", titleStyle)
	m.drawText(dividerX+2, 0, termWidth-dividerX-2, fmt.Sprintf(" Logs [%s] (-/+ filter) ", m.logLevel), titleStyle)

	help := " SPACE=step  R=run/pause  Q/ESC=quit | arrows, Z, X, Enter, Backspace=joypad "
	m.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

func (m *Monitor) drawRegisters(data *debug.CompleteDebugData, startX, startY, width int) {
	cpu := data.CPU

	lines := []string{
		fmt.Sprintf("Status: %s", data.DebuggerState),
		fmt.Sprintf("A: 0x%02X  F: 0x%02X", cpu.A, cpu.F),
		fmt.Sprintf("B: 0x%02X  C: 0x%02X", cpu.B, cpu.C),
		fmt.Sprintf("D: 0x%02X  E: 0x%02X", cpu.D, cpu.E),
		fmt.Sprintf("H: 0x%02X  L: 0x%02X", cpu.H, cpu.L),
		fmt.Sprintf("SP: 0x%04X  PC: 0x%04X", cpu.SP, cpu.PC),
		fmt.Sprintf("IME: %s  IE: 0x%02X  IF: 0x%02X",
			map[bool]string{true: "ON", false: "OFF"}[cpu.IME],
			data.InterruptEnable, data.InterruptFlags),
		fmt.Sprintf("PPU: %s  LY: %d", data.PPUMode, data.LY),
		fmt.Sprintf("Cycles: %d", cpu.Cycles),
	}
	if data.Serial != "" {
		lines = append(lines, fmt.Sprintf("Serial: %q", data.Serial))
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range lines {
		if i >= registerHeight {
			break
		}
		m.drawText(startX, startY+i, width, line, style)
	}
}

func (m *Monitor) drawDisassembly(data *debug.CompleteDebugData, startX, startY, width int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	lines := debug.CreateDisassembly(data.Memory, data.CPU.PC, disasmHeight)
	for i, line := range lines {
		text := fmt.Sprintf(" 0x%04X: %s", line.Address, line.Instruction)
		useStyle := style
		if line.IsCurrent {
			text = ">" + text[1:]
			useStyle = currentStyle
		}
		m.drawText(startX, startY+i, width, text, useStyle)
	}
}

func (m *Monitor) drawLogs(startX, startY, width, termHeight int) {
	availableHeight := termHeight - startY - 1
	if width <= 0 || availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range m.logBuffer.GetRecent(availableHeight, m.logLevel) {
		style := infoStyle
		switch entry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}

		text := render.FormatLogEntry(entry)
		if len(text) > width && width > 3 {
			text = text[:width-3] + "..."
		}
		m.drawText(startX, startY+i, width, text, style)
	}
}

func (m *Monitor) drawText(x, y, width int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		if i >= width {
			return
		}
		m.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
