package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/valerio/jeebie-sm83/jeebie/cpu"
)

// DefaultFilename is the file looked up when no --config flag is given.
const DefaultFilename = "jeebie.toml"

type Config struct {
	CPU    CPUConfig    `toml:"cpu"`
	Timer  TimerConfig  `toml:"timer"`
	Log    LogConfig    `toml:"log"`
	Run    RunConfig    `toml:"run"`
	Serial SerialConfig `toml:"serial"`
}

// CPUConfig is the register state the CPU starts from, plus EI behavior.
type CPUConfig struct {
	BootPC  uint16 `toml:"boot_pc"`
	BootSP  uint16 `toml:"boot_sp"`
	AF      uint16 `toml:"af"`
	BC      uint16 `toml:"bc"`
	DE      uint16 `toml:"de"`
	HL      uint16 `toml:"hl"`
	EIDelay bool   `toml:"ei_delay"`
}

type TimerConfig struct {
	DivSeed uint16 `toml:"div_seed"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Trace bool   `toml:"trace"`
}

type RunConfig struct {
	// MaxCycles bounds a headless run, in M-cycles. Zero means no limit.
	MaxCycles uint64 `toml:"max_cycles"`
}

type SerialConfig struct {
	LogOutput bool `toml:"log_output"`
}

// Default returns the DMG post-boot configuration.
func Default() Config {
	boot := cpu.DMGBootState
	return Config{
		CPU: CPUConfig{
			BootPC:  boot.PC,
			BootSP:  boot.SP,
			AF:      boot.AF,
			BC:      boot.BC,
			DE:      boot.DE,
			HL:      boot.HL,
			EIDelay: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Run: RunConfig{
			MaxCycles: 10_000_000,
		},
		Serial: SerialConfig{
			LogOutput: true,
		},
	}
}

// Load returns the defaults overlaid with the content of the file at path.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	_, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as TOML.
func Save(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// SlogLevel parses the configured log level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return level, nil
}

// BootState converts the cpu section into the state the CPU is seeded with.
func (c Config) BootState() cpu.BootState {
	return cpu.BootState{
		PC: c.CPU.BootPC,
		SP: c.CPU.BootSP,
		AF: c.CPU.AF,
		BC: c.CPU.BC,
		DE: c.CPU.DE,
		HL: c.CPU.HL,
	}
}

// CPUOptions returns the cpu.New options described by the config.
func (c Config) CPUOptions() []cpu.Option {
	return []cpu.Option{
		cpu.WithBootState(c.BootState()),
		cpu.WithEIDelay(c.CPU.EIDelay),
		cpu.WithTrace(c.Log.Trace),
	}
}
