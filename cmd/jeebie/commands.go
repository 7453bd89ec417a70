package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/valerio/jeebie-sm83/jeebie"
	"github.com/valerio/jeebie-sm83/jeebie/backend/terminal"
	"github.com/valerio/jeebie-sm83/jeebie/config"
	"github.com/valerio/jeebie-sm83/jeebie/memory"
	"github.com/valerio/jeebie-sm83/jeebie/rom"
)

var errNoROM = errors.New("no ROM path provided")

var cyclesFlag = cli.Uint64Flag{
	Name:  "cycles",
	Usage: "Number of M-cycles to run, overrides run.max_cycles (0 = until interrupted)",
}

var runCommand = cli.Command{
	Name:      "run",
	Usage:     "Run a ROM headless and print the final state",
	ArgsUsage: "<ROM file>",
	Flags: []cli.Flag{
		configFlag,
		cyclesFlag,
		cli.BoolFlag{
			Name:  "json",
			Usage: "Print the final state as JSON",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction (implies debug logging)",
		},
	},
	Action: runROM,
}

var infoCommand = cli.Command{
	Name:      "info",
	Usage:     "Print the cartridge header",
	ArgsUsage: "<ROM file>",
	Action:    printInfo,
}

var monitorCommand = cli.Command{
	Name:      "monitor",
	Usage:     "Step through a ROM in the terminal debugger",
	ArgsUsage: "<ROM file>",
	Flags:     []cli.Flag{configFlag},
	Action:    runMonitor,
}

var batchCommand = cli.Command{
	Name:      "batch",
	Usage:     "Run several ROMs concurrently and print a fingerprint for each",
	ArgsUsage: "<ROM file>...",
	Flags:     []cli.Flag{configFlag, cyclesFlag},
	Action:    runBatch,
}

func romPath(c *cli.Context) (string, error) {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, c.Command.Name)
		return "", errNoROM
	}
	return c.Args().First(), nil
}

// interruptContext is cancelled on Ctrl-C.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// runToLimit runs until the cycle limit, reaching it is the expected outcome.
func runToLimit(ctx context.Context, emu *jeebie.DMG) error {
	err := emu.RunUntil(ctx, func(*jeebie.DMG) bool { return false })
	if errors.Is(err, jeebie.ErrCycleLimit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runROM(c *cli.Context) error {
	path, err := romPath(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c, func(cfg *config.Config) {
		if c.IsSet("cycles") {
			cfg.Run.MaxCycles = c.Uint64("cycles")
		}
		if c.Bool("trace") {
			cfg.Log.Trace = true
			cfg.Log.Level = "debug"
		}
	})
	if err != nil {
		return err
	}

	emu, err := jeebie.NewWithFile(path, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()
	if err := runToLimit(ctx, emu); err != nil {
		return err
	}

	snapshot := emu.Snapshot()
	out := c.App.Writer
	if c.Bool("json") {
		buf, err := snapshot.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(buf))
		return nil
	}

	fmt.Fprintf(out, "cycles:      %d\n", emu.Cycles())
	fmt.Fprintf(out, "registers:   %s\n", emu.Registers())
	fmt.Fprintf(out, "fingerprint: %016x\n", snapshot.Fingerprint())
	if serial := emu.SerialOutput(); serial != "" {
		fmt.Fprintf(out, "serial:      %q\n", serial)
	}
	return nil
}

func printInfo(c *cli.Context) error {
	path, err := romPath(c)
	if err != nil {
		return err
	}
	if _, err := loadConfig(c); err != nil {
		return err
	}

	data, err := rom.Load(path)
	if err != nil {
		return err
	}
	cart, err := memory.NewCartridgeWithData(data)
	if err != nil {
		return err
	}

	writeInfo(c.App.Writer, cart)
	return nil
}

func writeInfo(out io.Writer, cart *memory.Cartridge) {
	fmt.Fprintf(out, "title:     %s\n", cart.Title())
	fmt.Fprintf(out, "type:      0x%02X (%s)\n", cart.Type(), cart.MBCType())
	fmt.Fprintf(out, "rom:       %d banks, %d bytes\n", cart.ROMBanks(), cart.Size())
	fmt.Fprintf(out, "ram:       %d banks\n", cart.RAMBanks())
	fmt.Fprintf(out, "battery:   %t\n", cart.HasBattery())
	fmt.Fprintf(out, "rtc:       %t\n", cart.HasRTC())
	fmt.Fprintf(out, "version:   %d\n", cart.Version())
	fmt.Fprintf(out, "checksum:  %t\n", cart.HeaderChecksumValid())
}

func runMonitor(c *cli.Context) error {
	path, err := romPath(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	emu, err := jeebie.NewWithFile(path, cfg)
	if err != nil {
		return err
	}

	monitor := terminal.New(emu)
	if err := monitor.Init(); err != nil {
		return err
	}
	defer monitor.Cleanup()

	ctx, cancel := interruptContext()
	defer cancel()
	return monitor.Run(ctx)
}

type batchResult struct {
	path        string
	cycles      uint64
	fingerprint uint64
}

func runBatch(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, c.Command.Name)
		return errNoROM
	}

	cfg, err := loadConfig(c, func(cfg *config.Config) {
		if c.IsSet("cycles") {
			cfg.Run.MaxCycles = c.Uint64("cycles")
		}
		cfg.Serial.LogOutput = false
	})
	if err != nil {
		return err
	}
	if cfg.Run.MaxCycles == 0 {
		return errors.New("batch runs need a cycle limit")
	}

	paths := c.Args()
	results := make([]batchResult, len(paths))

	ctx, cancel := interruptContext()
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			emu, err := jeebie.NewWithFile(path, cfg)
			if err != nil {
				return err
			}
			if err := runToLimit(ctx, emu); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = batchResult{
				path:        path,
				cycles:      emu.Cycles(),
				fingerprint: emu.Snapshot().Fingerprint(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		fmt.Fprintf(c.App.Writer, "%016x %10d %s\n", r.fingerprint, r.cycles, r.path)
	}
	return nil
}
