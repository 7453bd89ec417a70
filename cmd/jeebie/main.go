package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/valerio/jeebie-sm83/jeebie/config"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "jeebie"
	app.Description = "A cycle stepped Game Boy CPU core"
	app.Usage = "run, inspect and debug DMG ROMs"
	app.Version = "1.0.0"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		configFlag,
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Override the configured log level (debug, info, warn, error)",
		},
	}
	app.Commands = []cli.Command{
		runCommand,
		infoCommand,
		monitorCommand,
		batchCommand,
	}
	return app
}

var configFlag = cli.StringFlag{
	Name:  "config",
	Usage: "Path to the TOML configuration file",
	Value: config.DefaultFilename,
}

// loadConfig reads the configuration named by --config, applies the command
// flag overrides and installs the stderr logger at the resulting level.
func loadConfig(c *cli.Context, overrides ...func(*config.Config)) (config.Config, error) {
	path := c.GlobalString("config")
	if c.IsSet("config") {
		path = c.String("config")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if level := c.GlobalString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	for _, override := range overrides {
		override(&cfg)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return cfg, err
	}
	handler := slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return cfg, nil
}
