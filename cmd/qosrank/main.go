package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "qosrank",
		Usage:    "Rank web services on QoS criteria",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `qosrank ranks candidate web services from a QoS dataset. Criterion
weights come from Shannon entropy; the alternatives are ranked with WASPAS,
VIKOR and Fuzzy TOPSIS.

Datasets: CSV (QWS layout), or JSON/YAML documents of alternatives.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"QOSRANK_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			if prefix := c.String("pprof"); prefix != "" {
				p, err := startProfiler(prefix)
				if err != nil {
					return err
				}
				c.App.Metadata["profiler"] = p
			}
			return nil
		},
		After: func(c *cli.Context) error {
			p, ok := c.App.Metadata["profiler"].(*profiler)
			if !ok {
				return nil
			}
			written, err := p.stop()
			for _, path := range written {
				color.Green("Profile written to %s", path)
			}
			return err
		},
		Commands: []*cli.Command{
			rankCmd(),
			weightsCmd(),
			initCmd(),
			configCmd(),
			cacheCmd(),
			reportCmd(),
			mcpCmd(),
		},
	}
}
