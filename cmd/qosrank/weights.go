package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/qosrank/internal/output"
	"github.com/panbanda/qosrank/internal/progress"
	"github.com/panbanda/qosrank/pkg/engine"
	"github.com/panbanda/qosrank/pkg/models"
	"github.com/urfave/cli/v2"
)

func weightsCmd() *cli.Command {
	return &cli.Command{
		Name:      "weights",
		Aliases:   []string{"w"},
		Usage:     "Show criterion polarities and entropy weights",
		ArgsUsage: "<dataset>",
		Description: `Classifies each criterion as benefit or cost, normalizes the matrix and
prints the entropy, diversification degree and weight of every criterion.

Examples:
  qosrank weights qws.csv
  qosrank weights qws.csv --polarity "Latency=cost" -f json`,
		Flags:  dataFlags(),
		Action: runWeightsCmd,
	}
}

func runWeightsCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("weights takes exactly one dataset path")
	}
	path := c.Args().First()

	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := applyDataFlags(c, cfg); err != nil {
		return err
	}
	cfg.DropUnconfiguredFuzzy()

	format, err := outputFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ds, err := readDataset(cfg, path, data)
	if err != nil {
		return err
	}

	colored := cfg.Output.Color && !color.NoColor
	sink := progress.NewStageSink(0, progress.WithVerbose(c.Bool("verbose")), progress.WithColor(colored))
	eng, err := engine.NewFromConfig(cfg, engine.WithMethods(models.MethodWASPAS), engine.WithSink(sink))
	if err != nil {
		return err
	}
	p, err := eng.Prepare(c.Context, ds.Matrix)
	sink.Finish()
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(format, c.String("output"), colored)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.WeightsReport(output.NewWeightsData(ds.Matrix.Rows(), p.Criteria, p.Weights)))
}
