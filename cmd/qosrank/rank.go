package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/qosrank/internal/cache"
	"github.com/panbanda/qosrank/internal/output"
	"github.com/panbanda/qosrank/internal/progress"
	"github.com/panbanda/qosrank/pkg/config"
	"github.com/panbanda/qosrank/pkg/dataset"
	"github.com/panbanda/qosrank/pkg/engine"
	"github.com/panbanda/qosrank/pkg/report"
	"github.com/urfave/cli/v2"
)

const fuzzySkippedNotice = "fuzzy_topsis skipped: no fuzzy thresholds configured (run `qosrank init` for an example)"

func rankCmd() *cli.Command {
	flags := append(dataFlags(),
		&cli.StringSliceFlag{
			Name:    "methods",
			Aliases: []string{"m"},
			Usage:   "Methods to run: waspas, vikor, fuzzy_topsis (default from config)",
		},
		&cli.Float64Flag{
			Name:  "lambda",
			Usage: "WASPAS weight of the weighted sum model, in [0,1]",
		},
		&cli.Float64Flag{
			Name:  "v",
			Usage: "VIKOR weight of group utility, in [0,1]",
		},
		&cli.StringSliceFlag{
			Name:  "fuzzy",
			Usage: "Fuzzy TOPSIS thresholds as NAME:LOW:HIGH, e.g. --fuzzy \"Availability:70:85\"",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Worker goroutines per method (0 = NumCPU, 1 = sequential)",
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "Order rows by a method's rank, or input",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Show only the first N rows after sorting",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Disable caching",
		},
	)

	return &cli.Command{
		Name:      "rank",
		Usage:     "Rank the services of a QoS dataset",
		ArgsUsage: "<dataset>",
		Description: `Reads a CSV, JSON or YAML dataset, derives entropy weights for its
criteria and ranks every alternative with each selected method.

Examples:
  qosrank rank qws.csv
  qosrank rank qws.csv --sort waspas --top 10
  qosrank rank qws.csv -m fuzzy_topsis --fuzzy "Availability:70:85"
  qosrank rank services.yaml -f csv -o ranking.csv`,
		Flags:  flags,
		Action: runRankCmd,
	}
}

// applyRankFlags overrides cfg with the ranking flags that were set. It
// reports whether --methods was given.
func applyRankFlags(c *cli.Context, cfg *config.Config) (bool, error) {
	if err := applyDataFlags(c, cfg); err != nil {
		return false, err
	}
	explicit := c.IsSet("methods")
	if explicit {
		cfg.Ranking.Methods = c.StringSlice("methods")
	}
	if c.IsSet("lambda") {
		cfg.Ranking.Lambda = c.Float64("lambda")
	}
	if c.IsSet("v") {
		cfg.Ranking.V = c.Float64("v")
	}
	if c.IsSet("workers") {
		cfg.Ranking.Workers = c.Int("workers")
	}
	if c.IsSet("fuzzy") {
		cfg.Fuzzy.Criteria = nil
		for _, s := range c.StringSlice("fuzzy") {
			fc, err := parseFuzzy(s)
			if err != nil {
				return false, err
			}
			cfg.Fuzzy.Criteria = append(cfg.Fuzzy.Criteria, fc)
		}
	}
	if c.IsSet("sort") {
		cfg.Output.Sort = c.String("sort")
	}
	if c.IsSet("top") {
		cfg.Output.Top = c.Int("top")
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	return explicit, nil
}

func runRankCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("rank takes exactly one dataset path")
	}
	path := c.Args().First()

	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	explicit, err := applyRankFlags(c, cfg)
	if err != nil {
		return err
	}
	msg := console(cfg)
	if !explicit && cfg.DropUnconfiguredFuzzy() {
		msg.Warning(fuzzySkippedNotice)
	}

	methods, err := cfg.Methods()
	if err != nil {
		return err
	}
	if _, err := engine.NewFromConfig(cfg); err != nil {
		return err
	}
	sortBy, err := cfg.SortMethod()
	if err != nil {
		return err
	}
	format, err := outputFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	reportCache, err := cache.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	hash, err := cache.RunHash(data, cfg)
	if err != nil {
		return err
	}
	key := cache.RunKey(path)

	rep, hit := reportCache.GetReport(key, hash)
	if hit {
		if c.Bool("verbose") {
			msg.Info("Using cached ranking for %s", path)
		}
	} else {
		rep, err = rankDataset(c, cfg, len(methods), path, data)
		if err != nil {
			return err
		}
		if err := reportCache.SetReport(key, hash, rep); err != nil {
			msg.Warning("Could not cache ranking: %v", err)
		}
	}

	rep, err = rep.SortBy(sortBy)
	if err != nil {
		return err
	}
	rep = rep.Top(cfg.Output.Top)

	formatter, err := output.NewFormatter(format, c.String("output"), cfg.Output.Color && !color.NoColor)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.RankingReport(rep))
}

// rankDataset parses data and runs the engine with a progress sink.
func rankDataset(c *cli.Context, cfg *config.Config, methods int, path string, data []byte) (*report.Report, error) {
	ds, err := readDataset(cfg, path, data)
	if err != nil {
		return nil, err
	}
	if c.Bool("verbose") {
		console(cfg).Info("Loaded %d alternatives from %s (%d incomplete, %d duplicate rows dropped)",
			ds.Stats.Kept, path, ds.Stats.Incomplete, ds.Stats.Duplicates)
	}

	sink := progress.NewStageSink(methods,
		progress.WithVerbose(c.Bool("verbose")),
		progress.WithColor(cfg.Output.Color && !color.NoColor),
	)
	eng, err := engine.NewFromConfig(cfg, engine.WithSink(sink))
	if err != nil {
		return nil, err
	}
	res, err := eng.Run(c.Context, ds.Matrix)
	sink.Finish()
	if err != nil {
		return nil, err
	}
	return res.Report, nil
}

// readDataset parses raw dataset bytes in the format implied by path.
func readDataset(cfg *config.Config, path string, data []byte) (*dataset.Result, error) {
	format, err := dataset.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.FromConfig(cfg).Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
