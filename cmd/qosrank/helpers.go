package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/qosrank/internal/output"
	"github.com/panbanda/qosrank/pkg/config"
	"github.com/urfave/cli/v2"
)

// loadConfig loads --config, or the first config file found in the search
// paths. The returned source is empty when defaults are used.
func loadConfig(c *cli.Context) (*config.Config, string, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	cfg, source := config.LoadOrDefault()
	return cfg, source, nil
}

// dataFlags are shared by every command that reads a dataset.
func dataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, markdown, toon, csv",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to file",
		},
		&cli.StringSliceFlag{
			Name:  "polarity",
			Usage: "Override a criterion polarity, e.g. --polarity \"Latency=cost\"",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Leave a numeric column out of the ranking",
		},
		&cli.StringFlag{
			Name:  "id-column",
			Usage: "Column holding the alternative id (default \"Service Name\")",
		},
		&cli.BoolFlag{
			Name:  "keep-incomplete",
			Usage: "Fail on rows with missing values instead of dropping them",
		},
		&cli.BoolFlag{
			Name:  "keep-duplicates",
			Usage: "Keep duplicate rows",
		},
	}
}

// applyDataFlags overrides cfg with the data flags that were set.
func applyDataFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	for _, p := range c.StringSlice("polarity") {
		name, pol, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid --polarity %q: want NAME=benefit|cost", p)
		}
		if cfg.Criteria.Polarity == nil {
			cfg.Criteria.Polarity = map[string]string{}
		}
		cfg.Criteria.Polarity[strings.TrimSpace(name)] = strings.TrimSpace(pol)
	}
	cfg.Criteria.Exclude = append(cfg.Criteria.Exclude, c.StringSlice("exclude")...)
	if c.IsSet("id-column") {
		cfg.Input.IDColumn = c.String("id-column")
	}
	if c.Bool("keep-incomplete") {
		cfg.Input.DropIncomplete = false
	}
	if c.Bool("keep-duplicates") {
		cfg.Input.DropDuplicates = false
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}
	return nil
}

// outputFormat validates a format name. Unlike output.ParseFormat it
// rejects unknown names.
func outputFormat(s string) (output.Format, error) {
	if s == "" {
		return output.FormatText, nil
	}
	f := output.ParseFormat(s)
	if f == output.FormatText && !strings.EqualFold(s, "text") {
		return "", fmt.Errorf("unknown output format %q (want one of %v)", s, output.Formats)
	}
	return f, nil
}

// parseFuzzy parses NAME:LOW:HIGH.
func parseFuzzy(s string) (config.FuzzyCriterion, error) {
	i := strings.LastIndex(s, ":")
	j := -1
	if i > 0 {
		j = strings.LastIndex(s[:i], ":")
	}
	if j <= 0 {
		return config.FuzzyCriterion{}, fmt.Errorf("invalid --fuzzy %q: want NAME:LOW:HIGH", s)
	}
	low, err := strconv.ParseFloat(strings.TrimSpace(s[j+1:i]), 64)
	if err != nil {
		return config.FuzzyCriterion{}, fmt.Errorf("invalid --fuzzy %q: low: %w", s, err)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if err != nil {
		return config.FuzzyCriterion{}, fmt.Errorf("invalid --fuzzy %q: high: %w", s, err)
	}
	return config.FuzzyCriterion{Name: strings.TrimSpace(s[:j]), Low: low, High: high}, nil
}

// console returns the formatter used for status messages on stderr.
func console(cfg *config.Config) *output.Formatter {
	return output.NewWriterFormatter(output.FormatText, os.Stderr, cfg.Output.Color && !color.NoColor)
}
