package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/qosrank/internal/cache"
	"github.com/panbanda/qosrank/internal/output"
	"github.com/urfave/cli/v2"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the ranking report cache",
		Subcommands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Remove every cached report",
				Action: runCacheClearCmd,
			},
			{
				Name:  "stats",
				Usage: "Show cache location, size and entry ages",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: text, json, markdown, toon, csv",
					},
				},
				Action: runCacheStatsCmd,
			},
		},
	}
}

func openCache(c *cli.Context) (*cache.Cache, error) {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return cache.FromConfig(cfg)
}

func runCacheClearCmd(c *cli.Context) error {
	ch, err := openCache(c)
	if err != nil {
		return err
	}
	if !ch.Enabled() {
		color.Yellow("Cache is disabled")
		return nil
	}
	removed, err := ch.Clear()
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	color.Green("Cache cleared (%d reports removed)", removed)
	return nil
}

func runCacheStatsCmd(c *cli.Context) error {
	ch, err := openCache(c)
	if err != nil {
		return err
	}
	stats, err := ch.GetStats()
	if err != nil {
		return err
	}

	format, err := outputFormat(c.String("format"))
	if err != nil {
		return err
	}
	formatter := output.NewWriterFormatter(format, c.App.Writer, !color.NoColor)

	table := output.NewTable(
		"Cache",
		[]string{"Dir", "Enabled", "Entries", "Stale", "Size", "Oldest", "Newest"},
		[][]string{{
			stats.Dir,
			fmt.Sprintf("%t", stats.Enabled),
			fmt.Sprintf("%d", stats.Entries),
			fmt.Sprintf("%d", stats.Stale),
			formatSize(stats.TotalSize),
			stats.OldestAge.Round(time.Second).String(),
			stats.NewestAge.Round(time.Second).String(),
		}},
		nil,
		stats,
	).RightAlign(2, 3, 4)
	return formatter.Output(table)
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
