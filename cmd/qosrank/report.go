package main

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/fatih/color"
	htmlreport "github.com/panbanda/qosrank/internal/report"
	"github.com/urfave/cli/v2"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Render ranking reports as HTML",
		Description: `The report workflow consists of:
  1. qosrank rank -f json -o ranking.json <dataset>
  2. render - Turn the JSON report into a self-contained HTML page
  3. serve  - Serve the HTML page, re-rendering on each request`,
		Subcommands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "Write a JSON ranking report as self-contained HTML",
				ArgsUsage: "<report.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "qosrank-report.html",
						Usage:   "Output HTML file",
					},
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "Dataset name shown in the page header",
					},
				},
				Action: runReportRenderCmd,
			},
			{
				Name:      "serve",
				Usage:     "Serve a JSON ranking report as HTML",
				ArgsUsage: "<report.json>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   8080,
						Usage:   "Port to serve on",
					},
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "Dataset name shown in the page header",
					},
				},
				Action: runReportServeCmd,
			},
		},
	}
}

func reportArgs(c *cli.Context) (string, htmlreport.Metadata, error) {
	if c.Args().Len() != 1 {
		return "", htmlreport.Metadata{}, fmt.Errorf("%s takes exactly one JSON report path", c.Command.Name)
	}
	path := c.Args().First()
	meta := htmlreport.Metadata{Dataset: c.String("dataset"), QosrankVersion: version}
	if meta.Dataset == "" {
		meta.Dataset = filepath.Base(path)
	}
	return path, meta, nil
}

func runReportRenderCmd(c *cli.Context) error {
	path, meta, err := reportArgs(c)
	if err != nil {
		return err
	}
	rep, err := htmlreport.LoadReport(path)
	if err != nil {
		return err
	}

	renderer, err := htmlreport.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	outputPath := c.String("output")
	if err := renderer.RenderToFile(rep, meta, outputPath); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	color.Green("Report rendered: %s", outputPath)
	return nil
}

// reportHandler re-reads and renders path on each request.
func reportHandler(renderer *htmlreport.Renderer, path string, meta htmlreport.Metadata) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := htmlreport.LoadReport(path)
		if err != nil {
			http.Error(w, fmt.Sprintf("load error: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := renderer.Render(rep, meta, w); err != nil {
			http.Error(w, fmt.Sprintf("render error: %v", err), http.StatusInternalServerError)
		}
	}
}

func runReportServeCmd(c *cli.Context) error {
	path, meta, err := reportArgs(c)
	if err != nil {
		return err
	}
	if _, err := htmlreport.LoadReport(path); err != nil {
		return err
	}

	renderer, err := htmlreport.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", reportHandler(renderer, path, meta))

	addr := fmt.Sprintf(":%d", c.Int("port"))
	fmt.Fprintf(c.App.Writer, "Serving report at http://localhost%s\n", addr)
	fmt.Fprintln(c.App.Writer, "Press Ctrl+C to stop")
	return http.ListenAndServe(addr, mux)
}
