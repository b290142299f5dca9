package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/qosrank/internal/output"
	"github.com/panbanda/qosrank/pkg/config"
	"github.com/panbanda/qosrank/pkg/dataset"
	"github.com/panbanda/qosrank/pkg/engine"
	"github.com/panbanda/qosrank/pkg/models"
)

// Common input structures for tools

// DataInput names the alternatives to analyze, either as a dataset file or
// inline.
type DataInput struct {
	Dataset      string                `json:"dataset,omitempty" jsonschema:"Path to a CSV, JSON or YAML dataset. Ignored when alternatives are given inline."`
	Alternatives []dataset.Alternative `json:"alternatives,omitempty" jsonschema:"Inline alternatives, each with an id and a map of criterion values."`
	Polarity     map[string]string     `json:"polarity,omitempty" jsonschema:"Per-criterion polarity override: benefit or cost."`
	Exclude      []string              `json:"exclude,omitempty" jsonschema:"Numeric columns to leave out of the ranking."`
	Format       string                `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// FuzzyInput is one fuzzified criterion.
type FuzzyInput struct {
	Name string  `json:"name" jsonschema:"Criterion name as it appears in the dataset."`
	Low  float64 `json:"low" jsonschema:"Values below this fall in the Low band."`
	High float64 `json:"high" jsonschema:"Values above this fall in the High band."`
}

// RankInput adds ranking options.
type RankInput struct {
	DataInput
	Methods []string     `json:"methods,omitempty" jsonschema:"Methods to run: waspas, vikor, fuzzy_topsis. Defaults to the configured methods."`
	Lambda  *float64     `json:"lambda,omitempty" jsonschema:"WASPAS weight of the weighted sum (0.0-1.0). Default 0.5."`
	V       *float64     `json:"v,omitempty" jsonschema:"VIKOR weight of group utility (0.0-1.0). Default 0.5."`
	Fuzzy   []FuzzyInput `json:"fuzzy,omitempty" jsonschema:"Fuzzy TOPSIS thresholds. Required for fuzzy_topsis unless configured."`
	Sort    string       `json:"sort,omitempty" jsonschema:"Order rows by a method's rank, or input (default)."`
	Top     int          `json:"top,omitempty" jsonschema:"Return only the first N rows after sorting. Default all."`
}

// WeightsInput is the input of the entropy_weights tool.
type WeightsInput struct {
	DataInput
}

// RankOutput is the rank_alternatives result.
type RankOutput struct {
	Fingerprint string        `json:"fingerprint" toon:"fingerprint"`
	Dataset     dataset.Stats `json:"dataset" toon:"dataset"`
	Notices     []string      `json:"notices,omitempty" toon:"notices"`
	Report      any           `json:"report" toon:"report"`
}

func getFormat(input DataInput) output.Format {
	switch strings.ToLower(input.Format) {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, view output.Renderable, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		var buf bytes.Buffer
		if err := view.RenderMarkdown(&buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return output.MarshalTOON(data)
	}
}

func toolResult(data any, view output.Renderable, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, view, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// applyData copies cfg and applies the data options shared by every tool.
func applyData(base *config.Config, input DataInput) *config.Config {
	cfg := *base
	if len(input.Polarity) > 0 {
		merged := make(map[string]string, len(base.Criteria.Polarity)+len(input.Polarity))
		for k, v := range base.Criteria.Polarity {
			merged[k] = v
		}
		for k, v := range input.Polarity {
			merged[k] = v
		}
		cfg.Criteria.Polarity = merged
	}
	if len(input.Exclude) > 0 {
		cfg.Criteria.Exclude = append(append([]string(nil), base.Criteria.Exclude...), input.Exclude...)
	}
	return &cfg
}

func loadData(cfg *config.Config, input DataInput) (*dataset.Result, error) {
	loader := dataset.FromConfig(cfg)
	if len(input.Alternatives) > 0 {
		return loader.FromDocument(&dataset.Document{Alternatives: input.Alternatives})
	}
	if input.Dataset == "" {
		return nil, fmt.Errorf("either dataset or alternatives is required")
	}
	return loader.Load(input.Dataset)
}

// Tool handlers

func (s *Server) handleRank(ctx context.Context, req *mcp.CallToolRequest, input RankInput) (*mcp.CallToolResult, any, error) {
	cfg := applyData(s.config, input.DataInput)
	cfg.Ranking.Methods = append([]string(nil), cfg.Ranking.Methods...)
	if len(input.Methods) > 0 {
		cfg.Ranking.Methods = input.Methods
	}
	if input.Lambda != nil {
		cfg.Ranking.Lambda = *input.Lambda
	}
	if input.V != nil {
		cfg.Ranking.V = *input.V
	}
	if len(input.Fuzzy) > 0 {
		cfg.Fuzzy.Criteria = make([]config.FuzzyCriterion, len(input.Fuzzy))
		for i, f := range input.Fuzzy {
			cfg.Fuzzy.Criteria[i] = config.FuzzyCriterion{Name: f.Name, Low: f.Low, High: f.High}
		}
	}
	if input.Sort != "" {
		cfg.Output.Sort = input.Sort
	}
	if input.Top > 0 {
		cfg.Output.Top = input.Top
	}

	var notices []string
	if len(input.Methods) == 0 && cfg.DropUnconfiguredFuzzy() {
		notices = append(notices, "fuzzy_topsis skipped: no fuzzy thresholds configured")
	}

	eng, err := engine.NewFromConfig(cfg)
	if err != nil {
		return toolError(err.Error())
	}
	sortBy, err := cfg.SortMethod()
	if err != nil {
		return toolError(err.Error())
	}

	data, err := loadData(cfg, input.DataInput)
	if err != nil {
		return toolError(err.Error())
	}

	res, err := eng.Run(ctx, data.Matrix)
	if err != nil {
		return toolError(err.Error())
	}
	rep, err := res.Report.SortBy(sortBy)
	if err != nil {
		return toolError(err.Error())
	}
	rep = rep.Top(cfg.Output.Top)

	out := RankOutput{
		Fingerprint: fmt.Sprintf("%016x", data.Matrix.Fingerprint()),
		Dataset:     data.Stats,
		Notices:     notices,
		Report:      rep,
	}
	return toolResult(out, output.RankingReport(rep), getFormat(input.DataInput))
}

func (s *Server) handleWeights(ctx context.Context, req *mcp.CallToolRequest, input WeightsInput) (*mcp.CallToolResult, any, error) {
	cfg := applyData(s.config, input.DataInput)
	cfg.DropUnconfiguredFuzzy()

	eng, err := engine.NewFromConfig(cfg, engine.WithMethods(models.MethodWASPAS))
	if err != nil {
		return toolError(err.Error())
	}

	data, err := loadData(cfg, input.DataInput)
	if err != nil {
		return toolError(err.Error())
	}

	p, err := eng.Prepare(ctx, data.Matrix)
	if err != nil {
		return toolError(err.Error())
	}

	weights := output.NewWeightsData(data.Matrix.Rows(), p.Criteria, p.Weights)
	return toolResult(weights, output.WeightsReport(weights), getFormat(input.DataInput))
}
