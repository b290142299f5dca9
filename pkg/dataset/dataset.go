// Package dataset loads QoS measurements from CSV, JSON or YAML files into a
// validated decision matrix.
package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/panbanda/qosrank/pkg/config"
	"github.com/panbanda/qosrank/pkg/models"
)

// Format is a dataset file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q (want .csv, .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Stats counts the rows removed during ingestion.
type Stats struct {
	Read       int `json:"read" toon:"read"`
	Incomplete int `json:"incomplete" toon:"incomplete"`
	Duplicates int `json:"duplicates" toon:"duplicates"`
	Kept       int `json:"kept" toon:"kept"`
}

// Result is a loaded dataset.
type Result struct {
	Matrix *models.DecisionMatrix
	Stats  Stats
}

// Loader reads datasets.
type Loader struct {
	idColumn       string
	exclude        map[string]bool
	dropIncomplete bool
	dropDuplicates bool
}

// Option is a functional option for configuring Loader.
type Option func(*Loader)

// WithIDColumn names the CSV column holding alternative ids. When the column
// is absent, rows are named row-1, row-2, ... in file order.
func WithIDColumn(name string) Option {
	return func(l *Loader) {
		l.idColumn = name
	}
}

// WithExclude keeps the named columns out of the criteria. Excluded
// columns are carried as attributes.
func WithExclude(columns ...string) Option {
	return func(l *Loader) {
		for _, c := range columns {
			l.exclude[strings.ToLower(strings.TrimSpace(c))] = true
		}
	}
}

// WithDropIncomplete drops rows with a missing criterion value instead of
// failing.
func WithDropIncomplete(drop bool) Option {
	return func(l *Loader) {
		l.dropIncomplete = drop
	}
}

// WithDropDuplicates drops rows that exactly repeat an earlier row.
func WithDropDuplicates(drop bool) Option {
	return func(l *Loader) {
		l.dropDuplicates = drop
	}
}

// New creates a Loader. Defaults match config.DefaultConfig.
func New(opts ...Option) *Loader {
	l := &Loader{
		idColumn:       "Service Name",
		exclude:        make(map[string]bool),
		dropIncomplete: true,
		dropDuplicates: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FromConfig creates a Loader from the input and criteria sections.
func FromConfig(cfg *config.Config) *Loader {
	return New(
		WithIDColumn(cfg.Input.IDColumn),
		WithExclude(cfg.Criteria.Exclude...),
		WithDropIncomplete(cfg.Input.DropIncomplete),
		WithDropDuplicates(cfg.Input.DropDuplicates),
	)
}

// Load reads path, choosing the parser by extension.
func (l *Loader) Load(path string) (*Result, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := l.Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Read parses r in the given format.
func (l *Loader) Read(r io.Reader, format Format) (*Result, error) {
	switch format {
	case FormatCSV:
		return l.ReadCSV(r)
	case FormatJSON:
		return l.ReadJSON(r)
	case FormatYAML:
		return l.ReadYAML(r)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
}

func (l *Loader) excluded(column string) bool {
	return l.exclude[strings.ToLower(strings.TrimSpace(column))]
}
