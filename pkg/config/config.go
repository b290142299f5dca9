package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/panbanda/qosrank/pkg/models"
)

// Config holds all configuration options for qosrank.
type Config struct {
	// Criterion polarity settings
	Criteria CriteriaConfig `koanf:"criteria" toml:"criteria"`

	// Ranking methods and their parameters
	Ranking RankingConfig `koanf:"ranking" toml:"ranking"`

	// Fuzzy TOPSIS thresholds
	Fuzzy FuzzyConfig `koanf:"fuzzy" toml:"fuzzy"`

	// Dataset ingestion
	Input InputConfig `koanf:"input" toml:"input"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// CriteriaConfig controls polarity assignment.
type CriteriaConfig struct {
	CostNames []string          `koanf:"cost_names" toml:"cost_names"`
	Polarity  map[string]string `koanf:"polarity" toml:"polarity"` // criterion -> benefit|cost
	Exclude   []string          `koanf:"exclude" toml:"exclude"`
}

// RankingConfig selects methods and their parameters.
type RankingConfig struct {
	Methods []string `koanf:"methods" toml:"methods"`
	Lambda  float64  `koanf:"lambda" toml:"lambda"` // WASPAS WSM share
	V       float64  `koanf:"v" toml:"v"`           // VIKOR group-utility weight
	Workers int      `koanf:"workers" toml:"workers"`
}

// FuzzyCriterion is one fuzzified criterion.
type FuzzyCriterion struct {
	Name string  `koanf:"name" toml:"name"`
	Low  float64 `koanf:"low" toml:"low"`
	High float64 `koanf:"high" toml:"high"`
}

// FuzzyConfig lists the fuzzified criteria. There is no default.
type FuzzyConfig struct {
	Criteria []FuzzyCriterion `koanf:"criteria" toml:"criteria"`
}

// InputConfig controls dataset ingestion.
type InputConfig struct {
	IDColumn       string `koanf:"id_column" toml:"id_column"`
	DropIncomplete bool   `koanf:"drop_incomplete" toml:"drop_incomplete"`
	DropDuplicates bool   `koanf:"drop_duplicates" toml:"drop_duplicates"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // hours; 0 keeps entries until cleared
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon, csv
	Sort   string `koanf:"sort" toml:"sort"`     // input or a method name
	Top    int    `koanf:"top" toml:"top"`
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Criteria: CriteriaConfig{
			CostNames: []string{"response time", "latency"},
			Polarity:  map[string]string{},
		},
		Ranking: RankingConfig{
			Methods: []string{"waspas", "vikor", "fuzzy_topsis"},
			Lambda:  0.5,
			V:       0.5,
			Workers: 0,
		},
		Input: InputConfig{
			IDColumn:       "Service Name",
			DropIncomplete: true,
			DropDuplicates: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".qosrank/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Sort:   "input",
			Color:  true,
		},
	}
}

// ExampleConfig returns DefaultConfig with the QWS availability thresholds
// filled in. It is what `qosrank init` writes.
func ExampleConfig() *Config {
	cfg := DefaultConfig()
	cfg.Fuzzy.Criteria = []FuzzyCriterion{{Name: "Availability", Low: 70, High: 85}}
	return cfg
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return cfg, nil
}

// SearchPaths returns the config file locations LoadOrDefault tries, in order.
func SearchPaths() []string {
	configNames := []string{
		"qosrank.toml",
		"qosrank.yaml",
		"qosrank.yml",
		"qosrank.json",
		".qosrank.toml",
		".qosrank.yaml",
		".qosrank.yml",
		".qosrank.json",
	}
	searchDirs := []string{".", ".qosrank"}

	var paths []string
	for _, dir := range searchDirs {
		for _, name := range configNames {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

// LoadOrDefault loads the first config file found in SearchPaths, or
// returns DefaultConfig. The returned path is empty when no file was used.
func LoadOrDefault() (*Config, string) {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			if err == nil {
				return cfg, path
			}
		}
	}
	return DefaultConfig(), ""
}

// Validate reports every invalid setting, joined. Each is a
// *models.ConfigurationError.
func (c *Config) Validate() error {
	var errs []error

	if c.Ranking.Lambda < 0 || c.Ranking.Lambda > 1 || math.IsNaN(c.Ranking.Lambda) {
		errs = append(errs, models.NewConfigurationError("ranking.lambda", "must be in [0,1], got %g", c.Ranking.Lambda))
	}
	if c.Ranking.V < 0 || c.Ranking.V > 1 || math.IsNaN(c.Ranking.V) {
		errs = append(errs, models.NewConfigurationError("ranking.v", "must be in [0,1], got %g", c.Ranking.V))
	}
	if c.Ranking.Workers < 0 {
		errs = append(errs, models.NewConfigurationError("ranking.workers", "must be >= 0, got %d", c.Ranking.Workers))
	}
	if _, err := c.Methods(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Polarities(); err != nil {
		errs = append(errs, err)
	}

	for _, fc := range c.Fuzzy.Criteria {
		if fc.Name == "" {
			errs = append(errs, models.NewConfigurationError("fuzzy.criteria", "criterion name is empty"))
			continue
		}
		if !(fc.Low < fc.High) {
			errs = append(errs, models.NewConfigurationError("fuzzy.criteria", "%s: low (%g) must be less than high (%g)", fc.Name, fc.Low, fc.High))
		}
	}

	switch strings.ToLower(c.Output.Sort) {
	case "", "input":
	default:
		if _, err := models.ParseMethod(c.Output.Sort); err != nil {
			errs = append(errs, models.NewConfigurationError("output.sort", "%v", err))
		}
	}
	if c.Output.Top < 0 {
		errs = append(errs, models.NewConfigurationError("output.top", "must be >= 0, got %d", c.Output.Top))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, models.NewConfigurationError("cache.ttl", "must be >= 0, got %d", c.Cache.TTL))
	}

	return errors.Join(errs...)
}

// Methods parses Ranking.Methods.
func (c *Config) Methods() ([]models.Method, error) {
	out := make([]models.Method, 0, len(c.Ranking.Methods))
	for _, s := range c.Ranking.Methods {
		m, err := models.ParseMethod(s)
		if err != nil {
			return nil, models.NewConfigurationError("ranking.methods", "%v", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Polarities parses Criteria.Polarity.
func (c *Config) Polarities() (map[string]models.Polarity, error) {
	out := make(map[string]models.Polarity, len(c.Criteria.Polarity))
	for name, s := range c.Criteria.Polarity {
		p, err := models.ParsePolarity(s)
		if err != nil {
			return nil, models.NewConfigurationError("criteria.polarity", "%s: %v", name, err)
		}
		out[name] = p
	}
	return out, nil
}

// SortMethod returns the method named by Output.Sort, or "" for input order.
func (c *Config) SortMethod() (models.Method, error) {
	switch strings.ToLower(strings.TrimSpace(c.Output.Sort)) {
	case "", "input":
		return "", nil
	}
	m, err := models.ParseMethod(c.Output.Sort)
	if err != nil {
		return "", models.NewConfigurationError("output.sort", "%v", err)
	}
	return m, nil
}

// DropUnconfiguredFuzzy removes fuzzy_topsis from Ranking.Methods when no
// fuzzy criterion is configured. It reports whether anything was removed.
func (c *Config) DropUnconfiguredFuzzy() bool {
	if len(c.Fuzzy.Criteria) > 0 {
		return false
	}
	kept := c.Ranking.Methods[:0:0]
	for _, s := range c.Ranking.Methods {
		if m, err := models.ParseMethod(s); err == nil && m == models.MethodFuzzyTOPSIS {
			continue
		}
		kept = append(kept, s)
	}
	dropped := len(kept) != len(c.Ranking.Methods)
	c.Ranking.Methods = kept
	return dropped
}

// IsExcluded reports whether a column is excluded from ranking.
func (c *Config) IsExcluded(column string) bool {
	for _, ex := range c.Criteria.Exclude {
		if strings.EqualFold(strings.TrimSpace(ex), strings.TrimSpace(column)) {
			return true
		}
	}
	return false
}
