package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/qosrank/pkg/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if len(cfg.Criteria.CostNames) != 2 {
		t.Errorf("Criteria.CostNames = %v, want [response time latency]", cfg.Criteria.CostNames)
	}
	if len(cfg.Ranking.Methods) != 3 {
		t.Errorf("Ranking.Methods = %v, want all three methods", cfg.Ranking.Methods)
	}
	if cfg.Ranking.Lambda != 0.5 {
		t.Errorf("Ranking.Lambda = %f, want 0.5", cfg.Ranking.Lambda)
	}
	if cfg.Ranking.V != 0.5 {
		t.Errorf("Ranking.V = %f, want 0.5", cfg.Ranking.V)
	}
	if len(cfg.Fuzzy.Criteria) != 0 {
		t.Errorf("Fuzzy.Criteria = %v, want no default thresholds", cfg.Fuzzy.Criteria)
	}
	if cfg.Input.IDColumn != "Service Name" {
		t.Errorf("Input.IDColumn = %q, want Service Name", cfg.Input.IDColumn)
	}
	if !cfg.Input.DropIncomplete || !cfg.Input.DropDuplicates {
		t.Error("Input drop settings should be true by default")
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestExampleConfig(t *testing.T) {
	cfg := ExampleConfig()
	if len(cfg.Fuzzy.Criteria) != 1 {
		t.Fatalf("Fuzzy.Criteria = %v, want one entry", cfg.Fuzzy.Criteria)
	}
	fc := cfg.Fuzzy.Criteria[0]
	if fc.Name != "Availability" || fc.Low != 70 || fc.High != 85 {
		t.Errorf("Fuzzy.Criteria[0] = %+v, want Availability 70/85", fc)
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "qosrank.toml")

	content := `
[criteria]
cost_names = ["response time", "latency", "price"]
exclude = ["Documentation"]

[criteria.polarity]
Compliance = "cost"

[ranking]
methods = ["vikor"]
lambda = 0.7

[[fuzzy.criteria]]
name = "Availability"
low = 60
high = 90

[[fuzzy.criteria]]
name = "Reliability"
low = 50
high = 75

[output]
format = "json"
sort = "vikor"
top = 10
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Criteria.CostNames) != 3 {
		t.Errorf("Criteria.CostNames = %v, want 3 names", cfg.Criteria.CostNames)
	}
	if cfg.Criteria.Polarity["Compliance"] != "cost" {
		t.Errorf("Criteria.Polarity = %v", cfg.Criteria.Polarity)
	}
	if !cfg.IsExcluded("documentation") {
		t.Error("Documentation should be excluded")
	}
	if len(cfg.Ranking.Methods) != 1 || cfg.Ranking.Methods[0] != "vikor" {
		t.Errorf("Ranking.Methods = %v, want [vikor]", cfg.Ranking.Methods)
	}
	if cfg.Ranking.Lambda != 0.7 {
		t.Errorf("Ranking.Lambda = %f, want 0.7", cfg.Ranking.Lambda)
	}
	// Unset values keep their defaults.
	if cfg.Ranking.V != 0.5 {
		t.Errorf("Ranking.V = %f, want default 0.5", cfg.Ranking.V)
	}
	if len(cfg.Fuzzy.Criteria) != 2 || cfg.Fuzzy.Criteria[1].Name != "Reliability" || cfg.Fuzzy.Criteria[1].High != 75 {
		t.Errorf("Fuzzy.Criteria = %+v", cfg.Fuzzy.Criteria)
	}
	if cfg.Output.Format != "json" || cfg.Output.Top != 10 {
		t.Errorf("Output = %+v", cfg.Output)
	}

	m, err := cfg.SortMethod()
	if err != nil || m != models.MethodVIKOR {
		t.Errorf("SortMethod() = %q, %v", m, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "qosrank.yaml")

	content := `
ranking:
  v: 0.25
  workers: 1
fuzzy:
  criteria:
    - name: Availability
      low: 70
      high: 85
input:
  id_column: WSDL Address
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Ranking.V != 0.25 {
		t.Errorf("Ranking.V = %f, want 0.25", cfg.Ranking.V)
	}
	if cfg.Ranking.Workers != 1 {
		t.Errorf("Ranking.Workers = %d, want 1", cfg.Ranking.Workers)
	}
	if len(cfg.Fuzzy.Criteria) != 1 || cfg.Fuzzy.Criteria[0].Low != 70 {
		t.Errorf("Fuzzy.Criteria = %+v", cfg.Fuzzy.Criteria)
	}
	if cfg.Input.IDColumn != "WSDL Address" {
		t.Errorf("Input.IDColumn = %q", cfg.Input.IDColumn)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "qosrank.json")

	content := `{
  "ranking": {"methods": ["waspas", "fuzzy-topsis"], "lambda": 1},
  "cache": {"enabled": false}
}`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	methods, err := cfg.Methods()
	if err != nil {
		t.Fatalf("Methods() error = %v", err)
	}
	if len(methods) != 2 || methods[1] != models.MethodFuzzyTOPSIS {
		t.Errorf("Methods() = %v", methods)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/qosrank.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "qosrank.toml")

	if err := os.WriteFile(configPath, []byte("this is not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() should return error for invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"lambda above 1", func(c *Config) { c.Ranking.Lambda = 1.5 }, "ranking.lambda"},
		{"negative v", func(c *Config) { c.Ranking.V = -0.1 }, "ranking.v"},
		{"negative workers", func(c *Config) { c.Ranking.Workers = -2 }, "ranking.workers"},
		{"unknown method", func(c *Config) { c.Ranking.Methods = []string{"ahp"} }, "ranking.methods"},
		{"bad polarity", func(c *Config) { c.Criteria.Polarity = map[string]string{"Latency": "up"} }, "criteria.polarity"},
		{"inverted thresholds", func(c *Config) {
			c.Fuzzy.Criteria = []FuzzyCriterion{{Name: "Availability", Low: 85, High: 70}}
		}, "fuzzy.criteria"},
		{"unnamed fuzzy criterion", func(c *Config) {
			c.Fuzzy.Criteria = []FuzzyCriterion{{Low: 1, High: 2}}
		}, "fuzzy.criteria"},
		{"bad sort", func(c *Config) { c.Output.Sort = "alphabetical" }, "output.sort"},
		{"negative top", func(c *Config) { c.Output.Top = -1 }, "output.top"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -1 }, "cache.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, models.ErrConfiguration) {
				t.Errorf("Validate() = %v, want ConfigurationError", err)
			}
			var cfgErr *models.ConfigurationError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Errorf("Validate() field = %v, want %s", cfgErr, tt.field)
			}
		})
	}
}

func TestDropUnconfiguredFuzzy(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.DropUnconfiguredFuzzy() {
		t.Error("DropUnconfiguredFuzzy() = false, want true without thresholds")
	}
	if len(cfg.Ranking.Methods) != 2 {
		t.Errorf("Ranking.Methods = %v, want [waspas vikor]", cfg.Ranking.Methods)
	}

	cfg = ExampleConfig()
	if cfg.DropUnconfiguredFuzzy() {
		t.Error("DropUnconfiguredFuzzy() = true, want false with thresholds")
	}
	if len(cfg.Ranking.Methods) != 3 {
		t.Errorf("Ranking.Methods = %v, want all three", cfg.Ranking.Methods)
	}
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	cfg, path := LoadOrDefault()
	if cfg == nil {
		t.Fatal("LoadOrDefault() returned nil")
	}
	if path != "" {
		t.Errorf("LoadOrDefault() path = %q, want none", path)
	}
	if cfg.Ranking.Lambda != 0.5 {
		t.Errorf("Ranking.Lambda = %f, want default 0.5", cfg.Ranking.Lambda)
	}
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	if err := os.MkdirAll(filepath.Join(tmpDir, ".qosrank"), 0755); err != nil {
		t.Fatal(err)
	}
	content := "[ranking]\nv = 0.9\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".qosrank", "qosrank.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	cfg, path := LoadOrDefault()
	if cfg.Ranking.V != 0.9 {
		t.Errorf("Ranking.V = %f, want 0.9", cfg.Ranking.V)
	}
	if path != filepath.Join(".qosrank", "qosrank.toml") {
		t.Errorf("LoadOrDefault() path = %q", path)
	}
}
