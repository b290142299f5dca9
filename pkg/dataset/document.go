package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/panbanda/qosrank/pkg/models"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/panbanda/qosrank/dataset.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Document is the JSON/YAML dataset layout:
//
//	criteria: [Availability, Latency]   # optional column order
//	alternatives:
//	  - id: svc-a
//	    values: {Availability: 90, Latency: 120}
//	    attributes: {WSDL Address: http://...}
type Document struct {
	Criteria     []string      `json:"criteria,omitempty" yaml:"criteria,omitempty"`
	Alternatives []Alternative `json:"alternatives" yaml:"alternatives"`
}

// Alternative is one entry of a Document. A null value marks a missing
// measurement.
type Alternative struct {
	ID         string              `json:"id" yaml:"id"`
	Values     map[string]*float64 `json:"values" yaml:"values"`
	Attributes map[string]any      `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// ReadJSON parses a JSON Document.
func (l *Loader) ReadJSON(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if err := validate(inst); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return l.FromDocument(&doc)
}

// ReadYAML parses a YAML Document.
func (l *Loader) ReadYAML(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var inst any
	if err := yaml.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if err := validate(inst); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return l.FromDocument(&doc)
}

func validate(inst any) error {
	sch, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compiling dataset schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return models.NewDataShapeError(-1, "", "dataset does not match schema: %v", err)
	}
	return nil
}

// FromDocument converts a decoded Document without schema validation.
func (l *Loader) FromDocument(doc *Document) (*Result, error) {
	stats := Stats{Read: len(doc.Alternatives)}

	crits := doc.Criteria
	if len(crits) == 0 {
		crits = unionCriteria(doc.Alternatives)
	}
	var schema models.Schema
	for _, c := range crits {
		if !l.excluded(c) {
			schema.Criteria = append(schema.Criteria, c)
		}
	}
	if len(schema.Criteria) == 0 {
		return nil, models.NewConfigurationError("criteria", "dataset has no criteria")
	}

	rows := make([]models.Row, 0, len(doc.Alternatives))
	seen := make(map[string]bool, len(doc.Alternatives))
	for i, alt := range doc.Alternatives {
		row := models.Row{ID: alt.ID, Values: make(map[string]float64, len(schema.Criteria))}

		var missing string
		for _, c := range schema.Criteria {
			v, ok := alt.Values[c]
			if !ok || v == nil {
				missing = c
				break
			}
			row.Values[c] = *v
		}
		if missing != "" {
			if !l.dropIncomplete {
				return nil, models.NewDataShapeError(i, missing, "missing value")
			}
			stats.Incomplete++
			continue
		}

		for name, v := range alt.Values {
			if l.excluded(name) && v != nil {
				if row.Attributes == nil {
					row.Attributes = make(map[string]string)
				}
				row.Attributes[name] = FormatValue(*v)
			}
		}
		for name, v := range alt.Attributes {
			if row.Attributes == nil {
				row.Attributes = make(map[string]string, len(alt.Attributes))
			}
			if v != nil {
				row.Attributes[name] = fmt.Sprint(v)
			}
		}

		if l.dropDuplicates {
			key := rowKey(row)
			if seen[key] {
				stats.Duplicates++
				continue
			}
			seen[key] = true
		}
		rows = append(rows, row)
	}

	stats.Kept = len(rows)
	m, err := models.NewDecisionMatrix(schema, rows)
	if err != nil {
		return nil, err
	}
	return &Result{Matrix: m, Stats: stats}, nil
}

// unionCriteria returns every value name in first-seen order.
func unionCriteria(alts []Alternative) []string {
	seen := make(map[string]bool)
	var out []string
	for _, alt := range alts {
		names := make([]string, 0, len(alt.Values))
		for name := range alt.Values {
			if !seen[name] {
				names = append(names, name)
			}
		}
		// Map order is random; sort the names new to this alternative.
		sort.Strings(names)
		for _, name := range names {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// rowKey identifies a row by its full content, id included.
func rowKey(row models.Row) string {
	b, _ := json.Marshal(row)
	return string(b)
}

// FormatValue renders a number the way it is written in CSV output.
func FormatValue(v float64) string {
	return fmt.Sprintf("%g", v)
}
