package models

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"
)

// Row is one alternative as produced by an ingestion layer: a stable id, a
// value per criterion and optional non-ranked attributes (e.g. WSDL address).
type Row struct {
	ID         string             `json:"id" yaml:"id"`
	Values     map[string]float64 `json:"values" yaml:"values"`
	Attributes map[string]string  `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Schema fixes the column order of a DecisionMatrix. A nil Criteria slice
// takes the sorted criterion names of the first row; a nil Attributes slice
// takes the sorted union of all attribute names.
type Schema struct {
	Criteria   []string
	Attributes []string
}

// DecisionMatrix is an immutable alternatives x criteria table. Criterion
// names are resolved to column indexes once, at construction.
type DecisionMatrix struct {
	ids       []string
	criteria  []string
	index     map[string]int
	attrNames []string
	attrs     [][]string
	data      *mat.Dense
}

// NewDecisionMatrix validates rows against schema and builds the matrix.
// It returns a ConfigurationError for an empty matrix and a DataShapeError
// when rows disagree with the declared criteria or carry non-finite or
// negative values. QoS measurements are non-negative, which keeps every
// normalized value in [0,1].
func NewDecisionMatrix(schema Schema, rows []Row) (*DecisionMatrix, error) {
	if len(rows) == 0 {
		return nil, NewConfigurationError("matrix", "decision matrix has no alternatives")
	}

	criteria := schema.Criteria
	if criteria == nil {
		criteria = sortedKeys(rows[0].Values)
	}
	if len(criteria) == 0 {
		return nil, NewConfigurationError("criteria", "decision matrix has no criteria")
	}

	index := make(map[string]int, len(criteria))
	for j, name := range criteria {
		if _, dup := index[name]; dup {
			return nil, NewDataShapeError(-1, name, "criterion declared twice")
		}
		index[name] = j
	}

	attrNames := schema.Attributes
	if attrNames == nil {
		attrNames = attributeUnion(rows)
	}

	n, k := len(rows), len(criteria)
	data := mat.NewDense(n, k, nil)
	ids := make([]string, n)
	attrs := make([][]string, n)
	seen := make(map[string]int, n)

	for i, row := range rows {
		if row.ID == "" {
			return nil, NewDataShapeError(i, "", "alternative id is empty")
		}
		if prev, dup := seen[row.ID]; dup {
			return nil, NewDataShapeError(i, "", "alternative id %q duplicates row %d", row.ID, prev)
		}
		seen[row.ID] = i
		ids[i] = row.ID

		if len(row.Values) != k {
			for name := range row.Values {
				if _, ok := index[name]; !ok {
					return nil, NewDataShapeError(i, name, "criterion not declared by the matrix")
				}
			}
		}
		for j, name := range criteria {
			v, ok := row.Values[name]
			if !ok {
				return nil, NewDataShapeError(i, name, "missing value")
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, NewDataShapeError(i, name, "non-finite value %v", v)
			}
			if v < 0 {
				return nil, NewDataShapeError(i, name, "negative value %v", v)
			}
			data.Set(i, j, v)
		}

		attrs[i] = make([]string, len(attrNames))
		for a, name := range attrNames {
			attrs[i][a] = row.Attributes[name]
		}
	}

	return &DecisionMatrix{
		ids:       ids,
		criteria:  append([]string(nil), criteria...),
		index:     index,
		attrNames: append([]string(nil), attrNames...),
		attrs:     attrs,
		data:      data,
	}, nil
}

// Rows returns the number of alternatives.
func (m *DecisionMatrix) Rows() int { return len(m.ids) }

// Cols returns the number of criteria.
func (m *DecisionMatrix) Cols() int { return len(m.criteria) }

// ID returns the identifier of alternative i.
func (m *DecisionMatrix) ID(i int) string { return m.ids[i] }

// IDs returns a copy of the alternative identifiers in input order.
func (m *DecisionMatrix) IDs() []string { return append([]string(nil), m.ids...) }

// Criterion returns the name of criterion j.
func (m *DecisionMatrix) Criterion(j int) string { return m.criteria[j] }

// Criteria returns a copy of the criterion names in column order.
func (m *DecisionMatrix) Criteria() []string { return append([]string(nil), m.criteria...) }

// Index returns the column of the named criterion.
func (m *DecisionMatrix) Index(name string) (int, bool) {
	j, ok := m.index[name]
	return j, ok
}

// At returns the raw value of alternative i on criterion j.
func (m *DecisionMatrix) At(i, j int) float64 { return m.data.At(i, j) }

// Column returns a copy of column j.
func (m *DecisionMatrix) Column(j int) []float64 {
	return mat.Col(nil, j, m.data)
}

// Row returns a copy of row i.
func (m *DecisionMatrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.data)
}

// Dense returns a copy of the raw values.
func (m *DecisionMatrix) Dense() *mat.Dense {
	return mat.DenseCopyOf(m.data)
}

// Values returns alternative i as a criterion -> value map.
func (m *DecisionMatrix) Values(i int) map[string]float64 {
	out := make(map[string]float64, len(m.criteria))
	for j, name := range m.criteria {
		out[name] = m.data.At(i, j)
	}
	return out
}

// AttributeNames returns the non-ranked attribute columns.
func (m *DecisionMatrix) AttributeNames() []string {
	return append([]string(nil), m.attrNames...)
}

// Attributes returns alternative i's non-ranked attributes.
func (m *DecisionMatrix) Attributes(i int) map[string]string {
	out := make(map[string]string, len(m.attrNames))
	for a, name := range m.attrNames {
		out[name] = m.attrs[i][a]
	}
	return out
}

// Fingerprint returns a content hash over ids, criteria and values. Two
// matrices with the same fingerprint rank identically under the same config.
func (m *DecisionMatrix) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, name := range m.criteria {
		_, _ = d.WriteString(name)
		_, _ = d.Write([]byte{0})
	}
	r, c := m.data.Dims()
	for i := 0; i < r; i++ {
		_, _ = d.WriteString(m.ids[i])
		_, _ = d.Write([]byte{0})
		for j := 0; j < c; j++ {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(m.data.At(i, j)))
			_, _ = d.Write(buf[:])
		}
	}
	return d.Sum64()
}

func sortedKeys(values map[string]float64) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func attributeUnion(rows []Row) []string {
	set := make(map[string]struct{})
	for _, r := range rows {
		for k := range r.Attributes {
			set[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
