package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qwsRows() []Row {
	return []Row{
		{ID: "MAPPMatching", Values: map[string]float64{"Response Time": 302.75, "Availability": 89}, Attributes: map[string]string{"WSDL Address": "http://a"}},
		{ID: "Compound2", Values: map[string]float64{"Response Time": 482, "Availability": 85}, Attributes: map[string]string{"WSDL Address": "http://b"}},
		{ID: "USDAData", Values: map[string]float64{"Response Time": 3321.4, "Availability": 89}},
	}
}

func TestNewDecisionMatrix(t *testing.T) {
	m, err := NewDecisionMatrix(Schema{Criteria: []string{"Response Time", "Availability"}}, qwsRows())
	require.NoError(t, err)

	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.Equal(t, []string{"MAPPMatching", "Compound2", "USDAData"}, m.IDs())
	assert.Equal(t, 482.0, m.At(1, 0))
	assert.Equal(t, []float64{89, 85, 89}, m.Column(1))
	assert.Equal(t, []float64{3321.4, 89}, m.Row(2))

	j, ok := m.Index("Availability")
	assert.True(t, ok)
	assert.Equal(t, 1, j)

	assert.Equal(t, []string{"WSDL Address"}, m.AttributeNames())
	assert.Equal(t, "http://b", m.Attributes(1)["WSDL Address"])
	assert.Equal(t, "", m.Attributes(2)["WSDL Address"])
}

func TestNewDecisionMatrix_DefaultCriteriaOrder(t *testing.T) {
	m, err := NewDecisionMatrix(Schema{}, qwsRows())
	require.NoError(t, err)
	assert.Equal(t, []string{"Availability", "Response Time"}, m.Criteria())
}

func TestNewDecisionMatrix_Errors(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		rows    []Row
		wantErr error
	}{
		{
			name:    "empty matrix",
			rows:    nil,
			wantErr: ErrConfiguration,
		},
		{
			name:    "no criteria",
			schema:  Schema{Criteria: []string{}},
			rows:    []Row{{ID: "a", Values: map[string]float64{}}},
			wantErr: ErrConfiguration,
		},
		{
			name:    "missing cell",
			schema:  Schema{Criteria: []string{"x", "y"}},
			rows:    []Row{{ID: "a", Values: map[string]float64{"x": 1}}},
			wantErr: ErrDataShape,
		},
		{
			name:    "undeclared criterion",
			schema:  Schema{Criteria: []string{"x"}},
			rows:    []Row{{ID: "a", Values: map[string]float64{"x": 1, "z": 2}}},
			wantErr: ErrDataShape,
		},
		{
			name:    "negative value",
			schema:  Schema{Criteria: []string{"x", "y"}},
			rows:    []Row{{ID: "a", Values: map[string]float64{"x": -2, "y": 1}}, {ID: "b", Values: map[string]float64{"x": 4, "y": 10}}},
			wantErr: ErrDataShape,
		},
		{
			name:    "non-finite value",
			schema:  Schema{Criteria: []string{"x"}},
			rows:    []Row{{ID: "a", Values: map[string]float64{"x": math.NaN()}}},
			wantErr: ErrDataShape,
		},
		{
			name:   "duplicate id",
			schema: Schema{Criteria: []string{"x"}},
			rows: []Row{
				{ID: "a", Values: map[string]float64{"x": 1}},
				{ID: "a", Values: map[string]float64{"x": 2}},
			},
			wantErr: ErrDataShape,
		},
		{
			name:    "empty id",
			schema:  Schema{Criteria: []string{"x"}},
			rows:    []Row{{Values: map[string]float64{"x": 1}}},
			wantErr: ErrDataShape,
		},
		{
			name:    "duplicate criterion",
			schema:  Schema{Criteria: []string{"x", "x"}},
			rows:    []Row{{ID: "a", Values: map[string]float64{"x": 1}}},
			wantErr: ErrDataShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecisionMatrix(tt.schema, tt.rows)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestDecisionMatrix_CopiesAreIndependent(t *testing.T) {
	m, err := NewDecisionMatrix(Schema{Criteria: []string{"x"}}, []Row{
		{ID: "a", Values: map[string]float64{"x": 1}},
	})
	require.NoError(t, err)

	col := m.Column(0)
	col[0] = 99
	ids := m.IDs()
	ids[0] = "mutated"
	d := m.Dense()
	d.Set(0, 0, 42)

	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, "a", m.ID(0))
}

func TestDecisionMatrix_Fingerprint(t *testing.T) {
	schema := Schema{Criteria: []string{"Response Time", "Availability"}}
	a, err := NewDecisionMatrix(schema, qwsRows())
	require.NoError(t, err)
	b, err := NewDecisionMatrix(schema, qwsRows())
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	rows := qwsRows()
	rows[0].Values["Availability"] = 90
	c, err := NewDecisionMatrix(schema, rows)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestDataShapeError_Message(t *testing.T) {
	assert.Equal(t, `data shape error: row 2, column "x": missing value`, NewDataShapeError(2, "x", "missing value").Error())
	assert.Equal(t, `data shape error: column "x": bad`, NewDataShapeError(-1, "x", "bad").Error())
	assert.Equal(t, "configuration error: lambda: must be within [0,1]", NewConfigurationError("lambda", "must be within [0,1]").Error())
}
