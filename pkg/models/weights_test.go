package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformWeights(t *testing.T) {
	w := UniformWeights([]string{"a", "b", "c", "d"})
	assert.Equal(t, 4, w.Len())
	assert.InDelta(t, 0.25, w.At(2), 1e-12)
	assert.True(t, w.Normalized())
}

func TestNewWeightVector(t *testing.T) {
	w, err := NewWeightVector([]string{"a", "b"}, []float64{0.3, 0.7})
	require.NoError(t, err)

	got, ok := w.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 0.7, got)
	_, ok = w.Get("missing")
	assert.False(t, ok)

	_, err = NewWeightVector([]string{"a"}, []float64{0.5, 0.5})
	assert.Error(t, err)
	_, err = NewWeightVector([]string{"a"}, []float64{-0.1})
	assert.Error(t, err)
}

func TestWeightVector_MarshalJSON(t *testing.T) {
	w, err := NewWeightVector([]string{"Latency", "Availability"}, []float64{0.4, 0.6})
	require.NoError(t, err)

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Latency":0.4,"Availability":0.6}`, string(data))
}

func TestParsePolarity(t *testing.T) {
	tests := []struct {
		input   string
		want    Polarity
		wantErr bool
	}{
		{"benefit", Benefit, false},
		{"COST", Cost, false},
		{" max ", Benefit, false},
		{"min", Cost, false},
		{"neutral", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePolarity(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("Fuzzy-TOPSIS")
	require.NoError(t, err)
	assert.Equal(t, MethodFuzzyTOPSIS, m)
	assert.Equal(t, "Fuzzy TOPSIS", m.Title())

	_, err = ParseMethod("ahp")
	assert.Error(t, err)
}
