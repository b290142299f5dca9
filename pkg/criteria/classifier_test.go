package criteria

import (
	"errors"
	"testing"

	"github.com/panbanda/qosrank/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var qwsCriteria = []string{
	"Response Time", "Availability", "Throughput", "Successability",
	"Reliability", "Compliance", "Best Practices", "Latency", "Documentation",
}

func TestClassify_Defaults(t *testing.T) {
	got, err := New().Classify(qwsCriteria)
	require.NoError(t, err)

	want := models.Polarities{
		models.Cost, models.Benefit, models.Benefit, models.Benefit,
		models.Benefit, models.Benefit, models.Benefit, models.Cost, models.Benefit,
	}
	assert.Equal(t, want, got)
}

func TestClassify_UnitSuffix(t *testing.T) {
	got, err := New().Classify([]string{"Response Time (ms)", "Throughput (KB/s)", " LATENCY "})
	require.NoError(t, err)
	assert.Equal(t, models.Polarities{models.Cost, models.Benefit, models.Cost}, got)
}

func TestClassify_OverridesTakePrecedence(t *testing.T) {
	c := New(WithOverrides(map[string]models.Polarity{
		"Latency":    models.Benefit,
		"compliance": models.Cost,
	}))

	got, err := c.Classify(qwsCriteria)
	require.NoError(t, err)

	assert.Equal(t, models.Benefit, got[7], "explicit override beats name inference")
	assert.Equal(t, models.Cost, got[5], "canonical key matches")
	assert.Equal(t, models.Cost, got[0])
}

func TestClassify_CustomCostNames(t *testing.T) {
	got, err := New(WithCostNames("Price")).Classify([]string{"price", "Latency"})
	require.NoError(t, err)
	assert.Equal(t, models.Polarities{models.Cost, models.Benefit}, got)
}

func TestClassify_UnknownOverride(t *testing.T) {
	c := New(WithOverrides(map[string]models.Polarity{"Jitter": models.Cost}))
	_, err := c.Classify(qwsCriteria)
	require.Error(t, err)

	var cfgErr *models.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "criteria.polarity", cfgErr.Field)
	assert.Contains(t, cfgErr.Reason, "Jitter")
}

func TestClassify_InvalidOverridePolarity(t *testing.T) {
	c := New(WithOverrides(map[string]models.Polarity{"Latency": "sideways"}))
	_, err := c.Classify(qwsCriteria)
	assert.ErrorIs(t, err, models.ErrConfiguration)
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Response Time", "response time"},
		{"Response Time (ms)", "response time"},
		{"  Latency  ", "latency"},
		{"(weird)", "(weird)"},
		{"Best Practices", "best practices"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in))
		})
	}
}
