package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/panbanda/qosrank/internal/testutil"
	"github.com/panbanda/qosrank/pkg/engine"
	"github.com/panbanda/qosrank/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(t *testing.T) *engine.Result {
	t.Helper()
	res, err := engine.New().Run(context.Background(), testutil.QWSSample(t))
	require.NoError(t, err)
	return res
}

func TestRankingReport_Text(t *testing.T) {
	res := sampleRun(t)
	rep, err := res.Report.SortBy(models.MethodWASPAS)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RankingReport(rep.Top(3)).RenderText(&buf, false))

	out := buf.String()
	for _, want := range []string{
		"QoS Ranking (by WASPAS)",
		"Rankings",
		"WASPAS SCORE",
		"VIKOR RANK",
		"Weights",
		"Score Summary",
		"Method Agreement",
		"showing 3 of 5",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRankingReport_CSV(t *testing.T) {
	res := sampleRun(t)

	var buf bytes.Buffer
	f := NewWriterFormatter(FormatCSV, &buf, false)
	require.NoError(t, f.Output(RankingReport(res.Report)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, res.Report.Header(), records[0])
	assert.Equal(t, "waspas_score", records[0][len(testutil.QWSCriteria)+1])
	assert.Equal(t, "s0", records[1][0])
}

func TestRankingReport_JSON(t *testing.T) {
	res := sampleRun(t)

	var buf bytes.Buffer
	f := NewWriterFormatter(FormatJSON, &buf, false)
	require.NoError(t, f.Output(RankingReport(res.Report)))

	var decoded struct {
		Methods []string `json:"methods"`
		Total   int      `json:"total"`
		Rows    []struct {
			ID     string `json:"id"`
			WASPAS *struct {
				Rank int `json:"rank"`
			} `json:"waspas"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"waspas", "vikor"}, decoded.Methods)
	assert.Equal(t, 5, decoded.Total)
	require.Len(t, decoded.Rows, 5)
	require.NotNil(t, decoded.Rows[0].WASPAS)
	assert.GreaterOrEqual(t, decoded.Rows[0].WASPAS.Rank, 1)
}

func TestRankingReport_Markdown(t *testing.T) {
	res := sampleRun(t)

	var buf bytes.Buffer
	require.NoError(t, RankingReport(res.Report).RenderMarkdown(&buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# QoS Ranking\n"))
	assert.Contains(t, out, "| ID | Response Time |")
	assert.Contains(t, out, "## Score Summary")
}

func TestRankingReport_Warnings(t *testing.T) {
	m := testutil.Matrix(t, []string{"Availability", "Latency"},
		[]float64{90, 5},
		[]float64{80, 5},
	)
	res, err := engine.New().Run(context.Background(), m)
	require.NoError(t, err)
	require.NotEmpty(t, res.Report.Warnings)

	var buf bytes.Buffer
	require.NoError(t, RankingReport(res.Report).RenderText(&buf, false))
	assert.Contains(t, buf.String(), "Warnings (")
	assert.Contains(t, buf.String(), "Latency")
}

func TestWeightsReport(t *testing.T) {
	e := engine.New()
	p, err := e.Prepare(context.Background(), testutil.QWSSample(t))
	require.NoError(t, err)

	data := NewWeightsData(5, p.Criteria, p.Weights)
	require.Len(t, data.Criteria, len(testutil.QWSCriteria))
	assert.Equal(t, models.Cost, data.Criteria[0].Polarity)
	require.NotNil(t, data.Criteria[0].Entropy)

	sum := 0.0
	for _, c := range data.Criteria {
		sum += c.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	var buf bytes.Buffer
	require.NoError(t, WeightsReport(data).RenderText(&buf, false))
	out := buf.String()
	assert.Contains(t, out, "Entropy Weights (5 alternatives)")
	assert.Contains(t, out, "DIVERSIFICATION")
	assert.Contains(t, out, "Response Time")

	buf.Reset()
	require.NoError(t, WeightsReport(data).RenderCSV(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "Criterion,Polarity,Entropy,Diversification,Weight\n"))
}
