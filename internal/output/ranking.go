package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/panbanda/qosrank/pkg/models"
	"github.com/panbanda/qosrank/pkg/report"
	"github.com/panbanda/qosrank/pkg/weights"
)

// RankingReport renders a ranking report: the ranked rows, the criterion
// weights, per-method score summaries, method agreement and any warnings.
// JSON and TOON output carry the full report; CSV output carries one flat
// record per row at full precision.
func RankingReport(rep *report.Report) *Report {
	title := "QoS Ranking"
	if rep.SortedBy != "" {
		title = fmt.Sprintf("QoS Ranking (by %s)", rep.SortedBy.Title())
	}

	sections := []Renderable{
		&rankingTable{rep: rep},
		weightsTable(rep.Criteria, rep.Weights, nil),
		summaryTable(rep),
	}
	if len(rep.Agreement) > 0 {
		sections = append(sections, agreementTable(rep.Agreement))
	}
	if len(rep.Warnings) > 0 {
		sections = append(sections, WarningsSection(rep.Warnings))
	}

	return &Report{
		Title:    title,
		Sections: sections,
		Data:     rep,
	}
}

// rankingTable builds its rows at render time so rank cells can be colored.
type rankingTable struct {
	rep *report.Report
}

func (t *rankingTable) table(colored bool) *Table {
	rep := t.rep
	headers := []string{"ID"}
	for _, c := range rep.Criteria {
		headers = append(headers, c.Name)
	}
	for _, m := range rep.Methods {
		headers = append(headers, m.Title()+" Score", m.Title()+" Rank")
	}

	worst := make(map[models.Method]int, len(rep.Methods))
	for _, row := range rep.Rows {
		for _, m := range rep.Methods {
			if s, ok := row.Score(m); ok && s.Rank > worst[m] {
				worst[m] = s.Rank
			}
		}
	}

	rows := make([][]string, len(rep.Rows))
	for i := range rep.Rows {
		row := &rep.Rows[i]
		cells := []string{row.ID}
		for _, c := range rep.Criteria {
			cells = append(cells, report.FormatFloat(row.Values[c.Name]))
		}
		for _, m := range rep.Methods {
			s, _ := row.Score(m)
			rank := strconv.Itoa(s.Rank)
			if colored {
				rank = RankColor(s.Rank, worst[m], rank)
			}
			cells = append(cells, fmt.Sprintf("%.4f", s.Score), rank)
		}
		rows[i] = cells
	}

	var footer []string
	if len(rep.Rows) < rep.Total {
		footer = make([]string, len(headers))
		footer[0] = fmt.Sprintf("showing %d of %d", len(rep.Rows), rep.Total)
	}
	return NewTable("Rankings", headers, rows, footer, nil).RightAlignFrom(1)
}

func (t *rankingTable) RenderText(w io.Writer, colored bool) error {
	return t.table(colored).RenderText(w, colored)
}

func (t *rankingTable) RenderMarkdown(w io.Writer) error {
	return t.table(false).RenderMarkdown(w)
}

func (t *rankingTable) RenderData() any {
	return t.rep
}

func (t *rankingTable) RenderCSV(w io.Writer) error {
	return NewTable("", t.rep.Header(), t.rep.Records(), nil, nil).RenderCSV(w)
}

// CriterionWeight is one row of the weights view.
type CriterionWeight struct {
	Name            string          `json:"name" toon:"name"`
	Polarity        models.Polarity `json:"polarity" toon:"polarity"`
	Entropy         *float64        `json:"entropy,omitempty" toon:"entropy"`
	Diversification *float64        `json:"diversification,omitempty" toon:"diversification"`
	Weight          float64         `json:"weight" toon:"weight"`
}

// WeightsData is the serializable form of an entropy weighting.
type WeightsData struct {
	Alternatives int               `json:"alternatives" toon:"alternatives"`
	Criteria     []CriterionWeight `json:"criteria" toon:"criteria"`
	Warnings     []models.Warning  `json:"warnings,omitempty" toon:"warnings"`
}

// NewWeightsData pairs criteria with their entropy weighting.
func NewWeightsData(alternatives int, crits []models.Criterion, res *weights.Result) WeightsData {
	out := WeightsData{Alternatives: alternatives, Warnings: res.Warnings}
	for j, c := range crits {
		w := CriterionWeight{Name: c.Name, Polarity: c.Polarity}
		if v, ok := res.Weights.Get(c.Name); ok {
			w.Weight = v
		}
		if j < len(res.Entropy) {
			e, d := res.Entropy[j], res.Diversification[j]
			w.Entropy, w.Diversification = &e, &d
		}
		out.Criteria = append(out.Criteria, w)
	}
	return out
}

// WeightsReport renders the entropy weighting of a dataset.
func WeightsReport(data WeightsData) *Report {
	weightMap := make(map[string]float64, len(data.Criteria))
	crits := make([]models.Criterion, len(data.Criteria))
	for j, c := range data.Criteria {
		weightMap[c.Name] = c.Weight
		crits[j] = models.Criterion{Name: c.Name, Index: j, Polarity: c.Polarity}
	}

	sections := []Renderable{weightsTable(crits, weightMap, data.Criteria)}
	if len(data.Warnings) > 0 {
		sections = append(sections, WarningsSection(data.Warnings))
	}
	return &Report{
		Title:    fmt.Sprintf("Entropy Weights (%d alternatives)", data.Alternatives),
		Sections: sections,
		Data:     data,
	}
}

// weightsTable lists criteria with their polarity and weight. Entropy
// columns are added when detail is given.
func weightsTable(crits []models.Criterion, weightMap map[string]float64, detail []CriterionWeight) *Table {
	headers := []string{"Criterion", "Polarity", "Weight"}
	if detail != nil {
		headers = []string{"Criterion", "Polarity", "Entropy", "Diversification", "Weight"}
	}

	rows := make([][]string, len(crits))
	for j, c := range crits {
		weight := fmt.Sprintf("%.4f", weightMap[c.Name])
		if detail == nil {
			rows[j] = []string{c.Name, string(c.Polarity), weight}
			continue
		}
		entropy, div := "-", "-"
		if d := detail[j]; d.Entropy != nil {
			entropy = fmt.Sprintf("%.4f", *d.Entropy)
			div = fmt.Sprintf("%.4f", *d.Diversification)
		}
		rows[j] = []string{c.Name, string(c.Polarity), entropy, div, weight}
	}
	var data any
	if detail != nil {
		data = detail
	}
	return NewTable("Weights", headers, rows, nil, data).RightAlignFrom(2)
}

func summaryTable(rep *report.Report) *Table {
	headers := []string{"Method", "Min", "Max", "Mean", "Std Dev", "P50", "P90"}
	rows := make([][]string, len(rep.Summary))
	for i, s := range rep.Summary {
		rows[i] = []string{
			s.Method.Title(),
			fmt.Sprintf("%.4f", s.Min),
			fmt.Sprintf("%.4f", s.Max),
			fmt.Sprintf("%.4f", s.Mean),
			fmt.Sprintf("%.4f", s.StdDev),
			fmt.Sprintf("%.4f", s.P50),
			fmt.Sprintf("%.4f", s.P90),
		}
	}
	return NewTable("Score Summary", headers, rows, nil, rep.Summary).RightAlignFrom(1)
}

func agreementTable(agreement []report.Agreement) *Table {
	rows := make([][]string, len(agreement))
	for i, a := range agreement {
		rows[i] = []string{a.A.Title(), a.B.Title(), fmt.Sprintf("%.3f", a.Rho)}
	}
	return NewTable("Method Agreement", []string{"Method", "Compared With", "Rank Correlation"}, rows, nil, agreement).RightAlign(2)
}

// WarningsSection lists warnings one per line.
func WarningsSection(warnings []models.Warning) *Section {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = "- " + w.String()
	}
	return &Section{
		Title:   fmt.Sprintf("Warnings (%d)", len(warnings)),
		Content: strings.Join(lines, "\n"),
		Data:    warnings,
	}
}
