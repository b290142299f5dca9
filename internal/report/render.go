package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"time"

	"github.com/panbanda/qosrank/pkg/models"
	"github.com/panbanda/qosrank/pkg/report"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed template.html
var templateFS embed.FS

// RenderData contains all data needed to render the report.
type RenderData struct {
	Metadata  Metadata
	Report    *report.Report
	Methods   []MethodColumn
	Criteria  []CriterionView
	Rows      []RowView
	Leaders   []Leader
	Summary   []report.MethodSummary
	Agreement []AgreementView
	Warnings  []string
	Chart     ChartSeries
}

// Renderer handles HTML report generation.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a new renderer with the embedded template.
func NewRenderer() (*Renderer, error) {
	printer := message.NewPrinter(language.English)
	funcMap := template.FuncMap{
		"limit": func(rows []RowView, n int) []RowView {
			if n > 0 && len(rows) > n {
				return rows[:n]
			}
			return rows
		},
		"lower": strings.ToLower,
		"title": cases.Title(language.English).String,
		"fixed": func(v float64) string {
			return fmt.Sprintf("%.4f", v)
		},
		"percent": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		},
		"json": func(v interface{}) template.JS {
			b, _ := json.Marshal(v)
			return template.JS(b)
		},
		"num": func(n interface{}) string {
			switch v := n.(type) {
			case int:
				return printer.Sprintf("%d", v)
			case int64:
				return printer.Sprintf("%d", v)
			case float64:
				return printer.Sprintf("%.2f", v)
			default:
				return "0"
			}
		},
	}

	tmplContent, err := templateFS.ReadFile("template.html")
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return nil, err
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the HTML page for rep.
func (r *Renderer) Render(rep *report.Report, meta Metadata, w io.Writer) error {
	return r.tmpl.Execute(w, NewRenderData(rep, meta))
}

// RenderToFile writes the HTML page for rep to outputPath.
func (r *Renderer) RenderToFile(rep *report.Report, meta Metadata, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return r.Render(rep, meta, f)
}

// LoadReport reads a ranking report written by `qosrank rank -f json`.
func LoadReport(path string) (*report.Report, error) {
	var rep report.Report
	if err := loadJSON(path, &rep); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if len(rep.Methods) == 0 || len(rep.Rows) == 0 {
		return nil, fmt.Errorf("loading %s: not a ranking report", path)
	}
	return &rep, nil
}

// NewRenderData flattens rep into the views the template iterates over.
func NewRenderData(rep *report.Report, meta Metadata) *RenderData {
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}
	data := &RenderData{
		Metadata: meta,
		Report:   rep,
		Summary:  rep.Summary,
		Chart:    ChartSeries{Series: make(map[string][]float64, len(rep.Methods))},
	}

	for _, m := range rep.Methods {
		data.Methods = append(data.Methods, MethodColumn{Key: string(m), Title: m.Title()})
	}
	for _, c := range rep.Criteria {
		w := rep.Weights[c.Name]
		data.Criteria = append(data.Criteria, CriterionView{
			Name:     c.Name,
			Polarity: string(c.Polarity),
			Weight:   w,
			Percent:  w * 100,
		})
	}

	// Ranks run 1..n, but ties can leave the worst rank below Total.
	worst := make(map[models.Method]int, len(rep.Methods))
	for i := range rep.Rows {
		for _, m := range rep.Methods {
			if s, ok := rep.Rows[i].Score(m); ok && s.Rank > worst[m] {
				worst[m] = s.Rank
			}
		}
	}

	for i := range rep.Rows {
		row := &rep.Rows[i]
		view := RowView{ID: row.ID}
		for _, c := range rep.Criteria {
			view.Values = append(view.Values, row.Values[c.Name])
		}
		for _, m := range rep.Methods {
			s, _ := row.Score(m)
			view.Cells = append(view.Cells, Cell{Score: s.Score, Rank: s.Rank, Class: rankClass(s.Rank, worst[m])})
			data.Chart.Series[string(m)] = append(data.Chart.Series[string(m)], s.Score)
			if s.Rank == 1 {
				data.Leaders = append(data.Leaders, Leader{Method: m.Title(), ID: row.ID, Score: s.Score})
			}
		}
		data.Chart.Labels = append(data.Chart.Labels, row.ID)
		data.Rows = append(data.Rows, view)
	}

	for _, a := range rep.Agreement {
		data.Agreement = append(data.Agreement, AgreementView{
			Pair:  a.A.Title() + " / " + a.B.Title(),
			Rho:   a.Rho,
			Class: agreementClass(a.Rho),
		})
	}
	for _, w := range rep.Warnings {
		data.Warnings = append(data.Warnings, w.String())
	}
	return data
}

func rankClass(rank, worst int) string {
	switch {
	case rank == 1:
		return "good"
	case worst > 1 && rank == worst:
		return "danger"
	case rank*3 <= worst:
		return "warning"
	default:
		return ""
	}
}

func agreementClass(rho float64) string {
	if rho >= 0.8 {
		return "good"
	}
	if rho >= 0.5 {
		return "warning"
	}
	return "danger"
}

func loadJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(v)
}
