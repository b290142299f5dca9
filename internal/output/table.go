package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table is a titled grid of pre-formatted cells. Data, when set, replaces
// the cells in JSON and TOON output.
type Table struct {
	Title   string     `json:"-"`
	Headers []string   `json:"-"`
	Rows    [][]string `json:"-"`
	Footer  []string   `json:"-"`
	Data    any        `json:"data,omitempty"`

	right []bool
}

// NewTable creates a table that wraps structured data for serialization.
func NewTable(title string, headers []string, rows [][]string, footer []string, data any) *Table {
	return &Table{Title: title, Headers: headers, Rows: rows, Footer: footer, Data: data}
}

// RightAlign marks columns holding numbers.
func (t *Table) RightAlign(cols ...int) *Table {
	if t.right == nil {
		t.right = make([]bool, len(t.Headers))
	}
	for _, c := range cols {
		if c >= 0 && c < len(t.right) {
			t.right[c] = true
		}
	}
	return t
}

// RightAlignFrom marks every column from first onward.
func (t *Table) RightAlignFrom(first int) *Table {
	for c := first; c < len(t.Headers); c++ {
		t.RightAlign(c)
	}
	return t
}

func (t *Table) isRight(c int) bool {
	return c < len(t.right) && t.right[c]
}

func (t *Table) RenderData() any {
	if t.Data != nil {
		return t.Data
	}
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for c, h := range t.Headers {
			if c < len(row) {
				rec[h] = row[c]
			}
		}
		records = append(records, rec)
	}
	return records
}

func (t *Table) columnAligns() []tw.Align {
	aligns := make([]tw.Align, len(t.Headers))
	for c := range aligns {
		aligns[c] = tw.AlignLeft
		if t.isRight(c) {
			aligns[c] = tw.AlignRight
		}
	}
	return aligns
}

func (t *Table) RenderText(w io.Writer, colored bool) error {
	heading(w, t.Title, "=", colored, color.Bold)

	aligns := t.columnAligns()
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft, PerColumn: aligns},
			},
			Footer: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)

	table.Header(t.Headers)
	if err := table.Bulk(t.Rows); err != nil {
		return err
	}
	if len(t.Footer) > 0 {
		cells := make([]any, len(t.Footer))
		for i, cell := range t.Footer {
			cells[i] = cell
		}
		table.Footer(cells...)
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func (t *Table) RenderMarkdown(w io.Writer) error {
	if t.Title != "" {
		fmt.Fprintf(w, "## %s\n\n", t.Title)
	}

	rule := make([]string, len(t.Headers))
	for c := range rule {
		rule[c] = "---"
		if t.isRight(c) {
			rule[c] = "---:"
		}
	}

	markdownRow(w, t.Headers)
	markdownRow(w, rule)
	for _, row := range t.Rows {
		markdownRow(w, row)
	}
	if len(t.Footer) > 0 {
		markdownRow(w, t.Footer)
	}
	_, err := fmt.Fprintln(w)
	return err
}

var markdownCell = strings.NewReplacer("|", `\|`, "\n", " ")

func markdownRow(w io.Writer, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = markdownCell.Replace(c)
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(escaped, " | "))
}

// RenderCSV writes the header and rows only.
func (t *Table) RenderCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// Section is a block of free text with optional nested sections.
type Section struct {
	Title    string    `json:"title,omitempty"`
	Content  string    `json:"content,omitempty"`
	Sections []Section `json:"sections,omitempty"`
	Data     any       `json:"data,omitempty"`
}

func (s *Section) RenderData() any {
	if s.Data != nil {
		return s.Data
	}
	return s
}

func (s *Section) RenderText(w io.Writer, colored bool) error {
	s.writeText(w, colored, "=")
	return nil
}

func (s *Section) writeText(w io.Writer, colored bool, underline string) {
	if s.Title != "" {
		if colored {
			color.New(color.Bold).Fprintln(w, s.Title)
		} else {
			fmt.Fprintln(w, s.Title)
		}
		fmt.Fprintln(w, strings.Repeat(underline, len(s.Title)))
	}
	if s.Content != "" {
		fmt.Fprintln(w, s.Content)
	}
	for _, sub := range s.Sections {
		fmt.Fprintln(w)
		sub.writeText(w, colored, "-")
	}
}

func (s *Section) RenderMarkdown(w io.Writer) error {
	s.writeMarkdown(w, 2)
	return nil
}

func (s *Section) writeMarkdown(w io.Writer, depth int) {
	if s.Title != "" {
		fmt.Fprintf(w, "%s %s\n\n", strings.Repeat("#", depth), s.Title)
	}
	if s.Content != "" {
		fmt.Fprintf(w, "%s\n\n", s.Content)
	}
	for _, sub := range s.Sections {
		sub.writeMarkdown(w, depth+1)
	}
}

// Report groups tables and sections under one title.
type Report struct {
	Title    string       `json:"title,omitempty"`
	Sections []Renderable `json:"-"`
	Data     any          `json:"data,omitempty"`
}

func (r *Report) RenderData() any {
	if r.Data != nil {
		return r.Data
	}
	parts := make([]any, 0, len(r.Sections))
	for _, s := range r.Sections {
		parts = append(parts, s.RenderData())
	}
	return map[string]any{"title": r.Title, "sections": parts}
}

func (r *Report) RenderText(w io.Writer, colored bool) error {
	heading(w, r.Title, "=", colored, color.Bold, color.FgCyan)
	for i, s := range r.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := s.RenderText(w, colored); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) RenderMarkdown(w io.Writer) error {
	if r.Title != "" {
		fmt.Fprintf(w, "# %s\n\n", r.Title)
	}
	for _, s := range r.Sections {
		if err := s.RenderMarkdown(w); err != nil {
			return err
		}
	}
	return nil
}

// RenderCSV writes the first tabular section.
func (r *Report) RenderCSV(w io.Writer) error {
	for _, s := range r.Sections {
		if c, ok := s.(CSVRenderable); ok {
			return c.RenderCSV(w)
		}
	}
	return fmt.Errorf("report %q has no tabular section", r.Title)
}

// heading prints an underlined title followed by a blank line.
func heading(w io.Writer, title, underline string, colored bool, attrs ...color.Attribute) {
	if title == "" {
		return
	}
	if colored {
		color.New(attrs...).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintf(w, "%s\n\n", strings.Repeat(underline, len(title)))
}
