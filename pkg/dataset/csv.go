package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/panbanda/qosrank/pkg/models"
)

// ReadCSV parses a header row followed by one row per alternative.
//
// Columns with a blank or "Unnamed..." header are dropped. A column is a
// criterion when every non-blank cell is a finite number and at least one
// cell is set; other columns, the id column and excluded columns become
// attributes.
func (l *Loader) ReadCSV(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, models.NewConfigurationError("input", "dataset is empty")
	}

	header, keep := columns(records[0])
	body := records[1:]
	stats := Stats{Read: len(body)}

	idCol := -1
	for _, c := range keep {
		if strings.EqualFold(header[c], strings.TrimSpace(l.idColumn)) {
			idCol = c
			break
		}
	}

	var numeric, attrs []int
	for _, c := range keep {
		switch {
		case c == idCol:
		case !l.excluded(header[c]) && isNumericColumn(body, c):
			numeric = append(numeric, c)
		default:
			attrs = append(attrs, c)
		}
	}
	if len(numeric) == 0 {
		return nil, models.NewConfigurationError("criteria", "dataset has no numeric columns")
	}

	schema := models.Schema{}
	for _, c := range numeric {
		schema.Criteria = append(schema.Criteria, header[c])
	}
	for _, c := range attrs {
		schema.Attributes = append(schema.Attributes, header[c])
	}

	rows := make([]models.Row, 0, len(body))
	seen := make(map[string]bool, len(body))
	for n, rec := range body {
		if blank(rec) {
			stats.Read--
			continue
		}

		row := models.Row{Values: make(map[string]float64, len(numeric))}
		complete := true
		for _, c := range numeric {
			v, ok := parseCell(cell(rec, c))
			if !ok {
				if !l.dropIncomplete {
					return nil, models.NewDataShapeError(n, header[c], "missing or non-numeric value %q", cell(rec, c))
				}
				complete = false
				break
			}
			row.Values[header[c]] = v
		}
		if !complete {
			stats.Incomplete++
			continue
		}

		if l.dropDuplicates {
			key := recordKey(rec, keep)
			if seen[key] {
				stats.Duplicates++
				continue
			}
			seen[key] = true
		}

		if idCol >= 0 {
			row.ID = strings.TrimSpace(cell(rec, idCol))
		} else {
			row.ID = fmt.Sprintf("row-%d", n+1)
		}
		if len(attrs) > 0 {
			row.Attributes = make(map[string]string, len(attrs))
			for _, c := range attrs {
				row.Attributes[header[c]] = strings.TrimSpace(cell(rec, c))
			}
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

// columns trims the header and returns the indexes of kept columns.
func columns(raw []string) ([]string, []int) {
	header := make([]string, len(raw))
	var keep []int
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		header[i] = h
		if h == "" || strings.HasPrefix(h, "Unnamed") {
			continue
		}
		keep = append(keep, i)
	}
	return header, keep
}

func isNumericColumn(body [][]string, c int) bool {
	set := false
	for _, rec := range body {
		s := strings.TrimSpace(cell(rec, c))
		if isMissing(s) {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return false
		}
		set = true
	}
	return set
}

func parseCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "n/a", "nan", "null", "none":
		return true
	}
	return false
}

func cell(rec []string, c int) string {
	if c < len(rec) {
		return rec[c]
	}
	return ""
}

func blank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

func recordKey(rec []string, keep []int) string {
	var b strings.Builder
	for _, c := range keep {
		b.WriteString(strings.TrimSpace(cell(rec, c)))
		b.WriteByte(0)
	}
	return b.String()
}
