package store

import (
	"strconv"
	"strings"
	"time"
)

// rawTable is a CSV table before typed decoding: a header plus string cells.
type rawTable struct {
	name    string
	columns []string
	rows    [][]string
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"01/02/2006 15:04",
	"01/02/2006",
}

// parseTime parses a cell using the accepted date layouts. Unparseable values
// yield the zero time so bad dates degrade instead of aborting a load.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// normalizeColumn rewrites a header cell to snake_case: trimmed, lowered,
// spaces and dashes replaced with underscores.
func normalizeColumn(col string) string {
	col = strings.ToLower(strings.TrimSpace(col))
	col = strings.ReplaceAll(col, " ", "_")
	col = strings.ReplaceAll(col, "-", "_")
	return col
}

// clean runs the preprocessing pass on a raw table:
//  1. normalize column names
//  2. mean-impute missing numeric values (ID columns excluded)
//  3. drop rows with missing text values
//  4. drop exact duplicate rows
func (t *rawTable) clean() {
	for i, col := range t.columns {
		t.columns[i] = normalizeColumn(col)
	}
	t.imputeNumericMeans()
	t.dropRowsMissingText()
	t.dropDuplicateRows()
}

// columnKind classifies a column from its name and values.
type columnKind int

const (
	kindID columnKind = iota
	kindNumeric
	kindDate
	kindText
)

var dateKeywords = []string{"date", "time", "dt", "timestamp", "datetime", "month"}

func (t *rawTable) kindOf(colIdx int) columnKind {
	name := t.columns[colIdx]
	if name == "id" || strings.HasSuffix(name, "_id") {
		return kindID
	}
	for _, kw := range dateKeywords {
		if strings.Contains(name, kw) {
			return kindDate
		}
	}
	numeric := false
	for _, row := range t.rows {
		cell := strings.TrimSpace(row[colIdx])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return kindText
		}
		numeric = true
	}
	if numeric {
		return kindNumeric
	}
	return kindText
}

// imputeNumericMeans fills empty cells of numeric columns with the column
// mean, computed over the present values. ID and date columns are skipped.
func (t *rawTable) imputeNumericMeans() {
	for c := range t.columns {
		if t.kindOf(c) != kindNumeric {
			continue
		}
		var sum float64
		var n int
		for _, row := range t.rows {
			cell := strings.TrimSpace(row[c])
			if cell == "" {
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				sum += v
				n++
			}
		}
		if n == 0 {
			continue
		}
		mean := strconv.FormatFloat(sum/float64(n), 'f', -1, 64)
		for _, row := range t.rows {
			if strings.TrimSpace(row[c]) == "" {
				row[c] = mean
			}
		}
	}
}

// dropRowsMissingText removes rows that have an empty cell in a text column.
func (t *rawTable) dropRowsMissingText() {
	textCols := make([]int, 0, len(t.columns))
	for c := range t.columns {
		if t.kindOf(c) == kindText {
			textCols = append(textCols, c)
		}
	}
	if len(textCols) == 0 {
		return
	}
	kept := t.rows[:0]
	for _, row := range t.rows {
		ok := true
		for _, c := range textCols {
			if strings.TrimSpace(row[c]) == "" {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, row)
		}
	}
	t.rows = kept
}

// dropDuplicateRows removes rows whose cells exactly match an earlier row.
func (t *rawTable) dropDuplicateRows() {
	seen := make(map[string]struct{}, len(t.rows))
	kept := t.rows[:0]
	for _, row := range t.rows {
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	t.rows = kept
}
