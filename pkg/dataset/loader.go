package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Checklist audit datasets ship as CSV exported from spreadsheet apps,
// usually UTF-8 with a BOM and Korean or English headers that vary between
// revisions. Logical columns are resolved through an alias table instead of
// hard-coded names.

// Aliases maps a logical column to the header spellings seen in the wild.
var Aliases = map[string][]string{
	"clause":        {"clause", "조항", "항목번호", "항목코드"},
	"title":         {"title", "항목", "항목명", "요구사항명", "점검항목", "표제", "제목"},
	"question":      {"question", "요구사항", "설명", "체크포인트", "질문", "검증내용", "평가질문"},
	"evidence_type": {"evidence_type", "evidence", "증거유형", "증거", "입증자료", "근거자료"},
}

// Checklist is one loaded CSV dataset.
type Checklist struct {
	Columns []string
	Rows    []Row
}

// Row keeps the original header names as keys.
type Row map[string]string

// ReadCSV loads a checklist CSV, stripping a UTF-8 BOM when present.
func ReadCSV(path string) (*Checklist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// ExpectBOM would fail on BOM-less files; this decoder strips an
	// optional BOM and passes UTF-8 through otherwise.
	dec := unicode.UTF8BOM.NewDecoder()
	r := csv.NewReader(transform.NewReader(f, dec))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty CSV", path)
	}

	columns := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return &Checklist{Columns: columns, Rows: rows}, nil
}

// FindColumn resolves a logical column name to the actual header, or ""
// when no alias matches.
func (c *Checklist) FindColumn(logical string) string {
	lower := make(map[string]string, len(c.Columns))
	for _, col := range c.Columns {
		lower[strings.ToLower(col)] = col
	}
	for _, a := range Aliases[logical] {
		if name, ok := lower[strings.ToLower(a)]; ok {
			return name
		}
	}
	return ""
}

// ValidateSchema checks the minimum shape: a clause column plus at least
// one of title/question.
func (c *Checklist) ValidateSchema() bool {
	if c.FindColumn("clause") == "" {
		return false
	}
	return c.FindColumn("title") != "" || c.FindColumn("question") != ""
}

// Value reads a logical column from a row, or def when the column is
// missing.
func (c *Checklist) Value(row Row, logical, def string) string {
	col := c.FindColumn(logical)
	if col == "" {
		return def
	}
	if v, ok := row[col]; ok && v != "" {
		return v
	}
	return def
}

// RequirementText returns the question text of the first row whose clause
// starts with the given clause number.
func (c *Checklist) RequirementText(clause string) string {
	clauseCol := c.FindColumn("clause")
	questionCol := c.FindColumn("question")
	if clauseCol == "" || questionCol == "" {
		return ""
	}
	for _, row := range c.Rows {
		if strings.HasPrefix(row[clauseCol], clause) {
			return row[questionCol]
		}
	}
	return ""
}
