package dataset

import (
	"sort"
	"strings"

	"github.com/user/audit45/pkg/findings"
)

// SelectRelevant narrows the checklist to the rows worth showing the model:
// rows matching the clause hint prefix, reordered by preset keyword weights
// when a workshop profile is active. Without a hint or weights the
// checklist passes through unchanged.
func (c *Checklist) SelectRelevant(clauseHint string, weights map[string]float64) *Checklist {
	rows := c.Rows
	clauseCol := c.FindColumn("clause")
	if clauseHint != "" && clauseCol != "" {
		filtered := make([]Row, 0, len(rows))
		for _, row := range rows {
			if strings.HasPrefix(row[clauseCol], clauseHint) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	out := &Checklist{Columns: c.Columns, Rows: rows}
	if len(weights) == 0 || len(rows) == 0 {
		return out
	}

	scored := make([]Row, len(rows))
	copy(scored, rows)
	score := func(row Row) float64 {
		sc := 1.0
		txt := strings.ToLower(c.Value(row, "title", "") + " " + c.Value(row, "question", ""))
		for key, w := range weights {
			if strings.Contains(txt, strings.ToLower(key)) {
				sc += w
			}
		}
		return sc
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return score(scored[i]) > score(scored[j])
	})
	out.Rows = scored
	return out
}

// ContextRows projects the top rows into the title/clause pairs the offline
// baseline consumes.
func (c *Checklist) ContextRows(limit int) []findings.ContextRow {
	if limit <= 0 || limit > len(c.Rows) {
		limit = len(c.Rows)
	}
	out := make([]findings.ContextRow, 0, limit)
	for _, row := range c.Rows[:limit] {
		out = append(out, findings.ContextRow{
			Title:  c.Value(row, "title", ""),
			Clause: c.Value(row, "clause", ""),
		})
	}
	return out
}
