package findings

import "strings"

// ContextRow is the title/clause pair a checklist row contributes to the
// offline baseline.
type ContextRow struct {
	Title  string
	Clause string
}

// Keyword tiers for rule-based result escalation. Tier two overrides tier
// one; neither match leaves the default observation category.
var (
	tier1Keywords = []string{"미흡", "부족", "위반", "누락", "중대", "사고"}
	tier2Keywords = []string{"사망", "산재", "화재", "폭발", "중대재해"}
)

const maxBaselineFindings = 5

// OfflineBaseline produces a deterministic finding set without any network
// call. It is the terminal fallback when every backend attempt failed: one
// finding per context row (capped), result graded by keyword escalation
// over the evidence digest.
func OfflineBaseline(rows []ContextRow, evidenceDigest, clauseHint string) Report {
	n := len(rows)
	if n > maxBaselineFindings {
		n = maxBaselineFindings
	}
	if n == 0 {
		n = 1
	}

	cat := "Y"
	obs := strings.ToLower(evidenceDigest)
	if containsAny(obs, tier1Keywords) {
		cat = "Cat.2"
	}
	if containsAny(obs, tier2Keywords) {
		cat = "Cat.1"
	}

	fallbackClause := clauseHint
	if fallbackClause == "" {
		fallbackClause = DefaultClause
	}

	out := make([]Finding, 0, n)
	for i := 0; i < n; i++ {
		title := BaselineTitle
		clause := fallbackClause
		if i < len(rows) {
			if rows[i].Title != "" {
				title = rows[i].Title
			}
			if rows[i].Clause != "" {
				clause = rows[i].Clause
			}
		}
		out = append(out, Finding{
			Title:  title,
			Clause: clause,
			Reason: BaselineReason,
			Result: cat,
		})
	}
	return Report{Findings: out}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
