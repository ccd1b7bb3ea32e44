package audit

import (
	"fmt"

	"github.com/user/audit45/pkg/dataset"
	"github.com/user/audit45/pkg/findings"
)

const (
	// DefaultISOVersion names the standard revision quoted in the system
	// prompt.
	DefaultISOVersion = "ISO45001:2018"

	// contextRowLimit bounds how many checklist rows are embedded in the
	// system prompt.
	contextRowLimit = 12
)

type contextExample struct {
	Title        string `json:"title"`
	Clause       string `json:"clause"`
	Question     string `json:"question"`
	EvidenceType string `json:"evidence_type"`
}

// BuildSystemPrompt instructs the model on role, output schema, and shows a
// bounded sample of the relevant checklist rows.
func BuildSystemPrompt(cl *dataset.Checklist, isoVersion string) string {
	if isoVersion == "" {
		isoVersion = DefaultISOVersion
	}

	limit := contextRowLimit
	if limit > len(cl.Rows) {
		limit = len(cl.Rows)
	}
	examples := make([]contextExample, 0, limit)
	for _, row := range cl.Rows[:limit] {
		examples = append(examples, contextExample{
			Title:        cl.Value(row, "title", ""),
			Clause:       cl.Value(row, "clause", ""),
			Question:     cl.Value(row, "question", ""),
			EvidenceType: cl.Value(row, "evidence_type", ""),
		})
	}

	return fmt.Sprintf(
		"당신은 %s 내부심사 지원 AI입니다. "+
			"반드시 하나의 JSON 객체를 출력합니다. 스키마: "+
			`{"findings":[{"title":"...","clause":"6.1.2","reason":"...","result":"Cat.1|Cat.2|Y|N"}]} `+
			"각 항목은 조항 적합성/위험/근거를 간결하게 요약하세요. "+
			"컨텍스트 예시: %s",
		isoVersion, findings.MarshalCompact(examples),
	)
}

// BuildUserPrompt carries the clause hint and the evidence digest.
func BuildUserPrompt(evidenceDigest, clauseHint string) string {
	hint := "조항 힌트 없음"
	if clauseHint != "" {
		hint = fmt.Sprintf("조항 힌트: %s", clauseHint)
	}
	return fmt.Sprintf(
		"%s\n증거 요약:\n%s\n위 스키마를 따라 findings를 3~6개 내로 작성.",
		hint, evidenceDigest,
	)
}
