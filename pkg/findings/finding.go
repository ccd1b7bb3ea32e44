package findings

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Finding is one normalized audit observation. Every backend response and
// the offline baseline are coerced into a list of these before anything
// downstream (CSV export, audit log) sees them.
type Finding struct {
	Title  string `json:"title"`
	Clause string `json:"clause"`
	Reason string `json:"reason"`
	Result string `json:"result"`
}

// Report is the canonical output object: {"findings": [...]}.
type Report struct {
	Findings []Finding `json:"findings"`
}

// CatDefinitions documents the four meaningful result categories.
// The schema deliberately does not enforce membership; backends may emit
// other strings and they are kept as-is.
var CatDefinitions = map[string]string{
	"Cat.1": "ISO45001 요건의 시스템 부재 또는 심각한 시스템적 결함 또는 중대 재해 위험",
	"Cat.2": "문서화된 절차의 경미한 불이행·운영상 실수·법규 위반 가능성",
	"Y":     "관찰사항(개선 필요 가능)",
	"N":     "해당 없음/적합",
}

// Field defaults applied during normalization when a key is absent.
const (
	DefaultTitle  = "관찰사항"
	DefaultClause = "N/A"
	DefaultReason = "보정"
	DefaultResult = "Y"
)

// Markers used for synthetic findings produced by the degradation paths.
const (
	UnstructuredTitle = "비정형 출력 처리"
	AutoWrapTitle     = "자동 래핑 결과"
	BaselineTitle     = "관리검토/운영 통제"
	BaselineReason    = "오프라인 규칙 기반 임시 판단"
)

// legacyKeys identify the historical report schema that bypasses
// normalization entirely (backward-compatibility escape hatch).
var legacyKeys = []string{"org_focus", "auditor_focus", "defect_cases"}

// HasLegacyKeys reports whether obj uses the historical schema.
func HasLegacyKeys(obj map[string]interface{}) bool {
	for _, k := range legacyKeys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

// ToObject converts a Report into the generic object form the
// normalization pass operates on.
func (r Report) ToObject() map[string]interface{} {
	items := make([]interface{}, 0, len(r.Findings))
	for _, f := range r.Findings {
		items = append(items, map[string]interface{}{
			"title":  f.Title,
			"clause": f.Clause,
			"reason": f.Reason,
			"result": f.Result,
		})
	}
	return map[string]interface{}{"findings": items}
}

// FromObject extracts typed findings from a normalized object. Legacy
// passthrough objects need not contain findings at all, so callers must
// treat ok == false as "nothing to project", not as an error.
func FromObject(obj map[string]interface{}) ([]Finding, bool) {
	raw, ok := obj["findings"].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]Finding, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, Finding{
			Title:  stringField(m, "title"),
			Clause: stringField(m, "clause"),
			Reason: stringField(m, "reason"),
			Result: stringField(m, "result"),
		})
	}
	return out, true
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// MarshalCompact serializes an object without indentation, keeping
// non-ASCII text readable (no HTML escaping).
func MarshalCompact(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	// Encode appends a trailing newline.
	return strings.TrimRight(buf.String(), "\n")
}
