package findings

import "fmt"

// Normalize coerces any decoded object into the canonical findings schema.
// The pass is idempotent: applying it to its own output changes nothing.
//
// Objects using the historical report schema (org_focus and friends) are
// returned untouched — downstream consumers handle their shape defensively.
func Normalize(obj map[string]interface{}) map[string]interface{} {
	if obj == nil {
		obj = map[string]interface{}{}
	}
	if HasLegacyKeys(obj) {
		return obj
	}

	raw, ok := obj["findings"].([]interface{})
	if !ok || len(raw) == 0 {
		// Nothing usable; keep the whole object as diagnostic text.
		return map[string]interface{}{
			"findings": []interface{}{
				map[string]interface{}{
					"title":  AutoWrapTitle,
					"clause": "",
					"reason": MarshalCompact(obj),
					"result": "",
				},
			},
		}
	}

	items := make([]interface{}, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			items = append(items, map[string]interface{}{
				"title":  DefaultTitle,
				"clause": DefaultClause,
				"reason": MarshalCompact(item),
				"result": DefaultResult,
			})
			continue
		}
		// Project the four recognized fields only; unknown keys are dropped.
		items = append(items, map[string]interface{}{
			"title":  fieldOrDefault(m, "title", DefaultTitle),
			"clause": fieldOrDefault(m, "clause", DefaultClause),
			"reason": fieldOrDefault(m, "reason", DefaultReason),
			"result": fieldOrDefault(m, "result", DefaultResult),
		})
	}
	return map[string]interface{}{"findings": items}
}

// fieldOrDefault keeps present values (coerced to string) and fills absent
// keys with the schema default. A present empty string is kept, matching
// setdefault semantics.
func fieldOrDefault(m map[string]interface{}, key, def string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
