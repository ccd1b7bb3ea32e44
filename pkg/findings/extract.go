package findings

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Backends regularly ignore the "one JSON object only" instruction and wrap
// the object in prose or a markdown fence. Extraction degrades through three
// parse attempts before giving up and wrapping the raw text as a synthetic
// finding, so a chatty model never fails the whole audit.

var fencedBlockRe = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// Extract parses raw backend text into a generic object. It tries, in order:
// the whole text as JSON, the interior of the first fenced code block, and
// the first-'{'-to-last-'}' span. ok is false when none of these parse.
func Extract(raw string) (map[string]interface{}, bool) {
	if obj, ok := tryParse(raw); ok {
		return obj, true
	}
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		if obj, ok := tryParse(m[1]); ok {
			return obj, true
		}
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if obj, ok := tryParse(raw[start : end+1]); ok {
			return obj, true
		}
	}
	return nil, false
}

func tryParse(s string) (map[string]interface{}, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// WrapFreeText builds the synthetic one-finding object used when a backend
// response contains no parseable JSON at all. The trimmed text is preserved
// in reason so the diagnostic is never lost.
func WrapFreeText(raw string) map[string]interface{} {
	return map[string]interface{}{
		"findings": []interface{}{
			map[string]interface{}{
				"title":  UnstructuredTitle,
				"clause": "",
				"reason": strings.TrimSpace(raw),
				"result": "",
			},
		},
	}
}
