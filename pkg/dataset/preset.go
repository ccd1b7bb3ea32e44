package dataset

import (
	"encoding/json"
	"fmt"
	"os"
)

// Preset is a workshop profile: keyword weights that bias row selection
// toward a site's known risk areas, plus a default clause hint.
type Preset struct {
	Name           string             `json:"name"`
	ClauseHint     string             `json:"clause_hint"`
	KeywordsWeight map[string]float64 `json:"keywords_weight"`
}

// LoadPreset reads a preset profile JSON file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &p, nil
}
