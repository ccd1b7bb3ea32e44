package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChecklist() *Checklist {
	return &Checklist{
		Columns: []string{"clause", "title", "question"},
		Rows: []Row{
			{"clause": "5.1", "title": "리더십", "question": "경영진 의지 표명"},
			{"clause": "6.1.1", "title": "위험성평가 일반", "question": "절차 문서화"},
			{"clause": "6.1.2", "title": "위험요인 파악", "question": "화학물질 목록 관리"},
			{"clause": "8.2", "title": "비상대응", "question": "화재 대피 훈련"},
		},
	}
}

func TestSelectRelevantClausePrefix(t *testing.T) {
	cl := sampleChecklist()
	got := cl.SelectRelevant("6.1", nil)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "6.1.1", got.Rows[0]["clause"])
	assert.Equal(t, "6.1.2", got.Rows[1]["clause"])
}

func TestSelectRelevantNoHintPassesThrough(t *testing.T) {
	cl := sampleChecklist()
	got := cl.SelectRelevant("", nil)
	assert.Len(t, got.Rows, len(cl.Rows))
}

func TestSelectRelevantNoMatches(t *testing.T) {
	got := sampleChecklist().SelectRelevant("10", nil)
	assert.Empty(t, got.Rows)
}

func TestSelectRelevantKeywordWeightsReorder(t *testing.T) {
	cl := sampleChecklist()
	got := cl.SelectRelevant("", map[string]float64{"화재": 2.0, "화학물질": 1.0})
	require.Len(t, got.Rows, 4)
	assert.Equal(t, "8.2", got.Rows[0]["clause"], "heaviest keyword first")
	assert.Equal(t, "6.1.2", got.Rows[1]["clause"])
}

func TestSelectRelevantStableForTies(t *testing.T) {
	cl := sampleChecklist()
	got := cl.SelectRelevant("", map[string]float64{"없는키워드": 5.0})
	// No row matches; original order is preserved.
	for i, row := range got.Rows {
		assert.Equal(t, cl.Rows[i]["clause"], row["clause"])
	}
}

func TestSelectRelevantDoesNotMutateOriginal(t *testing.T) {
	cl := sampleChecklist()
	before := cl.Rows[0]["clause"]
	cl.SelectRelevant("", map[string]float64{"화재": 9.0})
	assert.Equal(t, before, cl.Rows[0]["clause"])
}

func TestContextRows(t *testing.T) {
	cl := sampleChecklist()
	rows := cl.ContextRows(2)
	require.Len(t, rows, 2)
	assert.Equal(t, "리더십", rows[0].Title)
	assert.Equal(t, "5.1", rows[0].Clause)

	assert.Len(t, cl.ContextRows(0), 4)
	assert.Len(t, cl.ContextRows(100), 4)
}

func TestLoadPreset(t *testing.T) {
	p := Preset{
		Name:           "화학공장",
		ClauseHint:     "6.1",
		KeywordsWeight: map[string]float64{"화학물질": 2.0, "폭발": 3.0},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "preset.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	got, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.ClauseHint, got.ClauseHint)
	assert.Equal(t, p.KeywordsWeight, got.KeywordsWeight)
}

func TestLoadPresetInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := LoadPreset(path)
	assert.Error(t, err)
}
