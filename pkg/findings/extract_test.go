package findings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWholeText(t *testing.T) {
	obj, ok := Extract(`{"findings":[{"title":"t","clause":"6.1","reason":"r","result":"Y"}]}`)
	require.True(t, ok)
	items, ok := obj["findings"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestExtractFencedBlock(t *testing.T) {
	raw := "Here is the result you asked for:\n```json\n{\"findings\": []}\n```\nLet me know if you need more."
	obj, ok := Extract(raw)
	require.True(t, ok)
	_, hasFindings := obj["findings"]
	assert.True(t, hasFindings)
}

func TestExtractFencedBlockNoLanguageTag(t *testing.T) {
	raw := "```\n{\"findings\": [{\"title\": \"감사\"}]}\n```"
	_, ok := Extract(raw)
	assert.True(t, ok)
}

func TestExtractBraceSpan(t *testing.T) {
	raw := `The audit produced {"findings": [{"title": "문서 미비"}]} as requested.`
	obj, ok := Extract(raw)
	require.True(t, ok)
	items := obj["findings"].([]interface{})
	first := items[0].(map[string]interface{})
	assert.Equal(t, "문서 미비", first["title"])
}

func TestExtractProseOnly(t *testing.T) {
	_, ok := Extract("죄송합니다, JSON을 생성할 수 없습니다.")
	assert.False(t, ok)
}

func TestExtractEmpty(t *testing.T) {
	_, ok := Extract("")
	assert.False(t, ok)
}

func TestExtractNonObjectJSON(t *testing.T) {
	// A bare array is valid JSON but not an object; extraction must refuse.
	_, ok := Extract(`[1, 2, 3]`)
	assert.False(t, ok)
}

func TestWrapFreeTextPreservesTrimmedRaw(t *testing.T) {
	obj := WrapFreeText("  모델이 거부했습니다.  \n")
	items := obj["findings"].([]interface{})
	require.Len(t, items, 1)
	f := items[0].(map[string]interface{})
	assert.Equal(t, UnstructuredTitle, f["title"])
	assert.Equal(t, "모델이 거부했습니다.", f["reason"])
}
