package audit

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA1Hex(t *testing.T) {
	// Known vector.
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", SHA1Hex(""))
	assert.Len(t, SHA1Hex("증거 없음"), 40)
}

func TestAuditIDFormat(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	id := AuditID(now, "digest text")
	parts := strings.SplitN(id, "_", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "20250314T092653Z", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Equal(t, SHA1Hex("digest text")[:8], parts[1])
}

func TestAuditIDDeterministic(t *testing.T) {
	now := time.Now()
	assert.Equal(t, AuditID(now, "d"), AuditID(now, "d"))
	assert.NotEqual(t, AuditID(now, "d1"), AuditID(now, "d2"))
}

func TestAuditIDUsesUTC(t *testing.T) {
	kst := time.FixedZone("KST", 9*3600)
	local := time.Date(2025, 3, 14, 18, 26, 53, 0, kst)
	id := AuditID(local, "d")
	assert.True(t, strings.HasPrefix(id, "20250314T092653Z_"))
}
