package audit

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

// SHA1Hex returns the hex SHA-1 of s. Used for audit IDs and log record
// hashes; this is a fingerprint for reproducibility, not a security
// boundary.
func SHA1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// AuditID derives a stable invocation identifier from the timestamp and the
// evidence digest, so re-runs over identical evidence are easy to spot in
// the logs.
func AuditID(now time.Time, evidenceDigest string) string {
	return fmt.Sprintf("%s_%s", now.UTC().Format("20060102T150405Z"), SHA1Hex(evidenceDigest)[:8])
}
