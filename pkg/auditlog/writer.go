package auditlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Record is one reproducibility log entry: enough to say which backend and
// model produced which result over which evidence, without storing the
// evidence itself (hashes only).
type Record struct {
	AuditID       string  `json:"audit_id"`
	Timestamp     string  `json:"timestamp"`
	Backend       string  `json:"backend"`
	Model         string  `json:"model"`
	ClauseHint    string  `json:"clause_hint"`
	HashEvidence  string  `json:"hash_evidence"`
	HashCSV       string  `json:"hash_csv"`
	FindingsCount int     `json:"findings_count"`
	Version       string  `json:"version"`
	ElapsedTime   float64 `json:"elapsed_time"`
}

// Write appends the record to the current day's JSONL file under logDir,
// creating the directory as needed, and returns the file path.
func Write(logDir string, now time.Time, rec Record) (string, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", err
	}
	if rec.Timestamp == "" {
		rec.Timestamp = now.UTC().Format("2006-01-02T15:04:05Z")
	}

	path := filepath.Join(logDir, fmt.Sprintf("audit_%s.jsonl", now.UTC().Format("20060102")))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return "", err
	}
	return path, nil
}
