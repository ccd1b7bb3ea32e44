package auditlog

import (
	"bytes"
	"encoding/csv"

	"github.com/user/audit45/pkg/findings"
)

var csvHeader = []string{"audit_id", "clause", "title", "result", "reason", "backend", "model"}

// ExportCSV renders findings as a CSV suitable for spreadsheet apps. The
// output starts with a UTF-8 BOM so Korean text survives a double-click
// open in Excel. Legacy passthrough results carry no findings and export as
// a header-only file.
func ExportCSV(auditID, backendName, model string, fs []findings.Finding) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, f := range fs {
		row := []string{auditID, f.Clause, f.Title, f.Result, f.Reason, backendName, model}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
