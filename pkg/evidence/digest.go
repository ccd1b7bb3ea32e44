package evidence

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/korean"
)

// Evidence files are summarized, never uploaded wholesale: the digest keeps
// the prompt bounded and works the same for a 50-byte note and a 40-page
// procedure manual.

const (
	maxTextChars = 1200
	maxPDFPages  = 2
	sniffLen     = 512
)

const EmptyDigest = "증거 없음"

// DigestFiles summarizes each file and joins the parts with a separator
// line. Unreadable files become a summary of the failure instead of
// aborting the audit.
func DigestFiles(paths []string) string {
	var parts []string
	for _, path := range paths {
		name := filepath.Base(path)
		b, err := os.ReadFile(path)
		if err != nil {
			parts = append(parts, fmt.Sprintf("[%s] (읽기 실패: %v)", name, err))
			continue
		}
		parts = append(parts, digestOne(name, b))
	}
	if len(parts) == 0 {
		return EmptyDigest
	}
	return strings.Join(parts, "\n---\n")
}

func digestOne(name string, b []byte) string {
	mime := detectMIME(b)

	switch {
	case strings.HasPrefix(mime, "image/"):
		return summarizeImage(name, b)
	case mime == "application/pdf":
		return summarizePDF(name, b)
	case !isBinary(b):
		return summarizeText(name, b)
	default:
		return fmt.Sprintf("[%s] (바이너리 파일, %d bytes)", name, len(b))
	}
}

// detectMIME uses stdlib detection first and falls back to the broader
// mimetype library when ambiguous.
func detectMIME(b []byte) string {
	head := b
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	mt := http.DetectContentType(head)
	if mt != "application/octet-stream" {
		// DetectContentType appends charset parameters to text types.
		if i := strings.Index(mt, ";"); i > 0 {
			mt = mt[:i]
		}
		return mt
	}
	return mimetype.Detect(head).String()
}

func summarizeImage(name string, b []byte) string {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return fmt.Sprintf("[%s] (이미지 파일, %d bytes)", name, len(b))
	}
	return fmt.Sprintf("[%s] 이미지 %s %dx%dpx", name, strings.ToUpper(format), cfg.Width, cfg.Height)
}

func summarizePDF(name string, b []byte) string {
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return fmt.Sprintf("[%s] (PDF 파싱 실패: %v)", name, err)
	}

	var texts []string
	pages := r.NumPage()
	if pages > maxPDFPages {
		pages = maxPDFPages
	}
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		t, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if s := strings.TrimSpace(t); s != "" {
			texts = append(texts, s)
		}
	}

	text := truncate(strings.Join(texts, "\n"), maxTextChars)
	if text == "" {
		return fmt.Sprintf("[%s] (PDF, 추출된 텍스트 없음)", name)
	}
	return fmt.Sprintf("[%s] (PDF 요약)\n%s", name, text)
}

func summarizeText(name string, b []byte) string {
	txt, enc := decodeText(b)
	return fmt.Sprintf("[%s] (텍스트/%s)\n%s", name, enc, truncate(txt, maxTextChars))
}

// decodeText handles the encodings Korean audit evidence actually arrives
// in: UTF-8 (optionally with BOM) and EUC-KR/CP949.
func decodeText(b []byte) (string, string) {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return string(b[3:]), "utf-8-sig"
	}
	if utf8.Valid(b) {
		return string(b), "utf-8"
	}
	if decoded, err := korean.EUCKR.NewDecoder().Bytes(b); err == nil {
		return string(decoded), "euc-kr"
	}
	return string(b), "unknown"
}

// isBinary applies the classic heuristic: NUL byte or too many control
// characters in the head.
func isBinary(b []byte) bool {
	head := b
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if len(head) == 0 {
		return false
	}
	nontext := 0
	for _, c := range head {
		if c == 0 {
			return true
		}
		if c < 9 || (c > 13 && c < 32) {
			nontext++
		}
	}
	return float64(nontext)/float64(len(head)) > 0.2
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
