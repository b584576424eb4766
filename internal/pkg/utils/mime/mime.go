package mime

import (
	"encoding/base64"
	"errors"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// extMimeMap refines "text/plain" detections for files we generate or accept as text.
var extMimeMap = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".csv":  "text/csv",
	".json": "application/json",
	".svg":  "image/svg+xml",
}

var ErrInvalidDataURL = errors.New("invalid data url")

// DetectMimeType sniffs content and falls back to the file extension for plain text.
func DetectMimeType(content []byte, filename string) string {
	contentType := mimetype.Detect(content).String()
	if strings.HasPrefix(contentType, "text/plain") {
		if refined, ok := extMimeMap[strings.ToLower(filepath.Ext(filename))]; ok {
			return strings.Replace(contentType, "text/plain", refined, 1)
		}
	}
	return contentType
}

func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Extension returns the canonical extension (with dot) for a detected content type.
func Extension(content []byte) string {
	return mimetype.Detect(content).Extension()
}

// DecodeDataURL accepts "data:<mime>;base64,<payload>" or bare standard base64 and
// returns the decoded bytes. The declared mime, if any, is ignored in favour of sniffing.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidDataURL
	}
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 || !strings.HasSuffix(s[:idx], ";base64") {
			return nil, ErrInvalidDataURL
		}
		s = s[idx+1:]
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidDataURL
	}
	return b, nil
}
