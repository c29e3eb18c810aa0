package ai

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFileType is returned for MIME types outside the allow-list.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// FileContent is an uploaded answer file normalized for prompt embedding.
// Image and PDF uploads are carried as base64 for a multimodal request;
// text-like uploads are carried as decoded text.
type FileContent struct {
	MIMEType string
	Inline   bool   // true → Base64 is set; false → Text is set
	Base64   string
	Text     string
}

// MIME types embedded inline as base64 attachments.
var inlineMIMETypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// MIME types sent as decoded text.
var textMIMETypes = map[string]bool{
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// NormalizeFile converts an uploaded file into prompt-ready content, gated by
// the MIME allow-list. The whole file is held in memory; size is bounded
// upstream by the upload ceiling.
func NormalizeFile(data []byte, mimeType string) (*FileContent, error) {
	mt := canonicalMIME(mimeType)

	switch {
	case inlineMIMETypes[mt]:
		return &FileContent{
			MIMEType: mt,
			Inline:   true,
			Base64:   base64.StdEncoding.EncodeToString(data),
		}, nil
	case textMIMETypes[mt]:
		return &FileContent{
			MIMEType: mt,
			Text:     string(data),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mimeType)
	}
}

// canonicalMIME lowercases the type and strips any parameters
// (e.g. "text/plain; charset=utf-8" → "text/plain").
func canonicalMIME(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(mt, ";"); idx >= 0 {
		mt = strings.TrimSpace(mt[:idx])
	}
	return mt
}
