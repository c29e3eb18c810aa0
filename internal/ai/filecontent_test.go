package ai

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestNormalizeFileInline(t *testing.T) {
	data := []byte("%PDF-1.4 fake")

	fc, err := NormalizeFile(data, "application/pdf")
	if err != nil {
		t.Fatalf("NormalizeFile: %v", err)
	}

	if !fc.Inline {
		t.Error("PDF should be carried inline")
	}
	if fc.MIMEType != "application/pdf" {
		t.Errorf("MIMEType = %q", fc.MIMEType)
	}
	decoded, err := base64.StdEncoding.DecodeString(fc.Base64)
	if err != nil {
		t.Fatalf("Base64 decode: %v", err)
	}
	if string(decoded) != string(data) {
		t.Error("Base64 payload does not round-trip")
	}
}

func TestNormalizeFileText(t *testing.T) {
	fc, err := NormalizeFile([]byte("my essay"), "text/plain; charset=utf-8")
	if err != nil {
		t.Fatalf("NormalizeFile: %v", err)
	}

	if fc.Inline {
		t.Error("text/plain should not be inline")
	}
	if fc.MIMEType != "text/plain" {
		t.Errorf("MIMEType = %q, want parameters stripped", fc.MIMEType)
	}
	if fc.Text != "my essay" {
		t.Errorf("Text = %q", fc.Text)
	}
}

func TestNormalizeFileCaseInsensitive(t *testing.T) {
	fc, err := NormalizeFile([]byte{0xFF, 0xD8}, "Image/JPEG")
	if err != nil {
		t.Fatalf("NormalizeFile: %v", err)
	}
	if !fc.Inline || fc.MIMEType != "image/jpeg" {
		t.Errorf("got %+v, want inline image/jpeg", fc)
	}
}

func TestNormalizeFileRejectsUnknown(t *testing.T) {
	for _, mt := range []string{"video/mp4", "application/zip", "", "application/json"} {
		if _, err := NormalizeFile([]byte("x"), mt); !errors.Is(err, ErrUnsupportedFileType) {
			t.Errorf("NormalizeFile(%q) err = %v, want ErrUnsupportedFileType", mt, err)
		}
	}
}
