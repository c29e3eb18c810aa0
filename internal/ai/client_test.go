package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lexprep/lexprep-backend/internal/config"
	"github.com/rs/zerolog"
)

func testClient(baseURL string) *Client {
	return NewClient(config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "test-model",
	}, zerolog.Nop())
}

func TestGenerateContentSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": `{"scoredMarks": 8}`}},
				}},
			},
		})
	}))
	defer srv.Close()

	text, err := testClient(srv.URL).GenerateContent(context.Background(), []Part{{Text: "grade this"}})
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	if text != `{"scoredMarks": 8}` {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/models/test-model:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}
	if _, ok := gotBody["contents"]; !ok {
		t.Error("request body must carry a contents array")
	}
}

func TestGenerateContentUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "quota exceeded"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GenerateContent(context.Background(), []Part{{Text: "x"}})
	if err == nil {
		t.Fatal("expected error for non-2xx upstream status")
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Errorf("error should embed the upstream status, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should embed the upstream body, got %v", err)
	}
}

func TestGenerateContentNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).GenerateContent(context.Background(), []Part{{Text: "x"}}); err == nil {
		t.Error("expected error for empty candidate list")
	}
}

func TestGenerateContentNotConfigured(t *testing.T) {
	client := NewClient(config.GeminiConfig{}, zerolog.Nop())

	if client.Configured() {
		t.Error("Configured() must be false without an API key")
	}
	_, err := client.GenerateContent(context.Background(), []Part{{Text: "x"}})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
