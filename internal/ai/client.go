package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lexprep/lexprep-backend/internal/config"
	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("gemini API key is not configured")

// Client issues synchronous generateContent calls against the Gemini API.
// There is no retry and no timeout beyond the transport default; a failed
// call fails the whole evaluation request.
type Client struct {
	cfg        config.GeminiConfig
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a Gemini client from configuration.
func NewClient(cfg config.GeminiConfig, log zerolog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		log:        log.With().Str("component", "gemini_client").Logger(),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Part is one element of a generateContent request: either text or an inline
// attachment (base64 data plus its MIME type).
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData is a base64-encoded attachment embedded in the request.
type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []Part `json:"parts"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends one synchronous request and returns the raw text of
// the first candidate part. Non-2xx upstream responses become an error that
// embeds the upstream status code and body.
func (c *Client) GenerateContent(ctx context.Context, parts []Part) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: parts}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.Model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	c.log.Debug().Int("response_chars", len(text)).Msg("Gemini call completed")

	return text, nil
}
