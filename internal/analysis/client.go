// Package analysis calls the downstream text-analysis service with a
// composed digest and an optional user query.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Analyzer produces analysis text for a digest. The HTTP client below is the
// production implementation; tests substitute their own.
type Analyzer interface {
	Analyze(ctx context.Context, digest, query string) (string, error)
}

// Config holds the analysis service endpoint settings. APIKey comes from the
// environment, never from config files.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// ApplyDefaults fills zero values with the standard endpoint settings.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// Client calls a Gemini-compatible generateContent endpoint over REST.
// Construct one explicitly per consumer and pass it in; holding it in
// process-wide state would leak credentials across requests and make
// substitution in tests impossible.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient returns a client for cfg. A nil logger is replaced with a no-op.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Analyze sends the digest and query to the analysis service and returns its
// response text. The returned error is the caller's to translate; it is not
// part of the extraction error taxonomy.
func (c *Client) Analyze(ctx context.Context, digest, query string) (string, error) {
	reqID := uuid.New().String()
	start := time.Now()

	body := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: buildPrompt(digest, query)}},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	c.logger.Debug("analysis request",
		zap.String("req_id", reqID),
		zap.String("model", c.cfg.Model),
		zap.Int("digest_len", len(digest)),
		zap.Bool("has_query", query != ""),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("analysis request failed", zap.String("req_id", reqID), zap.Error(err))
		return "", fmt.Errorf("call analysis service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		c.logger.Error("analysis non-2xx response",
			zap.String("req_id", reqID),
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(raw)),
		)
		return "", fmt.Errorf("analysis service returned status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return "", fmt.Errorf("analysis response contained no candidates")
	}
	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	c.logger.Info("analysis complete",
		zap.String("req_id", reqID),
		zap.Int("response_len", text.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text.String(), nil
}
