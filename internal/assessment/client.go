// Package assessment calls the external AI fairness-judgment provider for a
// single (vehicle, service, quoted price) tuple. The client enforces a strict
// output contract and classifies failures; it knows nothing about storage.
package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/muzammal-12/CarApp/pkg/config"
	"github.com/muzammal-12/CarApp/pkg/enums"
	"github.com/muzammal-12/CarApp/pkg/metrics"
)

const (
	defaultBaseURL             = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel               = "gemini-1.5-flash"
	defaultTimeout             = 25 * time.Second
	responseBodyReadLimit      = 1 << 20
	errorBodyReadLimit   int64 = 1024
)

var (
	// ErrNotConfigured is the permanent, configuration-level condition: no
	// provider credential is present. Callers surface it distinctly and must
	// not substitute heuristic data for single assessments.
	ErrNotConfigured = errors.New("assessment provider not configured")

	// ErrInvalidResponse covers every transient provider failure: timeout,
	// non-2xx status, empty or unparseable output. It is never fatal to the
	// orchestrator, which decides whether to degrade the affected item.
	ErrInvalidResponse = errors.New("assessment provider returned invalid response")
)

// Request is one fairness question put to the provider.
type Request struct {
	VehicleMake  string
	VehicleModel string
	VehicleYear  int
	ServiceName  string
	QuotedPrice  float64
	Currency     enums.Currency
	City         string
	Region       string
	Notes        string
}

// FairRange is the provider's inferred fair-price interval. Its currency is
// always the caller's working currency; the provider is not trusted to get
// currency right.
type FairRange struct {
	Min      float64        `json:"min"`
	Max      float64        `json:"max"`
	Currency enums.Currency `json:"currency"`
}

// Assessment is the contract-enforced provider verdict.
type Assessment struct {
	Decision      enums.Verdict `json:"decision"`
	Confidence    float64       `json:"confidence"`
	Rationale     string        `json:"rationale,omitempty"`
	FairRange     *FairRange    `json:"fair_range,omitempty"`
	Provider      string        `json:"provider"`
	ProviderNotes []string      `json:"provider_notes,omitempty"`
}

// Client talks to the Gemini generateContent API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	metrics    *metrics.PricingMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithMetrics attaches provider call metrics.
func WithMetrics(m *metrics.PricingMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the assessment client. An empty API key is allowed: the
// client constructs fine and every Assess call reports ErrNotConfigured, so
// wiring stays uniform whether or not a credential is present.
func NewClient(cfg config.GeminiConfig, opts ...Option) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client
}

// Configured reports whether a provider credential is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Provider identifies the backing provider in assessment snapshots.
func (c *Client) Provider() string {
	if c == nil {
		return ""
	}
	return "gemini:" + c.model
}

// Assess runs the two-attempt state machine: a full-context prompt first,
// then one retry with a minimal payload when the output is empty or
// malformed. There is no further backoff.
func (c *Client) Assess(ctx context.Context, req Request) (*Assessment, error) {
	if !c.Configured() {
		c.observe("unconfigured", 0)
		return nil, ErrNotConfigured
	}

	start := time.Now()
	result, err := c.attempt(ctx, fullPrompt(req), req.Currency)
	if err != nil {
		result, err = c.attempt(ctx, minimalPrompt(req), req.Currency)
	}
	if err != nil {
		c.observe("invalid", time.Since(start))
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}

	result.Provider = c.Provider()
	c.observe("ok", time.Since(start))
	return result, nil
}

func (c *Client) attempt(ctx context.Context, prompt string, currency enums.Currency) (*Assessment, error) {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return decodeAssessment(text, currency)
}

// generate performs one generateContent call requesting machine-parseable
// JSON output and returns the candidate text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":      0.2,
			"responseMimeType": "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.baseURL, "/"), c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var text strings.Builder
	for _, candidate := range apiResp.Candidates {
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
		break
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", errors.New("empty candidate text")
	}
	return text.String(), nil
}

func (c *Client) observe(outcome string, duration time.Duration) {
	if c != nil && c.metrics != nil {
		c.metrics.ObserveProviderCall(outcome, duration)
	}
}
