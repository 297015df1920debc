// Package gemini is the HTTP client for the external AI collaborator: the
// law evaluator and the diary improver. Both calls are time-bounded and
// cancellable; callers decide what a failure means (the diary service
// treats every failure as "no findings").
package gemini

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

	"github.com/lql-project/lql/internal/domain"
)

// DefaultTimeout bounds a single generateContent call.
const DefaultTimeout = 10 * time.Second

// Config holds the Gemini API settings, typically from the daemon config.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client talks to the Gemini generateContent endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a client. The zero timeout falls back to DefaultTimeout.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// ─── Wire Types ─────────────────────────────────────────────────────────────

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

// generate performs one generateContent call and returns the first
// candidate's text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("gemini: api key not configured")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Correlation id so a slow or failed call can be matched across logs.
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// ─── Evaluator ──────────────────────────────────────────────────────────────

// CheckLaws asks the model which laws the text violates and returns the
// findings. Only active laws are sent.
func (c *Client) CheckLaws(ctx context.Context, text string, laws []domain.Law) ([]domain.Violation, error) {
	active := make([]domain.Law, 0, len(laws))
	for _, l := range laws {
		if l.Active {
			active = append(active, l)
		}
	}
	if len(active) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString("You check a diary entry against the user's personal rules.\n")
	sb.WriteString("Rules:\n")
	for _, l := range active {
		fmt.Fprintf(&sb, "- id %d, penalty %d: %s — %s\n", l.ID, l.PenaltyPoints, l.Title, l.Prompt)
	}
	sb.WriteString("\nDiary entry:\n")
	sb.WriteString(text)
	sb.WriteString("\n\nAnswer with a JSON array of violated rules: ")
	sb.WriteString(`[{"law_id":<id>,"penalty_points":<penalty>}]. Answer [] if none are violated.`)

	raw, err := c.generate(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	var violations []domain.Violation
	if err := json.Unmarshal([]byte(extractJSON(raw)), &violations); err != nil {
		return nil, fmt.Errorf("gemini: parse violations: %w", err)
	}
	return violations, nil
}

// ─── Improver ───────────────────────────────────────────────────────────────

// Improvement is the result of an ImproveEntry call.
type Improvement struct {
	Improved string   `json:"improved"`
	Tags     []string `json:"tags"`
}

// ImproveEntry rewrites a diary entry for clarity and suggests tags.
func (c *Client) ImproveEntry(ctx context.Context, text string) (Improvement, error) {
	prompt := "Improve the wording of this diary entry without changing its meaning, " +
		"and suggest up to five short topic tags. " +
		`Answer as JSON: {"improved":"...","tags":["..."]}.` +
		"\n\nEntry:\n" + text

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return Improvement{}, err
	}

	var imp Improvement
	if err := json.Unmarshal([]byte(extractJSON(raw)), &imp); err != nil {
		return Improvement{}, fmt.Errorf("gemini: parse improvement: %w", err)
	}
	return imp, nil
}

// extractJSON strips a markdown code fence if the model wrapped its answer
// in one.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
