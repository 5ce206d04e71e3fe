// Package summarize calls an OpenAI-compatible chat-completions service
// to produce short message summaries. Summarization is best-effort:
// every failure mode degrades to a sentinel string so ingestion never
// stalls on the summary service.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/mailsift/internal/model"
)

// Sentinel summaries stored when no real summary could be produced.
const (
	SummaryUnavailable = "Unable to generate summary"
	SummaryError       = "Error in summarization"
	SummaryEmpty       = "No summary generated"
)

// maxBodyWords caps how much of the body is sent to the service.
const maxBodyWords = 1000

// Client talks to one chat-completions endpoint.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	http      *http.Client
}

// NewClient builds a summarization client from configuration. It
// returns nil when summarization is disabled or unconfigured; a nil
// Client is valid and always answers SummaryUnavailable.
func NewClient(cfg model.SummaryConfig) *Client {
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Summarize produces a two-to-three sentence summary of one message.
// It never returns an empty string.
func (c *Client) Summarize(ctx context.Context, subject, body string) string {
	if c == nil {
		return SummaryUnavailable
	}

	prompt := fmt.Sprintf(
		"Summarize this email in 2-3 sentences.\n\nSubject: %s\n\n%s",
		subject, truncateWords(body, maxBodyWords))

	payload, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return SummaryError
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return SummaryError
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return SummaryError
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SummaryError
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SummaryError
	}

	if len(out.Choices) == 0 {
		return SummaryEmpty
	}
	summary := strings.TrimSpace(out.Choices[0].Message.Content)
	if summary == "" {
		return SummaryEmpty
	}
	return summary
}

// truncateWords keeps at most n whitespace-separated words.
func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}
