// Package labeler optionally attaches a short human-readable label to
// each class in the secondary output, by asking an OpenAI-compatible
// chat endpoint to name the pattern in a sample of a class's words.
// Grounded on the teacher's autotune/review/llm.Client (an
// endpoint+prompt+JSON-response reviewer) and internal/llm.Client (the
// chat-completion wire shapes); never affects the optimiser itself —
// a missing endpoint or a request failure just means no label.
package labeler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client calls a chat-completion endpoint to label a class's sample
// words. The zero value is inert: Label returns an error immediately
// if Endpoint is empty, so callers can construct it unconditionally and
// let configuration decide whether it's used.
type Client struct {
	Endpoint string
	Model    string
	APIKey   string

	HTTPClient *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// Label asks the configured endpoint to name the pattern, if any,
// among a class's sample words. It returns an error (never a panic) if
// no endpoint is configured or the request fails.
func (c *Client) Label(ctx context.Context, classID int, words []string) (string, error) {
	if c.Endpoint == "" || c.Model == "" {
		return "", fmt.Errorf("labeler: endpoint and model required")
	}
	prompt := fmt.Sprintf(
		"These words were grouped by a statistical class-bigram language model, not by hand. "+
			"In 1-3 words, name the pattern if one is apparent, or reply \"none\" if not: %s",
		strings.Join(words, ", "))

	payload, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You label word clusters concisely."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Error != nil {
		return "", fmt.Errorf("labeler: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("labeler: empty response")
	}

	label := strings.TrimSpace(out.Choices[0].Message.Content)
	if strings.EqualFold(label, "none") {
		return "", nil
	}
	return label, nil
}

// SampleWords returns up to limit words from a class listing, for use
// as the labeling prompt's evidence.
func SampleWords(words []string, limit int) []string {
	if len(words) <= limit {
		return words
	}
	return words[:limit]
}
