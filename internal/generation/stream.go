// Package generation streams rewritten prompts from an OpenAI-compatible
// chat completions upstream.
package generation

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"clarify-api/internal/shared"

	"go.uber.org/zap"
)

// ErrIncompleteStream means the upstream closed the fragment stream before
// sending its [DONE] marker.
var ErrIncompleteStream = errors.New("stream ended without done marker")

type Client struct {
	url    string
	model  string
	apiKey string
	hc     *http.Client
	log    *zap.SugaredLogger
}

func NewClient(url string, model string, apiKey string, log *zap.SugaredLogger) *Client {
	tr := &http.Transport{
		Dial: (&net.Dialer{
			Timeout: 2 * time.Second,
		}).Dial,
		TLSHandshakeTimeout: 2 * time.Second,
		DisableKeepAlives:   false,
	}
	return &Client{
		url:    strings.TrimSuffix(url, "/"),
		model:  model,
		apiKey: apiKey,
		hc:     &http.Client{Transport: tr, Timeout: shared.DefaultHTTPTimeout},
		log:    log,
	}
}

type completionRequest struct {
	Model       string               `json:"model"`
	Messages    []shared.ChatMessage `json:"messages"`
	Temperature float32              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
	Stream      bool                 `json:"stream"`
}

// Stream sends the prompt with the fixed rewrite instruction and invokes
// onFragment for every delta as it arrives. Fragments are forwarded, never
// buffered, so time-to-first-byte stays low. The returned string is the
// concatenation of all fragments delivered before return. The sequence is
// finite and not restartable.
func (c *Client) Stream(ctx context.Context, prompt string, onFragment func(string) error) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []shared.ChatMessage{
			{Role: "system", Content: shared.SystemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: shared.GenerationTemperature,
		MaxTokens:   shared.GenerationMaxTokens,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("failed building request body: %w", err)
	}

	r, err := http.NewRequestWithContext(ctx, "POST", c.url+"/v1/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed building request: %w", err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Connection", "keep-alive")
	if c.apiKey != "" {
		r.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.hc.Do(r)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			c.log.Warnw("Failed to close response body", "error", closeErr)
		}
	}()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation upstream returned status %d", res.StatusCode)
	}

	var full strings.Builder
	hasDone := false
	reader := bufio.NewScanner(res.Body)

scanner:
	for reader.Scan() {
		token := reader.Text()

		// Skip empty lines
		if token == "" {
			continue
		}

		if token == "data: [DONE]" {
			hasDone = true
			break scanner
		}

		if !strings.HasPrefix(token, "data: ") {
			continue
		}

		jsonData := strings.TrimPrefix(token, "data: ")
		var chunk shared.Response
		if err := json.Unmarshal([]byte(jsonData), &chunk); err != nil {
			c.log.Warnw("failed unmarshaling streamed data", "error", err, "token", token)
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		content := chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		if err := onFragment(content); err != nil {
			return full.String(), fmt.Errorf("fragment delivery failed: %w", err)
		}
		full.WriteString(content)
	}

	if err := reader.Err(); err != nil {
		return full.String(), fmt.Errorf("encountered streaming error: %w", err)
	}
	if !hasDone {
		return full.String(), ErrIncompleteStream
	}
	return full.String(), nil
}
