// Package dispatch invokes the vendor API behind a resolved model. The
// provider is taken from the catalog descriptor, never inferred from the
// model ID.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/loftylabs/lofty/internal/catalog"
	"github.com/loftylabs/lofty/internal/util"
)

// Vendor endpoints. Package-level so tests can point them at a local server.
var (
	OpenAIEndpoint    = "https://api.openai.com/v1/chat/completions"
	AnthropicEndpoint = "https://api.anthropic.com/v1/messages"
	GeminiEndpoint    = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
)

const anthropicVersion = "2023-06-01"

// No client-side cancellation existed historically; the 5-minute transport
// timeout is the documented bound on a hung vendor call. Callers can still
// cancel earlier through ctx.
const requestTimeout = 5 * time.Minute

// Client handles communication with LLM vendor APIs.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a dispatch client with the default timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Complete sends prompt to the vendor backing the descriptor and returns the
// response text. A missing credential on a model that requires one is a
// user-visible error: this path is only reachable when the caller bypassed
// mode resolution and picked a paid model directly.
func (c *Client) Complete(ctx context.Context, d catalog.Descriptor, prompt, secret string) (string, error) {
	secret = strings.TrimSpace(secret)
	if d.RequiresCredential && secret == "" {
		return "", fmt.Errorf("%s requires an API key. Please add it in Settings", d.DisplayName)
	}

	log.Printf("🔄 Querying %s (%s)...", d.DisplayName, d.ID)

	switch d.Provider {
	case "openai":
		return c.completeOpenAI(ctx, OpenAIEndpoint, d.ID, prompt, secret)
	case "anthropic":
		return c.completeAnthropic(ctx, d.ID, prompt, secret)
	case "google":
		return c.completeGemini(ctx, d.ID, prompt, secret)
	default:
		// Free-tier providers all speak the OpenAI-compatible chat shape
		// against the descriptor's own endpoint.
		if d.Endpoint == "" {
			return "", fmt.Errorf("model %s has no dispatch endpoint", d.ID)
		}
		return c.completeOpenAI(ctx, d.Endpoint, d.ID, prompt, secret)
	}
}

func (c *Client) completeOpenAI(ctx context.Context, endpoint, model, prompt, secret string) (string, error) {
	payload := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	headers := map[string]string{}
	if secret != "" {
		headers["Authorization"] = "Bearer " + secret
	}

	body, err := c.doRequest(ctx, endpoint, headers, payload)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Choices) == 0 {
		return "", fmt.Errorf("unexpected response from %s: %s", model, util.TruncateBytes(body))
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func (c *Client) completeAnthropic(ctx context.Context, model, prompt, secret string) (string, error) {
	payload := map[string]interface{}{
		"model":      model,
		"max_tokens": 1024,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	headers := map[string]string{
		"x-api-key":         secret,
		"anthropic-version": anthropicVersion,
	}

	body, err := c.doRequest(ctx, AnthropicEndpoint, headers, payload)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Content) == 0 {
		return "", fmt.Errorf("unexpected response from %s: %s", model, util.TruncateBytes(body))
	}
	return strings.TrimSpace(parsed.Content[0].Text), nil
}

func (c *Client) completeGemini(ctx context.Context, model, prompt, secret string) (string, error) {
	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	endpoint := fmt.Sprintf(GeminiEndpoint, model) + "?key=" + secret

	body, err := c.doRequest(ctx, endpoint, nil, payload)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil ||
		len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("unexpected response from %s: %s", model, util.TruncateBytes(body))
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

// doRequest posts a JSON payload and returns the response body, turning any
// non-200 status into an error carrying the truncated body.
func (c *Client) doRequest(ctx context.Context, endpoint string, headers map[string]string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vendor returned %d: %s", resp.StatusCode, util.TruncateBytes(body))
	}
	return body, nil
}
