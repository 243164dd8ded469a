// Package anthropic provides a chat adapter for the Anthropic Messages API.
package anthropic

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

	"github.com/xostack/askai/chat"
)

const (
	providerName         = "anthropic"
	anthropicAPIEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
	defaultMaxTokens     = 4096
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Anthropic API endpoint (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client implements the chat.Provider interface for Anthropic. Unlike the
// chat-completions providers, the Messages API carries the system prompt in a
// dedicated top-level field; system turns never appear in the message list.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	modelName  string
	debug      bool
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicMessagesRequest is the request body for /v1/messages.
type anthropicMessagesRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// anthropicMessagesResponse is the response body from /v1/messages.
type anthropicMessagesResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Model      string                  `json:"model"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates a new Anthropic adapter.
// debugMode controls verbose logging.
func NewClient(apiKey string, model string, requestTimeoutSeconds int, debugMode bool, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("anthropic model name is required")
	}
	if debugMode {
		log.Printf("Using Anthropic model: %s", model)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(requestTimeoutSeconds) * time.Second,
		},
		endpoint:  anthropicAPIEndpoint,
		apiKey:    apiKey,
		modelName: model,
		debug:     debugMode,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Invoke sends the conversation to the Anthropic model and returns the reply
// text. The system prompt is passed in the request's system field. One
// request, one response; errors surface immediately.
func (c *Client) Invoke(ctx context.Context, turns []chat.Turn, systemPrompt string) (string, error) {
	if c.httpClient == nil {
		return "", fmt.Errorf("anthropic client not initialized")
	}

	payload := anthropicMessagesRequest{
		Model:     c.modelName,
		MaxTokens: defaultMaxTokens,
		System:    systemPrompt,
		Messages:  buildMessages(turns),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Anthropic request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create Anthropic request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Anthropic-Version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Anthropic response body: %w", err)
	}

	var antResp anthropicMessagesResponse
	if err := json.Unmarshal(responseBody, &antResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Anthropic response JSON: %w. Status: %s, Body: %s", err, resp.Status, string(responseBody))
	}

	if antResp.Error != nil {
		return "", fmt.Errorf("anthropic API error: %s (Type: %s). HTTP Status: %s", antResp.Error.Message, antResp.Error.Type, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API request failed with status %s. Body: %s", resp.Status, string(responseBody))
	}

	var text strings.Builder
	for _, block := range antResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		if c.debug {
			log.Printf("Anthropic response details: ID=%s, Model=%s, StopReason=%s, Usage=%+v",
				antResp.ID, antResp.Model, antResp.StopReason, antResp.Usage)
		}
		return "", fmt.Errorf("anthropic response contained no text content. HTTP Status: %s", resp.Status)
	}

	return strings.TrimSpace(text.String()), nil
}

// buildMessages converts the transcript into the Messages API list. System
// turns are excluded here; the system prompt travels in its own field.
func buildMessages(turns []chat.Turn) []anthropicMessage {
	messages := make([]anthropicMessage, 0, len(turns))
	for _, t := range turns {
		if t.Role == chat.RoleSystem {
			continue
		}
		messages = append(messages, anthropicMessage{Role: t.Role.String(), Content: t.Content})
	}
	return messages
}

// Name returns the name of this provider.
func (c *Client) Name() string {
	return providerName
}

// Close is a placeholder.
func (c *Client) Close() error {
	return nil
}
