// Package openai provides a chat adapter for the OpenAI Chat Completions API.
package openai

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
	providerName      = "openai"
	openaiAPIEndpoint = "https://api.openai.com/v1/chat/completions"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the OpenAI API endpoint (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client implements the chat.Provider interface for OpenAI. The full
// conversation is sent as role/content messages with the system prompt
// injected as the leading system-role message.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	modelName  string
	debug      bool
}

type openaiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openaiChatCompletionRequest is the request body for /v1/chat/completions.
type openaiChatCompletionRequest struct {
	Messages []openaiChatMessage `json:"messages"`
	Model    string              `json:"model"`
	Stream   bool                `json:"stream"`
}

type openaiChatCompletionResponseChoice struct {
	Index        int               `json:"index"`
	Message      openaiChatMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

type openaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// openaiChatCompletionResponse is the response body from /v1/chat/completions.
type openaiChatCompletionResponse struct {
	ID      string                               `json:"id"`
	Object  string                               `json:"object"`
	Created int64                                `json:"created"`
	Model   string                               `json:"model"`
	Choices []openaiChatCompletionResponseChoice `json:"choices"`
	Usage   openaiUsage                          `json:"usage"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Param   string `json:"param,omitempty"`
		Code    string `json:"code,omitempty"`
	} `json:"error,omitempty"`
}

// NewClient creates a new OpenAI adapter.
// debugMode controls verbose logging.
func NewClient(apiKey string, model string, requestTimeoutSeconds int, debugMode bool, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openAI API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("openAI model name is required")
	}
	if debugMode {
		log.Printf("Using OpenAI model: %s", model)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(requestTimeoutSeconds) * time.Second,
		},
		endpoint:  openaiAPIEndpoint,
		apiKey:    apiKey,
		modelName: model,
		debug:     debugMode,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Invoke sends the conversation to the OpenAI model and returns the reply
// text. One request, one response; errors surface immediately.
func (c *Client) Invoke(ctx context.Context, turns []chat.Turn, systemPrompt string) (string, error) {
	if c.httpClient == nil {
		return "", fmt.Errorf("openAI client not initialized")
	}

	payload := openaiChatCompletionRequest{
		Messages: buildMessages(turns, systemPrompt),
		Model:    c.modelName,
		Stream:   false,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal OpenAI request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create OpenAI request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read OpenAI response body: %w", err)
	}

	var oaResp openaiChatCompletionResponse
	if err := json.Unmarshal(responseBody, &oaResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal OpenAI response JSON: %w. Status: %s, Body: %s", err, resp.Status, string(responseBody))
	}

	if oaResp.Error != nil {
		return "", fmt.Errorf("openAI API error: %s (Type: %s, Code: %s). HTTP Status: %s", oaResp.Error.Message, oaResp.Error.Type, oaResp.Error.Code, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openAI API request failed with status %s. Body: %s", resp.Status, string(responseBody))
	}

	if len(oaResp.Choices) == 0 || oaResp.Choices[0].Message.Content == "" {
		if c.debug {
			log.Printf("OpenAI response details: ID=%s, Model=%s, Usage=%+v", oaResp.ID, oaResp.Model, oaResp.Usage)
		}
		return "", fmt.Errorf("openAI response contained no choices or empty message content. HTTP Status: %s", resp.Status)
	}

	return strings.TrimSpace(oaResp.Choices[0].Message.Content), nil
}

// buildMessages converts the transcript into the chat-completions message
// list, injecting the system prompt as the leading system-role message.
func buildMessages(turns []chat.Turn, systemPrompt string) []openaiChatMessage {
	messages := make([]openaiChatMessage, 0, len(turns)+1)
	if systemPrompt != "" {
		messages = append(messages, openaiChatMessage{Role: "system", Content: systemPrompt})
	}
	for _, t := range turns {
		messages = append(messages, openaiChatMessage{Role: t.Role.String(), Content: t.Content})
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
