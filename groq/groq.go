// Package groq provides a chat adapter for Groq's cloud API.
package groq

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
	providerName    = "groq"
	groqAPIEndpoint = "https://api.groq.com/openai/v1/chat/completions"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Groq API endpoint (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client implements the chat.Provider interface for Groq. Groq speaks the
// OpenAI chat-completions dialect, so the full conversation is sent as a list
// of role/content messages with the system prompt leading.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	modelName  string
	debug      bool
}

// groqChatMessage represents a single message in the chat completion request.
type groqChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// groqChatCompletionRequest is the structure for the request body to Groq's API.
type groqChatCompletionRequest struct {
	Messages []groqChatMessage `json:"messages"`
	Model    string            `json:"model"`
	Stream   bool              `json:"stream"`
}

type groqChatCompletionResponseChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatCompletionResponseChoice struct {
	Index        int                                     `json:"index"`
	Message      groqChatCompletionResponseChoiceMessage `json:"message"`
	FinishReason string                                  `json:"finish_reason"`
}

// groqUsage tracks token usage.
type groqUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// groqChatCompletionResponse is the structure for the response from Groq's API.
type groqChatCompletionResponse struct {
	ID      string                             `json:"id"`
	Object  string                             `json:"object"`
	Created int64                              `json:"created"`
	Model   string                             `json:"model"`
	Choices []groqChatCompletionResponseChoice `json:"choices"`
	Usage   groqUsage                          `json:"usage"`
	Error   *struct { // Groq might return an error object directly
		Message string `json:"message"`
		Type    string `json:"type"`
		Param   string `json:"param,omitempty"`
		Code    string `json:"code,omitempty"`
	} `json:"error,omitempty"`
}

// NewClient creates a new Groq adapter.
// debugMode controls verbose logging.
func NewClient(apiKey string, model string, requestTimeoutSeconds int, debugMode bool, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("groq model name is required")
	}
	if debugMode {
		log.Printf("Using Groq model: %s", model)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(requestTimeoutSeconds) * time.Second,
		},
		endpoint:  groqAPIEndpoint,
		apiKey:    apiKey,
		modelName: model,
		debug:     debugMode,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Invoke sends the conversation to the Groq model and returns the reply text.
// A non-empty system prompt becomes the leading system-role message. One
// request, one response; errors surface immediately.
func (c *Client) Invoke(ctx context.Context, turns []chat.Turn, systemPrompt string) (string, error) {
	if c.httpClient == nil {
		return "", fmt.Errorf("groq client not initialized")
	}

	payload := groqChatCompletionRequest{
		Messages: buildMessages(turns, systemPrompt),
		Model:    c.modelName,
		Stream:   false, // Expects full response
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Groq request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create Groq request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Groq API: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Groq response body: %w", err)
	}

	var groqResp groqChatCompletionResponse
	if err := json.Unmarshal(responseBody, &groqResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Groq response JSON: %w. Status: %s, Body: %s", err, resp.Status, string(responseBody))
	}

	// Check for API-level errors returned in the JSON body before the HTTP
	// status, as the JSON error is usually more specific.
	if groqResp.Error != nil {
		return "", fmt.Errorf("groq API error: %s (Type: %s, Code: %s). HTTP Status: %s", groqResp.Error.Message, groqResp.Error.Type, groqResp.Error.Code, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API request failed with status %s. Body: %s", resp.Status, string(responseBody))
	}

	if len(groqResp.Choices) == 0 || groqResp.Choices[0].Message.Content == "" {
		if c.debug {
			log.Printf("Groq response details: ID=%s, Model=%s, Usage=%+v", groqResp.ID, groqResp.Model, groqResp.Usage)
		}
		return "", fmt.Errorf("groq response contained no choices or empty message content. HTTP Status: %s", resp.Status)
	}

	return strings.TrimSpace(groqResp.Choices[0].Message.Content), nil
}

// buildMessages converts the transcript into the chat-completions message
// list, injecting the system prompt as the leading system-role message.
func buildMessages(turns []chat.Turn, systemPrompt string) []groqChatMessage {
	messages := make([]groqChatMessage, 0, len(turns)+1)
	if systemPrompt != "" {
		messages = append(messages, groqChatMessage{Role: "system", Content: systemPrompt})
	}
	for _, t := range turns {
		messages = append(messages, groqChatMessage{Role: t.Role.String(), Content: t.Content})
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
