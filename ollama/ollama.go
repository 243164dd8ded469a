// Package ollama provides a chat adapter for self-hosted Ollama servers.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xostack/askai/chat"
	// No specific Ollama SDK is typically needed, use net/http.
)

const (
	providerName = "ollama"
	chatAPIPath  = "/api/chat"
)

// Client implements the chat.Provider interface for Ollama. Ollama's
// /api/chat endpoint takes the chat-completions message shape, so the full
// conversation is sent with the system prompt as the leading message.
// Ollama is self-hosted and needs a base URL instead of an API key.
type Client struct {
	httpClient *http.Client
	baseURL    string // e.g., "http://localhost:11434"
	modelName  string
	debug      bool
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ollamaChatRequest is the structure for the request body to Ollama's /api/chat.
type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"` // Non-streaming behavior for complete responses
}

// ollamaChatResponse is the structure for the response from Ollama's /api/chat
// when stream is false.
type ollamaChatResponse struct {
	Model     string            `json:"model"`
	CreatedAt time.Time         `json:"created_at"`
	Message   ollamaChatMessage `json:"message"`
	Done      bool              `json:"done"`
	Error     string            `json:"error,omitempty"` // Ollama might return an error field
}

// NewClient creates a new Ollama adapter.
// baseURL is the address of the Ollama server (e.g., "http://localhost:11434").
// debugMode controls verbose logging.
func NewClient(baseURL string, model string, requestTimeoutSeconds int, debugMode bool) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("ollama base URL is required")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model name is required")
	}
	// Validate and clean baseURL
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL '%s': %w", baseURL, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("ollama base URL scheme must be http or https, got '%s'", parsedURL.Scheme)
	}
	cleanedBaseURL := strings.TrimSuffix(parsedURL.String(), "/")

	if debugMode {
		log.Printf("Using Ollama model: %s at %s", model, cleanedBaseURL)
	}

	timeout := time.Duration(requestTimeoutSeconds) * time.Second
	if requestTimeoutSeconds <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   cleanedBaseURL,
		modelName: model,
		debug:     debugMode,
	}, nil
}

// Invoke sends the conversation to the Ollama model and returns the reply
// text.
func (c *Client) Invoke(ctx context.Context, turns []chat.Turn, systemPrompt string) (string, error) {
	if c.httpClient == nil {
		return "", fmt.Errorf("ollama client not initialized")
	}

	payload := ollamaChatRequest{
		Model:    c.modelName,
		Messages: buildMessages(turns, systemPrompt),
		Stream:   false, // Non-streaming response for complete output
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal Ollama request payload: %w", err)
	}

	requestURL := c.baseURL + chatAPIPath
	req, err := http.NewRequestWithContext(ctx, "POST", requestURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create Ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return "", fmt.Errorf("ollama request canceled: %w", ctx.Err())
		}
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("ollama request timed out: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to send request to Ollama server at %s: %w", requestURL, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read Ollama response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ollamaChatResponse
		if json.Unmarshal(responseBody, &errResp) == nil && errResp.Error != "" {
			return "", fmt.Errorf("ollama API error (status %d): %s. Raw: %s", resp.StatusCode, errResp.Error, string(responseBody))
		}
		return "", fmt.Errorf("ollama API request failed with status %s. Raw: %s", resp.Status, string(responseBody))
	}

	var ollamaResp ollamaChatResponse
	if err := json.Unmarshal(responseBody, &ollamaResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal Ollama response JSON: %w. Raw response: %s", err, string(responseBody))
	}

	if ollamaResp.Error != "" {
		return "", fmt.Errorf("ollama returned an error in response: %s", ollamaResp.Error)
	}

	if ollamaResp.Message.Content == "" {
		return "", fmt.Errorf("ollama response contained no message content")
	}

	return strings.TrimSpace(ollamaResp.Message.Content), nil
}

// buildMessages converts the transcript into Ollama's chat message list,
// injecting the system prompt as the leading system-role message.
func buildMessages(turns []chat.Turn, systemPrompt string) []ollamaChatMessage {
	messages := make([]ollamaChatMessage, 0, len(turns)+1)
	if systemPrompt != "" {
		messages = append(messages, ollamaChatMessage{Role: "system", Content: systemPrompt})
	}
	for _, t := range turns {
		messages = append(messages, ollamaChatMessage{Role: t.Role.String(), Content: t.Content})
	}
	return messages
}

// Name returns the name of this provider.
func (c *Client) Name() string {
	return providerName
}

// Close is a placeholder as net/http.Client typically doesn't need explicit
// closing for its default transport.
func (c *Client) Close() error {
	return nil
}
