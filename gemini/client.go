// Package gemini provides a chat adapter for Google's Gemini models.
package gemini

import (
	"context"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/xostack/askai/chat"
)

const providerName = "gemini"

// Client implements the chat.Provider interface for Gemini through the
// Google GenAI SDK. This is a single-call adapter: each request carries only
// the latest user text, because generate-content has no persistent system
// channel or server-side history. On the conversation's first turn a system
// prompt is prepended to the user text instead.
type Client struct {
	genaiClient *genai.Client
	modelName   string
}

// NewClient creates a new Gemini adapter.
// It requires a context for initialization (can be context.Background()),
// the API key, the model name, a request timeout for consistency with the
// other providers, and a debugMode flag. The timeout applies per request
// through the context handed to Invoke; the SDK owns the connection, so the
// initialization context must outlive this constructor.
func NewClient(ctx context.Context, apiKey string, model string, requestTimeoutSeconds int, debugMode bool) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model name is required")
	}
	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		log.Printf("Error initializing Google GenAI client: %v. Make sure your API key is valid and has permissions.", err)
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if debugMode {
		log.Printf("Using Gemini model: %s", model)
	}

	return &Client{
		genaiClient: genaiClient,
		modelName:   model,
	}, nil
}

// Invoke sends the latest user text to the Gemini model and returns the
// reply text. Earlier turns are not transmitted.
func (c *Client) Invoke(ctx context.Context, turns []chat.Turn, systemPrompt string) (string, error) {
	if c.genaiClient == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	payload, err := buildPayload(turns, systemPrompt)
	if err != nil {
		return "", err
	}

	model := c.genaiClient.GenerativeModel(c.modelName)
	if model == nil {
		return "", fmt.Errorf("failed to get generative model: %s", c.modelName)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(payload))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from Gemini: %w", err)
	}

	// The response can have multiple candidates; use the first one and
	// concatenate its text parts.
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
			return "", fmt.Errorf("gemini content generation blocked due to safety settings")
		}
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("gemini prompt blocked: %s", resp.PromptFeedback.BlockReason.String())
		}
		return "", fmt.Errorf("gemini response was empty or malformed")
	}

	var resultText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			resultText += string(txt)
		} else {
			log.Printf("Gemini client received non-text part: %T. Ignoring.", part)
		}
	}

	if resultText == "" {
		return "", fmt.Errorf("gemini response contained no usable text content")
	}

	return resultText, nil
}

// buildPayload extracts the latest user text from the transcript. When this
// is the conversation's first turn and a system prompt exists, the system
// text is prepended, separated by a newline.
func buildPayload(turns []chat.Turn, systemPrompt string) (string, error) {
	var userText string
	found := false
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == chat.RoleUser {
			userText = turns[i].Content
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("gemini request requires a user turn")
	}

	if systemPrompt != "" && len(turns) == 1 {
		return systemPrompt + "\n" + userText, nil
	}
	return userText, nil
}

// Name returns the name of this provider.
func (c *Client) Name() string {
	return providerName
}

// Close cleans up the genaiClient.
func (c *Client) Close() error {
	if c.genaiClient != nil {
		return c.genaiClient.Close()
	}
	return nil
}
