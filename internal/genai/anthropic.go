package genai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"adgallery/internal/config"
)

const anthropicVersion = "2023-06-01"

// defaultMaxTokens bounds completions when the caller does not care.
const defaultMaxTokens = 2000

// Anthropic is a messages-API client used for prompt enhancement,
// field autofill and vision analysis.
type Anthropic struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewAnthropic builds a client from configuration.
func NewAnthropic(cfg config.GenAIConfig) *Anthropic {
	return &Anthropic{
		baseURL: strings.TrimRight(cfg.AnthropicBaseURL, "/"),
		apiKey:  cfg.AnthropicKey,
		model:   cfg.AnthropicModel,
		client:  newHTTPClient(cfg.RequestTimeout()),
	}
}

var _ TextModel = (*Anthropic)(nil)

type anthropicContentBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends one user message and returns the first text block.
func (a *Anthropic) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	var blocks []anthropicContentBlock
	if req.ImageBase64 != "" {
		mediaType := req.ImageType
		if mediaType == "" {
			mediaType = "image/png"
		}
		blocks = append(blocks, anthropicContentBlock{
			Type: "image",
			Source: &anthropicImageSource{
				Type:      "base64",
				MediaType: mediaType,
				Data:      req.ImageBase64,
			},
		})
	}
	blocks = append(blocks, anthropicContentBlock{Type: "text", Text: req.Prompt})

	body := anthropicRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: blocks}},
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var resp anthropicResponse
	if err := doJSON(ctx, a.client, http.MethodPost, a.baseURL+"/v1/messages", headers, body, &resp); err != nil {
		return "", fmt.Errorf("anthropic complete: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("anthropic complete: no text content in response")
}
