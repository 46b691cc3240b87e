package genai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"adgallery/internal/config"
)

// Gemini calls the Gemini image generation API. It is the premium
// model; output is always square regardless of the requested size.
type Gemini struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGemini builds a client from configuration.
func NewGemini(cfg config.GenAIConfig) *Gemini {
	return &Gemini{
		baseURL: strings.TrimRight(cfg.GeminiBaseURL, "/"),
		apiKey:  cfg.GeminiKey,
		model:   cfg.GeminiModel,
		client:  newHTTPClient(cfg.RequestTimeout()),
	}
}

var _ ImageModel = (*Gemini)(nil)

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate requests one image and returns the first inline payload.
func (g *Gemini) Generate(ctx context.Context, req ImageRequest) (ImageResult, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
	}
	body.GenerationConfig.ResponseModalities = []string{"IMAGE"}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, g.model, url.QueryEscape(g.apiKey))

	var resp geminiResponse
	if err := doJSON(ctx, g.client, http.MethodPost, endpoint, nil, body, &resp); err != nil {
		return ImageResult{}, fmt.Errorf("gemini generate: %w", err)
	}

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return ImageResult{Base64: part.InlineData.Data}, nil
			}
		}
	}
	return ImageResult{}, fmt.Errorf("gemini generate: no inline image data in response")
}
