package genai

import (
	"context"
	"fmt"
	"net/http"

	"adgallery/internal/config"
)

// Flux calls an Azure-hosted FLUX image endpoint. It is the model
// served to free-tier users and supports arbitrary output sizes.
type Flux struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewFlux builds a client from configuration.
func NewFlux(cfg config.GenAIConfig) *Flux {
	return &Flux{
		endpoint: cfg.FluxEndpoint,
		apiKey:   cfg.FluxKey,
		client:   newHTTPClient(cfg.RequestTimeout()),
	}
}

var _ ImageModel = (*Flux)(nil)

type fluxRequest struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type fluxResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
}

// Generate requests one image. The endpoint answers with either inline
// base64 or a download URL.
func (f *Flux) Generate(ctx context.Context, req ImageRequest) (ImageResult, error) {
	body := fluxRequest{Prompt: req.Prompt, N: 1, Size: req.Size}
	headers := map[string]string{"api-key": f.apiKey}

	var resp fluxResponse
	if err := doJSON(ctx, f.client, http.MethodPost, f.endpoint, headers, body, &resp); err != nil {
		return ImageResult{}, fmt.Errorf("flux generate: %w", err)
	}

	if len(resp.Data) == 0 {
		return ImageResult{}, fmt.Errorf("flux generate: empty data in response")
	}

	item := resp.Data[0]
	switch {
	case item.B64JSON != "":
		return ImageResult{Base64: item.B64JSON}, nil
	case item.URL != "":
		return ImageResult{URL: item.URL}, nil
	default:
		return ImageResult{}, fmt.Errorf("flux generate: response carries neither b64_json nor url")
	}
}
