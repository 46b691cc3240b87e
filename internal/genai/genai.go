package genai

// Package genai contains thin REST clients for the external generation
// APIs. Every call is a single attempt: transient vendor faults surface
// immediately and the calling service decides whether a fallback
// applies.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TextModel produces text completions, optionally conditioned on an
// attached image (vision analysis).
type TextModel interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ImageModel produces one image per request.
type ImageModel interface {
	Generate(ctx context.Context, req ImageRequest) (ImageResult, error)
}

// CompletionRequest describes one text completion call.
type CompletionRequest struct {
	Prompt string
	// ImageBase64, when set, is attached as a vision block. ImageType
	// carries its media type (e.g. "image/png").
	ImageBase64 string
	ImageType   string
	MaxTokens   int
	Temperature float64
}

// ImageRequest describes one image generation call.
type ImageRequest struct {
	Prompt string
	// Size is "<width>x<height>". Models that only support square output
	// ignore it.
	Size string
}

// ImageResult carries exactly one of Base64 or URL, depending on what
// the vendor returned.
type ImageResult struct {
	Base64 string
	URL    string
}

// APIError is a non-2xx vendor response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("genai http %d: %s", e.Status, e.Body)
}

const maxErrorBody = 2048

// newHTTPClient builds the shared outbound client with tracing on the
// transport.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// doJSON posts a JSON payload and decodes a JSON response. Non-2xx
// responses become *APIError with a truncated body.
func doJSON(ctx context.Context, client *http.Client, method, url string, headers map[string]string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
