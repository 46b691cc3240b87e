package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adgallery/internal/genai"
	"adgallery/internal/model"
	"adgallery/internal/storage"
)

var (
	ErrPromptRequired      = errors.New("selected_prompt is required")
	ErrModelNotConfigured  = errors.New("requested image model is not configured")
	ErrNoImagesGenerated   = errors.New("no images could be generated")
	errNoStorageConfigured = errors.New("no storage backend configured")
)

// Model selection tags clients send in params.image_model.
const (
	ImageModelFree = "free"
	ImageModelPaid = "paid"
)

// ModelLabel is the human-readable name of the model serving a tier.
func ModelLabel(isPaid bool) string {
	if isPaid {
		return "Gemini 2.5 Flash Image"
	}
	return "Azure FLUX"
}

// ImageGenResult holds the outcome of one generation batch.
type ImageGenResult struct {
	Images []model.ImageRef `json:"images"`
	Size   string           `json:"size"`
}

// ImageService drives the image generation models and persists their
// output.
type ImageService interface {
	// GenerateImages produces up to n images for the prompt. The model is
	// picked by params.image_model ("paid" routes to the premium model).
	// Generation is per-image best effort; a batch fails only when every
	// image does.
	GenerateImages(ctx context.Context, prompt string, params map[string]any, n int, workspaceID string) (*ImageGenResult, error)
}

type imageService struct {
	flux     genai.ImageModel
	gemini   genai.ImageModel
	primary  storage.Storage
	fallback storage.Storage
	log      *zap.Logger
}

// NewImageService constructs a new ImageService. Either model or store
// may be nil when unconfigured; requests needing them fail cleanly.
func NewImageService(flux, gemini genai.ImageModel, primary, fallback storage.Storage, log *zap.Logger) ImageService {
	return &imageService{flux: flux, gemini: gemini, primary: primary, fallback: fallback, log: log}
}

func (s *imageService) GenerateImages(ctx context.Context, prompt string, params map[string]any, n int, workspaceID string) (*ImageGenResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrPromptRequired
	}
	if n <= 0 {
		n = 3
	}

	tier, _ := params["image_model"].(string)
	isPaid := tier == ImageModelPaid
	gen := s.flux
	if isPaid {
		gen = s.gemini
	}
	if gen == nil {
		return nil, ErrModelNotConfigured
	}

	aspect, _ := params["aspect_ratio"].(string)
	size := model.AspectSizeOrDefault(aspect)
	category, _ := params["category"].(string)
	if category == "" {
		category = "general"
	}

	s.log.Info("generating images",
		zap.String("workspace_id", workspaceID),
		zap.String("model", ModelLabel(isPaid)),
		zap.String("size", size),
		zap.Int("requested", n))

	images := make([]model.ImageRef, 0, n)
	for i := 0; i < n; i++ {
		res, err := gen.Generate(ctx, genai.ImageRequest{Prompt: prompt, Size: size})
		if err != nil {
			s.log.Warn("image generation failed",
				zap.Int("image", i+1), zap.Error(err))
			continue
		}

		ref, err := s.storeResult(ctx, res, workspaceID, category)
		if err != nil {
			s.log.Warn("image store failed",
				zap.Int("image", i+1), zap.Error(err))
			continue
		}
		images = append(images, ref)
	}

	if len(images) == 0 {
		return nil, ErrNoImagesGenerated
	}
	return &ImageGenResult{Images: images, Size: size}, nil
}

// storeResult persists one generation result. Base64 payloads are decoded
// and uploaded to object storage with a disk fallback; URL payloads pass
// through untouched.
func (s *imageService) storeResult(ctx context.Context, res genai.ImageResult, workspaceID, category string) (model.ImageRef, error) {
	filename := imageFilename(workspaceID, category)

	if res.Base64 != "" {
		raw, err := base64.StdEncoding.DecodeString(res.Base64)
		if err != nil {
			return model.ImageRef{}, fmt.Errorf("decode image payload: %w", err)
		}
		url, backend, err := s.putWithFallback(ctx, filename, raw)
		if err != nil {
			return model.ImageRef{}, err
		}
		return model.ImageRef{
			Filename: filename,
			URL:      url,
			Type:     model.ImageTypeBase64,
			Storage:  backend,
		}, nil
	}

	if res.URL != "" {
		return model.ImageRef{
			Filename: filename,
			URL:      res.URL,
			Type:     model.ImageTypeURL,
		}, nil
	}

	return model.ImageRef{}, fmt.Errorf("empty generation result")
}

// putWithFallback tries the object store first and degrades to local disk.
func (s *imageService) putWithFallback(ctx context.Context, filename string, raw []byte) (url, backend string, err error) {
	for _, store := range []storage.Storage{s.primary, s.fallback} {
		if store == nil {
			continue
		}
		_, perr := store.Put(ctx, filename, bytes.NewReader(raw), storage.PutObjectOptions{
			Size:        int64(len(raw)),
			ContentType: "image/png",
		})
		if perr != nil {
			s.log.Warn("storage put failed, trying next backend",
				zap.String("storage", store.Backend()),
				zap.String("filename", filename),
				zap.Error(perr))
			err = perr
			continue
		}
		u, uerr := store.PublicURL(ctx, filename)
		if uerr != nil {
			err = uerr
			continue
		}
		return u, store.Backend(), nil
	}
	if err == nil {
		err = errNoStorageConfigured
	}
	return "", "", fmt.Errorf("store image: %w", err)
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w-]+`)

// imageFilename builds the stored object name: workspace, sanitized
// category and a short random suffix.
func imageFilename(workspaceID, category string) string {
	safe := unsafeFilenameChars.ReplaceAllString(category, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		safe = "general"
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s.png", workspaceID, safe, suffix)
}
