package model

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PromptMaxLen caps the generation prompt length.
const PromptMaxLen = 5000

var sizePattern = regexp.MustCompile(`^\d+x\d+$`)

// Validation errors surfaced to API clients verbatim.
var (
	ErrWorkspaceRequired   = errors.New("workspace_id is required")
	ErrPromptTooLong       = errors.New("prompt exceeds 5000 characters")
	ErrNoImages            = errors.New("at least one image is required")
	ErrImageFieldsMissing  = errors.New("image entries require filename, url and type")
	ErrInvalidImageType    = errors.New("image type must be \"url\" or \"base64\"")
	ErrAspectRatioRequired = errors.New("params.aspect_ratio is required")
	ErrInvalidAspectRatio  = errors.New("invalid aspect_ratio")
	ErrInvalidMode         = errors.New("mode must be \"custom\" or \"template\"")
	ErrInvalidSize         = errors.New("size must match <width>x<height>")
)

// ImageRef points at one generated image. URL is absolute for object-storage
// uploads and server-relative only before absolutization of local fallbacks.
type ImageRef struct {
	Filename string `bson:"filename" json:"filename"`
	URL      string `bson:"url" json:"url"`
	Type     string `bson:"type" json:"type"`
	Storage  string `bson:"storage,omitempty" json:"storage,omitempty"`
}

// Ad is the persisted record of one generation session: the prompt, the
// parameters it was built from and the images it produced. A document
// belongs to exactly one workspace for its entire lifetime.
type Ad struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkspaceID string             `bson:"workspace_id" json:"workspace_id"`
	Prompt      string             `bson:"prompt" json:"prompt"`
	Params      map[string]any     `bson:"params" json:"params"`
	Images      []ImageRef         `bson:"images" json:"images"`
	Mode        string             `bson:"mode" json:"mode"`
	Size        string             `bson:"size" json:"size"`
	CustomNote  string             `bson:"custom_note,omitempty" json:"custom_note,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// AspectRatio returns the required aspect_ratio key from Params, or "".
func (a *Ad) AspectRatio() string {
	s, _ := a.Params["aspect_ratio"].(string)
	return s
}

// Validate checks the invariants a document must satisfy before it is
// persisted. Params may carry arbitrary extra keys; only aspect_ratio is
// validated.
func (a *Ad) Validate() error {
	if strings.TrimSpace(a.WorkspaceID) == "" {
		return ErrWorkspaceRequired
	}
	if len(a.Prompt) > PromptMaxLen {
		return ErrPromptTooLong
	}
	if len(a.Images) == 0 {
		return ErrNoImages
	}
	for _, img := range a.Images {
		if img.Filename == "" || img.URL == "" || img.Type == "" {
			return ErrImageFieldsMissing
		}
		if img.Type != ImageTypeURL && img.Type != ImageTypeBase64 {
			return ErrInvalidImageType
		}
	}
	ar := a.AspectRatio()
	if ar == "" {
		return ErrAspectRatioRequired
	}
	if _, ok := AspectSize(ar); !ok {
		return ErrInvalidAspectRatio
	}
	if a.Mode != ModeCustom && a.Mode != ModeTemplate {
		return ErrInvalidMode
	}
	if !sizePattern.MatchString(a.Size) {
		return ErrInvalidSize
	}
	return nil
}

// ValidSize reports whether s matches the <width>x<height> pattern.
func ValidSize(s string) bool {
	return sizePattern.MatchString(s)
}
