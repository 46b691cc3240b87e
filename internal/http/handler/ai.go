package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"adgallery/internal/service"
)

type analyzeImageRequest struct {
	Image string `json:"image"`
}

// AnalyzeImage extracts text fields and a visual description from an
// uploaded poster image.
// @Summary Analyze an ad image
// @Tags ai
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/analyze-image [post]
func AnalyzeImage(prompts service.PromptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req analyzeImageRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Image == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "image data is required")
		}

		res, err := prompts.AnalyzeImage(c.UserContext(), req.Image)
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":            true,
			"visual_description": res.VisualDescription,
			"extracted_fields":   res.Fields,
		})
	}
}

type autofillRequest struct {
	ProductDescription string `json:"product_description"`
	Category           string `json:"category"`
	BrandName          string `json:"brand_name"`
}

// AutofillFields drafts short ad copy for every form field from a free
// text product description.
// @Summary Autofill ad form fields
// @Tags ai
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/autofill-fields [post]
func AutofillFields(prompts service.PromptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req autofillRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.ProductDescription == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "product_description is required")
		}

		data, err := prompts.AutofillFields(c.UserContext(), req.ProductDescription, req.Category, req.BrandName)
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    data,
		})
	}
}

type generatePromptsRequest struct {
	Params        map[string]any `json:"params"`
	NumVariations int            `json:"num_variations"`
}

// GeneratePrompts builds prompt variations from the ad parameters.
// @Summary Generate prompt variations
// @Tags ai
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/generate-prompts [post]
func GeneratePrompts(prompts service.PromptService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req generatePromptsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Params == nil {
			req.Params = map[string]any{}
		}

		variations, err := prompts.GenerateVariations(c.UserContext(), req.Params, req.NumVariations)
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":          true,
			"total_variations": len(variations),
			"variations":       variations,
			"params":           req.Params,
		})
	}
}

type generateImagesRequest struct {
	SelectedPrompt string         `json:"selected_prompt"`
	Params         map[string]any `json:"params"`
	NumImages      int            `json:"num_images"`
	WorkspaceID    string         `json:"workspace_id"`
}

// GenerateImages runs the selected prompt through the image model and
// stores the results.
// @Summary Generate ad images
// @Tags ai
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /api/generate-images [post]
func GenerateImages(images service.ImageService, defaultWorkspace string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req generateImagesRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.SelectedPrompt == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "selected_prompt is required")
		}
		workspaceID := req.WorkspaceID
		if workspaceID == "" {
			workspaceID = defaultWorkspace
		}

		res, err := images.GenerateImages(c.UserContext(), req.SelectedPrompt, req.Params, req.NumImages, workspaceID)
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":      true,
			"workspace_id": workspaceID,
			"total_images": len(res.Images),
			"images":       res.Images,
			"prompt":       req.SelectedPrompt,
			"params":       req.Params,
			"size":         res.Size,
			"message":      fmt.Sprintf("Generated %d images successfully", len(res.Images)),
		})
	}
}
