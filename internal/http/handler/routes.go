package handler

import (
	"github.com/gofiber/fiber/v2"

	"adgallery/internal/service"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	DB               Pinger
	Gallery          service.GalleryService
	Prompts          service.PromptService
	Images           service.ImageService
	Users            service.UserService
	DefaultWorkspace string
	// LocalImagesDir, when non-empty, is served under /images for the
	// disk fallback store.
	LocalImagesDir string
}

// RegisterRoutes attaches the API surface to the provided Fiber app.
// Handlers stay free of business logic; they parse, delegate and shape
// responses.
func RegisterRoutes(app *fiber.App, deps Deps) {
	api := app.Group("/api")

	// Configuration
	api.Get("/config", GetConfig(deps.DefaultWorkspace))
	api.Get("/health", HealthCheck(deps.DB))

	// AI assistance
	api.Post("/analyze-image", AnalyzeImage(deps.Prompts))
	api.Post("/autofill-fields", AutofillFields(deps.Prompts))
	api.Post("/generate-prompts", GeneratePrompts(deps.Prompts))
	api.Post("/generate-images", GenerateImages(deps.Images, deps.DefaultWorkspace))

	// Gallery CRUD
	api.Post("/save-to-gallery", SaveToGallery(deps.Gallery, deps.DefaultWorkspace))
	api.Get("/ads", ListAds(deps.Gallery, deps.DefaultWorkspace))
	api.Get("/ads/:ad_id", GetAd(deps.Gallery))
	api.Put("/ads/:ad_id", UpdateAd(deps.Gallery))
	api.Delete("/ads/:ad_id", DeleteAd(deps.Gallery))
	api.Delete("/ads/:ad_id/images/:filename", RemoveAdImage(deps.Gallery))
	api.Delete("/delete-all-ads", DeleteAllAds(deps.Gallery, deps.DefaultWorkspace))

	// Statistics and debugging
	api.Get("/stats", Stats(deps.Gallery))
	api.Get("/debug/workspaces", DebugWorkspaces(deps.Gallery, deps.DefaultWorkspace))

	// User management
	api.Get("/user/status", UserStatus(deps.Users))
	api.Post("/user", CreateUser(deps.Users))
	api.Put("/user/subscription", UpdateUserSubscription(deps.Users))

	// Locally stored fallback images
	if deps.LocalImagesDir != "" {
		app.Static("/images", deps.LocalImagesDir)
	}
}
