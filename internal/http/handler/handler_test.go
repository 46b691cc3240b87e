package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"adgallery/internal/model"
	"adgallery/internal/repository"
	"adgallery/internal/service"
	serviceMocks "adgallery/internal/service/mocks"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func testAd() *model.Ad {
	ts := time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)
	return &model.Ad{
		ID:          primitive.NewObjectID(),
		WorkspaceID: "ws",
		Prompt:      "poster",
		Params:      map[string]any{"aspect_ratio": "instagram_post", "category": "Food"},
		Images: []model.ImageRef{
			{Filename: "ws_Food_0a1b2c3d.png", URL: "http://cdn/a.png", Type: "base64", Storage: "minio"},
		},
		Mode:      "custom",
		Size:      "1024x1024",
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := fiber.New()
		app.Get("/api/health", HealthCheck(&fakePinger{}))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "connected", body["mongodb"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		app := fiber.New()
		app.Get("/api/health", HealthCheck(&fakePinger{err: errors.New("no reachable servers")}))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "disconnected", body["mongodb"])
	})
}

func TestGetConfig(t *testing.T) {
	app := fiber.New()
	app.Get("/api/config", GetConfig("ws-main"))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/config", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ws-main", body["workspace_id"])
	for _, key := range []string{"ad_objectives", "visual_styles", "lighting_styles", "backgrounds", "product_angles", "cta_options", "aspect_ratios"} {
		assert.Contains(t, body, key)
	}
	ratios := body["aspect_ratios"].(map[string]any)
	assert.Equal(t, "Instagram Post (1:1)", ratios["instagram_post"])
	assert.Len(t, ratios, 8)
}

func TestAnalyzeImage(t *testing.T) {
	mockSvc := new(serviceMocks.MockPromptService)
	app := fiber.New()
	app.Post("/api/analyze-image", AnalyzeImage(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("AnalyzeImage", mock.Anything, "iVBORw0KGgo=").
			Return(&service.ImageAnalysis{
				VisualDescription: "a burger on slate",
				Fields:            map[string]any{"headline": "Big Bite"},
			}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/analyze-image",
			jsonBody(t, fiber.Map{"image": "iVBORw0KGgo="}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "a burger on slate", body["visual_description"])
		assert.Equal(t, "Big Bite", body["extracted_fields"].(map[string]any)["headline"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing image", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze-image", jsonBody(t, fiber.Map{}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
	})
}

func TestAutofillFields(t *testing.T) {
	mockSvc := new(serviceMocks.MockPromptService)
	app := fiber.New()
	app.Post("/api/autofill-fields", AutofillFields(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("AutofillFields", mock.Anything, "spicy burgers", "Food", "Spice Lane").
			Return(map[string]any{"headline": "Taste The Fire"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/autofill-fields", jsonBody(t, fiber.Map{
			"product_description": "spicy burgers",
			"category":            "Food",
			"brand_name":          "Spice Lane",
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Taste The Fire", body["data"].(map[string]any)["headline"])
	})

	t.Run("missing description", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/autofill-fields", jsonBody(t, fiber.Map{}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGeneratePrompts(t *testing.T) {
	mockSvc := new(serviceMocks.MockPromptService)
	app := fiber.New()
	app.Post("/api/generate-prompts", GeneratePrompts(mockSvc))

	t.Run("success", func(t *testing.T) {
		vars := []service.PromptVariation{
			{ID: 1, Prompt: "long prompt", Preview: "long prompt", Length: 11, Rating: 5, Description: "Person: Right | Content: Left | Warm lighting, beige gradient"},
			{ID: 2, Prompt: "short", Preview: "short", Length: 5, Rating: 4, Description: "Person: Left | Content: Right | Dramatic lighting, dark gradient"},
		}
		mockSvc.On("GenerateVariations", mock.Anything, mock.Anything, 2).Return(vars, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/generate-prompts", jsonBody(t, fiber.Map{
			"params":         fiber.Map{"aspect_ratio": "instagram_post"},
			"num_variations": 2,
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.EqualValues(t, 2, body["total_variations"])
		assert.Len(t, body["variations"].([]any), 2)
		assert.Contains(t, body, "params")
	})

	t.Run("missing aspect ratio", func(t *testing.T) {
		mockSvc.On("GenerateVariations", mock.Anything, mock.Anything, 0).
			Return(nil, model.ErrAspectRatioRequired).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/generate-prompts", jsonBody(t, fiber.Map{
			"params": fiber.Map{},
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		assert.Equal(t, "params.aspect_ratio is required", res.Error.Message)
	})
}

func TestGenerateImages(t *testing.T) {
	mockSvc := new(serviceMocks.MockImageService)
	app := fiber.New()
	app.Post("/api/generate-images", GenerateImages(mockSvc, "ws-default"))

	t.Run("success falls back to the configured workspace", func(t *testing.T) {
		res := &service.ImageGenResult{
			Images: []model.ImageRef{{Filename: "f.png", URL: "http://cdn/f.png", Type: "base64", Storage: "minio"}},
			Size:   "1024x1024",
		}
		mockSvc.On("GenerateImages", mock.Anything, "a poster", mock.Anything, 3, "ws-default").
			Return(res, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/generate-images", jsonBody(t, fiber.Map{
			"selected_prompt": "a poster",
			"params":          fiber.Map{"image_model": "free"},
			"num_images":      3,
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "ws-default", body["workspace_id"])
		assert.EqualValues(t, 1, body["total_images"])
		assert.Equal(t, "1024x1024", body["size"])
		assert.Equal(t, "Generated 1 images successfully", body["message"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing prompt", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generate-images", jsonBody(t, fiber.Map{
			"params": fiber.Map{},
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSaveToGallery(t *testing.T) {
	mockSvc := new(serviceMocks.MockGalleryService)
	app := fiber.New()
	app.Post("/api/save-to-gallery", SaveToGallery(mockSvc, "ws-default"))

	t.Run("created", func(t *testing.T) {
		mockSvc.On("SaveAd", mock.Anything, mock.MatchedBy(func(in service.SaveAdInput) bool {
			return in.WorkspaceID == "ws-default" && len(in.Images) == 2
		})).Return("656f1e9a8b4c3d2e1f0a9b8c", nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/save-to-gallery", jsonBody(t, fiber.Map{
			"prompt": "poster",
			"params": fiber.Map{"aspect_ratio": "instagram_post"},
			"images": []fiber.Map{
				{"filename": "a.png", "url": "http://cdn/a.png", "type": "base64"},
				{"filename": "b.png", "url": "http://cdn/b.png", "type": "url"},
			},
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "656f1e9a8b4c3d2e1f0a9b8c", body["ad_id"])
		assert.Equal(t, "Saved 2 images to gallery", body["message"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("no images", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/save-to-gallery", jsonBody(t, fiber.Map{
			"params": fiber.Map{"aspect_ratio": "instagram_post"},
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
	})

	t.Run("validation error from the service", func(t *testing.T) {
		mockSvc.On("SaveAd", mock.Anything, mock.Anything).
			Return("", model.ErrInvalidAspectRatio).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/save-to-gallery", jsonBody(t, fiber.Map{
			"params": fiber.Map{"aspect_ratio": "bogus"},
			"images": []fiber.Map{{"filename": "a.png", "url": "u", "type": "base64"}},
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListAds(t *testing.T) {
	mockSvc := new(serviceMocks.MockGalleryService)
	app := fiber.New()
	app.Get("/api/ads", ListAds(mockSvc, "ws-default"))

	t.Run("success", func(t *testing.T) {
		ad := testAd()
		mockSvc.On("ListAds", mock.Anything, "ws-default", int64(10), int64(0), "instagram_post").
			Return(&service.AdListResult{Items: []model.Ad{*ad}, Total: 7}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/ads?limit=10&aspect_ratio=instagram_post", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.EqualValues(t, 7, body["total"])
		assert.EqualValues(t, 1, body["count"])

		got := body["ads"].([]any)[0].(map[string]any)
		assert.Equal(t, ad.ID.Hex(), got["id"])
		assert.Equal(t, "2024-05-20T10:30:00Z", got["created_at"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/ads?limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_LIMIT", res.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("ListAds", mock.Anything, "ws-default", int64(50), int64(0), "").
			Return(nil, errors.New("socket closed")).Once()

		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
		app.Get("/api/ads", ListAds(mockSvc, "ws-default"))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/ads", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
		assert.Equal(t, "internal server error", res.Error.Message)
	})
}

func TestGetAd(t *testing.T) {
	mockSvc := new(serviceMocks.MockGalleryService)
	app := fiber.New()
	app.Get("/api/ads/:ad_id", GetAd(mockSvc))

	t.Run("success", func(t *testing.T) {
		ad := testAd()
		mockSvc.On("GetAd", mock.Anything, ad.ID.Hex()).Return(ad, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/ads/"+ad.ID.Hex(), nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, ad.ID.Hex(), body["ad"].(map[string]any)["id"])
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("GetAd", mock.Anything, "656f1e9a8b4c3d2e1f0a9b8c").
			Return(nil, repository.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/ads/656f1e9a8b4c3d2e1f0a9b8c", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		mockSvc.On("GetAd", mock.Anything, "not-a-hex-id").
			Return(nil, repository.ErrInvalidID).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/ads/not-a-hex-id", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})
}

func TestUpdateAd(t *testing.T) {
	mockSvc := new(serviceMocks.MockGalleryService)
	app := fiber.New()
	app.Put("/api/ads/:ad_id", UpdateAd(mockSvc))

	t.Run("success", func(t *testing.T) {
		ad := testAd()
		ad.CustomNote = "favorite"
		note := "favorite"
		mockSvc.On("UpdateAdMetadata", mock.Anything, ad.ID.Hex(), repository.MetadataUpdate{CustomNote: &note}).
			Return(ad, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/ads/"+ad.ID.Hex(),
			jsonBody(t, fiber.Map{"custom_note": "favorite"}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Ad updated successfully", body["message"])
		assert.Equal(t, "favorite", body["ad"].(map[string]any)["custom_note"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("UpdateAdMetadata", mock.Anything, "656f1e9a8b4c3d2e1f0a9b8c", mock.Anything).
			Return(nil, repository.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/ads/656f1e9a8b4c3d2e1f0a9b8c",
			jsonBody(t, fiber.Map{"custom_note": "x"}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteAd(t *testing.T) {
	mockSvc := new(serviceMocks.MockGalleryService)
	app := fiber.New()
	app.Delete("/api/ads/:ad_id", DeleteAd(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("DeleteAd", mock.Anything, "656f1e9a8b4c3d2e1f0a9b8c").Return(2, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/ads/656f1e9a8b4c3d2e1f0a9b8c", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.EqualValues(t, 2, body["deleted_files"])
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("DeleteAd", mock.Anything, "656f1e9a8b4c3d2e1f0a9b8c").
			Return(0, repository.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/ads/656f1e9a8b4c3d2e1f0a9b8c", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRemoveAdImage(t *testing.T) {
	mockSvc := new(serviceMocks.MockGalleryService)
	app := fiber.New()
	app.Delete("/api/ads/:ad_id/images/:filename", RemoveAdImage(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("RemoveImage", mock.Anything, "656f1e9a8b4c3d2e1f0a9b8c", "ws_Food_0a1b2c3d.png").
			Return(1, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete,
			"/api/ads/656f1e9a8b4c3d2e1f0a9b8c/images/ws_Food_0a1b2c3d.png", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.EqualValues(t, 1, body["remaining_images"])
		assert.Equal(t, "Image ws_Food_0a1b2c3d.png deleted successfully", body["message"])
	})

	t.Run("rejected removal", func(t *testing.T) {
		mockSvc.On("RemoveImage", mock.Anything, "656f1e9a8b4c3d2e1f0a9b8c", "last.png").
			Return(0, service.ErrImageNotRemoved).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete,
			"/api/ads/656f1e9a8b4c3d2e1f0a9b8c/images/last.png", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteAllAds(t *testing.T) {
	mockSvc := new(serviceMocks.MockGalleryService)
	app := fiber.New()
	app.Delete("/api/delete-all-ads", DeleteAllAds(mockSvc, "ws-default"))

	mockSvc.On("DeleteWorkspaceAds", mock.Anything, "ws-other").Return(int64(4), nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/delete-all-ads?workspace_id=ws-other", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.EqualValues(t, 4, body["deleted_count"])
	assert.Equal(t, "Deleted 4 ads from gallery", body["message"])
	mockSvc.AssertExpectations(t)
}

func TestStats(t *testing.T) {
	mockSvc := new(serviceMocks.MockGalleryService)
	app := fiber.New()
	app.Get("/api/stats", Stats(mockSvc))

	t.Run("global", func(t *testing.T) {
		mockSvc.On("GlobalStats", mock.Anything).Return(&repository.GlobalStats{
			TotalAds: 5, TotalImages: 12, TotalWorkspaces: 2, Workspaces: []string{"ws", "other"},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/stats", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.EqualValues(t, 5, body["total_ads"])
		assert.EqualValues(t, 12, body["total_images"])
		assert.EqualValues(t, 2, body["total_workspaces"])
		assert.Len(t, body["workspaces"].([]any), 2)
	})

	t.Run("per workspace", func(t *testing.T) {
		mockSvc.On("WorkspaceStats", mock.Anything, "ws").Return(&repository.WorkspaceStats{
			WorkspaceID: "ws", TotalAds: 3, TotalImages: 6,
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/stats?workspace_id=ws", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "ws", body["workspace_id"])
		assert.EqualValues(t, 6, body["total_images"])
	})
}

func TestDebugWorkspaces(t *testing.T) {
	mockSvc := new(serviceMocks.MockGalleryService)
	app := fiber.New()
	app.Get("/api/debug/workspaces", DebugWorkspaces(mockSvc, "ws"))

	mockSvc.On("Workspaces", mock.Anything).Return([]string{"ws", "other"}, nil).Once()
	mockSvc.On("WorkspaceCounts", mock.Anything).Return(map[string]int64{"ws": 3, "other": 4}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/debug/workspaces", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "ws", body["configured_workspace_id"])
	assert.EqualValues(t, 3, body["configured_workspace_count"])
	assert.EqualValues(t, 7, body["total_documents"])
	assert.Len(t, body["all_workspaces"].([]any), 2)
}

func TestUserEndpoints(t *testing.T) {
	t.Run("status creates on first sight", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockUserService)
		app := fiber.New()
		app.Get("/api/user/status", UserStatus(mockSvc))

		mockSvc.On("GetOrCreate", mock.Anything, "u1", "").
			Return(&model.User{UserID: "u1", IsPaid: true, Email: "u1@example.com"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/user/status?user_id=u1", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "u1", body["user_id"])
		assert.Equal(t, true, body["is_paid"])
		assert.Equal(t, "Gemini 2.5 Flash Image", body["model"])
	})

	t.Run("create", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockUserService)
		app := fiber.New()
		app.Post("/api/user", CreateUser(mockSvc))

		mockSvc.On("Create", mock.Anything, "u2", "u2@example.com", false).
			Return(&model.User{UserID: "u2"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/user", jsonBody(t, fiber.Map{
			"user_id": "u2", "email": "u2@example.com",
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Azure FLUX", body["model"])
	})

	t.Run("create duplicate", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockUserService)
		app := fiber.New()
		app.Post("/api/user", CreateUser(mockSvc))

		mockSvc.On("Create", mock.Anything, "u2", "", false).
			Return(nil, service.ErrUserExists).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/user", jsonBody(t, fiber.Map{"user_id": "u2"}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "USER_EXISTS", res.Error.Code)
	})

	t.Run("update subscription", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockUserService)
		app := fiber.New()
		app.Put("/api/user/subscription", UpdateUserSubscription(mockSvc))

		mockSvc.On("UpdateSubscription", mock.Anything, "u3", true).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/user/subscription", jsonBody(t, fiber.Map{
			"user_id": "u3", "is_paid": true,
		}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "User subscription updated to paid", body["message"])
		assert.Equal(t, "Gemini 2.5 Flash Image", body["model"])
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(zap.NewNop()),
	})

	RegisterRoutes(app, Deps{
		DB:               &fakePinger{},
		Gallery:          new(serviceMocks.MockGalleryService),
		Prompts:          new(serviceMocks.MockPromptService),
		Images:           new(serviceMocks.MockImageService),
		Users:            new(serviceMocks.MockUserService),
		DefaultWorkspace: "ws",
	})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/health", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}
