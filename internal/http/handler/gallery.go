package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"adgallery/internal/model"
	"adgallery/internal/repository"
	"adgallery/internal/service"
)

type saveToGalleryRequest struct {
	WorkspaceID string           `json:"workspace_id"`
	Prompt      string           `json:"prompt"`
	Params      map[string]any   `json:"params"`
	Images      []model.ImageRef `json:"images"`
	Size        string           `json:"size"`
}

// SaveToGallery persists a set of generated images as one ad document.
// @Summary Save images to the gallery
// @Tags gallery
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /api/save-to-gallery [post]
func SaveToGallery(gallery service.GalleryService, defaultWorkspace string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveToGalleryRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if len(req.Images) == 0 {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "no images provided")
		}
		workspaceID := req.WorkspaceID
		if workspaceID == "" {
			workspaceID = defaultWorkspace
		}

		id, err := gallery.SaveAd(c.UserContext(), service.SaveAdInput{
			WorkspaceID: workspaceID,
			Prompt:      req.Prompt,
			Params:      req.Params,
			Images:      req.Images,
			Size:        req.Size,
		})
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"ad_id":   id,
			"message": fmt.Sprintf("Saved %d images to gallery", len(req.Images)),
		})
	}
}

// ListAds returns one page of a workspace's ads, newest first.
// @Summary List gallery ads
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/ads [get]
func ListAds(gallery service.GalleryService, defaultWorkspace string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		skip, err := strconv.ParseInt(c.Query("skip", "0"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SKIP", "invalid skip")
		}
		workspaceID := c.Query("workspace_id", defaultWorkspace)

		res, err := gallery.ListAds(c.UserContext(), workspaceID, limit, skip, c.Query("aspect_ratio"))
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"total":   res.Total,
			"count":   len(res.Items),
			"ads":     res.Items,
		})
	}
}

// GetAd returns a single ad by its hex id.
// @Summary Get one ad
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/ads/{ad_id} [get]
func GetAd(gallery service.GalleryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ad, err := gallery.GetAd(c.UserContext(), c.Params("ad_id"))
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"ad":      ad,
		})
	}
}

type updateAdRequest struct {
	Params     map[string]any `json:"params"`
	CustomNote *string        `json:"custom_note"`
	Tags       []string       `json:"tags"`
}

// UpdateAd merges a metadata patch into the ad and returns the updated
// document.
// @Summary Update ad metadata
// @Tags gallery
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/ads/{ad_id} [put]
func UpdateAd(gallery service.GalleryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateAdRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		ad, err := gallery.UpdateAdMetadata(c.UserContext(), c.Params("ad_id"), repository.MetadataUpdate{
			Params:     req.Params,
			CustomNote: req.CustomNote,
			Tags:       req.Tags,
		})
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Ad updated successfully",
			"ad":      ad,
		})
	}
}

// DeleteAd removes an ad and its stored image blobs.
// @Summary Delete an ad
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/ads/{ad_id} [delete]
func DeleteAd(gallery service.GalleryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deleted, err := gallery.DeleteAd(c.UserContext(), c.Params("ad_id"))
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"message":       "Ad deleted successfully",
			"deleted_files": deleted,
		})
	}
}

// RemoveAdImage removes one image from an ad.
// @Summary Remove one image from an ad
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/ads/{ad_id}/images/{filename} [delete]
func RemoveAdImage(gallery service.GalleryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filename := c.Params("filename")
		remaining, err := gallery.RemoveImage(c.UserContext(), c.Params("ad_id"), filename)
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":          true,
			"message":          fmt.Sprintf("Image %s deleted successfully", filename),
			"remaining_images": remaining,
		})
	}
}

// DeleteAllAds wipes a workspace's gallery.
// @Summary Delete every ad in a workspace
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/delete-all-ads [delete]
func DeleteAllAds(gallery service.GalleryService, defaultWorkspace string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		workspaceID := c.Query("workspace_id", defaultWorkspace)

		count, err := gallery.DeleteWorkspaceAds(c.UserContext(), workspaceID)
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"deleted_count": count,
			"message":       fmt.Sprintf("Deleted %d ads from gallery", count),
		})
	}
}

// Stats returns gallery statistics, per workspace when workspace_id is
// supplied and global otherwise.
// @Summary Gallery statistics
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/stats [get]
func Stats(gallery service.GalleryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if workspaceID := c.Query("workspace_id"); workspaceID != "" {
			stats, err := gallery.WorkspaceStats(c.UserContext(), workspaceID)
			if err != nil {
				return respondDomainError(c, err)
			}
			return c.JSON(fiber.Map{
				"success":      true,
				"workspace_id": stats.WorkspaceID,
				"total_ads":    stats.TotalAds,
				"total_images": stats.TotalImages,
			})
		}

		stats, err := gallery.GlobalStats(c.UserContext())
		if err != nil {
			return respondDomainError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":          true,
			"total_ads":        stats.TotalAds,
			"total_images":     stats.TotalImages,
			"total_workspaces": stats.TotalWorkspaces,
			"workspaces":       stats.Workspaces,
		})
	}
}

// DebugWorkspaces lists every workspace with its document count.
// @Summary Workspace debug listing
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/debug/workspaces [get]
func DebugWorkspaces(gallery service.GalleryService, defaultWorkspace string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		workspaces, err := gallery.Workspaces(c.UserContext())
		if err != nil {
			return respondDomainError(c, err)
		}
		counts, err := gallery.WorkspaceCounts(c.UserContext())
		if err != nil {
			return respondDomainError(c, err)
		}

		var total int64
		for _, n := range counts {
			total += n
		}
		return c.JSON(fiber.Map{
			"success":                    true,
			"configured_workspace_id":    defaultWorkspace,
			"configured_workspace_count": counts[defaultWorkspace],
			"all_workspaces":             workspaces,
			"workspace_counts":           counts,
			"total_documents":            total,
		})
	}
}
