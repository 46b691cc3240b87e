package repository

import (
	"context"

	"adgallery/internal/model"
)

// AdRepository defines data access for ad documents. No business logic
// here, strictly persistence operations against one collection.
type AdRepository interface {
	// Create inserts a new ad document. created_at and updated_at are
	// stamped to the same UTC instant; the returned string is the hex
	// form of the assigned identifier.
	Create(ctx context.Context, ad *model.Ad) (string, error)

	// FindByID returns an ad by its hex identifier. Returns ErrInvalidID
	// for a malformed identifier and ErrNotFound when nothing matches.
	FindByID(ctx context.Context, id string) (*model.Ad, error)

	// ListByWorkspace returns one page of a workspace's ads ordered by
	// created_at descending, plus the total matching count. aspectRatio,
	// when non-empty, narrows the query to params.aspect_ratio.
	ListByWorkspace(ctx context.Context, workspaceID string, pq PageQuery, aspectRatio string) (*PageResult[model.Ad], error)

	// UpdateMetadata merges the supplied fields into the document and
	// refreshes updated_at. Params keys not present in the update are left
	// untouched. Reports whether a document matched.
	UpdateMetadata(ctx context.Context, id string, upd MetadataUpdate) (bool, error)

	// RemoveImage removes every image record matching filename from the
	// document's images array. It reports false, without error, when
	// nothing matched or when the removal would leave the array empty.
	RemoveImage(ctx context.Context, id string, filename string) (bool, error)

	// Delete removes an ad and returns the deleted document so callers
	// can clean up its stored image blobs.
	Delete(ctx context.Context, id string) (*model.Ad, error)

	// DeleteByWorkspace removes every ad in the workspace and returns the
	// deleted documents for blob cleanup.
	DeleteByWorkspace(ctx context.Context, workspaceID string) ([]model.Ad, error)

	// WorkspaceStats returns the ad and image totals for one workspace.
	WorkspaceStats(ctx context.Context, workspaceID string) (*WorkspaceStats, error)

	// GlobalStats returns totals across every workspace.
	GlobalStats(ctx context.Context) (*GlobalStats, error)

	// Workspaces lists the distinct workspace identifiers.
	Workspaces(ctx context.Context) ([]string, error)

	// WorkspaceCounts maps each workspace identifier to its ad count.
	WorkspaceCounts(ctx context.Context) (map[string]int64, error)
}

// PageQuery holds skip/limit pagination parameters. Limit 0 means
// unbounded.
type PageQuery struct {
	Skip  int64
	Limit int64
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int64
}

// MetadataUpdate carries the optional fields of a metadata patch. Nil
// fields are not written.
type MetadataUpdate struct {
	// Params entries are merged key by key into the existing params map.
	Params     map[string]any
	CustomNote *string
	Tags       []string
}

// IsZero reports whether the update carries no fields at all.
func (u MetadataUpdate) IsZero() bool {
	return u.Params == nil && u.CustomNote == nil && u.Tags == nil
}

// WorkspaceStats aggregates one workspace's documents.
type WorkspaceStats struct {
	WorkspaceID string `json:"workspace_id"`
	TotalAds    int64  `json:"total_ads"`
	TotalImages int64  `json:"total_images"`
}

// GlobalStats aggregates across all workspaces.
type GlobalStats struct {
	TotalAds        int64    `json:"total_ads"`
	TotalImages     int64    `json:"total_images"`
	TotalWorkspaces int      `json:"total_workspaces"`
	Workspaces      []string `json:"workspaces"`
}
