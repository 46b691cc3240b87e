package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"adgallery/internal/model"
	"adgallery/internal/repository"
	"adgallery/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	// ErrImageNotRemoved covers both an unknown ad and a removal the
	// repository rejected (no matching image, or it was the last one).
	ErrImageNotRemoved = errors.New("ad not found or image not removable")
	ErrUserExists      = errors.New("user already exists")
)

// SaveAdInput carries the fields of a gallery save request.
type SaveAdInput struct {
	WorkspaceID string
	Prompt      string
	Params      map[string]any
	Images      []model.ImageRef
	Size        string
}

// AdListResult is the service-level DTO for paginated ads.
type AdListResult struct {
	Items []model.Ad `json:"ads"`
	Total int64      `json:"total"`
}

// GalleryService defines the use cases for persisted ad documents.
type GalleryService interface {
	// SaveAd validates and persists a new ad document, returning its hex id.
	SaveAd(ctx context.Context, in SaveAdInput) (string, error)

	// ListAds returns one page of a workspace's ads, newest first.
	// aspectRatio, when non-empty, narrows the listing.
	ListAds(ctx context.Context, workspaceID string, limit, skip int64, aspectRatio string) (*AdListResult, error)

	// GetAd returns a single ad by its hex id.
	GetAd(ctx context.Context, id string) (*model.Ad, error)

	// UpdateAdMetadata merges the patch into the document and returns the
	// updated ad.
	UpdateAdMetadata(ctx context.Context, id string, upd repository.MetadataUpdate) (*model.Ad, error)

	// RemoveImage removes one image from an ad, deletes its blob best-effort,
	// and returns the remaining image count.
	RemoveImage(ctx context.Context, id string, filename string) (int, error)

	// DeleteAd removes an ad and its stored blobs, returning the number of
	// blobs actually deleted.
	DeleteAd(ctx context.Context, id string) (int, error)

	// DeleteWorkspaceAds removes every ad in the workspace along with their
	// blobs and returns the number of deleted documents.
	DeleteWorkspaceAds(ctx context.Context, workspaceID string) (int64, error)

	WorkspaceStats(ctx context.Context, workspaceID string) (*repository.WorkspaceStats, error)
	GlobalStats(ctx context.Context) (*repository.GlobalStats, error)
	Workspaces(ctx context.Context) ([]string, error)
	WorkspaceCounts(ctx context.Context) (map[string]int64, error)
}

// galleryService is a concrete implementation of GalleryService.
type galleryService struct {
	repo     repository.AdRepository
	primary  storage.Storage
	fallback storage.Storage
	log      *zap.Logger
}

// NewGalleryService constructs a new GalleryService. Either store may be
// nil when the backend is not configured; blob cleanup then skips its
// images.
func NewGalleryService(repo repository.AdRepository, primary, fallback storage.Storage, log *zap.Logger) GalleryService {
	return &galleryService{repo: repo, primary: primary, fallback: fallback, log: log}
}

func (s *galleryService) SaveAd(ctx context.Context, in SaveAdInput) (string, error) {
	size := in.Size
	if size == "" {
		size = model.DefaultSize
	}
	params := in.Params
	if params == nil {
		params = map[string]any{}
	}

	ad := &model.Ad{
		WorkspaceID: in.WorkspaceID,
		Prompt:      in.Prompt,
		Params:      params,
		Images:      in.Images,
		Mode:        model.ModeCustom,
		Size:        size,
	}
	if err := ad.Validate(); err != nil {
		return "", err
	}
	return s.repo.Create(ctx, ad)
}

func (s *galleryService) ListAds(ctx context.Context, workspaceID string, limit, skip int64, aspectRatio string) (*AdListResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	res, err := s.repo.ListByWorkspace(ctx, workspaceID, repository.PageQuery{Skip: skip, Limit: limit}, aspectRatio)
	if err != nil {
		return nil, err
	}
	return &AdListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *galleryService) GetAd(ctx context.Context, id string) (*model.Ad, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.FindByID(ctx, id)
}

func (s *galleryService) UpdateAdMetadata(ctx context.Context, id string, upd repository.MetadataUpdate) (*model.Ad, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	ok, err := s.repo.UpdateMetadata(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *galleryService) RemoveImage(ctx context.Context, id string, filename string) (int, error) {
	if id == "" {
		return 0, ErrIDRequired
	}

	// Fetch first so the blob's backend is known before the record goes away.
	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	var removed *model.ImageRef
	for i := range ad.Images {
		if ad.Images[i].Filename == filename {
			removed = &ad.Images[i]
			break
		}
	}

	ok, err := s.repo.RemoveImage(ctx, id, filename)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrImageNotRemoved
	}

	if removed != nil {
		s.deleteBlobs(ctx, []model.ImageRef{*removed})
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return len(updated.Images), nil
}

func (s *galleryService) DeleteAd(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, ErrIDRequired
	}
	ad, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.deleteBlobs(ctx, ad.Images), nil
}

func (s *galleryService) DeleteWorkspaceAds(ctx context.Context, workspaceID string) (int64, error) {
	ads, err := s.repo.DeleteByWorkspace(ctx, workspaceID)
	if err != nil {
		return 0, err
	}
	for _, ad := range ads {
		s.deleteBlobs(ctx, ad.Images)
	}
	return int64(len(ads)), nil
}

func (s *galleryService) WorkspaceStats(ctx context.Context, workspaceID string) (*repository.WorkspaceStats, error) {
	return s.repo.WorkspaceStats(ctx, workspaceID)
}

func (s *galleryService) GlobalStats(ctx context.Context) (*repository.GlobalStats, error) {
	return s.repo.GlobalStats(ctx)
}

func (s *galleryService) Workspaces(ctx context.Context) ([]string, error) {
	return s.repo.Workspaces(ctx)
}

func (s *galleryService) WorkspaceCounts(ctx context.Context) (map[string]int64, error) {
	return s.repo.WorkspaceCounts(ctx)
}

// deleteBlobs removes stored image files best-effort. Failures are logged,
// never returned; the document deletion already happened and must win.
func (s *galleryService) deleteBlobs(ctx context.Context, images []model.ImageRef) int {
	deleted := 0
	for _, img := range images {
		store := s.storeFor(img.Storage)
		if store == nil {
			continue
		}
		if err := store.Delete(ctx, img.Filename); err != nil {
			s.log.Warn("blob cleanup failed",
				zap.String("filename", img.Filename),
				zap.String("storage", img.Storage),
				zap.Error(err))
			continue
		}
		deleted++
	}
	return deleted
}

func (s *galleryService) storeFor(backend string) storage.Storage {
	switch backend {
	case model.StorageMinIO:
		return s.primary
	case model.StorageLocal:
		return s.fallback
	default:
		// Unknown or legacy backends ("azure", empty) have no local client.
		return nil
	}
}
