package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adgallery/internal/model"
	"adgallery/internal/repository"
	"adgallery/internal/service"
)

type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) SaveAd(ctx context.Context, in service.SaveAdInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockGalleryService) ListAds(ctx context.Context, workspaceID string, limit, skip int64, aspectRatio string) (*service.AdListResult, error) {
	args := m.Called(ctx, workspaceID, limit, skip, aspectRatio)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdListResult), args.Error(1)
}

func (m *MockGalleryService) GetAd(ctx context.Context, id string) (*model.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

func (m *MockGalleryService) UpdateAdMetadata(ctx context.Context, id string, upd repository.MetadataUpdate) (*model.Ad, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

func (m *MockGalleryService) RemoveImage(ctx context.Context, id string, filename string) (int, error) {
	args := m.Called(ctx, id, filename)
	return args.Int(0), args.Error(1)
}

func (m *MockGalleryService) DeleteAd(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockGalleryService) DeleteWorkspaceAds(ctx context.Context, workspaceID string) (int64, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGalleryService) WorkspaceStats(ctx context.Context, workspaceID string) (*repository.WorkspaceStats, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.WorkspaceStats), args.Error(1)
}

func (m *MockGalleryService) GlobalStats(ctx context.Context) (*repository.GlobalStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.GlobalStats), args.Error(1)
}

func (m *MockGalleryService) Workspaces(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGalleryService) WorkspaceCounts(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}
