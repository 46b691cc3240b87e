package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adgallery/internal/model"
	"adgallery/internal/repository"
)

type MockAdRepository struct {
	mock.Mock
}

func (m *MockAdRepository) Create(ctx context.Context, ad *model.Ad) (string, error) {
	args := m.Called(ctx, ad)
	return args.String(0), args.Error(1)
}

func (m *MockAdRepository) FindByID(ctx context.Context, id string) (*model.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

func (m *MockAdRepository) ListByWorkspace(ctx context.Context, workspaceID string, pq repository.PageQuery, aspectRatio string) (*repository.PageResult[model.Ad], error) {
	args := m.Called(ctx, workspaceID, pq, aspectRatio)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Ad]), args.Error(1)
}

func (m *MockAdRepository) UpdateMetadata(ctx context.Context, id string, upd repository.MetadataUpdate) (bool, error) {
	args := m.Called(ctx, id, upd)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdRepository) RemoveImage(ctx context.Context, id string, filename string) (bool, error) {
	args := m.Called(ctx, id, filename)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdRepository) Delete(ctx context.Context, id string) (*model.Ad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ad), args.Error(1)
}

func (m *MockAdRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) ([]model.Ad, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ad), args.Error(1)
}

func (m *MockAdRepository) WorkspaceStats(ctx context.Context, workspaceID string) (*repository.WorkspaceStats, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.WorkspaceStats), args.Error(1)
}

func (m *MockAdRepository) GlobalStats(ctx context.Context) (*repository.GlobalStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.GlobalStats), args.Error(1)
}

func (m *MockAdRepository) Workspaces(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAdRepository) WorkspaceCounts(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}
