package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePackage(ctx context.Context, pkg models.Package) (int, error) {
	args := m.Called(ctx, pkg)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) GetPackage(ctx context.Context, orgID string, id int) (*models.Package, error) {
	args := m.Called(ctx, orgID, id)
	resp, _ := args.Get(0).(*models.Package)
	return resp, args.Error(1)
}

func (m *RepoMock) ListPackages(ctx context.Context, orgID string) ([]*models.Package, error) {
	args := m.Called(ctx, orgID)
	resp, _ := args.Get(0).([]*models.Package)
	return resp, args.Error(1)
}

func (m *RepoMock) UpdatePackage(ctx context.Context, pkg models.Package, id int) (int, error) {
	args := m.Called(ctx, pkg, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) RemovePackage(ctx context.Context, orgID string, id int) (int, error) {
	args := m.Called(ctx, orgID, id)
	return args.Int(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCatalogService_List(t *testing.T) {
	pkgs := []*models.Package{{ID: 3, OrgID: "org1", Name: "2 Hours", Price: 1000}}

	t.Run("cache miss fills the cache", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		cache.On("Get", "packages:org1", mock.Anything).Return(false, nil).Once()
		repo.On("ListPackages", mock.Anything, "org1").Return(pkgs, nil).Once()
		cache.On("Set", "packages:org1", pkgs, time.Hour).Return(nil).Once()

		svc := NewCatalogService(repo, cache, newNoopLogger())
		got, err := svc.List(context.Background(), "org1")
		assert.NoError(t, err)
		assert.Equal(t, pkgs, got)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		repo, cache := new(RepoMock), new(CacheMock)
		cache.On("Get", "packages:org1", mock.Anything).Return(true, nil).Once()

		svc := NewCatalogService(repo, cache, newNoopLogger())
		_, err := svc.List(context.Background(), "org1")
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "ListPackages", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_Create(t *testing.T) {
	repo, cache := new(RepoMock), new(CacheMock)
	repo.On("CreatePackage", mock.Anything, mock.MatchedBy(func(p models.Package) bool {
		return p.OrgID == "org1" && p.Name == "2 Hours" && p.Price == 1000
	})).Return(3, nil).Once()
	cache.On("Invalidate", "packages:org1").Return(nil).Once()

	svc := NewCatalogService(repo, cache, newNoopLogger())
	id, err := svc.Create(context.Background(), "org1", models.DummyPackage{
		Name: "2 Hours", Price: 1000, Minutes: 120, Prints: 5,
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, id)
	cache.AssertExpectations(t)
}

func TestCatalogService_Remove(t *testing.T) {
	repo, cache := new(RepoMock), new(CacheMock)
	repo.On("RemovePackage", mock.Anything, "org1", 3).Return(1, nil).Once()
	cache.On("Invalidate", "packages:org1").Return(nil).Once()

	svc := NewCatalogService(repo, cache, newNoopLogger())
	count, err := svc.Remove(context.Background(), "org1", 3)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	cache.AssertExpectations(t)
}
