// Package services contains the package catalog business logic with a
// Redis-backed list cache.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// PackageRepository describes the package storage contract.
type PackageRepository interface {
	CreatePackage(ctx context.Context, pkg models.Package) (int, error)
	GetPackage(ctx context.Context, orgID string, id int) (*models.Package, error)
	ListPackages(ctx context.Context, orgID string) ([]*models.Package, error)
	UpdatePackage(ctx context.Context, pkg models.Package, id int) (int, error)
	RemovePackage(ctx context.Context, orgID string, id int) (int, error)
}

// Cache describes the caching methods used for the catalog.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CatalogService implements package listing and admin CRUD.
type CatalogService struct {
	repo  PackageRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo PackageRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func listKey(orgID string) string {
	return fmt.Sprintf("packages:%s", orgID)
}

// List returns the organization's active packages, through the cache.
func (s *CatalogService) List(ctx context.Context, orgID string) ([]*models.Package, error) {
	cacheKey := listKey(orgID)
	var cached []*models.Package
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read package cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	pkgs, err := s.repo.ListPackages(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, pkgs, time.Hour); err != nil {
		s.log.Warn("failed to cache packages", slog.String("key", cacheKey), sl.Err(err))
	}
	return pkgs, nil
}

// Create adds a package and invalidates the list cache.
func (s *CatalogService) Create(ctx context.Context, orgID string, req models.DummyPackage) (int, error) {
	id, err := s.repo.CreatePackage(ctx, models.Package{
		OrgID:           orgID,
		Name:            req.Name,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		Minutes:         req.Minutes,
		Prints:          req.Prints,
	})
	if err != nil {
		return 0, err
	}
	s.invalidate(orgID)
	s.log.Info("created package", slog.Int("id", id), slog.String("org_id", orgID))
	return id, nil
}

// Update changes a package and invalidates the list cache. Returns the
// number of changed rows.
func (s *CatalogService) Update(ctx context.Context, orgID string, id int, req models.DummyPackage) (int, error) {
	count, err := s.repo.UpdatePackage(ctx, models.Package{
		OrgID:           orgID,
		Name:            req.Name,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		Minutes:         req.Minutes,
		Prints:          req.Prints,
	}, id)
	if err != nil {
		return 0, err
	}
	s.invalidate(orgID)
	return count, nil
}

// Remove soft-deletes a package and invalidates the list cache.
func (s *CatalogService) Remove(ctx context.Context, orgID string, id int) (int, error) {
	count, err := s.repo.RemovePackage(ctx, orgID, id)
	if err != nil {
		return 0, err
	}
	s.invalidate(orgID)
	return count, nil
}

func (s *CatalogService) invalidate(orgID string) {
	if err := s.cache.Invalidate(listKey(orgID)); err != nil {
		s.log.Warn("failed to invalidate package cache", slog.String("org_id", orgID), sl.Err(err))
	}
}
