package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/patitas/vets-api/internal/model"
	"github.com/patitas/vets-api/internal/repository"
)

const (
	cacheTTL     = 10 * time.Minute
	cacheCleanup = 30 * time.Minute

	keyServices = "services"
	keyCommunes = "communes"
	keyDays     = "days_of_week"
)

type CatalogServicer interface {
	ListServices(ctx context.Context) ([]model.Service, error)
	ListCommunes(ctx context.Context) ([]model.Commune, error)
	ListDaysOfWeek(ctx context.Context) ([]model.DayOfWeek, error)
}

// Service serves the fixed reference catalogs. Rows change only via
// out-of-band seeding, so a short in-process TTL cache is safe.
type Service struct {
	repo  repository.CatalogRepository
	cache *cache.Cache
}

func NewService(repo repository.CatalogRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *Service) ListServices(ctx context.Context) ([]model.Service, error) {
	if cached, ok := s.cache.Get(keyServices); ok {
		return cached.([]model.Service), nil
	}

	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	s.cache.Set(keyServices, services, cache.DefaultExpiration)
	return services, nil
}

func (s *Service) ListCommunes(ctx context.Context) ([]model.Commune, error) {
	if cached, ok := s.cache.Get(keyCommunes); ok {
		return cached.([]model.Commune), nil
	}

	communes, err := s.repo.ListCommunes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list communes: %w", err)
	}

	s.cache.Set(keyCommunes, communes, cache.DefaultExpiration)
	return communes, nil
}

func (s *Service) ListDaysOfWeek(ctx context.Context) ([]model.DayOfWeek, error) {
	if cached, ok := s.cache.Get(keyDays); ok {
		return cached.([]model.DayOfWeek), nil
	}

	days, err := s.repo.ListDaysOfWeek(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list days of week: %w", err)
	}

	s.cache.Set(keyDays, days, cache.DefaultExpiration)
	return days, nil
}
