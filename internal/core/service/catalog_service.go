package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

// CatalogService manages categories and serves the cached form lookup.
type CatalogService struct {
	categories  ports.CategoryRepository
	authorities ports.AuthorityRepository
	cache       ports.Cache
	ttl         time.Duration
	log         zerolog.Logger
}

func NewCatalogService(categories ports.CategoryRepository, authorities ports.AuthorityRepository, cache ports.Cache, ttl time.Duration, log zerolog.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CatalogService{categories: categories, authorities: authorities, cache: cache, ttl: ttl, log: log}
}

func (s *CatalogService) CreateCategory(ctx context.Context, title string) (*domain.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Invalid("title is required")
	}
	c, err := s.categories.Create(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	invalidate(ctx, s.cache, s.log, lookupCacheKey)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, title string) (*domain.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Invalid("title is required")
	}
	c, err := s.categories.Update(ctx, id, title)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	invalidate(ctx, s.cache, s.log, lookupCacheKey, reportCacheKey)
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	invalidate(ctx, s.cache, s.log, lookupCacheKey, reportCacheKey)
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Lookup returns every category and every authority (admins excluded).
func (s *CatalogService) Lookup(ctx context.Context) (*domain.Lookup, error) {
	return cacheAside(ctx, s.cache, s.log, lookupCacheKey, s.ttl, func(ctx context.Context) (*domain.Lookup, error) {
		cats, err := s.categories.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("lookup categories: %w", err)
		}
		auths, err := s.authorities.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("lookup authorities: %w", err)
		}

		out := &domain.Lookup{Categories: cats, Authorities: make([]domain.AuthorityRef, 0, len(auths))}
		for _, a := range auths {
			if a.Role != domain.RoleAuthority {
				continue
			}
			out.Authorities = append(out.Authorities, domain.AuthorityRef{
				ID:            a.ID,
				AuthorityName: a.AuthorityName,
				District:      a.District,
			})
		}
		return out, nil
	})
}

// ReportService serves the cached admin report.
type ReportService struct {
	complaints ports.ComplaintRepository
	cache      ports.Cache
	ttl        time.Duration
	log        zerolog.Logger
}

func NewReportService(complaints ports.ComplaintRepository, cache ports.Cache, ttl time.Duration, log zerolog.Logger) *ReportService {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ReportService{complaints: complaints, cache: cache, ttl: ttl, log: log}
}

func (s *ReportService) Report(ctx context.Context) (*domain.Report, error) {
	return cacheAside(ctx, s.cache, s.log, reportCacheKey, s.ttl, s.complaints.Report)
}
