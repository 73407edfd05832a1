package ports

import (
	"context"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

type ProfileService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	GetAuthority(ctx context.Context, id string) (*domain.Authority, error)
	UpdateAuthority(ctx context.Context, id string, patch domain.AuthorityPatch) (*domain.Authority, error)
	DeleteAuthority(ctx context.Context, id string) error
}

type CatalogService interface {
	CreateCategory(ctx context.Context, title string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id, title string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	Lookup(ctx context.Context) (*domain.Lookup, error)
}

type ReportService interface {
	Report(ctx context.Context) (*domain.Report, error)
}
