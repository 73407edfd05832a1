package ports

import (
	"context"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

// UserRepository defines persistence for citizen accounts.
// Reads by ID never load the credential; FindByEmail does, for sign-in.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	SetCredential(ctx context.Context, id string, cred domain.Credential) error
	AddComplaint(ctx context.Context, userID, complaintID string) error
	RemoveComplaint(ctx context.Context, userID, complaintID string) error
	Delete(ctx context.Context, id string) error
}

// AuthorityRepository defines persistence for authority and admin accounts.
type AuthorityRepository interface {
	Create(ctx context.Context, a *domain.Authority) (*domain.Authority, error)
	FindByID(ctx context.Context, id string) (*domain.Authority, error)
	FindByUsername(ctx context.Context, username string) (*domain.Authority, error)
	// FindByDistrict returns the first authority (role 49) serving district.
	FindByDistrict(ctx context.Context, district string) (*domain.Authority, error)
	List(ctx context.Context) ([]domain.Authority, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, id string, patch domain.AuthorityPatch) (*domain.Authority, error)
	SetCredential(ctx context.Context, id string, cred domain.Credential) error
	Delete(ctx context.Context, id string) error
}
