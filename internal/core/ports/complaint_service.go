package ports

import (
	"context"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

type CreateComplaintInput struct {
	OwnerID   string
	Title     string
	Content   string
	Category  string
	Authority string // optional; routed by district when empty
	Location  domain.Address
	Landmark  string
	Media     string
}

type UpdateStatusInput struct {
	Actor       domain.Identity
	ComplaintID string
	Status      domain.ComplaintStatus
	Reason      string
}

// StatusUpdateResult carries the persisted complaint. NotifyErr reports a
// failed owner notification; it never undoes the transition.
type StatusUpdateResult struct {
	Complaint *domain.Complaint
	NotifyErr error
}

// ComplaintService defines the complaint lifecycle use cases.
type ComplaintService interface {
	Create(ctx context.Context, in CreateComplaintInput) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, in UpdateStatusInput) (*StatusUpdateResult, error)
	ConfirmProgressDone(ctx context.Context, userID, complaintID string) (*domain.Complaint, error)
	Upvote(ctx context.Context, userID, complaintID string) (*domain.Complaint, error)
	Comment(ctx context.Context, userID, complaintID, content string) (*domain.Complaint, error)
	Delete(ctx context.Context, actorID, complaintID string) (*domain.Complaint, error)

	GetByID(ctx context.Context, id string) (*domain.ComplaintView, error)
	GetByOwner(ctx context.Context, userID string) ([]domain.ComplaintView, error)
	GetByCategory(ctx context.Context, categoryID string) ([]domain.ComplaintView, error)
	// GetByCity and GetByDistrict read the location from the caller's stored profile.
	GetByCity(ctx context.Context, userID string) ([]domain.ComplaintView, error)
	GetByDistrict(ctx context.Context, authorityID string) ([]domain.ComplaintView, error)
	GetForAuthority(ctx context.Context, authorityID string, status domain.Optional[domain.ComplaintStatus]) ([]domain.ComplaintView, error)
	GetAllForAdmin(ctx context.Context) ([]domain.ComplaintView, error)
	GetByFilter(ctx context.Context, filter domain.ComplaintFilter) ([]domain.ComplaintView, error)
}
