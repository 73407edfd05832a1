package ports

import (
	"context"
	"time"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

// StatusTransition describes a conditional status update. It only applies when
// the stored status is one of From and, if Authority is present, the complaint
// is assigned to that authority.
type StatusTransition struct {
	ComplaintID string
	Authority   domain.Optional[string]
	From        []domain.ComplaintStatus
	To          domain.ComplaintStatus
	Reason      string
	Actor       string
	At          time.Time
}

// ComplaintRepository defines persistence operations for complaints.
// Every mutation is a single-document atomic update; a filter that matches
// nothing yields domain.ErrComplaintNotFound.
type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error)
	FindByID(ctx context.Context, id string) (*domain.Complaint, error)
	// FindOwned matches on both owner and id.
	FindOwned(ctx context.Context, ownerID, complaintID string) (*domain.Complaint, error)
	TransitionStatus(ctx context.Context, t StatusTransition) (*domain.Complaint, error)
	// ConfirmClosed moves an owner's closed complaint to confirmed.
	ConfirmClosed(ctx context.Context, ownerID, complaintID string, at time.Time) (*domain.Complaint, error)
	// ToggleVote adds userID to votes if absent and removes it otherwise.
	ToggleVote(ctx context.Context, complaintID, userID string, at time.Time) (*domain.Complaint, error)
	AppendComment(ctx context.Context, complaintID string, comment domain.Comment) (*domain.Complaint, error)
	FindView(ctx context.Context, id string) (*domain.ComplaintView, error)
	List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.ComplaintView, error)
	Delete(ctx context.Context, id string) (*domain.Complaint, error)
	Report(ctx context.Context) (*domain.Report, error)
}

// CategoryRepository defines persistence for categories.
type CategoryRepository interface {
	Create(ctx context.Context, title string) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, id, title string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}
