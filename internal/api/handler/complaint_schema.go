package handler

import (
	"strings"
	"time"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

type createComplaintRequest struct {
	UserID    string         `json:"userId"`
	Title     string         `json:"title"     validate:"notblank,max=200"`
	Content   string         `json:"content"   validate:"notblank"`
	Category  string         `json:"category"  validate:"required,mongodb"`
	Authority string         `json:"authority" validate:"omitempty,mongodb"`
	Location  addressRequest `json:"location"`
	Landmark  string         `json:"landmark"`
	Media     string         `json:"media"`
}

type updateStatusRequest struct {
	UserID      string `json:"userId"`
	ComplaintID string `json:"complaintId" validate:"required"`
	Status      string `json:"status"      validate:"required"`
	Reason      string `json:"reason"`
}

type upvoteRequest struct {
	UserID      string `json:"userId"`
	ComplaintID string `json:"complaintId" validate:"required"`
}

type commentRequest struct {
	UserID      string `json:"userId"`
	ComplaintID string `json:"complaintId" validate:"required"`
	Content     string `json:"content"     validate:"notblank"`
}

// listResponse wraps complaint listings so an empty result still encodes as [].
type listResponse struct {
	Count      int                    `json:"count"`
	Complaints []domain.ComplaintView `json:"complaints"`
}

func newListResponse(views []domain.ComplaintView) listResponse {
	if views == nil {
		views = []domain.ComplaintView{}
	}
	return listResponse{Count: len(views), Complaints: views}
}

// parseStatusQuery reads an optional status filter. Empty and "all" mean absent.
func parseStatusQuery(raw string) (domain.Optional[domain.ComplaintStatus], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return domain.None[domain.ComplaintStatus](), nil
	}
	st, err := domain.ParseComplaintStatus(raw)
	if err != nil {
		return domain.None[domain.ComplaintStatus](), err
	}
	return domain.Some(st), nil
}

// parseIDQuery reads an optional id filter. Empty and "all" mean absent.
func parseIDQuery(raw string) domain.Optional[string] {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return domain.None[string]()
	}
	return domain.Some(raw)
}

// parseSinceQuery accepts RFC 3339 timestamps or plain dates.
func parseSinceQuery(raw string) (domain.Optional[time.Time], error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.None[time.Time](), nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return domain.Some(t.UTC()), nil
		}
	}
	return domain.None[time.Time](), domain.Invalid("since must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}
