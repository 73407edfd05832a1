package domain

import (
	"slices"
	"strings"
	"time"
)

// ComplaintStatus represents the lifecycle state of a complaint.
type ComplaintStatus string

const (
	StatusOpen       ComplaintStatus = "open"
	StatusAccepted   ComplaintStatus = "accepted"
	StatusRejected   ComplaintStatus = "rejected"
	StatusProcessing ComplaintStatus = "processing"
	StatusClosed     ComplaintStatus = "closed"
	StatusConfirmed  ComplaintStatus = "confirmed"
)

// DefaultRejectionReason is stored when a complaint is rejected without a reason.
const DefaultRejectionReason = "Reason is not defined"

// statusOrder fixes iteration order for anything derived from validTransitions.
var statusOrder = []ComplaintStatus{
	StatusOpen, StatusAccepted, StatusRejected, StatusProcessing, StatusClosed, StatusConfirmed,
}

// validTransitions defines the allowed state machine transitions.
// rejected and confirmed have no outgoing edges.
var validTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusOpen:       {StatusAccepted, StatusRejected, StatusProcessing},
	StatusAccepted:   {StatusProcessing, StatusRejected, StatusClosed},
	StatusProcessing: {StatusClosed},
	StatusClosed:     {StatusConfirmed},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	return slices.Contains(validTransitions[s], next)
}

func (s ComplaintStatus) IsValid() bool {
	return slices.Contains(statusOrder, s)
}

// SetByAuthority reports whether s is a target an authority may request.
// open is only set at creation and confirmed only by the owner.
func (s ComplaintStatus) SetByAuthority() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusProcessing, StatusClosed:
		return true
	}
	return false
}

// SourcesOf returns every status that may transition into target.
func SourcesOf(target ComplaintStatus) []ComplaintStatus {
	var out []ComplaintStatus
	for _, from := range statusOrder {
		if from.CanTransitionTo(target) {
			out = append(out, from)
		}
	}
	return out
}

// ParseComplaintStatus normalises s and rejects unknown values.
func ParseComplaintStatus(s string) (ComplaintStatus, error) {
	st := ComplaintStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", Invalid("unknown complaint status %q", s)
	}
	return st, nil
}

// Comment is an append-only remark on a complaint.
type Comment struct {
	Commentor string    `json:"commentor"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatusChange records a single status transition on a complaint.
type StatusChange struct {
	Status ComplaintStatus `json:"status"`
	Actor  string          `json:"actor"`
	Reason string          `json:"reason,omitempty"`
	At     time.Time       `json:"at"`
}

// Complaint is the core aggregate root.
type Complaint struct {
	ID            string          `json:"id"`
	Owner         string          `json:"owner"`
	Authority     string          `json:"authority,omitempty"`
	Category      string          `json:"category"`
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	Location      Address         `json:"location"`
	Landmark      string          `json:"landmark,omitempty"`
	Status        ComplaintStatus `json:"status"`
	Reason        string          `json:"reason,omitempty"`
	Votes         []string        `json:"votes"`
	Comments      []Comment       `json:"comments"`
	Media         string          `json:"media,omitempty"`
	StatusHistory []StatusChange  `json:"statusHistory"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (c *Complaint) HasVoted(userID string) bool {
	return slices.Contains(c.Votes, userID)
}

// PersonRef is the public projection of a user embedded in complaint views.
type PersonRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ProfImg   string `json:"profImg,omitempty"`
}

// AuthorityRef is the public projection of an authority.
type AuthorityRef struct {
	ID            string `json:"id"`
	AuthorityName string `json:"authorityName"`
	District      string `json:"district"`
}

type CategoryRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type CommentView struct {
	Commentor *PersonRef `json:"commentor"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ComplaintView is a complaint with its references expanded for reading.
// A nil reference means the referenced document no longer exists.
type ComplaintView struct {
	ID        string          `json:"id"`
	Owner     *PersonRef      `json:"owner"`
	Authority *AuthorityRef   `json:"authority"`
	Category  *CategoryRef    `json:"category"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Location  Address         `json:"location"`
	Landmark  string          `json:"landmark,omitempty"`
	Status    ComplaintStatus `json:"status"`
	Reason    string          `json:"reason,omitempty"`
	Votes     []string        `json:"votes"`
	VoteCount int             `json:"voteCount"`
	Comments  []CommentView   `json:"comments"`
	Media     string          `json:"media,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
