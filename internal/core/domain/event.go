package domain

import "time"

// ComplaintEventType names a lifecycle mutation.
type ComplaintEventType string

const (
	EventCreated       ComplaintEventType = "created"
	EventStatusChanged ComplaintEventType = "status_changed"
	EventVoted         ComplaintEventType = "voted"
	EventUnvoted       ComplaintEventType = "unvoted"
	EventCommented     ComplaintEventType = "commented"
	EventConfirmed     ComplaintEventType = "confirmed"
	EventDeleted       ComplaintEventType = "deleted"
)

// ComplaintEvent is emitted after a successful complaint mutation.
type ComplaintEvent struct {
	ID          string             `json:"id"`
	ComplaintID string             `json:"complaintId"`
	Type        ComplaintEventType `json:"type"`
	Status      ComplaintStatus    `json:"status"`
	ActorID     string             `json:"actorId"`
	OccurredAt  time.Time          `json:"occurredAt"`
}
