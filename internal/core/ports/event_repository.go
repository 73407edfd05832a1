package ports

import (
	"context"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

// EventRepository persists complaint events to the audit collection.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.ComplaintEvent) error
}

// EventPublisher forwards complaint events to an external broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ComplaintEvent) error
	Close() error
}
