package ports

import (
	"context"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

// EventService processes dequeued complaint events.
type EventService interface {
	Process(ctx context.Context, event domain.ComplaintEvent) error
}

// EventEmitter hands events off for asynchronous processing. It must not block.
type EventEmitter interface {
	Emit(event domain.ComplaintEvent)
}
