package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

type eventService struct {
	repo      ports.EventRepository
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation. publisher may be nil
// when no broker is configured.
func NewEventService(repo ports.EventRepository, publisher ports.EventPublisher, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, publisher: publisher, log: log}
}

// Process records a complaint event in the audit trail and forwards it to the broker.
func (s *eventService) Process(ctx context.Context, evt domain.ComplaintEvent) error {
	if evt.ComplaintID == "" || evt.Type == "" {
		return fmt.Errorf("process event: %w", domain.Invalid("complaint id and type are required"))
	}

	// Audit insert failures are logged, not returned.
	if err := s.repo.InsertEvent(ctx, &evt); err != nil {
		s.log.Warn().Err(err).Str("complaint_id", evt.ComplaintID).Msg("failed to insert audit event")
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, evt); err != nil {
			return fmt.Errorf("process event: publish: %w", err)
		}
	}

	s.log.Debug().
		Str("complaint_id", evt.ComplaintID).
		Str("type", string(evt.Type)).
		Str("status", string(evt.Status)).
		Msg("event processed")
	return nil
}
