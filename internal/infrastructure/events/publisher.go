// Package events builds the broker publisher for complaint events.
package events

import (
	"fmt"

	"github.com/tell-platform/complaint-system/internal/core/ports"
	"github.com/tell-platform/complaint-system/internal/infrastructure/config"
)

// NewPublisher returns the publisher named by cfg.Backend, or nil for "none".
func NewPublisher(cfg config.EventsConfig) (ports.EventPublisher, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "rabbitmq":
		p, err := NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.Topic)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return p, nil
	case "kafka":
		p, err := NewKafkaPublisher(cfg.KafkaBrokers, cfg.Topic)
		if err != nil {
			return nil, fmt.Errorf("kafka: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
