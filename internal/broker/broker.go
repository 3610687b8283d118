package broker

import (
	"context"

	"image-watermarker/internal/domain"
)

// Publisher announces finished passes to downstream consumers.
type Publisher interface {
	PublishPass(ctx context.Context, summary *domain.PassSummary) error
	Close() error
}

// NopPublisher drops every event. It is used when messaging is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishPass(ctx context.Context, summary *domain.PassSummary) error { return nil }

func (NopPublisher) Close() error { return nil }
