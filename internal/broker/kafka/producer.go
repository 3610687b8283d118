package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"image-watermarker/internal/config"
	"image-watermarker/internal/domain"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

type sender interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key, value []byte) error
	Close() error
}

// ProducerClient publishes pass summaries as JSON keyed by pass id.
type ProducerClient struct {
	producer sender
	retries  retry.Strategy
}

func NewProducerClient(cfg *config.Config, retries retry.Strategy) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic),
		retries:  retries,
	}
}

func (p *ProducerClient) PublishPass(ctx context.Context, summary *domain.PassSummary) error {
	value, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal pass summary: %w", err)
	}

	if err := p.producer.SendWithRetry(ctx, p.retries, []byte(summary.ID), value); err != nil {
		return fmt.Errorf("failed to send pass summary %s: %w", summary.ID, err)
	}

	return nil
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
