package outbox

import (
	"context"
	"encoding/json"
	"time"

	"vendora/internal/domain/outbox"
	"vendora/internal/events"
	"vendora/internal/repository"
	"vendora/pkg/logger"
)

// Publisher is the write side of the message bus.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Processor relays committed outbox rows to the bus. Delivery is
// at-least-once: rows stay pending until a publish succeeds, so consumers
// must be idempotent.
type Processor struct {
	repo       repository.OutboxRepository
	publisher  Publisher
	log        *logger.Logger
	clock      func() time.Time
	batchSize  int
	interval   time.Duration
	maxRetries int
}

func NewProcessor(repo repository.OutboxRepository, publisher Publisher, log *logger.Logger, batchSize int, interval time.Duration, maxRetries int) *Processor {
	return &Processor{
		repo:       repo,
		publisher:  publisher,
		log:        log,
		clock:      time.Now,
		batchSize:  batchSize,
		interval:   interval,
		maxRetries: maxRetries,
	}
}

func (p *Processor) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.processBatch(ctx)
		}
	}
}

func (p *Processor) processBatch(ctx context.Context) {
	batch, err := p.repo.GetPending(ctx, p.batchSize)
	if err != nil {
		p.log.Errorf("outbox: list pending: %s", err.Error())
		return
	}

	for _, e := range batch {
		p.processEvent(ctx, &e)
	}
}

func (p *Processor) processEvent(ctx context.Context, e *outbox.Event) {
	if e.RetryCount >= p.maxRetries {
		_ = p.repo.MarkFailed(ctx, e.ID, "max retries exceeded")
		return
	}

	if err := p.repo.MarkProcessing(ctx, e.ID); err != nil {
		return
	}

	env := events.Envelope{
		ID:            e.ID.String(),
		EventType:     e.EventType,
		AggregateType: e.AggregateType,
		AggregateID:   e.AggregateID,
		OccurredAt:    e.CreatedAt.UTC(),
		Payload:       json.RawMessage(e.Payload),
		Metadata:      json.RawMessage(e.Metadata),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		_ = p.repo.MarkFailed(ctx, e.ID, err.Error())
		return
	}

	if err := p.publisher.Publish(ctx, routeChannel(env), payload); err != nil {
		p.log.Errorf("outbox: publish %s: %s", e.ID, err.Error())
		_ = p.repo.IncrementRetry(ctx, e.ID)
		return
	}

	_ = p.repo.MarkCompleted(ctx, e.ID)
}

func routeChannel(env events.Envelope) string {
	switch env.AggregateType {
	case events.AggregateDraft, events.AggregateProduct:
		return "events:product"
	case events.AggregateAddress:
		return "events:address"
	default:
		return "events:system"
	}
}
