package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"vendora/internal/domain/outbox"
	"vendora/internal/repository"
)

// appendOutboxEvent writes a domain event into the outbox within the caller's
// transaction, stamped with the caller's clock so the event and the mutation
// it describes carry the same instant. A failure here aborts the whole unit
// of work; the mutation and its event always commit together.
func appendOutboxEvent(ctx context.Context, repo repository.OutboxRepository, aggregateType, eventType, aggregateID string, at time.Time, payload interface{}) error {
	data := []byte("{}")
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = raw
	}
	return repo.Create(ctx, &outbox.Event{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       data,
		Status:        outbox.StatusPending,
		CreatedAt:     at,
		UpdatedAt:     at,
	})
}
