package outbox

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents the dispatch state of an outbox event. The core only
// ever inserts PENDING rows; the relay owns every later transition.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Event is an append-only domain event written in the same transaction as
// the state change that caused it.
type Event struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	Metadata      []byte
	Status        Status
	RetryCount    int
	Error         sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DispatchedAt  *time.Time
}
