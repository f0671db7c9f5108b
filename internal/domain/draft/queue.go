package draft

import (
	"time"

	"github.com/google/uuid"
)

// Priority orders the moderation queue
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Rank gives the sort weight of a priority; higher sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// QueueItem is one entry of the moderation backlog. An open item
// (CompletedAt == nil) exists exactly while its draft is PENDING.
type QueueItem struct {
	ID          uuid.UUID
	DraftID     uuid.UUID
	AssignedTo  uuid.NullUUID
	Priority    Priority
	CreatedAt   time.Time
	CompletedAt *time.Time
}
