package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vendora/internal/domain/address"
	"vendora/internal/domain/catalog"
	"vendora/internal/domain/draft"
	"vendora/internal/domain/outbox"
)

type DraftRepository interface {
	Create(ctx context.Context, d *draft.Draft) error
	GetByID(ctx context.Context, id uuid.UUID) (draft.Draft, error)
	// Update writes the row back conditionally on the status the caller read,
	// so a transition committed in between turns the stale write into
	// ErrConflict instead of a lost update.
	Update(ctx context.Context, d draft.Draft, from draft.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID, page, limit int) ([]draft.Draft, int64, error)
}

type QueueRepository interface {
	Create(ctx context.Context, item *draft.QueueItem) error
	GetOpenByDraftID(ctx context.Context, draftID uuid.UUID) (draft.QueueItem, error)
	Assign(ctx context.Context, id, moderatorID uuid.UUID) error
	Close(ctx context.Context, id uuid.UUID, completedAt time.Time) error
	ListOpen(ctx context.Context, page, limit int) ([]draft.QueueItem, int64, error)
	EscalateUnassignedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *catalog.Product) error
	CreateVariant(ctx context.Context, v *catalog.Variant) error
	CreateImage(ctx context.Context, img *catalog.Image) error
	GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	GetVariants(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error)
	GetImages(ctx context.Context, productID uuid.UUID) ([]catalog.Image, error)
}

type AddressRepository interface {
	Create(ctx context.Context, a *address.Address) error
	GetByID(ctx context.Context, id uuid.UUID) (address.Address, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]address.Address, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	ClearDefaults(ctx context.Context, ownerID uuid.UUID) error
	MarkDefault(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NewestByOwner returns the most recently created row of the owner,
	// excluding one id (the row being deleted).
	NewestByOwner(ctx context.Context, ownerID, excluding uuid.UUID) (address.Address, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *outbox.Event) error
	GetPending(ctx context.Context, limit int) ([]outbox.Event, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMsg string) error
	IncrementRetry(ctx context.Context, id uuid.UUID) error
}

// Tx bundles the repositories bound to one open transaction. Everything done
// through it commits or rolls back together.
type Tx interface {
	Drafts() DraftRepository
	Queue() QueueRepository
	Products() ProductRepository
	Addresses() AddressRepository
	Outbox() OutboxRepository

	// AcquireOwnerLock takes the advisory lock for the owner key, blocking up
	// to the configured bound. The lock releases at transaction end.
	AcquireOwnerLock(ctx context.Context, ownerID uuid.UUID) error
}

// UnitOfWork executes a closure within a single database transaction.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx Tx) error) error
}
