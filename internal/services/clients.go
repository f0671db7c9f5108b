package services

import (
	"context"

	"github.com/google/uuid"
)

// CatalogClient answers the category precondition before a draft is accepted.
type CatalogClient interface {
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// SellerClient reaches the seller service. Calls happen strictly after
// commit; failures are logged, never propagated.
type SellerClient interface {
	IncrementProductCount(ctx context.Context, sellerID uuid.UUID) error
}

// NotificationClient reaches the notification service. Same post-commit,
// best-effort contract as SellerClient.
type NotificationClient interface {
	NotifyApproved(ctx context.Context, sellerID, draftID uuid.UUID, name string) error
	NotifyRejected(ctx context.Context, sellerID, draftID uuid.UUID, name, reason string) error
}
