package events

import "github.com/google/uuid"

// Event type constants. These are stable wire identifiers consumed by other
// services; renaming one is a breaking downstream change.

// Product review events
const (
	EventTypeDraftSubmitted   = "product.draft_submitted"
	EventTypeDraftResubmitted = "product.draft_resubmitted"
	EventTypeApproved         = "product.approved"
	EventTypeDraftRejected    = "product.draft_rejected"
	EventTypeChangesRequested = "product.changes_requested"
)

// Address events
const (
	EventTypeAddressCreated        = "address.created"
	EventTypeAddressDefaultChanged = "address.default_changed"
	EventTypeAddressDeleted        = "address.deleted"
)

// Aggregate types
const (
	AggregateDraft   = "draft"
	AggregateProduct = "product"
	AggregateAddress = "address"
)

type DraftSubmittedPayload struct {
	DraftID  uuid.UUID `json:"draft_id"`
	SellerID uuid.UUID `json:"seller_id"`
	Name     string    `json:"name"`
	Priority string    `json:"priority"`
}

type ApprovedPayload struct {
	DraftID     uuid.UUID `json:"draft_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	SellerID    uuid.UUID `json:"seller_id"`
	Name        string    `json:"name"`
}

type DraftRejectedPayload struct {
	DraftID  uuid.UUID `json:"draft_id"`
	SellerID uuid.UUID `json:"seller_id"`
	Name     string    `json:"name"`
	Reason   string    `json:"reason"`
}

type ChangesRequestedPayload struct {
	DraftID  uuid.UUID `json:"draft_id"`
	SellerID uuid.UUID `json:"seller_id"`
	Name     string    `json:"name"`
	Feedback string    `json:"feedback"`
}

type AddressDefaultChangedPayload struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	AddressID uuid.UUID `json:"address_id"`
}

type AddressDeletedPayload struct {
	OwnerID     uuid.UUID  `json:"owner_id"`
	AddressID   uuid.UUID  `json:"address_id"`
	PromotedID  *uuid.UUID `json:"promoted_id,omitempty"`
	WasDefault  bool       `json:"was_default"`
	RowsRemain  bool       `json:"rows_remain"`
}
