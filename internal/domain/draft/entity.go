package draft

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status represents the review lifecycle state of a draft
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusPending          Status = "PENDING"
	StatusApproved         Status = "APPROVED"
	StatusRejected         Status = "REJECTED"
	StatusChangesRequested Status = "CHANGES_REQUESTED"
)

// MinImages is the minimum number of images a submission must carry.
const MinImages = 3

// CanTransitionTo reports whether the review state machine allows moving
// from s to target. APPROVED and REJECTED are terminal.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft, StatusChangesRequested:
		return target == StatusPending
	case StatusPending:
		return target == StatusApproved || target == StatusRejected || target == StatusChangesRequested
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// EditableBySeller reports whether the owning seller may still mutate the payload.
func (s Status) EditableBySeller() bool {
	return s == StatusDraft || s == StatusChangesRequested
}

// Deletable reports whether the owning seller may delete the draft.
func (s Status) Deletable() bool {
	return s == StatusDraft || s == StatusRejected || s == StatusChangesRequested
}

// Variant is one sellable variation of the submitted product.
type Variant struct {
	Color string `json:"color"`
	Size  string `json:"size"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

// Image is one submitted product image, by upload URL.
type Image struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// Draft is an unpublished seller submission awaiting review.
type Draft struct {
	ID              uuid.UUID
	SellerID        uuid.UUID
	CategoryID      uuid.UUID
	Name            string
	Description     string
	Price           int64
	Images          []Image
	Variants        []Variant
	Status          Status
	SubmittedAt     *time.Time
	ReviewedBy      uuid.NullUUID
	ReviewedAt      *time.Time
	RejectionReason sql.NullString
	ModerationNotes sql.NullString
	ProductID       uuid.NullUUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Payload is the mutable submission content, validated once at the boundary.
type Payload struct {
	Name        string
	Description string
	CategoryID  uuid.UUID
	Price       int64
	Images      []Image
	Variants    []Variant
}

// Validate collects every violated submission constraint. An empty result
// means the payload is acceptable.
func (p Payload) Validate() []string {
	var violations []string
	if p.Name == "" {
		violations = append(violations, "name is required")
	}
	if p.CategoryID == uuid.Nil {
		violations = append(violations, "category is required")
	}
	if p.Price <= 0 {
		violations = append(violations, "price must be positive")
	}
	if len(p.Images) < MinImages {
		violations = append(violations, fmt.Sprintf("at least %d images are required", MinImages))
	}
	if len(p.Variants) == 0 {
		violations = append(violations, "at least one variant is required")
	}
	for i, v := range p.Variants {
		if v.Price <= 0 {
			violations = append(violations, fmt.Sprintf("variant %d: sell price must be positive", i+1))
		}
	}
	return violations
}
