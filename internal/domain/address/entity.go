package address

import (
	"time"

	"github.com/google/uuid"
)

// Address is a defaultable entity: an owner with at least one address has
// exactly one row with IsDefault set.
type Address struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Label      string
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
	Phone      string
	IsDefault  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReplacementPolicy tells the delete path which remaining row becomes the
// default when the current default is removed. The caller supplies it; the
// core never guesses.
type ReplacementPolicy struct {
	// ReplacementID names an explicit successor.
	ReplacementID uuid.NullUUID
	// PromoteNewest promotes the most recently created remaining row.
	PromoteNewest bool
}

// IsZero reports whether no policy was supplied.
func (p ReplacementPolicy) IsZero() bool {
	return !p.ReplacementID.Valid && !p.PromoteNewest
}
