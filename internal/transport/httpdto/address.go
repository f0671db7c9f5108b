package httpdto

import (
	"time"

	"vendora/internal/domain/address"
)

type CreateAddressRequest struct {
	Label      string `json:"label"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

type DeleteAddressRequest struct {
	ReplacementID string `json:"replacement_id,omitempty"`
	PromoteNewest bool   `json:"promote_newest,omitempty"`
}

type AddressResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Label      string    `json:"label,omitempty"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone,omitempty"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromAddress(a address.Address) AddressResponse {
	return AddressResponse{
		ID:         a.ID.String(),
		OwnerID:    a.OwnerID.String(),
		Label:      a.Label,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
	}
}

type ListAddressesResponse struct {
	Items []AddressResponse `json:"items"`
}
