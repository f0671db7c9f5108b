package httpdto

import (
	"time"

	"vendora/internal/domain/draft"
)

type VariantRequest struct {
	Color string `json:"color"`
	Size  string `json:"size"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

type ImageRequest struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type DraftPayloadRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CategoryID  string           `json:"category_id"`
	Price       int64            `json:"price"`
	Images      []ImageRequest   `json:"images"`
	Variants    []VariantRequest `json:"variants"`
}

type DraftResponse struct {
	ID              string           `json:"id"`
	SellerID        string           `json:"seller_id"`
	CategoryID      string           `json:"category_id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Price           int64            `json:"price"`
	Images          []ImageRequest   `json:"images"`
	Variants        []VariantRequest `json:"variants"`
	Status          string           `json:"status"`
	SubmittedAt     *time.Time       `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	ModerationNotes string           `json:"moderation_notes,omitempty"`
	ProductID       string           `json:"product_id,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func FromDraft(d draft.Draft) DraftResponse {
	resp := DraftResponse{
		ID:          d.ID.String(),
		SellerID:    d.SellerID.String(),
		CategoryID:  d.CategoryID.String(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Status:      string(d.Status),
		SubmittedAt: d.SubmittedAt,
		ReviewedAt:  d.ReviewedAt,
		CreatedAt:   d.CreatedAt,
	}
	for _, img := range d.Images {
		resp.Images = append(resp.Images, ImageRequest{URL: img.URL, Position: img.Position})
	}
	for _, v := range d.Variants {
		resp.Variants = append(resp.Variants, VariantRequest{Color: v.Color, Size: v.Size, Price: v.Price, Stock: v.Stock})
	}
	if d.RejectionReason.Valid {
		resp.RejectionReason = d.RejectionReason.String
	}
	if d.ModerationNotes.Valid {
		resp.ModerationNotes = d.ModerationNotes.String
	}
	if d.ProductID.Valid {
		resp.ProductID = d.ProductID.UUID.String()
	}
	return resp
}

type ListDraftsResponse struct {
	Items []DraftResponse `json:"items"`
	Total int64           `json:"total"`
}
