package httpdto

import (
	"time"

	"vendora/internal/domain/catalog"
	"vendora/internal/domain/draft"
	"vendora/internal/services"
)

type RejectRequest struct {
	Reason string `json:"reason"`
}

type RequestChangesRequest struct {
	Feedback string `json:"feedback"`
}

type QueueItemResponse struct {
	ID         string     `json:"id"`
	DraftID    string     `json:"draft_id"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	Priority   string     `json:"priority"`
	CreatedAt  time.Time  `json:"created_at"`
	Completed  *time.Time `json:"completed_at,omitempty"`
}

func FromQueueItem(item draft.QueueItem) QueueItemResponse {
	resp := QueueItemResponse{
		ID:        item.ID.String(),
		DraftID:   item.DraftID.String(),
		Priority:  string(item.Priority),
		CreatedAt: item.CreatedAt,
		Completed: item.CompletedAt,
	}
	if item.AssignedTo.Valid {
		resp.AssignedTo = item.AssignedTo.UUID.String()
	}
	return resp
}

type QueueEntryResponse struct {
	Item  QueueItemResponse `json:"item"`
	Draft DraftResponse     `json:"draft"`
}

type ListQueueResponse struct {
	Items []QueueEntryResponse `json:"items"`
	Total int64                `json:"total"`
}

func FromQueueEntries(entries []services.QueueEntry, total int64) ListQueueResponse {
	resp := ListQueueResponse{Total: total}
	for _, e := range entries {
		resp.Items = append(resp.Items, QueueEntryResponse{
			Item:  FromQueueItem(e.Item),
			Draft: FromDraft(e.Draft),
		})
	}
	return resp
}

type VariantResponse struct {
	ID    string `json:"id"`
	SKU   string `json:"sku"`
	Color string `json:"color"`
	Size  string `json:"size"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

type ProductImageResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Position  int    `json:"position"`
	IsPrimary bool   `json:"is_primary"`
}

type ProductResponse struct {
	ID         string    `json:"id"`
	SellerID   string    `json:"seller_id"`
	DraftID    string    `json:"draft_id"`
	CategoryID string    `json:"category_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Price      int64     `json:"price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromProduct(p catalog.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID.String(),
		SellerID:   p.SellerID.String(),
		DraftID:    p.DraftID.String(),
		CategoryID: p.CategoryID.String(),
		Code:       p.Code,
		Name:       p.Name,
		Price:      p.Price,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
	}
}

type ApproveResponse struct {
	Draft   DraftResponse   `json:"draft"`
	Product ProductResponse `json:"product"`
}
