package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vendora/internal/domain/draft"
	"vendora/internal/events"
	"vendora/internal/repository"
	vendora_errors "vendora/pkg/errors"
	"vendora/pkg/logger"
)

// DraftService owns the seller-facing side of the review pipeline: creating,
// editing, submitting and deleting drafts.
type DraftService struct {
	uow     repository.UnitOfWork
	drafts  repository.DraftRepository
	catalog CatalogClient
	log     *logger.Logger
	clock   func() time.Time
}

func NewDraftService(uow repository.UnitOfWork, drafts repository.DraftRepository, catalog CatalogClient, log *logger.Logger) *DraftService {
	return &DraftService{
		uow:     uow,
		drafts:  drafts,
		catalog: catalog,
		log:     log,
		clock:   time.Now,
	}
}

func (s *DraftService) Create(ctx context.Context, sellerID uuid.UUID, payload draft.Payload) (draft.Draft, error) {
	if err := vendora_errors.NewValidationError(payload.Validate()); err != nil {
		return draft.Draft{}, err
	}

	// Synchronous precondition, checked before the transaction opens so no
	// network call happens while holding one.
	exists, err := s.catalog.CategoryExists(ctx, payload.CategoryID)
	if err != nil {
		return draft.Draft{}, err
	}
	if !exists {
		return draft.Draft{}, vendora_errors.ErrNotFound
	}

	now := s.clock()
	d := draft.Draft{
		ID:          uuid.New(),
		SellerID:    sellerID,
		CategoryID:  payload.CategoryID,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Images:      payload.Images,
		Variants:    payload.Variants,
		Status:      draft.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.uow.Execute(ctx, func(tx repository.Tx) error {
		return tx.Drafts().Create(ctx, &d)
	})
	if err != nil {
		return draft.Draft{}, err
	}
	return d, nil
}

func (s *DraftService) Get(ctx context.Context, draftID, requesterID uuid.UUID) (draft.Draft, error) {
	d, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return draft.Draft{}, err
	}
	if d.SellerID != requesterID {
		return draft.Draft{}, vendora_errors.ErrForbidden
	}
	return d, nil
}

func (s *DraftService) ListBySeller(ctx context.Context, sellerID uuid.UUID, page, limit int) ([]draft.Draft, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.drafts.ListBySeller(ctx, sellerID, page, limit)
}

func (s *DraftService) Update(ctx context.Context, draftID, sellerID uuid.UUID, payload draft.Payload) (draft.Draft, error) {
	if err := vendora_errors.NewValidationError(payload.Validate()); err != nil {
		return draft.Draft{}, err
	}
	exists, err := s.catalog.CategoryExists(ctx, payload.CategoryID)
	if err != nil {
		return draft.Draft{}, err
	}
	if !exists {
		return draft.Draft{}, vendora_errors.ErrNotFound
	}

	var updated draft.Draft
	err = s.uow.Execute(ctx, func(tx repository.Tx) error {
		d, err := tx.Drafts().GetByID(ctx, draftID)
		if err != nil {
			return err
		}
		if d.SellerID != sellerID {
			return vendora_errors.ErrForbidden
		}
		if !d.Status.EditableBySeller() {
			return vendora_errors.ErrInvalidTransition
		}

		from := d.Status
		d.CategoryID = payload.CategoryID
		d.Name = payload.Name
		d.Description = payload.Description
		d.Price = payload.Price
		d.Images = payload.Images
		d.Variants = payload.Variants
		d.UpdatedAt = s.clock()

		if err := tx.Drafts().Update(ctx, d, from); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return draft.Draft{}, err
	}
	return updated, nil
}

// Submit moves the draft into the moderation queue. The status change, the
// queue item and the outbox event commit atomically.
func (s *DraftService) Submit(ctx context.Context, draftID, sellerID uuid.UUID) (draft.Draft, error) {
	var submitted draft.Draft
	err := s.uow.Execute(ctx, func(tx repository.Tx) error {
		d, err := tx.Drafts().GetByID(ctx, draftID)
		if err != nil {
			return err
		}
		if d.SellerID != sellerID {
			return vendora_errors.ErrForbidden
		}
		if !d.Status.CanTransitionTo(draft.StatusPending) {
			return vendora_errors.ErrInvalidTransition
		}

		eventType := events.EventTypeDraftSubmitted
		if d.Status == draft.StatusChangesRequested {
			eventType = events.EventTypeDraftResubmitted
		}

		now := s.clock()
		from := d.Status
		d.Status = draft.StatusPending
		d.SubmittedAt = &now
		d.UpdatedAt = now
		if err := tx.Drafts().Update(ctx, d, from); err != nil {
			return err
		}

		item := draft.QueueItem{
			ID:        uuid.New(),
			DraftID:   d.ID,
			Priority:  draft.PriorityNormal,
			CreatedAt: now,
		}
		if err := tx.Queue().Create(ctx, &item); err != nil {
			return err
		}

		if err := appendOutboxEvent(ctx, tx.Outbox(), events.AggregateDraft, eventType, d.ID.String(), now, events.DraftSubmittedPayload{
			DraftID:  d.ID,
			SellerID: d.SellerID,
			Name:     d.Name,
			Priority: string(item.Priority),
		}); err != nil {
			return err
		}

		submitted = d
		return nil
	})
	if err != nil {
		return draft.Draft{}, err
	}
	return submitted, nil
}

func (s *DraftService) Delete(ctx context.Context, draftID, sellerID uuid.UUID) error {
	return s.uow.Execute(ctx, func(tx repository.Tx) error {
		d, err := tx.Drafts().GetByID(ctx, draftID)
		if err != nil {
			return err
		}
		if d.SellerID != sellerID {
			return vendora_errors.ErrForbidden
		}
		if !d.Status.Deletable() {
			return vendora_errors.ErrInvalidTransition
		}
		return tx.Drafts().Delete(ctx, d.ID)
	})
}
