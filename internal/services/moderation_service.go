package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"vendora/internal/domain/catalog"
	"vendora/internal/domain/draft"
	"vendora/internal/events"
	"vendora/internal/repository"
	vendora_errors "vendora/pkg/errors"
	"vendora/pkg/logger"
)

// ModerationService owns the moderator-facing side: the queue, assignment and
// the approve/reject/request-changes transitions.
type ModerationService struct {
	uow             repository.UnitOfWork
	drafts          repository.DraftRepository
	queue           repository.QueueRepository
	products        repository.ProductRepository
	seller          SellerClient
	notify          NotificationClient
	codeMaxAttempts int
	escalationAge   time.Duration
	log             *logger.Logger
	clock           func() time.Time
}

func NewModerationService(
	uow repository.UnitOfWork,
	drafts repository.DraftRepository,
	queue repository.QueueRepository,
	products repository.ProductRepository,
	seller SellerClient,
	notify NotificationClient,
	codeMaxAttempts int,
	escalationAge time.Duration,
	log *logger.Logger,
) *ModerationService {
	if codeMaxAttempts <= 0 {
		codeMaxAttempts = 5
	}
	return &ModerationService{
		uow:             uow,
		drafts:          drafts,
		queue:           queue,
		products:        products,
		seller:          seller,
		notify:          notify,
		codeMaxAttempts: codeMaxAttempts,
		escalationAge:   escalationAge,
		log:             log,
		clock:           time.Now,
	}
}

// QueueEntry pairs a queue item with its draft for listing.
type QueueEntry struct {
	Item  draft.QueueItem
	Draft draft.Draft
}

func (s *ModerationService) ListQueue(ctx context.Context, page, limit int) ([]QueueEntry, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	items, total, err := s.queue.ListOpen(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	entries := make([]QueueEntry, 0, len(items))
	for _, item := range items {
		d, err := s.drafts.GetByID(ctx, item.DraftID)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, QueueEntry{Item: item, Draft: d})
	}
	return entries, total, nil
}

func (s *ModerationService) GetDraft(ctx context.Context, draftID uuid.UUID) (draft.Draft, error) {
	return s.drafts.GetByID(ctx, draftID)
}

// Assign claims a pending item for a moderator. Re-assigning to the same
// moderator is a no-op; a different moderator gets Conflict.
func (s *ModerationService) Assign(ctx context.Context, draftID, moderatorID uuid.UUID) (draft.QueueItem, error) {
	var assigned draft.QueueItem
	err := s.uow.Execute(ctx, func(tx repository.Tx) error {
		item, err := tx.Queue().GetOpenByDraftID(ctx, draftID)
		if err != nil {
			return err
		}
		if item.AssignedTo.Valid && item.AssignedTo.UUID != moderatorID {
			return vendora_errors.ErrConflict
		}
		if !item.AssignedTo.Valid {
			if err := tx.Queue().Assign(ctx, item.ID, moderatorID); err != nil {
				return err
			}
		}
		item.AssignedTo = uuid.NullUUID{UUID: moderatorID, Valid: true}
		assigned = item
		return nil
	})
	if err != nil {
		return draft.QueueItem{}, err
	}
	return assigned, nil
}

// Approve publishes the draft: product, variants and images are created, the
// queue item closes and the outbox event is appended, all in one transaction.
// Notifications fire only after commit and never roll the approval back.
func (s *ModerationService) Approve(ctx context.Context, draftID, moderatorID uuid.UUID) (draft.Draft, catalog.Product, error) {
	var (
		approved draft.Draft
		product  catalog.Product
	)
	err := s.uow.Execute(ctx, func(tx repository.Tx) error {
		d, err := tx.Drafts().GetByID(ctx, draftID)
		if err != nil {
			return err
		}
		if !d.Status.CanTransitionTo(draft.StatusApproved) {
			return vendora_errors.ErrInvalidTransition
		}

		code, err := s.generateProductCode(ctx, tx.Products())
		if err != nil {
			return err
		}

		now := s.clock()
		p := catalog.Product{
			ID:          uuid.New(),
			SellerID:    d.SellerID,
			DraftID:     d.ID,
			CategoryID:  d.CategoryID,
			Code:        code,
			Name:        d.Name,
			Description: d.Description,
			Price:       d.Price,
			Status:      catalog.ProductStatusApproved,
			CreatedAt:   now,
		}
		if err := tx.Products().Create(ctx, &p); err != nil {
			return err
		}
		for _, v := range d.Variants {
			variant := catalog.Variant{
				ID:        uuid.New(),
				ProductID: p.ID,
				SKU:       catalog.BuildSKU(code, v.Color, v.Size),
				Color:     v.Color,
				Size:      v.Size,
				Price:     v.Price,
				Stock:     v.Stock,
				CreatedAt: now,
			}
			if err := tx.Products().CreateVariant(ctx, &variant); err != nil {
				return err
			}
		}
		for i, img := range d.Images {
			image := catalog.Image{
				ID:        uuid.New(),
				ProductID: p.ID,
				URL:       img.URL,
				Position:  i,
				IsPrimary: i == 0,
				CreatedAt: now,
			}
			if err := tx.Products().CreateImage(ctx, &image); err != nil {
				return err
			}
		}

		item, err := tx.Queue().GetOpenByDraftID(ctx, draftID)
		if err != nil {
			return err
		}
		if err := tx.Queue().Close(ctx, item.ID, now); err != nil {
			return err
		}

		from := d.Status
		d.Status = draft.StatusApproved
		d.ReviewedBy = uuid.NullUUID{UUID: moderatorID, Valid: true}
		d.ReviewedAt = &now
		d.ProductID = uuid.NullUUID{UUID: p.ID, Valid: true}
		d.UpdatedAt = now
		if err := tx.Drafts().Update(ctx, d, from); err != nil {
			return err
		}

		if err := appendOutboxEvent(ctx, tx.Outbox(), events.AggregateProduct, events.EventTypeApproved, p.ID.String(), now, events.ApprovedPayload{
			DraftID:     d.ID,
			ProductID:   p.ID,
			ProductCode: p.Code,
			SellerID:    d.SellerID,
			Name:        d.Name,
		}); err != nil {
			return err
		}

		approved = d
		product = p
		return nil
	})
	if err != nil {
		return draft.Draft{}, catalog.Product{}, err
	}

	// Post-commit, best effort. The approval stands whatever happens here.
	if err := s.seller.IncrementProductCount(ctx, approved.SellerID); err != nil {
		s.log.ErrorfCtx(ctx, "increment product count for seller %s: %s", approved.SellerID, err.Error())
	}
	if err := s.notify.NotifyApproved(ctx, approved.SellerID, approved.ID, approved.Name); err != nil {
		s.log.ErrorfCtx(ctx, "notify approval of draft %s: %s", approved.ID, err.Error())
	}

	return approved, product, nil
}

func (s *ModerationService) Reject(ctx context.Context, draftID, moderatorID uuid.UUID, reason string) (draft.Draft, error) {
	if strings.TrimSpace(reason) == "" {
		return draft.Draft{}, vendora_errors.NewValidationError([]string{"rejection reason is required"})
	}

	var rejected draft.Draft
	err := s.uow.Execute(ctx, func(tx repository.Tx) error {
		d, err := tx.Drafts().GetByID(ctx, draftID)
		if err != nil {
			return err
		}
		if !d.Status.CanTransitionTo(draft.StatusRejected) {
			return vendora_errors.ErrInvalidTransition
		}

		now := s.clock()
		from := d.Status
		d.Status = draft.StatusRejected
		d.ReviewedBy = uuid.NullUUID{UUID: moderatorID, Valid: true}
		d.ReviewedAt = &now
		d.RejectionReason = sql.NullString{String: reason, Valid: true}
		d.UpdatedAt = now
		if err := tx.Drafts().Update(ctx, d, from); err != nil {
			return err
		}

		item, err := tx.Queue().GetOpenByDraftID(ctx, draftID)
		if err != nil {
			return err
		}
		if err := tx.Queue().Close(ctx, item.ID, now); err != nil {
			return err
		}

		if err := appendOutboxEvent(ctx, tx.Outbox(), events.AggregateDraft, events.EventTypeDraftRejected, d.ID.String(), now, events.DraftRejectedPayload{
			DraftID:  d.ID,
			SellerID: d.SellerID,
			Name:     d.Name,
			Reason:   reason,
		}); err != nil {
			return err
		}

		rejected = d
		return nil
	})
	if err != nil {
		return draft.Draft{}, err
	}

	if err := s.notify.NotifyRejected(ctx, rejected.SellerID, rejected.ID, rejected.Name, reason); err != nil {
		s.log.ErrorfCtx(ctx, "notify rejection of draft %s: %s", rejected.ID, err.Error())
	}

	return rejected, nil
}

func (s *ModerationService) RequestChanges(ctx context.Context, draftID, moderatorID uuid.UUID, feedback string) (draft.Draft, error) {
	if strings.TrimSpace(feedback) == "" {
		return draft.Draft{}, vendora_errors.NewValidationError([]string{"feedback is required"})
	}

	var updated draft.Draft
	err := s.uow.Execute(ctx, func(tx repository.Tx) error {
		d, err := tx.Drafts().GetByID(ctx, draftID)
		if err != nil {
			return err
		}
		if !d.Status.CanTransitionTo(draft.StatusChangesRequested) {
			return vendora_errors.ErrInvalidTransition
		}

		now := s.clock()
		from := d.Status
		d.Status = draft.StatusChangesRequested
		d.ReviewedBy = uuid.NullUUID{UUID: moderatorID, Valid: true}
		d.ReviewedAt = &now
		d.ModerationNotes = sql.NullString{String: feedback, Valid: true}
		d.UpdatedAt = now
		if err := tx.Drafts().Update(ctx, d, from); err != nil {
			return err
		}

		item, err := tx.Queue().GetOpenByDraftID(ctx, draftID)
		if err != nil {
			return err
		}
		if err := tx.Queue().Close(ctx, item.ID, now); err != nil {
			return err
		}

		if err := appendOutboxEvent(ctx, tx.Outbox(), events.AggregateDraft, events.EventTypeChangesRequested, d.ID.String(), now, events.ChangesRequestedPayload{
			DraftID:  d.ID,
			SellerID: d.SellerID,
			Name:     d.Name,
			Feedback: feedback,
		}); err != nil {
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

// EscalateStale promotes unassigned low/normal items older than the
// configured age to high priority. Re-running is a no-op for items already
// promoted.
func (s *ModerationService) EscalateStale(ctx context.Context) (int64, error) {
	var escalated int64
	err := s.uow.Execute(ctx, func(tx repository.Tx) error {
		n, err := tx.Queue().EscalateUnassignedOlderThan(ctx, s.clock().Add(-s.escalationAge))
		if err != nil {
			return err
		}
		escalated = n
		return nil
	})
	return escalated, err
}

// generateProductCode draws candidate codes until one is free, bounded by
// codeMaxAttempts. The unique index on products.code is the final guard.
func (s *ModerationService) generateProductCode(ctx context.Context, products repository.ProductRepository) (string, error) {
	for attempt := 0; attempt < s.codeMaxAttempts; attempt++ {
		code := catalog.NewProductCode()
		exists, err := products.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", vendora_errors.ErrCodeExhausted
}
