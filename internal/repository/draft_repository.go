package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"vendora/internal/domain/draft"
	vendora_errors "vendora/pkg/errors"
)

type draftRepository struct {
	db DBTX
}

func NewDraftRepository(db DBTX) DraftRepository {
	return &draftRepository{db: db}
}

const draftColumns = `id, seller_id, category_id, name, description, price, images, variants, status,
        submitted_at, reviewed_by, reviewed_at, rejection_reason, moderation_notes, product_id, created_at, updated_at`

func (r *draftRepository) Create(ctx context.Context, d *draft.Draft) error {
	images, variants, err := marshalPayload(d)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO drafts (id, seller_id, category_id, name, description, price, images, variants, status,
            submitted_at, reviewed_by, reviewed_at, rejection_reason, moderation_notes, product_id, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    `,
		d.ID,
		d.SellerID,
		d.CategoryID,
		d.Name,
		d.Description,
		d.Price,
		images,
		variants,
		d.Status,
		d.SubmittedAt,
		d.ReviewedBy,
		d.ReviewedAt,
		d.RejectionReason,
		d.ModerationNotes,
		d.ProductID,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return vendora_errors.ErrAlreadyExists
	}
	return err
}

func (r *draftRepository) GetByID(ctx context.Context, id uuid.UUID) (draft.Draft, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+draftColumns+`
        FROM drafts
        WHERE id = $1
    `, id)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return draft.Draft{}, vendora_errors.ErrNotFound
	}
	return d, err
}

func (r *draftRepository) Update(ctx context.Context, d draft.Draft, from draft.Status) error {
	images, variants, err := marshalPayload(&d)
	if err != nil {
		return err
	}
	// The status predicate guards against a transition committed between this
	// transaction's read and its write; zero rows means the row moved on.
	res, err := r.db.ExecContext(ctx, `
        UPDATE drafts
        SET category_id = $1, name = $2, description = $3, price = $4, images = $5, variants = $6,
            status = $7, submitted_at = $8, reviewed_by = $9, reviewed_at = $10,
            rejection_reason = $11, moderation_notes = $12, product_id = $13, updated_at = $14
        WHERE id = $15 AND status = $16
    `,
		d.CategoryID,
		d.Name,
		d.Description,
		d.Price,
		images,
		variants,
		d.Status,
		d.SubmittedAt,
		d.ReviewedBy,
		d.ReviewedAt,
		d.RejectionReason,
		d.ModerationNotes,
		d.ProductID,
		d.UpdatedAt,
		d.ID,
		from,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return vendora_errors.ErrConflict
	}
	return nil
}

func (r *draftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return vendora_errors.ErrNotFound
	}
	return nil
}

func (r *draftRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, page, limit int) ([]draft.Draft, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drafts WHERE seller_id = $1`, sellerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+draftColumns+`
        FROM drafts
        WHERE seller_id = $1
        ORDER BY created_at DESC
        OFFSET $2 LIMIT $3
    `, sellerID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var drafts []draft.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, 0, err
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return drafts, total, nil
}

func marshalPayload(d *draft.Draft) ([]byte, []byte, error) {
	images, err := json.Marshal(d.Images)
	if err != nil {
		return nil, nil, err
	}
	variants, err := json.Marshal(d.Variants)
	if err != nil {
		return nil, nil, err
	}
	return images, variants, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row rowScanner) (draft.Draft, error) {
	var d draft.Draft
	var images, variants []byte
	if err := row.Scan(
		&d.ID,
		&d.SellerID,
		&d.CategoryID,
		&d.Name,
		&d.Description,
		&d.Price,
		&images,
		&variants,
		&d.Status,
		&d.SubmittedAt,
		&d.ReviewedBy,
		&d.ReviewedAt,
		&d.RejectionReason,
		&d.ModerationNotes,
		&d.ProductID,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return draft.Draft{}, err
	}
	if err := json.Unmarshal(images, &d.Images); err != nil {
		return draft.Draft{}, err
	}
	if err := json.Unmarshal(variants, &d.Variants); err != nil {
		return draft.Draft{}, err
	}
	return d, nil
}
