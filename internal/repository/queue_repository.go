package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"vendora/internal/domain/draft"
	vendora_errors "vendora/pkg/errors"
)

type queueRepository struct {
	db DBTX
}

func NewQueueRepository(db DBTX) QueueRepository {
	return &queueRepository{db: db}
}

// priorityRank keeps the queue ordering in one place: priority tier first,
// oldest submission first within a tier.
const priorityRank = `CASE priority
        WHEN 'URGENT' THEN 4
        WHEN 'HIGH' THEN 3
        WHEN 'NORMAL' THEN 2
        ELSE 1
    END`

func (r *queueRepository) Create(ctx context.Context, item *draft.QueueItem) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO queue_items (id, draft_id, assigned_to, priority, created_at, completed_at)
        VALUES ($1,$2,$3,$4,$5,$6)
    `,
		item.ID,
		item.DraftID,
		item.AssignedTo,
		item.Priority,
		item.CreatedAt,
		item.CompletedAt,
	)
	if isUniqueViolation(err) {
		return vendora_errors.ErrAlreadyExists
	}
	return err
}

func (r *queueRepository) GetOpenByDraftID(ctx context.Context, draftID uuid.UUID) (draft.QueueItem, error) {
	var item draft.QueueItem
	err := r.db.QueryRowContext(ctx, `
        SELECT id, draft_id, assigned_to, priority, created_at, completed_at
        FROM queue_items
        WHERE draft_id = $1 AND completed_at IS NULL
    `, draftID).Scan(
		&item.ID,
		&item.DraftID,
		&item.AssignedTo,
		&item.Priority,
		&item.CreatedAt,
		&item.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return draft.QueueItem{}, vendora_errors.ErrNotFound
	}
	return item, err
}

func (r *queueRepository) Assign(ctx context.Context, id, moderatorID uuid.UUID) error {
	// The assignment predicate makes the claim conditional: a moderator who
	// committed a claim in between wins and the late writer gets Conflict.
	res, err := r.db.ExecContext(ctx, `
        UPDATE queue_items
        SET assigned_to = $1
        WHERE id = $2 AND completed_at IS NULL
          AND (assigned_to IS NULL OR assigned_to = $1)
    `, moderatorID, id)
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

func (r *queueRepository) Close(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE queue_items
        SET completed_at = $1
        WHERE id = $2 AND completed_at IS NULL
    `, completedAt, id)
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

func (r *queueRepository) ListOpen(ctx context.Context, page, limit int) ([]draft.QueueItem, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queue_items WHERE completed_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, draft_id, assigned_to, priority, created_at, completed_at
        FROM queue_items
        WHERE completed_at IS NULL
        ORDER BY `+priorityRank+` DESC, created_at ASC
        OFFSET $1 LIMIT $2
    `, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []draft.QueueItem
	for rows.Next() {
		var item draft.QueueItem
		if err := rows.Scan(
			&item.ID,
			&item.DraftID,
			&item.AssignedTo,
			&item.Priority,
			&item.CreatedAt,
			&item.CompletedAt,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *queueRepository) EscalateUnassignedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE queue_items
        SET priority = $1
        WHERE completed_at IS NULL
          AND assigned_to IS NULL
          AND priority IN ($2, $3)
          AND created_at < $4
    `, draft.PriorityHigh, draft.PriorityLow, draft.PriorityNormal, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
