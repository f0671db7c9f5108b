package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"vendora/internal/domain/address"
	vendora_errors "vendora/pkg/errors"
)

type addressRepository struct {
	db DBTX
}

func NewAddressRepository(db DBTX) AddressRepository {
	return &addressRepository{db: db}
}

const addressColumns = `id, owner_id, label, line1, line2, city, postal_code, country, phone, is_default, created_at, updated_at`

func (r *addressRepository) Create(ctx context.Context, a *address.Address) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO addresses (id, owner_id, label, line1, line2, city, postal_code, country, phone, is_default, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    `,
		a.ID,
		a.OwnerID,
		a.Label,
		a.Line1,
		a.Line2,
		a.City,
		a.PostalCode,
		a.Country,
		a.Phone,
		a.IsDefault,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return vendora_errors.ErrAlreadyExists
	}
	return err
}

func (r *addressRepository) GetByID(ctx context.Context, id uuid.UUID) (address.Address, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+addressColumns+`
        FROM addresses
        WHERE id = $1
    `, id)
	a, err := scanAddress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return address.Address{}, vendora_errors.ErrNotFound
	}
	return a, err
}

func (r *addressRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]address.Address, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+addressColumns+`
        FROM addresses
        WHERE owner_id = $1
        ORDER BY is_default DESC, created_at DESC
    `, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []address.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM addresses WHERE owner_id = $1`, ownerID).Scan(&count)
	return count, err
}

func (r *addressRepository) ClearDefaults(ctx context.Context, ownerID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE addresses
        SET is_default = FALSE, updated_at = NOW()
        WHERE owner_id = $1 AND is_default
    `, ownerID)
	return err
}

func (r *addressRepository) MarkDefault(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE addresses
        SET is_default = TRUE, updated_at = NOW()
        WHERE id = $1
    `, id)
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

func (r *addressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
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

func (r *addressRepository) NewestByOwner(ctx context.Context, ownerID, excluding uuid.UUID) (address.Address, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+addressColumns+`
        FROM addresses
        WHERE owner_id = $1 AND id <> $2
        ORDER BY created_at DESC
        LIMIT 1
    `, ownerID, excluding)
	a, err := scanAddress(row)
	if errors.Is(err, sql.ErrNoRows) {
		return address.Address{}, vendora_errors.ErrNotFound
	}
	return a, err
}

func scanAddress(row rowScanner) (address.Address, error) {
	var a address.Address
	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Label,
		&a.Line1,
		&a.Line2,
		&a.City,
		&a.PostalCode,
		&a.Country,
		&a.Phone,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
