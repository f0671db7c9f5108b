package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"vendora/internal/domain/catalog"
	vendora_errors "vendora/pkg/errors"
)

type productRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *catalog.Product) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO products (id, seller_id, draft_id, category_id, code, name, description, price, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `,
		p.ID,
		p.SellerID,
		p.DraftID,
		p.CategoryID,
		p.Code,
		p.Name,
		p.Description,
		p.Price,
		p.Status,
		p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return vendora_errors.ErrAlreadyExists
	}
	return err
}

func (r *productRepository) CreateVariant(ctx context.Context, v *catalog.Variant) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO product_variants (id, product_id, sku, color, size, price, stock, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `,
		v.ID,
		v.ProductID,
		v.SKU,
		v.Color,
		v.Size,
		v.Price,
		v.Stock,
		v.CreatedAt,
	)
	if isUniqueViolation(err) {
		return vendora_errors.ErrAlreadyExists
	}
	return err
}

func (r *productRepository) CreateImage(ctx context.Context, img *catalog.Image) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO product_images (id, product_id, url, position, is_primary, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
    `,
		img.ID,
		img.ProductID,
		img.URL,
		img.Position,
		img.IsPrimary,
		img.CreatedAt,
	)
	return err
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	var p catalog.Product
	err := r.db.QueryRowContext(ctx, `
        SELECT id, seller_id, draft_id, category_id, code, name, description, price, status, created_at
        FROM products
        WHERE id = $1
    `, id).Scan(
		&p.ID,
		&p.SellerID,
		&p.DraftID,
		&p.CategoryID,
		&p.Code,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Status,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, vendora_errors.ErrNotFound
	}
	return p, err
}

func (r *productRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE code = $1)`, code).Scan(&exists)
	return exists, err
}

func (r *productRepository) GetVariants(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, product_id, sku, color, size, price, stock, created_at
        FROM product_variants
        WHERE product_id = $1
        ORDER BY created_at ASC
    `, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []catalog.Variant
	for rows.Next() {
		var v catalog.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Color, &v.Size, &v.Price, &v.Stock, &v.CreatedAt); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *productRepository) GetImages(ctx context.Context, productID uuid.UUID) ([]catalog.Image, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, product_id, url, position, is_primary, created_at
        FROM product_images
        WHERE product_id = $1
        ORDER BY position ASC
    `, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []catalog.Image
	for rows.Next() {
		var img catalog.Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.Position, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}
