package repository

import (
	"database/sql"
	"fmt"
)

// InitSchema creates extensions and tables. Every statement is idempotent so
// the CLI can re-run it safely.
func InitSchema(db *sql.DB) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,

		`CREATE TABLE IF NOT EXISTS drafts (
            id UUID PRIMARY KEY,
            seller_id UUID NOT NULL,
            category_id UUID NOT NULL,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price BIGINT NOT NULL,
            images JSONB NOT NULL DEFAULT '[]',
            variants JSONB NOT NULL DEFAULT '[]',
            status VARCHAR(20) NOT NULL DEFAULT 'DRAFT',
            submitted_at TIMESTAMPTZ,
            reviewed_by UUID,
            reviewed_at TIMESTAMPTZ,
            rejection_reason TEXT,
            moderation_notes TEXT,
            product_id UUID,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_seller ON drafts (seller_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_drafts_status ON drafts (status);`,

		`CREATE TABLE IF NOT EXISTS queue_items (
            id UUID PRIMARY KEY,
            draft_id UUID NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
            assigned_to UUID,
            priority VARCHAR(10) NOT NULL DEFAULT 'NORMAL',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            completed_at TIMESTAMPTZ
        );`,
		// one open queue item per draft
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_queue_items_open_draft
            ON queue_items (draft_id) WHERE completed_at IS NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_queue_items_open
            ON queue_items (priority, created_at) WHERE completed_at IS NULL;`,

		`CREATE TABLE IF NOT EXISTS products (
            id UUID PRIMARY KEY,
            seller_id UUID NOT NULL,
            draft_id UUID NOT NULL,
            category_id UUID NOT NULL,
            code VARCHAR(20) NOT NULL UNIQUE,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price BIGINT NOT NULL,
            status VARCHAR(20) NOT NULL DEFAULT 'APPROVED',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_products_seller ON products (seller_id);`,

		`CREATE TABLE IF NOT EXISTS product_variants (
            id UUID PRIMARY KEY,
            product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
            sku VARCHAR(100) NOT NULL UNIQUE,
            color VARCHAR(50) NOT NULL,
            size VARCHAR(50) NOT NULL,
            price BIGINT NOT NULL,
            stock INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,

		`CREATE TABLE IF NOT EXISTS product_images (
            id UUID PRIMARY KEY,
            product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
            url TEXT NOT NULL,
            position INT NOT NULL DEFAULT 0,
            is_primary BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,

		`CREATE TABLE IF NOT EXISTS addresses (
            id UUID PRIMARY KEY,
            owner_id UUID NOT NULL,
            label VARCHAR(100) NOT NULL DEFAULT '',
            line1 TEXT NOT NULL,
            line2 TEXT NOT NULL DEFAULT '',
            city VARCHAR(100) NOT NULL,
            postal_code VARCHAR(20) NOT NULL,
            country VARCHAR(2) NOT NULL,
            phone VARCHAR(30) NOT NULL DEFAULT '',
            is_default BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE INDEX IF NOT EXISTS idx_addresses_owner ON addresses (owner_id);`,
		// at most one default per owner, enforced in depth under the advisory lock
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_owner_default
            ON addresses (owner_id) WHERE is_default;`,

		`CREATE TABLE IF NOT EXISTS outbox_events (
            id UUID PRIMARY KEY,
            aggregate_type VARCHAR(50) NOT NULL,
            aggregate_id VARCHAR(36) NOT NULL,
            event_type VARCHAR(100) NOT NULL,
            payload JSONB NOT NULL,
            metadata JSONB,
            status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
            retry_count INT NOT NULL DEFAULT 0,
            error TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            dispatched_at TIMESTAMPTZ
        );`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_pending
            ON outbox_events (created_at) WHERE status = 'PENDING';`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

// DropAllTables removes every table this service owns.
func DropAllTables(db *sql.DB) error {
	tables := []string{"outbox_events", "product_images", "product_variants", "products", "queue_items", "drafts", "addresses"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
