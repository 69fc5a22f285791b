package storage

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id             UUID PRIMARY KEY,
		name           VARCHAR(255) NOT NULL,
		brand          VARCHAR(50)  NOT NULL DEFAULT '',
		category       VARCHAR(50)  NOT NULL DEFAULT '',
		material       VARCHAR(50)  NOT NULL DEFAULT '',
		pattern        VARCHAR(50)  NOT NULL DEFAULT '',
		dominant_color VARCHAR(7)   NOT NULL DEFAULT '',
		color_palette  TEXT[],
		season         TEXT[],
		occasion       TEXT[],
		tags           TEXT[],
		is_favorite    BOOLEAN NOT NULL DEFAULT false,
		notes          VARCHAR(1000) NOT NULL DEFAULT '',
		is_active      BOOLEAN NOT NULL DEFAULT true,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS item_images (
		id         UUID PRIMARY KEY,
		item_id    UUID NOT NULL REFERENCES items(id),
		image_url  TEXT NOT NULL,
		is_primary BOOLEAN NOT NULL DEFAULT false,
		angle      VARCHAR(10) NOT NULL DEFAULT '',
		is_active  BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_active_created
		ON items (created_at DESC) WHERE is_active`,
	`CREATE INDEX IF NOT EXISTS idx_item_images_item
		ON item_images (item_id) WHERE is_active`,
	// Backstop for the at-most-one-primary invariant.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_item_images_one_primary
		ON item_images (item_id) WHERE is_primary AND is_active`,
}

// Migrate creates the schema if it is not present yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
