package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/wardrobe/internal/config"
	"github.com/your-org/wardrobe/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Items ---

func (s *PostgresStore) CreateItem(ctx context.Context, item *models.Item) error {
	item.ID = uuid.New()
	item.IsActive = true
	err := s.pool.QueryRow(ctx,
		`INSERT INTO items (id, name, brand, category, material, pattern, dominant_color,
		                    color_palette, season, occasion, tags, is_favorite, notes, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at, updated_at`,
		item.ID, item.Name, item.Brand, item.Category, item.Material, item.Pattern,
		item.DominantColor, item.ColorPalette, item.Season, item.Occasion, item.Tags,
		item.IsFavorite, item.Notes, item.IsActive,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

const itemColumns = `id, name, brand, category, material, pattern, dominant_color,
	color_palette, season, occasion, tags, is_favorite, notes, is_active, created_at, updated_at`

func scanItem(row pgx.Row, it *models.Item) error {
	return row.Scan(&it.ID, &it.Name, &it.Brand, &it.Category, &it.Material, &it.Pattern,
		&it.DominantColor, &it.ColorPalette, &it.Season, &it.Occasion, &it.Tags,
		&it.IsFavorite, &it.Notes, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
}

// GetItem returns an active item, or nil when it does not exist or was soft-deleted.
func (s *PostgresStore) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	it := &models.Item{}
	err := scanItem(s.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1 AND is_active`, id), it)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// ListItems returns a page of active items, newest first, plus the total count.
func (s *PostgresStore) ListItems(ctx context.Context, offset, limit int) ([]models.Item, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM items WHERE is_active`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM items WHERE is_active
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var it models.Item
		if err := scanItem(rows, &it); err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, total, nil
}

func (s *PostgresStore) UpdateItem(ctx context.Context, item *models.Item) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE items SET name = $2, brand = $3, category = $4, material = $5, pattern = $6,
		        dominant_color = $7, color_palette = $8, season = $9, occasion = $10,
		        tags = $11, is_favorite = $12, notes = $13, updated_at = now()
		 WHERE id = $1 AND is_active
		 RETURNING updated_at`,
		item.ID, item.Name, item.Brand, item.Category, item.Material, item.Pattern,
		item.DominantColor, item.ColorPalette, item.Season, item.Occasion, item.Tags,
		item.IsFavorite, item.Notes,
	).Scan(&item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// SoftDeleteItem marks an item inactive. Returns false when no active item matched.
func (s *PostgresStore) SoftDeleteItem(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE items SET is_active = false, updated_at = now() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// --- Item images ---

const imageColumns = `id, item_id, image_url, is_primary, angle, is_active, created_at, updated_at`

func scanImage(row pgx.Row, img *models.ItemImage) error {
	return row.Scan(&img.ID, &img.ItemID, &img.ImageURL, &img.IsPrimary, &img.Angle,
		&img.IsActive, &img.CreatedAt, &img.UpdatedAt)
}

// CreateItemImage inserts an image link. When IsPrimary is set, the primary
// flag is cleared on the item's other images in the same transaction, so the
// at-most-one-primary invariant holds at every committed state.
func (s *PostgresStore) CreateItemImage(ctx context.Context, img *models.ItemImage) error {
	img.ID = uuid.New()
	img.IsActive = true

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if img.IsPrimary {
		if _, err := tx.Exec(ctx,
			`UPDATE item_images SET is_primary = false, updated_at = now()
			 WHERE item_id = $1 AND is_primary AND is_active`, img.ItemID); err != nil {
			return fmt.Errorf("clear primary flags: %w", err)
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO item_images (id, item_id, image_url, is_primary, angle, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`,
		img.ID, img.ItemID, img.ImageURL, img.IsPrimary, img.Angle, img.IsActive,
	).Scan(&img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create item image: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetItemImage(ctx context.Context, id uuid.UUID) (*models.ItemImage, error) {
	img := &models.ItemImage{}
	err := scanImage(s.pool.QueryRow(ctx,
		`SELECT `+imageColumns+` FROM item_images WHERE id = $1 AND is_active`, id), img)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item image: %w", err)
	}
	return img, nil
}

// ListItemImages returns an item's active images, primary first, then oldest first.
func (s *PostgresStore) ListItemImages(ctx context.Context, itemID uuid.UUID) ([]models.ItemImage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+imageColumns+` FROM item_images WHERE item_id = $1 AND is_active
		 ORDER BY is_primary DESC, created_at ASC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list item images: %w", err)
	}
	defer rows.Close()

	var images []models.ItemImage
	for rows.Next() {
		var img models.ItemImage
		if err := scanImage(rows, &img); err != nil {
			return nil, fmt.Errorf("scan item image: %w", err)
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *PostgresStore) CountItemImages(ctx context.Context, itemID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM item_images WHERE item_id = $1 AND is_active`, itemID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count item images: %w", err)
	}
	return count, nil
}

// UpdateItemImage rewrites an image link's mutable fields. Promoting an image
// to primary demotes the item's other images in the same transaction.
func (s *PostgresStore) UpdateItemImage(ctx context.Context, img *models.ItemImage) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if img.IsPrimary {
		if _, err := tx.Exec(ctx,
			`UPDATE item_images SET is_primary = false, updated_at = now()
			 WHERE item_id = $1 AND id <> $2 AND is_primary AND is_active`,
			img.ItemID, img.ID); err != nil {
			return fmt.Errorf("clear primary flags: %w", err)
		}
	}

	err = tx.QueryRow(ctx,
		`UPDATE item_images SET image_url = $2, is_primary = $3, angle = $4, updated_at = now()
		 WHERE id = $1 AND is_active
		 RETURNING updated_at`,
		img.ID, img.ImageURL, img.IsPrimary, img.Angle,
	).Scan(&img.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update item image: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SetPrimaryImage atomically makes the given image the item's only primary
// one. The clear and set statements share a transaction: concurrent callers
// serialize on the row locks and no committed state has two primaries.
// Returns false when the image does not exist, is inactive, or belongs to a
// different item; nothing is changed in that case.
func (s *PostgresStore) SetPrimaryImage(ctx context.Context, itemID, imageID uuid.UUID) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE item_images SET is_primary = false, updated_at = now()
		 WHERE item_id = $1 AND is_primary AND is_active`, itemID); err != nil {
		return false, fmt.Errorf("clear primary flags: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE item_images SET is_primary = true, updated_at = now()
		 WHERE id = $1 AND item_id = $2 AND is_active`, imageID, itemID)
	if err != nil {
		return false, fmt.Errorf("set primary flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}

// SoftDeleteItemImage marks an image link inactive. Returns false when no
// active image matched.
func (s *PostgresStore) SoftDeleteItemImage(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE item_images SET is_active = false, updated_at = now() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return false, fmt.Errorf("delete item image: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
