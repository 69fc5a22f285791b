package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a wardrobe entity. Optional string fields use "" for absent;
// deletion is soft (IsActive=false), records are never removed via the API.
type Item struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Brand         string    `json:"brand,omitempty" db:"brand"`
	Category      string    `json:"category,omitempty" db:"category"`
	Material      string    `json:"material,omitempty" db:"material"`
	Pattern       string    `json:"pattern,omitempty" db:"pattern"`
	DominantColor string    `json:"dominant_color,omitempty" db:"dominant_color"`
	ColorPalette  []string  `json:"color_palette,omitempty" db:"color_palette"`
	Season        []string  `json:"season,omitempty" db:"season"`
	Occasion      []string  `json:"occasion,omitempty" db:"occasion"`
	Tags          []string  `json:"tags,omitempty" db:"tags"`
	IsFavorite    bool      `json:"is_favorite" db:"is_favorite"`
	Notes         string    `json:"notes,omitempty" db:"notes"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Angle values allowed on an item image.
const (
	AngleFront  = "front"
	AngleBack   = "back"
	AngleLabel  = "label"
	AngleDetail = "detail"
)

// ValidAngle reports whether a is an allowed shot angle ("" means unset).
func ValidAngle(a string) bool {
	switch a {
	case "", AngleFront, AngleBack, AngleLabel, AngleDetail:
		return true
	}
	return false
}

// ItemImage links a stored image file to an Item.
// Invariant: at most one active image per item has IsPrimary=true.
type ItemImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ItemID    uuid.UUID `json:"item_id" db:"item_id"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	IsPrimary bool      `json:"is_primary" db:"is_primary"`
	Angle     string    `json:"angle,omitempty" db:"angle"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
