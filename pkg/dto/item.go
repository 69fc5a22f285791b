package dto

import (
	"github.com/google/uuid"
)

type CreateItemRequest struct {
	Name          string   `json:"name" binding:"required,max=255"`
	Brand         string   `json:"brand,omitempty" binding:"max=50"`
	Category      string   `json:"category,omitempty" binding:"max=50"`
	Material      string   `json:"material,omitempty" binding:"max=50"`
	Pattern       string   `json:"pattern,omitempty" binding:"max=50"`
	DominantColor string   `json:"dominant_color,omitempty" binding:"omitempty,hexcolor"`
	ColorPalette  []string `json:"color_palette,omitempty"`
	Season        []string `json:"season,omitempty"`
	Occasion      []string `json:"occasion,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	IsFavorite    bool     `json:"is_favorite"`
	Notes         string   `json:"notes,omitempty" binding:"max=1000"`
}

// UpdateItemRequest is a partial patch; nil fields are left unchanged.
type UpdateItemRequest struct {
	Name          *string   `json:"name,omitempty" binding:"omitempty,max=255"`
	Brand         *string   `json:"brand,omitempty" binding:"omitempty,max=50"`
	Category      *string   `json:"category,omitempty" binding:"omitempty,max=50"`
	Material      *string   `json:"material,omitempty" binding:"omitempty,max=50"`
	Pattern       *string   `json:"pattern,omitempty" binding:"omitempty,max=50"`
	DominantColor *string   `json:"dominant_color,omitempty" binding:"omitempty,hexcolor"`
	ColorPalette  *[]string `json:"color_palette,omitempty"`
	Season        *[]string `json:"season,omitempty"`
	Occasion      *[]string `json:"occasion,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	IsFavorite    *bool     `json:"is_favorite,omitempty"`
	Notes         *string   `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

type ItemResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand,omitempty"`
	Category      string    `json:"category,omitempty"`
	Material      string    `json:"material,omitempty"`
	Pattern       string    `json:"pattern,omitempty"`
	DominantColor string    `json:"dominant_color,omitempty"`
	ColorPalette  []string  `json:"color_palette,omitempty"`
	Season        []string  `json:"season,omitempty"`
	Occasion      []string  `json:"occasion,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	IsFavorite    bool      `json:"is_favorite"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     string    `json:"created_at"`
	UpdatedAt     string    `json:"updated_at"`
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Pages int            `json:"pages"`
}
