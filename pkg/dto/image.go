package dto

import (
	"github.com/google/uuid"
)

// UpdateItemImageRequest is a partial patch; nil fields are left unchanged.
type UpdateItemImageRequest struct {
	IsPrimary *bool   `json:"is_primary,omitempty"`
	Angle     *string `json:"angle,omitempty"`
}

type ItemImageResponse struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	ImageURL  string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
	Angle     string    `json:"angle,omitempty"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}
