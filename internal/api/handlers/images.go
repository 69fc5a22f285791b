package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/wardrobe/internal/models"
	"github.com/your-org/wardrobe/internal/storage"
	"github.com/your-org/wardrobe/pkg/dto"
)

// ImageStore is the slice of the relational store the image handlers use.
type ImageStore interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	CreateItemImage(ctx context.Context, img *models.ItemImage) error
	GetItemImage(ctx context.Context, id uuid.UUID) (*models.ItemImage, error)
	ListItemImages(ctx context.Context, itemID uuid.UUID) ([]models.ItemImage, error)
	CountItemImages(ctx context.Context, itemID uuid.UUID) (int, error)
	UpdateItemImage(ctx context.Context, img *models.ItemImage) error
	SetPrimaryImage(ctx context.Context, itemID, imageID uuid.UUID) (bool, error)
	SoftDeleteItemImage(ctx context.Context, id uuid.UUID) (bool, error)
}

type ImageHandler struct {
	db    ImageStore
	blobs storage.BlobStore
}

func NewImageHandler(db ImageStore, blobs storage.BlobStore) *ImageHandler {
	return &ImageHandler{db: db, blobs: blobs}
}

func imageResponse(img *models.ItemImage) dto.ItemImageResponse {
	return dto.ItemImageResponse{
		ID:        img.ID,
		ItemID:    img.ItemID,
		ImageURL:  img.ImageURL,
		IsPrimary: img.IsPrimary,
		Angle:     img.Angle,
		CreatedAt: img.CreatedAt.Format(time.RFC3339),
		UpdatedAt: img.UpdatedAt.Format(time.RFC3339),
	}
}

func uploadErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	default:
		return http.StatusInternalServerError, "failed to store image"
	}
}

// Create accepts a multipart image upload and links it to an item. The first
// image of an item becomes primary unless is_primary is sent explicitly.
func (h *ImageHandler) Create(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	// Item existence is checked before any file is written.
	item, err := h.db.GetItem(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()

	angle := c.PostForm("angle")
	if !models.ValidAngle(angle) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid angle"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	stored, err := h.blobs.Save(c.Request.Context(), file, header.Filename, contentType, header.Size)
	if err != nil {
		status, msg := uploadErrorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("store item image", "item_id", itemID, "error", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	isPrimary := false
	if v := c.PostForm("is_primary"); v != "" {
		isPrimary, _ = strconv.ParseBool(v)
	} else {
		// First image of an item is primary by default.
		count, err := h.db.CountItemImages(c.Request.Context(), itemID)
		if err != nil {
			h.blobs.Delete(c.Request.Context(), stored)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		isPrimary = count == 0
	}

	img := &models.ItemImage{
		ItemID:    itemID,
		ImageURL:  stored,
		IsPrimary: isPrimary,
		Angle:     angle,
	}
	if err := h.db.CreateItemImage(c.Request.Context(), img); err != nil {
		h.blobs.Delete(c.Request.Context(), stored)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create image record"})
		return
	}

	c.JSON(http.StatusCreated, imageResponse(img))
}

func (h *ImageHandler) ListByItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	item, err := h.db.GetItem(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	images, err := h.db.ListItemImages(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.ItemImageResponse, 0, len(images))
	for i := range images {
		resp = append(resp, imageResponse(&images[i]))
	}
	c.JSON(http.StatusOK, gin.H{"images": resp, "total": len(resp)})
}

func (h *ImageHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	img, err := h.db.GetItemImage(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if img == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	c.JSON(http.StatusOK, imageResponse(img))
}

func (h *ImageHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	var req dto.UpdateItemImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Angle != nil && !models.ValidAngle(*req.Angle) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid angle"})
		return
	}

	img, err := h.db.GetItemImage(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if img == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	if req.IsPrimary != nil {
		img.IsPrimary = *req.IsPrimary
	}
	if req.Angle != nil {
		img.Angle = *req.Angle
	}

	if err := h.db.UpdateItemImage(c.Request.Context(), img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, imageResponse(img))
}

// SetPrimary makes one image the item's only primary one.
func (h *ImageHandler) SetPrimary(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	ok, err := h.db.SetPrimaryImage(c.Request.Context(), itemID, imageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found for item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "primary set"})
}

// Delete soft-deletes the record and removes the stored file best-effort;
// a failed file removal is logged and does not fail the request.
func (h *ImageHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	img, err := h.db.GetItemImage(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if img == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	ok, err := h.db.SoftDeleteItemImage(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	if !h.blobs.Delete(c.Request.Context(), img.ImageURL) {
		slog.Warn("stored file not removed", "image_id", id, "name", img.ImageURL)
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
