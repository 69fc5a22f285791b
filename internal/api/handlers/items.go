package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/wardrobe/internal/models"
	"github.com/your-org/wardrobe/internal/observability"
	"github.com/your-org/wardrobe/pkg/dto"
)

// ItemStore is the slice of the relational store the item handlers use.
type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	ListItems(ctx context.Context, offset, limit int) ([]models.Item, int, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	SoftDeleteItem(ctx context.Context, id uuid.UUID) (bool, error)
}

type ItemHandler struct {
	db ItemStore
}

func NewItemHandler(db ItemStore) *ItemHandler {
	return &ItemHandler{db: db}
}

func itemResponse(it *models.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:            it.ID,
		Name:          it.Name,
		Brand:         it.Brand,
		Category:      it.Category,
		Material:      it.Material,
		Pattern:       it.Pattern,
		DominantColor: it.DominantColor,
		ColorPalette:  it.ColorPalette,
		Season:        it.Season,
		Occasion:      it.Occasion,
		Tags:          it.Tags,
		IsFavorite:    it.IsFavorite,
		Notes:         it.Notes,
		CreatedAt:     it.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     it.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &models.Item{
		Name:          req.Name,
		Brand:         req.Brand,
		Category:      req.Category,
		Material:      req.Material,
		Pattern:       req.Pattern,
		DominantColor: req.DominantColor,
		ColorPalette:  req.ColorPalette,
		Season:        req.Season,
		Occasion:      req.Occasion,
		Tags:          req.Tags,
		IsFavorite:    req.IsFavorite,
		Notes:         req.Notes,
	}
	if err := h.db.CreateItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	observability.ItemsCreated.WithLabelValues("manual").Inc()
	c.JSON(http.StatusCreated, itemResponse(item))
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	item, err := h.db.GetItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	c.JSON(http.StatusOK, itemResponse(item))
}

func (h *ItemHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	items, total, err := h.db.ListItems(c.Request.Context(), (page-1)*size, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(items)),
		Total: total,
		Page:  page,
		Size:  size,
		Pages: (total + size - 1) / size,
	}
	for i := range items {
		resp.Items = append(resp.Items, itemResponse(&items[i]))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.db.GetItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	applyItemPatch(item, &req)

	if err := h.db.UpdateItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, itemResponse(item))
}

func applyItemPatch(item *models.Item, req *dto.UpdateItemRequest) {
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Brand != nil {
		item.Brand = *req.Brand
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Material != nil {
		item.Material = *req.Material
	}
	if req.Pattern != nil {
		item.Pattern = *req.Pattern
	}
	if req.DominantColor != nil {
		item.DominantColor = *req.DominantColor
	}
	if req.ColorPalette != nil {
		item.ColorPalette = *req.ColorPalette
	}
	if req.Season != nil {
		item.Season = *req.Season
	}
	if req.Occasion != nil {
		item.Occasion = *req.Occasion
	}
	if req.Tags != nil {
		item.Tags = *req.Tags
	}
	if req.IsFavorite != nil {
		item.IsFavorite = *req.IsFavorite
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
}

func (h *ItemHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	ok, err := h.db.SoftDeleteItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
