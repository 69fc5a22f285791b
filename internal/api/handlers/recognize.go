package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/wardrobe/internal/recognition"
	"github.com/your-org/wardrobe/internal/storage"
	"github.com/your-org/wardrobe/pkg/dto"
)

// ItemCreator runs the recognize-and-create workflow.
type ItemCreator interface {
	CreateFromImages(ctx context.Context, uploads []recognition.Upload) (*recognition.CreateResult, error)
}

type RecognizeHandler struct {
	pipeline ItemCreator
}

func NewRecognizeHandler(pipeline ItemCreator) *RecognizeHandler {
	return &RecognizeHandler{pipeline: pipeline}
}

// RecognizeAndCreate accepts up to ten multipart images of one garment,
// recognizes them and creates the wardrobe item.
func (h *RecognizeHandler) RecognizeAndCreate(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	files := form.File["images"]
	uploads := make([]recognition.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image file"})
			return
		}
		defer f.Close()
		uploads = append(uploads, recognition.Upload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		})
	}

	result, err := h.pipeline.CreateFromImages(c.Request.Context(), uploads)
	if err != nil {
		h.writeError(c, err)
		return
	}

	rec := result.Recognition
	c.JSON(http.StatusCreated, dto.RecognizeAndCreateResponse{
		Item: itemResponse(result.Item),
		Recognition: dto.RecognitionResultResponse{
			Category:      rec.Category,
			Name:          rec.Name,
			Brand:         rec.Brand,
			Material:      rec.Material,
			Pattern:       rec.Pattern,
			DominantColor: rec.DominantColor,
			ColorPalette:  rec.ColorPalette,
			Season:        rec.Season,
			Occasion:      rec.Occasion,
			Confidence:    rec.Confidence,
		},
		ImagesCount: result.ImagesCount,
	})
}

// writeError maps workflow errors to statuses. Client-facing validation
// messages pass through verbatim; everything else is logged and surfaced as
// a generic internal failure.
func (h *RecognizeHandler) writeError(c *gin.Context, err error) {
	var ve *recognition.ValidationError
	switch {
	case errors.Is(err, recognition.ErrDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "clothing recognition is disabled"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
	case errors.Is(err, storage.ErrUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	default:
		slog.Error("recognize and create item", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recognize and create item"})
	}
}
