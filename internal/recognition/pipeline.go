package recognition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/your-org/wardrobe/internal/config"
	"github.com/your-org/wardrobe/internal/models"
	"github.com/your-org/wardrobe/internal/observability"
	"github.com/your-org/wardrobe/internal/storage"
)

const maxImagesHardLimit = 10

// imageAngles assigns shot angles positionally; uploads beyond the fourth
// get no angle.
var imageAngles = []string{models.AngleFront, models.AngleBack, models.AngleLabel, models.AngleDetail}

// ErrDisabled is returned when the recognition feature is switched off.
var ErrDisabled = errors.New("clothing recognition is disabled")

// ValidationError is a client-facing input rejection; its message is safe to
// surface verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ItemWriter is the slice of the relational store the pipeline needs.
type ItemWriter interface {
	CreateItem(ctx context.Context, item *models.Item) error
	CreateItemImage(ctx context.Context, img *models.ItemImage) error
}

// Upload is one inbound multipart image file.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// CreateResult is the orchestrator's response payload.
type CreateResult struct {
	Item        *models.Item
	Recognition Result
	ImagesCount int
}

// Pipeline drives the recognize-and-create workflow:
// upload → recognize each image → aggregate → create item → link images.
// Files uploaded before a failure are deleted best-effort.
type Pipeline struct {
	blobs      storage.BlobStore
	store      ItemWriter
	recognizer Recognizer
	cfg        config.RecognitionConfig
}

func NewPipeline(cfg config.RecognitionConfig, blobs storage.BlobStore, store ItemWriter, recognizer Recognizer) *Pipeline {
	return &Pipeline{
		blobs:      blobs,
		store:      store,
		recognizer: recognizer,
		cfg:        cfg,
	}
}

// CreateFromImages runs the full workflow for one request.
//
// Returned errors are either client-facing (*ValidationError, ErrDisabled,
// storage.ErrUnsupportedType, storage.ErrTooLarge) or internal; handlers
// must not leak internal details to the caller.
func (p *Pipeline) CreateFromImages(ctx context.Context, uploads []Upload) (*CreateResult, error) {
	if !p.cfg.Enabled {
		return nil, ErrDisabled
	}
	if len(uploads) == 0 {
		return nil, &ValidationError{Msg: "at least one image is required"}
	}
	maxImages := p.cfg.MaxImages
	if maxImages <= 0 || maxImages > maxImagesHardLimit {
		maxImages = maxImagesHardLimit
	}
	if len(uploads) > maxImages {
		return nil, &ValidationError{Msg: fmt.Sprintf("at most %d images are allowed", maxImages)}
	}

	// Upload phase. Failures abort before any item exists; files stored by
	// earlier iterations of a partially-failed batch stay (no compensation
	// yet), matching the error contract of the storage layer.
	storedNames := make([]string, 0, len(uploads))
	for idx, u := range uploads {
		if !strings.HasPrefix(u.ContentType, "image/") {
			return nil, &ValidationError{Msg: fmt.Sprintf("file %d is not an image", idx+1)}
		}
		name, err := p.blobs.Save(ctx, u.Reader, u.Filename, u.ContentType, u.Size)
		if err != nil {
			return nil, err
		}
		storedNames = append(storedNames, name)
	}
	slog.Info("images uploaded for recognition", "count", len(storedNames))

	result, err := p.createFromStored(ctx, storedNames)
	if err != nil {
		// Compensation: every uploaded file is deleted best-effort.
		for _, name := range storedNames {
			if !p.blobs.Delete(ctx, name) {
				slog.Warn("cleanup failed for uploaded file", "name", name)
			}
		}
		return nil, err
	}
	return result, nil
}

// createFromStored covers the post-upload steps so that the caller owns
// exactly one compensation point.
func (p *Pipeline) createFromStored(ctx context.Context, storedNames []string) (*CreateResult, error) {
	paths := make([]string, 0, len(storedNames))
	for _, name := range storedNames {
		path, cleanup, err := p.blobs.LocalPath(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("materialize image %s: %w", name, err)
		}
		if cleanup != nil {
			defer cleanup()
		}
		paths = append(paths, path)
	}

	rec, err := RecognizeMany(ctx, p.recognizer, paths)
	if err != nil {
		return nil, fmt.Errorf("recognize images: %w", err)
	}

	name := rec.Name
	if name == "" {
		name = "Распознанный предмет"
	}
	item := &models.Item{
		Name:          name,
		Brand:         rec.Brand,
		Category:      rec.Category,
		Material:      rec.Material,
		Pattern:       rec.Pattern,
		DominantColor: rec.DominantColor,
		ColorPalette:  rec.ColorPalette,
		Season:        rec.Season,
		Occasion:      rec.Occasion,
		Notes:         fmt.Sprintf("Автоматически распознано (уверенность: %.0f%%)", rec.Confidence*100),
	}
	if err := p.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	for idx, stored := range storedNames {
		img := &models.ItemImage{
			ItemID:    item.ID,
			ImageURL:  stored,
			IsPrimary: idx == 0,
		}
		if idx < len(imageAngles) {
			img.Angle = imageAngles[idx]
		}
		if err := p.store.CreateItemImage(ctx, img); err != nil {
			return nil, fmt.Errorf("link image %d: %w", idx+1, err)
		}
	}

	observability.ItemsCreated.WithLabelValues("recognition").Inc()
	slog.Info("item created from recognition",
		"item_id", item.ID, "category", rec.Category, "images", len(storedNames))

	return &CreateResult{
		Item:        item,
		Recognition: rec,
		ImagesCount: len(storedNames),
	}, nil
}
