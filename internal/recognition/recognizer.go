package recognition

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/your-org/wardrobe/internal/config"
	"github.com/your-org/wardrobe/internal/observability"
)

// Recognition errors. ErrImageNotFound maps to 404; the rest are upstream
// failures surfaced to clients only as a generic internal error.
var (
	ErrImageNotFound   = errors.New("image file not found")
	ErrTimeout         = errors.New("recognition command timed out")
	ErrProcessFailed   = errors.New("recognition command failed")
	ErrInvalidResponse = errors.New("invalid recognition response")
	ErrNoUsableResults = errors.New("no image could be recognized")
)

// Recognizer infers clothing metadata from one stored image.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (Result, error)
	Backend() string
}

// New selects the backend from configuration. Unknown service values fall
// back to the mock backend once, at construction.
func New(cfg config.RecognitionConfig) Recognizer {
	switch cfg.Service {
	case "mock":
		return &MockRecognizer{}
	case "local":
		return NewLocalRecognizer(cfg)
	default:
		slog.Warn("unknown recognition service, falling back to mock", "service", cfg.Service)
		return &MockRecognizer{}
	}
}

// RecognizeMany recognizes each image and aggregates the results. Per-image
// failures are logged and skipped; the call fails with ErrNoUsableResults
// only when the input is empty or every image failed.
func RecognizeMany(ctx context.Context, r Recognizer, imagePaths []string) (Result, error) {
	if len(imagePaths) == 0 {
		return Result{}, ErrNoUsableResults
	}

	results := make([]Result, 0, len(imagePaths))
	for _, path := range imagePaths {
		start := time.Now()
		res, err := r.Recognize(ctx, path)
		observability.RecognitionDuration.WithLabelValues(r.Backend()).Observe(time.Since(start).Seconds())
		if err != nil {
			observability.RecognitionFailures.WithLabelValues(r.Backend()).Inc()
			slog.Warn("recognize image", "image", path, "error", err)
			continue
		}
		results = append(results, res)
	}

	if len(results) == 0 {
		return Result{}, ErrNoUsableResults
	}
	return Aggregate(results)
}
