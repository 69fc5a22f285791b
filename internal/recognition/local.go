package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/your-org/wardrobe/internal/config"
)

// LocalRecognizer shells out to an operator-supplied command that prints a
// JSON recognition payload on stdout. The command template is configuration,
// not request input; the {image} placeholder is replaced with the stored
// file's path.
type LocalRecognizer struct {
	command   string
	timeout   time.Duration
	threshold float64
}

func NewLocalRecognizer(cfg config.RecognitionConfig) *LocalRecognizer {
	return &LocalRecognizer{
		command:   cfg.LocalCommand,
		timeout:   cfg.LocalTimeout,
		threshold: cfg.LocalConfidenceThreshold,
	}
}

func (l *LocalRecognizer) Backend() string { return "local" }

// payload is the external-process stdout protocol; every key is optional.
type payload struct {
	Category      string   `json:"category"`
	Name          string   `json:"name"`
	Brand         string   `json:"brand"`
	Material      string   `json:"material"`
	Pattern       string   `json:"pattern"`
	DominantColor string   `json:"dominant_color"`
	ColorPalette  []string `json:"color_palette"`
	Season        []string `json:"season"`
	Occasion      []string `json:"occasion"`
	Confidence    float64  `json:"confidence"`
}

func (l *LocalRecognizer) Recognize(ctx context.Context, imagePath string) (Result, error) {
	fields := strings.Fields(strings.ReplaceAll(l.command, "{image}", imagePath))
	if len(fields) == 0 {
		return Result{}, fmt.Errorf("%w: empty command template", ErrProcessFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("%w after %s", ErrTimeout, l.timeout)
		}
		slog.Error("recognition command failed",
			"command", fields[0], "error", err, "stderr", stderr.String())
		return Result{}, fmt.Errorf("%w: %v", ErrProcessFailed, err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return Result{}, fmt.Errorf("%w: empty stdout", ErrInvalidResponse)
	}

	var p payload
	if err := json.Unmarshal(out, &p); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	res := Result{
		Category:      p.Category,
		Name:          p.Name,
		Brand:         p.Brand,
		Material:      p.Material,
		Pattern:       p.Pattern,
		DominantColor: p.DominantColor,
		ColorPalette:  p.ColorPalette,
		Season:        p.Season,
		Occasion:      p.Occasion,
		Confidence:    p.Confidence,
	}

	// Threshold is advisory; low-confidence results are returned anyway.
	if res.Confidence < l.threshold {
		slog.Warn("recognition confidence below threshold",
			"confidence", res.Confidence, "threshold", l.threshold, "image", imagePath)
	}

	return res, nil
}
