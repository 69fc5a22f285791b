package recognition

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// categoryKeywords maps filename keywords (English and Russian) to a
// clothing category.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"shirt", []string{"shirt", "рубашка", "футболка"}},
	{"pants", []string{"pants", "брюки", "джинсы"}},
	{"dress", []string{"dress", "платье"}},
	{"jacket", []string{"jacket", "куртка", "пиджак"}},
	{"shoes", []string{"shoes", "обувь", "кроссовки"}},
}

var categoryNames = map[string]string{
	"shirt":  "Футболка",
	"pants":  "Брюки",
	"dress":  "Платье",
	"jacket": "Куртка",
	"shoes":  "Обувь",
	"other":  "Предмет гардероба",
}

// MockRecognizer is a deterministic filename-keyword heuristic. It stands in
// for a real model and returns fixed placeholder attributes.
type MockRecognizer struct{}

func (m *MockRecognizer) Backend() string { return "mock" }

func (m *MockRecognizer) Recognize(ctx context.Context, imagePath string) (Result, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrImageNotFound, imagePath)
	}

	filename := strings.ToLower(filepath.Base(imagePath))

	category := "other"
	for _, ck := range categoryKeywords {
		for _, word := range ck.words {
			if strings.Contains(filename, word) {
				category = ck.category
				break
			}
		}
		if category != "other" {
			break
		}
	}

	return Result{
		Category:      category,
		Name:          categoryNames[category],
		Pattern:       "solid",
		DominantColor: "#808080",
		ColorPalette:  []string{"#808080"},
		Season:        []string{"spring", "summer", "autumn", "winter"},
		Occasion:      []string{"casual"},
		Confidence:    0.7,
	}, nil
}
