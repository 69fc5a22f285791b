package dto

type RecognitionResultResponse struct {
	Category      string   `json:"category,omitempty"`
	Name          string   `json:"name,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Material      string   `json:"material,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	DominantColor string   `json:"dominant_color,omitempty"`
	ColorPalette  []string `json:"color_palette,omitempty"`
	Season        []string `json:"season,omitempty"`
	Occasion      []string `json:"occasion,omitempty"`
	Confidence    float64  `json:"confidence"`
}

type RecognizeAndCreateResponse struct {
	Item        ItemResponse              `json:"item"`
	Recognition RecognitionResultResponse `json:"recognition"`
	ImagesCount int                       `json:"images_count"`
}
