package recognition

import "errors"

// ErrEmptyInput is returned by Aggregate for an empty result sequence.
var ErrEmptyInput = errors.New("no recognition results to aggregate")

const maxPaletteColors = 5

// Result holds what a backend inferred from one image. Optional string
// fields use "" for absent. Colors are kept exactly as the backend produced
// them; no case normalization happens anywhere in the pipeline.
type Result struct {
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

// Aggregate combines per-image results into one consensus result.
//
// Voted fields (category, name, pattern) take the most frequent non-empty
// value; ties go to the value seen first. Brand and material take the first
// non-empty value. Colors are collected in result order (dominant before
// palette), the first becomes the dominant color and the first-seen
// deduplicated list, capped at five, becomes the palette. Season and
// occasion are set unions in first-seen order. Confidence is the mean of
// strictly positive confidences, 0 when none are positive.
func Aggregate(results []Result) (Result, error) {
	if len(results) == 0 {
		return Result{}, ErrEmptyInput
	}

	agg := Result{
		Category: pluralityVote(collect(results, func(r Result) string { return r.Category })),
		Name:     pluralityVote(collect(results, func(r Result) string { return r.Name })),
		Brand:    firstNonEmpty(collect(results, func(r Result) string { return r.Brand })),
		Material: firstNonEmpty(collect(results, func(r Result) string { return r.Material })),
		Pattern:  pluralityVote(collect(results, func(r Result) string { return r.Pattern })),
	}

	var allColors []string
	for _, r := range results {
		if r.DominantColor != "" {
			allColors = append(allColors, r.DominantColor)
		}
		allColors = append(allColors, r.ColorPalette...)
	}
	if len(allColors) > 0 {
		agg.DominantColor = allColors[0]
		agg.ColorPalette = dedup(allColors)
		if len(agg.ColorPalette) > maxPaletteColors {
			agg.ColorPalette = agg.ColorPalette[:maxPaletteColors]
		}
	}

	var seasons, occasions []string
	for _, r := range results {
		seasons = append(seasons, r.Season...)
		occasions = append(occasions, r.Occasion...)
	}
	agg.Season = dedup(seasons)
	agg.Occasion = dedup(occasions)

	var sum float64
	var n int
	for _, r := range results {
		if r.Confidence > 0 {
			sum += r.Confidence
			n++
		}
	}
	if n > 0 {
		agg.Confidence = sum / float64(n)
	}

	return agg, nil
}

func collect(results []Result, field func(Result) string) []string {
	vals := make([]string, 0, len(results))
	for _, r := range results {
		vals = append(vals, field(r))
	}
	return vals
}

// pluralityVote picks the most frequent non-empty value, breaking ties in
// favor of the value encountered first.
func pluralityVote(values []string) string {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	var best string
	bestCount := 0
	for _, v := range order {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// dedup removes duplicates preserving first-seen order. Returns nil for
// empty input.
func dedup(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
