// Package style holds the fixed catalog of caption presentation styles.
package style

import (
	"github.com/samber/lo"

	apperrors "opencaption/internal/app/errors"
)

// Style is a named, immutable bundle of presentation attributes.
//
// EmphasisColor is carried for clients but the ASS composer does not apply
// it: karaoke highlighting uses the primary colour only.
type Style struct {
	ID                string  `json:"id"`
	Label             string  `json:"label"`
	Font              string  `json:"font"`
	PrimaryColor      string  `json:"primary_color"`
	EmphasisColor     string  `json:"emphasis_color"`
	StrokeColor       string  `json:"stroke_color"`
	StrokeWidth       int     `json:"stroke_width"`
	BackgroundOpacity float64 `json:"background_opacity"`
	Karaoke           bool    `json:"karaoke"`
	Uppercase         bool    `json:"uppercase"`
}

var catalog = []Style{
	{
		ID:                "hormozi-bold",
		Label:             "Hormozi Bold",
		Font:              "Anton",
		PrimaryColor:      "#FFFFFF",
		EmphasisColor:     "#FFD60A",
		StrokeColor:       "#000000",
		StrokeWidth:       2,
		BackgroundOpacity: 0,
		Karaoke:           true,
		Uppercase:         true,
	},
	{
		ID:                "mrbeast-pop",
		Label:             "MrBeast Pop",
		Font:              "Montserrat ExtraBold",
		PrimaryColor:      "#FFFFFF",
		EmphasisColor:     "#00E5FF",
		StrokeColor:       "#000000",
		StrokeWidth:       3,
		BackgroundOpacity: 0.15,
		Karaoke:           true,
		Uppercase:         false,
	},
	{
		ID:                "clean-pro",
		Label:             "Clean Pro",
		Font:              "Inter SemiBold",
		PrimaryColor:      "#FFFFFF",
		EmphasisColor:     "#FFFFFF",
		StrokeColor:       "#000000",
		StrokeWidth:       1,
		BackgroundOpacity: 0,
		Karaoke:           false,
		Uppercase:         false,
	},
	{
		ID:                "chunky-contrast",
		Label:             "Chunky Contrast",
		Font:              "Archivo Black",
		PrimaryColor:      "#FFEB3B",
		EmphasisColor:     "#FF1744",
		StrokeColor:       "#000000",
		StrokeWidth:       5,
		BackgroundOpacity: 0.35,
		Karaoke:           true,
		Uppercase:         true,
	},
}

// All returns the catalog in display order. The slice is a copy.
func All() []Style {
	out := make([]Style, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns the catalog ids in display order.
func IDs() []string {
	return lo.Map(catalog, func(s Style, _ int) string { return s.ID })
}

// Default returns the first catalog entry.
func Default() Style {
	return catalog[0]
}

// Resolve returns the style with the given id, or a NotFound error.
// An empty id resolves to Default.
func Resolve(id string) (Style, error) {
	if id == "" {
		return Default(), nil
	}
	s, ok := lo.Find(catalog, func(s Style) bool { return s.ID == id })
	if !ok {
		return Style{}, apperrors.NotFound("style", id)
	}
	return s, nil
}
