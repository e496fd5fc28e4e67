package utils

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"aynext-storefront/models"
)

// paletteOrder keeps the palette in display order
var paletteOrder = []string{
	"#000000",
	"#FFFFFF",
	"#808080",
	"#1E3A8A",
	"#DC2626",
	"#166534",
	"#D2B48C",
	"#EC4899",
}

var hexToColorName = map[string]string{
	"#000000": "Noir",
	"#FFFFFF": "Blanc",
	"#808080": "Gris",
	"#1E3A8A": "Bleu Marine",
	"#DC2626": "Rouge",
	"#166534": "Vert Forêt",
	"#D2B48C": "Beige",
	"#EC4899": "Rose",
}

var positionToLabel = map[models.LogoPosition]string{
	models.PositionChest:  "Poitrine",
	models.PositionBack:   "Dos",
	models.PositionSleeve: "Manche",
	models.PositionHood:   "Capuche",
	models.PositionPocket: "Poche",
}

// UnknownColorName is returned for colors outside the palette
const UnknownColorName = "Personnalisée"

// NormalizeHex normalizes a color to the "#RRGGBB" uppercase form used as palette key
func NormalizeHex(hex string) string {
	h := strings.ToUpper(strings.TrimSpace(hex))
	if h != "" && !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	return h
}

// MapColorToName maps a palette hex value to its display name
// Input is case-insensitive, the leading '#' is optional
func MapColorToName(hex string) string {
	if name, exists := hexToColorName[NormalizeHex(hex)]; exists {
		return name
	}
	return UnknownColorName
}

// IsPaletteColor reports whether hex is one of the palette colors
func IsPaletteColor(hex string) bool {
	_, exists := hexToColorName[NormalizeHex(hex)]
	return exists
}

// Palette returns the palette colors in display order
func Palette() []models.ColorOption {
	options := make([]models.ColorOption, 0, len(paletteOrder))
	for _, hex := range paletteOrder {
		options = append(options, models.ColorOption{Hex: hex, Name: hexToColorName[hex]})
	}
	return options
}

// ParseHexColor converts "#RRGGBB" to an opaque color
func ParseHexColor(hex string) (color.NRGBA, error) {
	h := strings.TrimPrefix(NormalizeHex(hex), "#")
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MapPositionToLabel maps a logo position to its display label
// Unknown positions are returned unchanged
func MapPositionToLabel(position models.LogoPosition) string {
	if label, exists := positionToLabel[position]; exists {
		return label
	}
	return string(position)
}

// ParsePosition normalizes a position string and reports whether it is known
func ParsePosition(raw string) (models.LogoPosition, bool) {
	p := models.LogoPosition(strings.ToLower(strings.TrimSpace(raw)))
	_, exists := positionToLabel[p]
	return p, exists
}

// Positions returns every logo position with its label and recommended size
func Positions() []models.PositionOption {
	options := make([]models.PositionOption, 0, len(models.AllPositions))
	for _, p := range models.AllPositions {
		options = append(options, models.PositionOption{
			Position:        p,
			Label:           positionToLabel[p],
			RecommendedSize: RecommendedLogoSize(p),
		})
	}
	return options
}

// RecommendedLogoSize returns the default logo size for a position
// sleeve and pocket are smaller, hood slightly smaller, everything else gets the default
func RecommendedLogoSize(position models.LogoPosition) int {
	switch position {
	case models.PositionSleeve:
		return 60
	case models.PositionHood:
		return 70
	case models.PositionPocket:
		return 60
	default:
		return models.DefaultLogoSize
	}
}

// ClampLogoSize bounds size to [MinLogoSize, MaxLogoSize]
func ClampLogoSize(size int) int {
	if size < models.MinLogoSize {
		return models.MinLogoSize
	}
	if size > models.MaxLogoSize {
		return models.MaxLogoSize
	}
	return size
}
