package models

// LogoPosition is where the logo is printed on the hoodie
type LogoPosition string

const (
	PositionChest  LogoPosition = "chest"
	PositionBack   LogoPosition = "back"
	PositionSleeve LogoPosition = "sleeve"
	PositionHood   LogoPosition = "hood"
	PositionPocket LogoPosition = "pocket"
)

// AllPositions lists the positions in display order
var AllPositions = []LogoPosition{PositionChest, PositionBack, PositionSleeve, PositionHood, PositionPocket}

const (
	MinLogoSize     = 40
	MaxLogoSize     = 120
	DefaultLogoSize = 80
	DefaultColor    = "#000000"
)

// DesignDraft represents the in-progress hoodie design of one visitor
// It lives only in memory and is discarded when the customizer closes
type DesignDraft struct {
	Color        string       `json:"color"`
	LogoImage    string       `json:"logoImage,omitempty"` // data URI, empty when no logo
	LogoPosition LogoPosition `json:"logoPosition"`
	LogoSize     int          `json:"logoSize"`
	// PreviewHandle references the local preview bytes of LogoImage
	PreviewHandle string `json:"previewHandle,omitempty"`
}

// NewDesignDraft returns a draft with the default color, position and size
func NewDesignDraft() *DesignDraft {
	return &DesignDraft{
		Color:        DefaultColor,
		LogoPosition: PositionChest,
		LogoSize:     DefaultLogoSize,
	}
}

// HasLogo reports whether a logo is set
func (d *DesignDraft) HasLogo() bool {
	return d != nil && d.LogoImage != ""
}
