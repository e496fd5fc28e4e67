package models

// ColorOption is one entry of the garment palette
type ColorOption struct {
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

// PositionOption describes a logo position for the customizer UI
type PositionOption struct {
	Position        LogoPosition `json:"position"`
	Label           string       `json:"label"`
	RecommendedSize int          `json:"recommendedSize"`
}

// UploadedImage is a logo file received from the visitor
type UploadedImage struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CustomizerStateResponse represents the response for GET /customizer
// Example response:
// {
//   "visible": true,
//   "draft": {"color": "#000000", "logoPosition": "back", "logoSize": 70},
//   "colorName": "Noir",
//   "priceLabel": "45,99 €",
//   "backgroundRemoval": true,
//   "canSubmit": false,
//   "submitting": false,
//   "palette": [{"hex": "#000000", "name": "Noir"}],
//   "positions": [{"position": "chest", "label": "Poitrine", "recommendedSize": 80}],
//   "minLogoSize": 40,
//   "maxLogoSize": 120
// }
type CustomizerStateResponse struct {
	Visible           bool             `json:"visible"`
	Draft             *DesignDraft     `json:"draft,omitempty"`
	ColorName         string           `json:"colorName,omitempty"`
	PriceLabel        string           `json:"priceLabel"`
	BackgroundRemoval bool             `json:"backgroundRemoval"`
	CanSubmit         bool             `json:"canSubmit"`
	Submitting        bool             `json:"submitting"`
	Palette           []ColorOption    `json:"palette"`
	Positions         []PositionOption `json:"positions"`
	MinLogoSize       int              `json:"minLogoSize"`
	MaxLogoSize       int              `json:"maxLogoSize"`
}

// UpdateColorRequest represents the request body for POST /customizer/color
// Example: {"color": "#1E3A8A"}
type UpdateColorRequest struct {
	Color string `json:"color"`
}

// UpdatePositionRequest represents the request body for POST /customizer/position
// Example: {"position": "sleeve"}
type UpdatePositionRequest struct {
	Position string `json:"position"`
}

// UpdateSizeRequest represents the request body for POST /customizer/size
// Example: {"size": 95}
type UpdateSizeRequest struct {
	Size int `json:"size"`
}
