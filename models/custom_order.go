package models

const (
	CustomOrderType   = "custom_hoodie"
	CustomHoodiePrice = 45.99
	CustomHoodieQty   = 1
	CustomHoodieSize  = "M"
)

// CustomOrderRequest is the payload sent to the order API
// Example:
// {
//   "type": "custom_hoodie",
//   "couleur": "#000000",
//   "couleurNom": "Noir",
//   "logo": "data:image/png;base64,iVBORw0...",
//   "logoPosition": "back",
//   "logoSize": 70,
//   "prix": 45.99,
//   "quantite": 1,
//   "taille": "M",
//   "notes": "Hoodie personnalisé - Couleur: Noir - Logo: Dos (70px)"
// }
type CustomOrderRequest struct {
	Type         string       `json:"type"`
	Couleur      string       `json:"couleur"`
	CouleurNom   string       `json:"couleurNom"`
	Logo         string       `json:"logo"`
	LogoPosition LogoPosition `json:"logoPosition"`
	LogoSize     int          `json:"logoSize"`
	Prix         float64      `json:"prix"`
	Quantite     int          `json:"quantite"`
	Taille       string       `json:"taille"`
	Notes        string       `json:"notes"`
}

// CreatedOrder is the part of the order API response the storefront reads
type CreatedOrder struct {
	ID      string `json:"id,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// OrderAPIErrorBody is the error body returned by the order API
type OrderAPIErrorBody struct {
	Message string `json:"message"`
}

// SubmitOrderResponse represents the response for POST /customizer/submit
// Example response:
// {
//   "status": "success",
//   "message": "Commande envoyée avec succès !",
//   "order": {"id": "a81f", "status": "pending"}
// }
type SubmitOrderResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Order   *CreatedOrder `json:"order,omitempty"`
}
