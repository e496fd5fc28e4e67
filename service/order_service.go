package service

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/models"
	"aynext-storefront/utils"
)

const (
	MsgLoginRequired   = "Veuillez vous connecter pour commander."
	MsgLogoRequired    = "Veuillez ajouter un logo à votre hoodie."
	MsgLogoInvalid     = "Le logo est invalide, veuillez le recharger."
	MsgOrderSuccess    = "Commande envoyée avec succès !"
	MsgOrderFailed     = "Erreur lors de la création de la commande."
	MsgOrderInProgress = "Commande en cours d'envoi..."
)

// ErrSubmissionInFlight is returned when a submission is already running for the widget
var ErrSubmissionInFlight = errors.New("order submission already in progress")

// PreconditionReason identifies which submission precondition failed
type PreconditionReason string

const (
	ReasonNoSession   PreconditionReason = "no_session"
	ReasonNoLogo      PreconditionReason = "no_logo"
	ReasonInvalidLogo PreconditionReason = "invalid_logo"
)

// PreconditionError blocks a submission before any network call
type PreconditionError struct {
	Reason  PreconditionReason
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("order precondition failed (%s): %s", e.Reason, e.Message)
}

// CheckSubmission validates session and logo, in that order
func CheckSubmission(session *models.Session, draft models.DesignDraft) error {
	if session == nil {
		return &PreconditionError{Reason: ReasonNoSession, Message: MsgLoginRequired}
	}
	if draft.LogoImage == "" {
		return &PreconditionError{Reason: ReasonNoLogo, Message: MsgLogoRequired}
	}
	if !utils.IsEmbeddedImage(draft.LogoImage) {
		return &PreconditionError{Reason: ReasonInvalidLogo, Message: MsgLogoInvalid}
	}
	return nil
}

// BuildOrderPayload assembles the order from the draft and the fixed product fields
func BuildOrderPayload(draft models.DesignDraft) *models.CustomOrderRequest {
	colorName := utils.MapColorToName(draft.Color)
	return &models.CustomOrderRequest{
		Type:         models.CustomOrderType,
		Couleur:      draft.Color,
		CouleurNom:   colorName,
		Logo:         draft.LogoImage,
		LogoPosition: draft.LogoPosition,
		LogoSize:     draft.LogoSize,
		Prix:         models.CustomHoodiePrice,
		Quantite:     models.CustomHoodieQty,
		Taille:       models.CustomHoodieSize,
		Notes: fmt.Sprintf("Hoodie personnalisé - Couleur: %s - Logo: %s (%dpx)",
			colorName, utils.MapPositionToLabel(draft.LogoPosition), draft.LogoSize),
	}
}

// OrderFailureMessage returns the message shown for a failed order call
func OrderFailureMessage(err error) string {
	var apiErr *OrderAPIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgOrderFailed
}

// OrderService submits customizer drafts as orders
type OrderService struct {
	client   OrderClientInterface
	notifier NotifierInterface
}

// NewOrderService creates a new OrderService
func NewOrderService(client OrderClientInterface, notifier NotifierInterface) *OrderService {
	return &OrderService{client: client, notifier: notifier}
}

// Submit sends the widget's draft as an order.
// Precondition failures and API failures are notified and returned, the draft is kept for a retry.
// On success the widget is closed and its draft discarded, unless it was reopened in the meantime.
func (s *OrderService) Submit(ctx context.Context, session *models.Session, widget *CustomizerWidget) (*models.CreatedOrder, error) {
	if !widget.BeginSubmit() {
		log.Printf("⏭️  Ignoring submit for visitor %s (already in flight)", widget.VisitorID())
		return nil, ErrSubmissionInFlight
	}
	defer widget.EndSubmit()

	draft, generation, err := widget.DraftGeneration()
	if err != nil {
		return nil, err
	}

	if err := CheckSubmission(session, draft); err != nil {
		var pre *PreconditionError
		if errors.As(err, &pre) {
			s.notify(widget.VisitorID(), models.NotificationError, pre.Message)
		}
		log.Printf("❌ Submit blocked for visitor %s: %v", widget.VisitorID(), err)
		return nil, err
	}

	payload := BuildOrderPayload(draft)
	log.Printf("📤 Submitting custom order for visitor %s: color=%s, position=%s, size=%d",
		widget.VisitorID(), payload.Couleur, payload.LogoPosition, payload.LogoSize)

	order, err := s.client.CreateOrder(ctx, session.Token, payload)
	if err != nil {
		s.notify(widget.VisitorID(), models.NotificationError, OrderFailureMessage(err))
		log.Printf("❌ Order creation failed for visitor %s: %v", widget.VisitorID(), err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.notify(widget.VisitorID(), models.NotificationSuccess, MsgOrderSuccess)
	// only the submitted draft is closed, a draft opened since stays
	widget.CloseIfGeneration(generation)
	log.Printf("✅ Custom order created for visitor %s: id=%s", widget.VisitorID(), order.ID)
	return order, nil
}

func (s *OrderService) notify(visitorID string, level models.NotificationLevel, message string) {
	if s.notifier != nil {
		s.notifier.Notify(visitorID, level, message)
	}
}
