package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aynext-storefront/models"
)

// fakeOrderClient records calls and returns a scripted outcome
type fakeOrderClient struct {
	order   *models.CreatedOrder
	err     error
	started chan struct{}
	release chan struct{}

	calls atomic.Int32
	mu    sync.Mutex
	last  *models.CustomOrderRequest
	token string
}

func (f *fakeOrderClient) CreateOrder(_ context.Context, token string, order *models.CustomOrderRequest) (*models.CreatedOrder, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = order
	f.token = token
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.order == nil {
		return &models.CreatedOrder{ID: "1"}, nil
	}
	return f.order, nil
}

func testSession() *models.Session {
	return &models.Session{VisitorID: "visitor-1", Token: "tok-123", UserName: "Ana"}
}

func TestSubmit_PreconditionsBlockWithoutNetworkCall(t *testing.T) {
	tests := []struct {
		name       string
		session    *models.Session
		logo       string
		wantReason PreconditionReason
		wantMsg    string
	}{
		{"no session", nil, "data:image/png;base64,AAAA", ReasonNoSession, MsgLoginRequired},
		{"no logo", testSession(), "", ReasonNoLogo, MsgLogoRequired},
		{"external reference", testSession(), "https://cdn.example.com/logo.png", ReasonInvalidLogo, MsgLogoInvalid},
		{"bare string", testSession(), "iVBORw0KGgo", ReasonInvalidLogo, MsgLogoInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, w := openWidget(t, nil)
			setLogo(w, tt.logo)
			client := &fakeOrderClient{}
			notifier := NewFlashNotifier()
			svc := NewOrderService(client, notifier)

			_, err := svc.Submit(context.Background(), tt.session, w)

			var pre *PreconditionError
			require.True(t, errors.As(err, &pre))
			assert.Equal(t, tt.wantReason, pre.Reason)
			assert.Equal(t, tt.wantMsg, pre.Message)
			assert.Zero(t, client.calls.Load())
			assert.True(t, w.Visible())
			assert.False(t, w.Submitting())

			notes := notifier.Drain("visitor-1")
			require.Len(t, notes, 1)
			assert.Equal(t, models.NotificationError, notes[0].Level)
			assert.Equal(t, tt.wantMsg, notes[0].Message)
		})
	}
}

func TestPreconditionMessagesAreDistinct(t *testing.T) {
	msgs := map[string]bool{MsgLoginRequired: true, MsgLogoRequired: true, MsgLogoInvalid: true}
	assert.Len(t, msgs, 3)
}

func TestSubmit_BuildsPayloadAndClosesWidget(t *testing.T) {
	svc, w := openWidget(t, nil)
	_, err := w.UploadLogo(context.Background(), testUpload(t))
	require.NoError(t, err)
	_, err = w.SetColor("#000000")
	require.NoError(t, err)
	_, err = w.SetPosition("back")
	require.NoError(t, err)
	_, err = w.SetSize(70)
	require.NoError(t, err)
	draft, _ := w.Draft()

	client := &fakeOrderClient{order: &models.CreatedOrder{ID: "ord-9", Status: "pending"}}
	notifier := NewFlashNotifier()
	orders := NewOrderService(client, notifier)

	order, err := orders.Submit(context.Background(), testSession(), w)
	require.NoError(t, err)
	assert.Equal(t, "ord-9", order.ID)
	assert.Equal(t, int32(1), client.calls.Load())

	payload := client.last
	assert.Equal(t, "custom_hoodie", payload.Type)
	assert.Equal(t, "#000000", payload.Couleur)
	assert.Equal(t, "Noir", payload.CouleurNom)
	assert.Equal(t, draft.LogoImage, payload.Logo)
	assert.Equal(t, models.PositionBack, payload.LogoPosition)
	assert.Equal(t, 70, payload.LogoSize)
	assert.Equal(t, 45.99, payload.Prix)
	assert.Equal(t, 1, payload.Quantite)
	assert.Equal(t, "M", payload.Taille)
	assert.Equal(t, "Hoodie personnalisé - Couleur: Noir - Logo: Dos (70px)", payload.Notes)
	assert.Equal(t, "tok-123", client.token)

	// success closes the widget and discards the draft
	assert.False(t, w.Visible())
	assert.Zero(t, svc.Previews().Len())
	notes := notifier.Drain("visitor-1")
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationSuccess, notes[0].Level)
	assert.Equal(t, MsgOrderSuccess, notes[0].Message)
}

func TestSubmit_DoubleSubmitIssuesOneCall(t *testing.T) {
	_, w := openWidget(t, nil)
	_, err := w.UploadLogo(context.Background(), testUpload(t))
	require.NoError(t, err)

	client := &fakeOrderClient{started: make(chan struct{}), release: make(chan struct{})}
	orders := NewOrderService(client, NewFlashNotifier())

	done := make(chan error, 1)
	go func() {
		_, err := orders.Submit(context.Background(), testSession(), w)
		done <- err
	}()

	<-client.started
	assert.True(t, w.Submitting())
	_, err = orders.Submit(context.Background(), testSession(), w)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(client.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), client.calls.Load())
	assert.False(t, w.Submitting())
}

func TestSubmit_StaleSuccessKeepsReopenedDraft(t *testing.T) {
	svc, w := openWidget(t, nil)
	_, err := w.UploadLogo(context.Background(), testUpload(t))
	require.NoError(t, err)

	client := &fakeOrderClient{started: make(chan struct{}), release: make(chan struct{})}
	orders := NewOrderService(client, NewFlashNotifier())

	done := make(chan error, 1)
	go func() {
		_, err := orders.Submit(context.Background(), testSession(), w)
		done <- err
	}()
	<-client.started

	// escape, reopen and start a new design while the first order is in flight
	require.True(t, w.Triggers().Fire(TriggerEscape))
	w.Open()
	_, err = w.UploadLogo(context.Background(), testUpload(t))
	require.NoError(t, err)
	_, err = w.SetPosition("hood")
	require.NoError(t, err)

	close(client.release)
	require.NoError(t, <-done)

	assert.True(t, w.Visible())
	draft, err := w.Draft()
	require.NoError(t, err)
	assert.Equal(t, models.PositionHood, draft.LogoPosition)
	assert.True(t, draft.HasLogo())
	assert.True(t, svc.Previews().Has(draft.PreviewHandle))
	assert.True(t, w.Triggers().Active(TriggerEscape))
}

func TestSubmit_FailureKeepsDraftForRetry(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"server message", &OrderAPIError{StatusCode: 422, Message: "Stock épuisé"}, "Stock épuisé"},
		{"no server message", &OrderAPIError{StatusCode: 500}, MsgOrderFailed},
		{"network error", errors.New("connection refused"), MsgOrderFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, w := openWidget(t, nil)
			_, err := w.UploadLogo(context.Background(), testUpload(t))
			require.NoError(t, err)
			before, _ := w.Draft()

			client := &fakeOrderClient{err: tt.err}
			notifier := NewFlashNotifier()
			orders := NewOrderService(client, notifier)

			_, err = orders.Submit(context.Background(), testSession(), w)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)

			assert.True(t, w.Visible())
			assert.False(t, w.Submitting())
			after, _ := w.Draft()
			assert.Equal(t, before, after)
			assert.True(t, svc.Previews().Has(after.PreviewHandle))

			notes := notifier.Drain("visitor-1")
			require.Len(t, notes, 1)
			assert.Equal(t, tt.wantMsg, notes[0].Message)

			// retry without re-uploading
			client.err = nil
			_, err = orders.Submit(context.Background(), testSession(), w)
			require.NoError(t, err)
			assert.Equal(t, int32(2), client.calls.Load())
		})
	}
}

func TestSubmit_ClosedWidget(t *testing.T) {
	_, w := openWidget(t, nil)
	w.Close()

	client := &fakeOrderClient{}
	_, err := NewOrderService(client, nil).Submit(context.Background(), testSession(), w)
	assert.ErrorIs(t, err, ErrWidgetClosed)
	assert.Zero(t, client.calls.Load())
}
