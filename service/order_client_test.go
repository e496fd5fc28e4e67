package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aynext-storefront/models"
)

func testOrder() *models.CustomOrderRequest {
	return BuildOrderPayload(models.DesignDraft{
		Color:        "#1E3A8A",
		LogoImage:    "data:image/png;base64,AAAA",
		LogoPosition: models.PositionHood,
		LogoSize:     70,
	})
}

func TestCreateOrder_PostsJSONWithBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "custom_hoodie", body["type"])
		assert.Equal(t, "Bleu Marine", body["couleurNom"])
		assert.Equal(t, "hood", body["logoPosition"])
		assert.Equal(t, 45.99, body["prix"])
		assert.Equal(t, float64(1), body["quantite"])
		assert.Equal(t, "M", body["taille"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"42","status":"pending"}`))
	}))
	defer server.Close()

	client := NewOrderClient(server.URL+"/api/", time.Second)
	order, err := client.CreateOrder(context.Background(), "tok", testOrder())
	require.NoError(t, err)
	assert.Equal(t, "42", order.ID)
	assert.Equal(t, "pending", order.Status)
}

func TestCreateOrder_ErrorCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Logo trop volumineux"}`))
	}))
	defer server.Close()

	_, err := NewOrderClient(server.URL, time.Second).CreateOrder(context.Background(), "tok", testOrder())

	var apiErr *OrderAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Logo trop volumineux", apiErr.Message)
	assert.Equal(t, "Logo trop volumineux", OrderFailureMessage(err))
}

func TestCreateOrder_ErrorWithoutMessageUsesGenericText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	_, err := NewOrderClient(server.URL, time.Second).CreateOrder(context.Background(), "tok", testOrder())
	require.Error(t, err)
	assert.Equal(t, MsgOrderFailed, OrderFailureMessage(err))
}

func TestCreateOrder_EmptySuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	order, err := NewOrderClient(server.URL, time.Second).CreateOrder(context.Background(), "", testOrder())
	require.NoError(t, err)
	assert.NotNil(t, order)
}
