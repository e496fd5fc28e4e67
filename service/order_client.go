package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"aynext-storefront/models"
)

// OrderClientInterface defines the contract for the storefront order API
type OrderClientInterface interface {
	CreateOrder(ctx context.Context, token string, order *models.CustomOrderRequest) (*models.CreatedOrder, error)
}

// OrderAPIError is returned for non-2xx order API responses
type OrderAPIError struct {
	StatusCode int
	Message    string // server-reported message, may be empty
}

func (e *OrderAPIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("order API returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("order API returned status %d", e.StatusCode)
}

// OrderClient is the HTTP client of the storefront backend order API
// Implements OrderClientInterface
type OrderClient struct {
	httpClient *http.Client
	baseURL    string
	ordersPath string
}

// Ensure OrderClient implements OrderClientInterface
var _ OrderClientInterface = (*OrderClient)(nil)

// NewOrderClient creates a new OrderClient for baseURL (e.g. "http://localhost:5000/api")
func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OrderClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		ordersPath: "/orders",
	}
}

// CreateOrder posts a custom order
func (c *OrderClient) CreateOrder(ctx context.Context, token string, order *models.CustomOrderRequest) (*models.CreatedOrder, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("error encoding order: %w", err)
	}

	url := c.baseURL + c.ordersPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling order API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody models.OrderAPIErrorBody
		if err := json.Unmarshal(body, &errBody); err != nil {
			log.Printf("⚠️  Order API error body is not JSON (status %d): %s", resp.StatusCode, string(body))
		}
		return nil, &OrderAPIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(errBody.Message)}
	}

	var created models.CreatedOrder
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &created); err != nil {
			// The order exists, only the echo is unreadable
			log.Printf("⚠️  Could not decode order API response: %v", err)
		}
	}
	return &created, nil
}
