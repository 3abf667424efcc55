package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	cartservice "github.com/Guilherme-Denarde/coffee-orders/internal/cart/service"
	apperrors "github.com/Guilherme-Denarde/coffee-orders/pkg/errors"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/httpclient"
)

// CircuitOpenFallback is invoked when the order service circuit breaker is
// open. It returns a structured error with a retry hint instead of letting the
// raw ErrCircuitOpen propagate.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("order service is temporarily unavailable, please retry after 30 seconds")
}

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CheckoutService orchestrates the checkout sequence: validate, snapshot the
// cart into an order submission, clear the cart on success.
type CheckoutService struct {
	carts           *cartservice.CartService
	httpClient      HTTPDoer
	orderServiceURL string
	orderTimeout    time.Duration
	logger          *slog.Logger
}

// NewCheckoutService creates a new checkout coordinator. orderTimeout bounds
// the order submission call; zero inherits the parent context deadline.
func NewCheckoutService(
	carts *cartservice.CartService,
	httpClient HTTPDoer,
	orderServiceURL string,
	orderTimeout time.Duration,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:           carts,
		httpClient:      httpClient,
		orderServiceURL: orderServiceURL,
		orderTimeout:    orderTimeout,
		logger:          logger,
	}
}

// CheckoutInput holds the customer fields collected at checkout.
type CheckoutInput struct {
	CustomerName  string
	CustomerEmail string
}

// CheckoutResult is returned to the caller for post-checkout navigation.
type CheckoutResult struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total"`
}

// Checkout validates the customer fields and the cart, submits the order and
// clears the cart on success. A failed submission leaves the cart untouched.
// Validation failures never reach the order service.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*CheckoutResult, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if !strings.Contains(input.CustomerEmail, "@") {
		return nil, apperrors.InvalidInput("email must be a valid email address")
	}

	cart, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart for checkout: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	// Snapshot the cart lines into the /pedidos wire format.
	items := make([]orderItemRequest, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = orderItemRequest{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		}
	}

	order, err := s.submitOrder(ctx, createOrderRequest{
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: input.CustomerEmail,
		Items:         items,
	})
	if err != nil {
		return nil, err
	}

	// The order exists from here on; a failed cart clear must not undo the
	// checkout, so it degrades to a logged error.
	if err := s.carts.ClearCart(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("session_id", sessionID),
		slog.String("order_id", order.ID),
		slog.Int64("total", order.TotalAmount),
	)

	return &CheckoutResult{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	}, nil
}

// --- order service wire types ---

type orderItemRequest struct {
	ProductID string `json:"id"`
	Name      string `json:"nome"`
	Price     int64  `json:"preco"`
	Quantity  int    `json:"quantidade"`
}

type createOrderRequest struct {
	CustomerName  string             `json:"cliente"`
	CustomerEmail string             `json:"email"`
	Items         []orderItemRequest `json:"itens"`
}

type orderPayload struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total"`
}

type createOrderResponse struct {
	Data *orderPayload `json:"data"`
}

// submitOrder POSTs the order to the order service with a fresh idempotency
// key, so a transport-level retry of the same submission cannot create a
// duplicate order.
func (s *CheckoutService) submitOrder(ctx context.Context, req createOrderRequest) (*orderPayload, error) {
	if s.orderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.orderTimeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal create order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.orderServiceURL+"/pedidos", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", uuid.New().String())

	resp, err := s.httpClient.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("call order service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "order")
	}

	var orderResp createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	if orderResp.Data == nil || orderResp.Data.ID == "" {
		return nil, fmt.Errorf("order service returned an empty order")
	}

	return orderResp.Data, nil
}
