package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guilherme-Denarde/coffee-orders/internal/cart/domain"
	cartevent "github.com/Guilherme-Denarde/coffee-orders/internal/cart/event"
	cartservice "github.com/Guilherme-Denarde/coffee-orders/internal/cart/service"
	apperrors "github.com/Guilherme-Denarde/coffee-orders/pkg/errors"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/httpclient"
	pkgkafka "github.com/Guilherme-Denarde/coffee-orders/pkg/kafka"
)

// --- In-memory cart repository ---

type memoryCartRepo struct {
	carts map[string]*domain.Cart
}

func newMemoryCartRepo() *memoryCartRepo {
	return &memoryCartRepo{carts: make(map[string]*domain.Cart)}
}

func (r *memoryCartRepo) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	cart, ok := r.carts[sessionID]
	if !ok {
		return nil, apperrors.NotFound("cart", sessionID)
	}
	return cart, nil
}

func (r *memoryCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	r.carts[cart.SessionID] = cart
	return nil
}

func (r *memoryCartRepo) Delete(_ context.Context, sessionID string) error {
	delete(r.carts, sessionID)
	return nil
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newCartService(repo *memoryCartRepo) *cartservice.CartService {
	logger := newTestLogger()
	// Create a Kafka producer that will fail silently in tests (no real broker).
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	producer := cartevent.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
	return cartservice.NewCartService(repo, producer, logger, time.Hour)
}

func newCheckoutService(repo *memoryCartRepo, orderURL string) *CheckoutService {
	client := httpclient.New(httpclient.Config{
		Timeout:         5 * time.Second,
		MaxRetries:      0,
		RetryWaitMin:    10 * time.Millisecond,
		RetryWaitMax:    20 * time.Millisecond,
		MaxConnsPerHost: 10,
	})
	return NewCheckoutService(newCartService(repo), client, orderURL, 5*time.Second, newTestLogger())
}

func seedCart(repo *memoryCartRepo, sessionID string) {
	repo.carts[sessionID] = &domain.Cart{
		ID:        "cart-1",
		SessionID: sessionID,
		Items: []domain.CartItem{
			{ProductID: "prod-espresso", Name: "Espresso", Price: 600, Quantity: 2},
			{ProductID: "prod-latte", Name: "Latte", Price: 1100, Quantity: 1},
		},
	}
}

func validInput() CheckoutInput {
	return CheckoutInput{CustomerName: "Maria Silva", CustomerEmail: "maria@example.com"}
}

// --- Tests ---

func TestCheckout_Success(t *testing.T) {
	var received createOrderRequest
	var idempotencyKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pedidos", r.URL.Path)
		idempotencyKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "order-123", "status": "PENDENTE", "total": 2300},
		})
	}))
	defer server.Close()

	repo := newMemoryCartRepo()
	seedCart(repo, "session-1")
	svc := newCheckoutService(repo, server.URL)

	result, err := svc.Checkout(context.Background(), "session-1", validInput())

	require.NoError(t, err)
	assert.Equal(t, "order-123", result.OrderID)
	assert.Equal(t, "PENDENTE", result.Status)
	assert.Equal(t, int64(2300), result.TotalAmount)

	// The submission carries the cart snapshot in the /pedidos wire format.
	assert.Equal(t, "Maria Silva", received.CustomerName)
	assert.Equal(t, "maria@example.com", received.CustomerEmail)
	require.Len(t, received.Items, 2)
	assert.Equal(t, "Espresso", received.Items[0].Name)
	assert.Equal(t, int64(600), received.Items[0].Price)
	assert.Equal(t, 2, received.Items[0].Quantity)
	assert.NotEmpty(t, idempotencyKey)

	// The cart is cleared after a successful checkout.
	_, ok := repo.carts["session-1"]
	assert.False(t, ok)
}

func TestCheckout_OrderServiceFailureLeavesCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "INTERNAL_ERROR", "message": "boom"},
		})
	}))
	defer server.Close()

	repo := newMemoryCartRepo()
	seedCart(repo, "session-1")
	svc := newCheckoutService(repo, server.URL)

	result, err := svc.Checkout(context.Background(), "session-1", validInput())

	require.Error(t, err)
	assert.Nil(t, result)

	// A failed submission must leave the cart untouched.
	cart, ok := repo.carts["session-1"]
	require.True(t, ok)
	assert.Len(t, cart.Items, 2)
}

func TestCheckout_ValidationNeverReachesNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	tests := []struct {
		name      string
		sessionID string
		input     CheckoutInput
		seed      bool
	}{
		{"empty name", "session-1", CheckoutInput{CustomerName: "  ", CustomerEmail: "maria@example.com"}, true},
		{"email without at sign", "session-1", CheckoutInput{CustomerName: "Maria", CustomerEmail: "maria.example.com"}, true},
		{"missing session", "", validInput(), false},
		{"empty cart", "session-2", validInput(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryCartRepo()
			if tt.seed {
				seedCart(repo, tt.sessionID)
			}
			svc := newCheckoutService(repo, server.URL)

			result, err := svc.Checkout(context.Background(), tt.sessionID, tt.input)

			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	assert.Equal(t, int32(0), calls.Load())
}

func TestCheckout_NotFoundFromOrderService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "INVALID_INPUT", "message": "cliente is required"},
		})
	}))
	defer server.Close()

	repo := newMemoryCartRepo()
	seedCart(repo, "session-1")
	svc := newCheckoutService(repo, server.URL)

	_, err := svc.Checkout(context.Background(), "session-1", validInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCircuitOpenFallback(t *testing.T) {
	resp, err := CircuitOpenFallback(context.Background(), assert.AnError)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(err))
}
