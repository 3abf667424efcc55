package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guilherme-Denarde/coffee-orders/pkg/health"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"localhost:9092"})

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.False(t, cfg.Async)
}

func TestEventHeaders_WithCorrelationID(t *testing.T) {
	event, err := NewEvent("coffee.order.created", "order-1", "order", "orderd", map[string]string{})
	require.NoError(t, err)
	event.WithCorrelationID("corr-9")

	headers := eventHeaders(event)

	require.Len(t, headers, 3)
	assert.Equal(t, "event_type", headers[0].Key)
	assert.Equal(t, []byte("coffee.order.created"), headers[0].Value)
	assert.Equal(t, "source", headers[1].Key)
	assert.Equal(t, "correlation_id", headers[2].Key)
	assert.Equal(t, []byte("corr-9"), headers[2].Value)
}

func TestEventHeaders_NoCorrelationID(t *testing.T) {
	event, err := NewEvent("coffee.cart.updated", "sess-1", "cart", "storefront", map[string]string{})
	require.NoError(t, err)

	headers := eventHeaders(event)

	require.Len(t, headers, 2)
	assert.Equal(t, "event_type", headers[0].Key)
	assert.Equal(t, "source", headers[1].Key)
}

func TestPing_NoBrokersConfigured(t *testing.T) {
	p := &Producer{brokers: nil, logger: discardLogger()}

	err := p.Ping(context.Background())
	assert.Error(t, err)
}

func TestPing_ReportsDownThroughReadiness(t *testing.T) {
	p := &Producer{brokers: nil, logger: discardLogger()}

	h := health.NewHandler()
	h.Register("kafka", p.Ping)

	rec := httptest.NewRecorder()
	h.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp health.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, health.StatusDown, resp.Checks["kafka"].Status)
}

func TestPing_UnreachableBroker(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := p.Ping(ctx)
	assert.Error(t, err)
}
