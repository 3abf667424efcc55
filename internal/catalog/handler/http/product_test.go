package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guilherme-Denarde/coffee-orders/internal/catalog/domain"
	"github.com/Guilherme-Denarde/coffee-orders/internal/catalog/event"
	"github.com/Guilherme-Denarde/coffee-orders/internal/catalog/repository"
	"github.com/Guilherme-Denarde/coffee-orders/internal/catalog/service"
	apperrors "github.com/Guilherme-Denarde/coffee-orders/pkg/errors"
	pkgkafka "github.com/Guilherme-Denarde/coffee-orders/pkg/kafka"
)

// ============================================================================
// Mock ProductRepository
// ============================================================================

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ============================================================================
// Test helpers
// ============================================================================

func setupProductRouter(repo *mockProductRepository) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
	handler := NewProductHandler(service.NewProductService(repo, producer, logger), logger)

	r := chi.NewRouter()
	r.Route("/produtos", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Get("/slug/{slug}", handler.GetProductBySlug)
		r.Get("/{id}", handler.GetProduct)

		r.Post("/", handler.CreateProduct)
		r.Put("/{id}", handler.UpdateProduct)
		r.Delete("/{id}", handler.DeleteProduct)
	})
	return r
}

func performRequest(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type productEnvelope struct {
	Data  *domain.Product `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

func decodeProduct(t *testing.T, rec *httptest.ResponseRecorder) productEnvelope {
	t.Helper()
	var env productEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:        uuid.New().String(),
		Name:      "Café Coado",
		Slug:      "cafe-coado",
		Price:     800,
		Category:  "bebidas",
		InStock:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ============================================================================
// CreateProduct
// ============================================================================

func TestCreateProductHandler_Success(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	body := []byte(`{"name":"Pão de Queijo","description":"Quentinho","price":500,"category":"salgados","in_stock":true}`)
	rec := performRequest(t, router, http.MethodPost, "/produtos", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeProduct(t, rec)
	require.NotNil(t, env.Data)
	assert.Equal(t, "Pão de Queijo", env.Data.Name)
	assert.Equal(t, "pao-de-queijo", env.Data.Slug)
	assert.Equal(t, int64(500), env.Data.Price)
	repo.AssertExpectations(t)
}

func TestCreateProductHandler_MissingName(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	body := []byte(`{"price":500}`)
	rec := performRequest(t, router, http.MethodPost, "/produtos", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeProduct(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "Name")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProductHandler_NegativePrice(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	body := []byte(`{"name":"Espresso","price":-100}`)
	rec := performRequest(t, router, http.MethodPost, "/produtos", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProductHandler_DuplicateSlug(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Return(apperrors.AlreadyExists("product", "slug", "cafe-coado"))

	body := []byte(`{"name":"Café Coado","price":800}`)
	rec := performRequest(t, router, http.MethodPost, "/produtos", body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeProduct(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_EXISTS", env.Error.Code)
}

// ============================================================================
// GetProduct / GetProductBySlug
// ============================================================================

func TestGetProductHandler_Success(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	product := sampleProduct()
	repo.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	rec := performRequest(t, router, http.MethodGet, "/produtos/"+product.ID, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeProduct(t, rec)
	require.NotNil(t, env.Data)
	assert.Equal(t, product.Slug, env.Data.Slug)
}

func TestGetProductHandler_InvalidUUID(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	rec := performRequest(t, router, http.MethodGet, "/produtos/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetProductBySlugHandler_Success(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	product := sampleProduct()
	repo.On("GetBySlug", mock.Anything, "cafe-coado").Return(product, nil)

	rec := performRequest(t, router, http.MethodGet, "/produtos/slug/cafe-coado", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeProduct(t, rec)
	require.NotNil(t, env.Data)
	assert.Equal(t, product.ID, env.Data.ID)
}

func TestGetProductBySlugHandler_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	repo.On("GetBySlug", mock.Anything, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	rec := performRequest(t, router, http.MethodGet, "/produtos/slug/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================================================
// ListProducts
// ============================================================================

func TestListProductsHandler_Success(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	products := []domain.Product{*sampleProduct(), *sampleProduct()}
	repo.On("List", mock.Anything, mock.AnythingOfType("repository.ProductFilter")).
		Return(products, 2, nil)

	rec := performRequest(t, router, http.MethodGet, "/produtos?category=bebidas&in_stock=true", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data       []domain.Product `json:"data"`
		TotalCount int              `json:"total_count"`
		Page       int              `json:"page"`
		PerPage    int              `json:"per_page"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.TotalCount)
	assert.Equal(t, 1, resp.Page)

	filter := repo.Calls[0].Arguments.Get(1).(repository.ProductFilter)
	require.NotNil(t, filter.Category)
	assert.Equal(t, "bebidas", *filter.Category)
	require.NotNil(t, filter.InStock)
	assert.True(t, *filter.InStock)
}

func TestListProductsHandler_InvalidPerPage(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	rec := performRequest(t, router, http.MethodGet, "/produtos?per_page=500", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListProductsHandler_InvalidInStock(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	rec := performRequest(t, router, http.MethodGet, "/produtos?in_stock=maybe", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

// ============================================================================
// UpdateProduct / DeleteProduct
// ============================================================================

func TestUpdateProductHandler_Success(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	product := sampleProduct()
	repo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	body := []byte(`{"price":900}`)
	rec := performRequest(t, router, http.MethodPut, "/produtos/"+product.ID, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeProduct(t, rec)
	require.NotNil(t, env.Data)
	assert.Equal(t, int64(900), env.Data.Price)
	// Untouched fields are preserved.
	assert.Equal(t, "Café Coado", env.Data.Name)
}

func TestUpdateProductHandler_InvalidImageURL(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	body := []byte(`{"image_url":"not-a-url"}`)
	rec := performRequest(t, router, http.MethodPut, "/produtos/"+uuid.New().String(), body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteProductHandler_Success(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	id := uuid.New().String()
	repo.On("Delete", mock.Anything, id).Return(nil)

	rec := performRequest(t, router, http.MethodDelete, "/produtos/"+id, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	repo.AssertExpectations(t)
}

func TestDeleteProductHandler_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	router := setupProductRouter(repo)

	id := uuid.New().String()
	repo.On("Delete", mock.Anything, id).Return(apperrors.NotFound("product", id))

	rec := performRequest(t, router, http.MethodDelete, "/produtos/"+id, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
