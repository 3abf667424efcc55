package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guilherme-Denarde/coffee-orders/internal/catalog/domain"
	"github.com/Guilherme-Denarde/coffee-orders/internal/catalog/repository"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/database"
	apperrors "github.com/Guilherme-Denarde/coffee-orders/pkg/errors"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

func sampleProduct() *domain.Product {
	now := time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC)
	return &domain.Product{
		ID:          "prod-001",
		Name:        "Espresso",
		Slug:        "espresso",
		Description: "Dose curta e intensa",
		Price:       600,
		Category:    "cafes",
		ImageURL:    "https://cdn.example.com/espresso.jpg",
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productCols() []string {
	return []string{
		"id", "name", "slug", "description", "price", "category",
		"image_url", "in_stock", "created_at", "updated_at",
	}
}

func productRow(p *domain.Product) *pgxmock.Rows {
	return pgxmock.NewRows(productCols()).
		AddRow(
			p.ID, p.Name, p.Slug, p.Description, p.Price, p.Category,
			p.ImageURL, p.InStock, p.CreatedAt, p.UpdatedAt,
		)
}

// ---------------------------------------------------------------------------
// tests
// ---------------------------------------------------------------------------

func TestCreate_Success(t *testing.T) {
	repo, mock := setupRepo(t)
	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Name, p.Slug, p.Description, p.Price, p.Category,
			p.ImageURL, p.InStock, p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), p)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateSlug(t *testing.T) {
	repo, mock := setupRepo(t)
	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(p.ID, p.Name, p.Slug, p.Description, p.Price, p.Category,
			p.ImageURL, p.InStock, p.CreatedAt, p.UpdatedAt).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "products_slug_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), p)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_Success(t *testing.T) {
	repo, mock := setupRepo(t)
	p := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))

	got, err := repo.GetByID(context.Background(), p.ID)

	require.NoError(t, err)
	assert.Equal(t, p.Slug, got.Slug)
	assert.Equal(t, int64(600), got.Price)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySlug_NotFound(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectQuery("SELECT .+ FROM products WHERE slug").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetBySlug(context.Background(), "missing")

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_WithCategoryFilter(t *testing.T) {
	repo, mock := setupRepo(t)
	p := sampleProduct()

	rows := pgxmock.NewRows(append(productCols(), "total_count")).
		AddRow(
			p.ID, p.Name, p.Slug, p.Description, p.Price, p.Category,
			p.ImageURL, p.InStock, p.CreatedAt, p.UpdatedAt, 1,
		)

	category := "cafes"
	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs(category, 20, 0).
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{
		Category: &category,
		Page:     1,
		PerPage:  20,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "espresso", products[0].Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := setupRepo(t)
	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(p.Name, p.Slug, p.Description, p.Price, p.Category,
			p.ImageURL, p.InStock, pgxmock.AnyArg(), p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), p)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_Success(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "prod-001")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
