package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kartikmehra/shopkart-backend/pkg/db/models"
)

const productsSchema = `
CREATE TABLE products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    category TEXT NOT NULL,
    price NUMERIC NOT NULL,
    stock INTEGER NOT NULL DEFAULT 0,
    images TEXT,
    created_at TIMESTAMP,
    updated_at TIMESTAMP
);
`

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(productsSchema).Error)
	return conn
}

func fixtureProduct(name string) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: "tools",
		Price:    decimal.RequireFromString("19.99"),
		Stock:    5,
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateProduct(ctx, fixtureProduct("Widget"))
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Widget", found.Name)
	require.True(t, found.Price.Equal(decimal.RequireFromString("19.99")))
}

func TestRepositoryUpdateStock(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateProduct(ctx, fixtureProduct("Widget"))
	require.NoError(t, err)

	updated, err := repo.UpdateStock(ctx, created.ID, 11)
	require.NoError(t, err)
	require.Equal(t, 11, updated.Stock)

	_, err = repo.UpdateStock(ctx, uuid.New(), 3)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDelete(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateProduct(ctx, fixtureProduct("Widget"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteProduct(ctx, created.ID))
	require.ErrorIs(t, repo.DeleteProduct(ctx, created.ID), gorm.ErrRecordNotFound)

	_, err = repo.FindByID(ctx, created.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListNewestFirst(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	older, err := repo.CreateProduct(ctx, fixtureProduct("Older"))
	require.NoError(t, err)
	require.NoError(t, conn.Exec(
		"UPDATE products SET created_at = '2025-01-01 00:00:00' WHERE id = ?", older.ID).Error)

	newer, err := repo.CreateProduct(ctx, fixtureProduct("Newer"))
	require.NoError(t, err)

	listings, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	require.Equal(t, newer.ID, listings[0].ID)
	require.Equal(t, older.ID, listings[1].ID)
}
