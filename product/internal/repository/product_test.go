package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	inErrors "github.com/verdantis/storefront/internal/errors"
	"github.com/verdantis/storefront/product/pkg/request"
)

func setupRepository(t *testing.T, c context.Context) ProductRepository {
	t.Helper()

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join("..", "..", "..", "db", "migrations", "000001_create_products.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	pgConnStr, err := pgContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}
	pool, err := pgxpool.New(c, pgConnStr)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	t.Cleanup(pool.Close)
	if err := pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}

	return NewProductRepository(pool)
}

func insertRequest() request.Product {
	return request.Product{
		Name:     "Moringa Capsules",
		Price:    decimal.NewFromInt(499),
		Images:   []string{"moringa.jpg"},
		Category: "supplements",
		Quantity: 100,
		Variants: []request.Variant{
			{Name: "60 capsules", Price: decimal.NewFromInt(499), Quantity: 60},
			{Name: "120 capsules", Price: decimal.NewFromInt(899), Quantity: 40},
		},
	}
}

func TestProductRepository(t *testing.T) {
	c := context.Background()
	repo := setupRepository(t, c)

	t.Run("given insert should return product with variants", func(t *testing.T) {
		product, variants, err := repo.InsertProduct(c, insertRequest())

		require.NoError(t, err)
		assert.Equal(t, "Moringa Capsules", product.Name)
		assert.True(t, product.InStock)
		require.Len(t, variants, 2)
		assert.Equal(t, product.ID, variants[0].ProductID)

		res := product.Response(variants)
		assert.True(t, res.Price.Equal(decimal.NewFromInt(499)))
		assert.True(t, res.Variants[1].Price.Equal(decimal.NewFromInt(899)))
	})

	t.Run("given unknown id should return ErrProductNotFound", func(t *testing.T) {
		_, err := repo.FindProductById(c, uuid.New())

		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
	})

	t.Run("given inserted product should find it with variants", func(t *testing.T) {
		inserted, _, err := repo.InsertProduct(c, insertRequest())
		require.NoError(t, err)

		found, err := repo.FindProductById(c, inserted.ID)
		require.NoError(t, err)
		assert.Equal(t, inserted.ID, found.ID)

		variants, err := repo.FindVariantsByProductId(c, inserted.ID)
		require.NoError(t, err)
		assert.Len(t, variants, 2)
	})

	t.Run("given update should change fields", func(t *testing.T) {
		inserted, _, err := repo.InsertProduct(c, insertRequest())
		require.NoError(t, err)

		updated, err := repo.UpdateProduct(c, inserted.ID, request.UpdateProduct{
			Name:     "Moringa Capsules XL",
			Price:    decimal.NewFromInt(599),
			Quantity: 0,
		})

		require.NoError(t, err)
		assert.Equal(t, "Moringa Capsules XL", updated.Name)
		assert.False(t, updated.InStock)
	})

	t.Run("given decrement should reduce quantity and drop in_stock at zero", func(t *testing.T) {
		inserted, _, err := repo.InsertProduct(c, insertRequest())
		require.NoError(t, err)

		require.NoError(t, repo.DecrementStock(c, inserted.ID, inserted.ID, 100))

		found, err := repo.FindProductById(c, inserted.ID)
		require.NoError(t, err)
		assert.Equal(t, int32(0), found.Quantity)
		assert.False(t, found.InStock)
	})

	t.Run("given variant decrement should target the variant", func(t *testing.T) {
		inserted, variants, err := repo.InsertProduct(c, insertRequest())
		require.NoError(t, err)

		require.NoError(t, repo.DecrementStock(c, inserted.ID, variants[0].ID, 10))

		found, err := repo.FindProductById(c, inserted.ID)
		require.NoError(t, err)
		assert.Equal(t, int32(100), found.Quantity)

		updatedVariants, err := repo.FindVariantsByProductId(c, inserted.ID)
		require.NoError(t, err)
		for _, v := range updatedVariants {
			if v.ID == variants[0].ID {
				assert.Equal(t, int32(50), v.Quantity)
			}
		}
	})

	t.Run("given remove should delete product and variants", func(t *testing.T) {
		inserted, _, err := repo.InsertProduct(c, insertRequest())
		require.NoError(t, err)

		require.NoError(t, repo.RemoveProduct(c, inserted.ID))

		_, err = repo.FindProductById(c, inserted.ID)
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
	})

	t.Run("given remove of unknown id should return ErrProductNotFound", func(t *testing.T) {
		err := repo.RemoveProduct(c, uuid.New())

		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
	})
}
