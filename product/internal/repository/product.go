package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	inErrors "github.com/verdantis/storefront/internal/errors"
	"github.com/verdantis/storefront/product/pkg/request"
)

type Product struct {
	ID            uuid.UUID
	Name          string
	Price         pgtype.Numeric
	OriginalPrice pgtype.Numeric
	Images        []string
	Category      string
	Quantity      int32
	InStock       bool
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type Variant struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Name          string
	Price         pgtype.Numeric
	OriginalPrice pgtype.Numeric
	Quantity      int32
	InStock       bool
}

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return ProductRepository{pool: pool}
}

const findProductsQuery = `
select id, name, price, original_price, images, category, quantity, in_stock, created_at, updated_at
from products
order by created_at
`

func (repo ProductRepository) FindProducts(c context.Context) ([]Product, error) {
	rows, err := repo.pool.Query(c, findProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed querying products with error=%w", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Product])
	if err != nil {
		return nil, fmt.Errorf("failed collecting products with error=%w", err)
	}
	return products, nil
}

const findProductByIdQuery = `
select id, name, price, original_price, images, category, quantity, in_stock, created_at, updated_at
from products
where id = $1
`

func (repo ProductRepository) FindProductById(c context.Context, id uuid.UUID) (Product, error) {
	rows, err := repo.pool.Query(c, findProductByIdQuery, id)
	if err != nil {
		return Product{}, fmt.Errorf("failed querying product with error=%w", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, inErrors.ErrProductNotFound
		}
		return Product{}, fmt.Errorf("failed collecting product with error=%w", err)
	}
	return product, nil
}

const findVariantsByProductIdQuery = `
select id, product_id, name, price, original_price, quantity, in_stock
from product_variants
where product_id = $1
order by name
`

func (repo ProductRepository) FindVariantsByProductId(
	c context.Context,
	productID uuid.UUID,
) ([]Variant, error) {
	rows, err := repo.pool.Query(c, findVariantsByProductIdQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("failed querying variants with error=%w", err)
	}
	variants, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Variant])
	if err != nil {
		return nil, fmt.Errorf("failed collecting variants with error=%w", err)
	}
	return variants, nil
}

const insertProductQuery = `
insert into products (id, name, price, original_price, images, category, quantity, in_stock)
values ($1, $2, $3, $4, $5, $6, $7, $7 > 0)
returning id, name, price, original_price, images, category, quantity, in_stock, created_at, updated_at
`

const insertVariantQuery = `
insert into product_variants (id, product_id, name, price, original_price, quantity, in_stock)
values ($1, $2, $3, $4, $5, $6, $6 > 0)
returning id, product_id, name, price, original_price, quantity, in_stock
`

func (repo ProductRepository) InsertProduct(
	c context.Context,
	param request.Product,
) (Product, []Variant, error) {
	tx, err := repo.pool.Begin(c)
	if err != nil {
		return Product{}, nil, fmt.Errorf("failed beginning transaction with error=%w", err)
	}
	defer func() { _ = tx.Rollback(c) }()

	rows, err := tx.Query(
		c,
		insertProductQuery,
		uuid.New(),
		param.Name,
		numericFromDecimal(param.Price),
		numericFromDecimalPtr(param.OriginalPrice),
		param.Images,
		param.Category,
		param.Quantity,
	)
	if err != nil {
		return Product{}, nil, fmt.Errorf("failed inserting product with error=%w", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Product])
	if err != nil {
		return Product{}, nil, fmt.Errorf("failed collecting inserted product with error=%w", err)
	}

	variants := make([]Variant, 0, len(param.Variants))
	for _, v := range param.Variants {
		rows, err := tx.Query(
			c,
			insertVariantQuery,
			uuid.New(),
			product.ID,
			v.Name,
			numericFromDecimal(v.Price),
			numericFromDecimalPtr(v.OriginalPrice),
			v.Quantity,
		)
		if err != nil {
			return Product{}, nil, fmt.Errorf("failed inserting variant with error=%w", err)
		}
		variant, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Variant])
		if err != nil {
			return Product{}, nil, fmt.Errorf("failed collecting inserted variant with error=%w", err)
		}
		variants = append(variants, variant)
	}

	if err := tx.Commit(c); err != nil {
		return Product{}, nil, fmt.Errorf("failed committing transaction with error=%w", err)
	}
	return product, variants, nil
}

const updateProductQuery = `
update products
set name = $2,
    price = $3,
    original_price = $4,
    images = $5,
    category = $6,
    quantity = $7,
    in_stock = $7 > 0,
    updated_at = now()
where id = $1
returning id, name, price, original_price, images, category, quantity, in_stock, created_at, updated_at
`

func (repo ProductRepository) UpdateProduct(
	c context.Context,
	id uuid.UUID,
	param request.UpdateProduct,
) (Product, error) {
	rows, err := repo.pool.Query(
		c,
		updateProductQuery,
		id,
		param.Name,
		numericFromDecimal(param.Price),
		numericFromDecimalPtr(param.OriginalPrice),
		param.Images,
		param.Category,
		param.Quantity,
	)
	if err != nil {
		return Product{}, fmt.Errorf("failed updating product with error=%w", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, inErrors.ErrProductNotFound
		}
		return Product{}, fmt.Errorf("failed collecting updated product with error=%w", err)
	}
	return product, nil
}

const removeProductQuery = `delete from products where id = $1`

func (repo ProductRepository) RemoveProduct(c context.Context, id uuid.UUID) error {
	tag, err := repo.pool.Exec(c, removeProductQuery, id)
	if err != nil {
		return fmt.Errorf("failed removing product with error=%w", err)
	}
	if tag.RowsAffected() == 0 {
		return inErrors.ErrProductNotFound
	}
	return nil
}

const decrementProductStockQuery = `
update products
set quantity = greatest(quantity - $2, 0),
    in_stock = quantity - $2 > 0,
    updated_at = now()
where id = $1
`

const decrementVariantStockQuery = `
update product_variants
set quantity = greatest(quantity - $2, 0),
    in_stock = quantity - $2 > 0
where id = $1
`

// DecrementStock applies a checkout's quantity against the variant when one
// is identified, otherwise against the product itself.
func (repo ProductRepository) DecrementStock(
	c context.Context,
	productID uuid.UUID,
	variantID uuid.UUID,
	quantity int32,
) error {
	if variantID != uuid.Nil && variantID != productID {
		if _, err := repo.pool.Exec(c, decrementVariantStockQuery, variantID, quantity); err != nil {
			return fmt.Errorf("failed decrementing variant stock with error=%w", err)
		}
		return nil
	}
	if _, err := repo.pool.Exec(c, decrementProductStockQuery, productID, quantity); err != nil {
		return fmt.Errorf("failed decrementing product stock with error=%w", err)
	}
	return nil
}
