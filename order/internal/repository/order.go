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
)

type Order struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	Status      string
	Subtotal    pgtype.Numeric
	Discount    pgtype.Numeric
	ShippingFee pgtype.Numeric
	Total       pgtype.Numeric
	CouponCode  pgtype.Text
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	VariantID uuid.UUID
	Name      string
	UnitPrice pgtype.Numeric
	Quantity  int32
}

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return OrderRepository{pool: pool}
}

const insertOrderQuery = `
insert into orders (id, session_id, status, subtotal, discount, shipping_fee, total, coupon_code)
values ($1, $2, $3, $4, $5, $6, $7, $8)
returning id, session_id, status, subtotal, discount, shipping_fee, total, coupon_code, created_at, updated_at
`

const insertOrderItemQuery = `
insert into order_items (id, order_id, product_id, variant_id, name, unit_price, quantity)
values ($1, $2, $3, $4, $5, $6, $7)
returning id, order_id, product_id, variant_id, name, unit_price, quantity
`

// InsertOrder writes the order and its items in one transaction.
func (repo OrderRepository) InsertOrder(
	c context.Context,
	order Order,
	items []OrderItem,
) (Order, []OrderItem, error) {
	tx, err := repo.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		return Order{}, nil, fmt.Errorf("failed beginning transaction with error=%w", err)
	}
	defer func() { _ = tx.Rollback(c) }()

	rows, err := tx.Query(
		c,
		insertOrderQuery,
		order.ID,
		order.SessionID,
		order.Status,
		order.Subtotal,
		order.Discount,
		order.ShippingFee,
		order.Total,
		order.CouponCode,
	)
	if err != nil {
		return Order{}, nil, fmt.Errorf("failed inserting order with error=%w", err)
	}
	inserted, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Order])
	if err != nil {
		return Order{}, nil, fmt.Errorf("failed collecting inserted order with error=%w", err)
	}

	insertedItems := make([]OrderItem, 0, len(items))
	for _, item := range items {
		rows, err := tx.Query(
			c,
			insertOrderItemQuery,
			item.ID,
			inserted.ID,
			item.ProductID,
			item.VariantID,
			item.Name,
			item.UnitPrice,
			item.Quantity,
		)
		if err != nil {
			return Order{}, nil, fmt.Errorf("failed inserting order item with error=%w", err)
		}
		insertedItem, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[OrderItem])
		if err != nil {
			return Order{}, nil, fmt.Errorf(
				"failed collecting inserted order item with error=%w",
				err,
			)
		}
		insertedItems = append(insertedItems, insertedItem)
	}

	if err := tx.Commit(c); err != nil {
		return Order{}, nil, fmt.Errorf("failed committing transaction with error=%w", err)
	}
	return inserted, insertedItems, nil
}

const findOrderByIdQuery = `
select id, session_id, status, subtotal, discount, shipping_fee, total, coupon_code, created_at, updated_at
from orders
where id = $1 and session_id = $2
`

func (repo OrderRepository) FindOrderById(
	c context.Context,
	orderID uuid.UUID,
	sessionID uuid.UUID,
) (Order, error) {
	rows, err := repo.pool.Query(c, findOrderByIdQuery, orderID, sessionID)
	if err != nil {
		return Order{}, fmt.Errorf("failed querying order with error=%w", err)
	}
	order, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Order])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, inErrors.ErrOrderNotFound
		}
		return Order{}, fmt.Errorf("failed collecting order with error=%w", err)
	}
	return order, nil
}

const findOrdersBySessionQuery = `
select id, session_id, status, subtotal, discount, shipping_fee, total, coupon_code, created_at, updated_at
from orders
where session_id = $1
order by created_at desc
`

func (repo OrderRepository) FindOrdersBySession(
	c context.Context,
	sessionID uuid.UUID,
) ([]Order, error) {
	rows, err := repo.pool.Query(c, findOrdersBySessionQuery, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed querying orders with error=%w", err)
	}
	orders, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Order])
	if err != nil {
		return nil, fmt.Errorf("failed collecting orders with error=%w", err)
	}
	return orders, nil
}

const findOrderItemsQuery = `
select id, order_id, product_id, variant_id, name, unit_price, quantity
from order_items
where order_id = $1
`

func (repo OrderRepository) FindOrderItems(
	c context.Context,
	orderID uuid.UUID,
) ([]OrderItem, error) {
	rows, err := repo.pool.Query(c, findOrderItemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed querying order items with error=%w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[OrderItem])
	if err != nil {
		return nil, fmt.Errorf("failed collecting order items with error=%w", err)
	}
	return items, nil
}

const updateOrderStatusQuery = `
update orders
set status = $3, updated_at = now()
where id = $1 and session_id = $2
returning id, session_id, status, subtotal, discount, shipping_fee, total, coupon_code, created_at, updated_at
`

func (repo OrderRepository) UpdateOrderStatus(
	c context.Context,
	orderID uuid.UUID,
	sessionID uuid.UUID,
	status string,
) (Order, error) {
	rows, err := repo.pool.Query(c, updateOrderStatusQuery, orderID, sessionID, status)
	if err != nil {
		return Order{}, fmt.Errorf("failed updating order status with error=%w", err)
	}
	order, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Order])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, inErrors.ErrOrderNotFound
		}
		return Order{}, fmt.Errorf("failed collecting updated order with error=%w", err)
	}
	return order, nil
}
