package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/verdantis/storefront/internal/constants"
	"github.com/verdantis/storefront/internal/domain"
	inErrors "github.com/verdantis/storefront/internal/errors"
	"github.com/verdantis/storefront/internal/log"
	inRepository "github.com/verdantis/storefront/internal/repository"
	order "github.com/verdantis/storefront/order/internal/domain"
	"github.com/verdantis/storefront/order/internal/otel"
	"github.com/verdantis/storefront/order/internal/repository"
	"github.com/verdantis/storefront/order/pkg/request"
	"github.com/verdantis/storefront/order/pkg/response"
	productResponse "github.com/verdantis/storefront/product/pkg/response"
)

type OrderService struct {
	repository     repository.OrderRepository
	store          inRepository.CartStore
	cache          *redis.Client
	shipping       domain.ShippingConfig
	productBaseURL string
	client         *http.Client
}

func NewOrderService(
	repository repository.OrderRepository,
	store inRepository.CartStore,
	cache *redis.Client,
	shipping domain.ShippingConfig,
	productBaseURL string,
	client *http.Client,
) OrderService {
	return OrderService{
		repository:     repository,
		store:          store,
		cache:          cache,
		shipping:       shipping,
		productBaseURL: productBaseURL,
		client:         client,
	}
}

type productEnvelope struct {
	Data struct {
		Product productResponse.Product `json:"product"`
	} `json:"data"`
}

func (svc OrderService) fetchProduct(
	c context.Context,
	productID uuid.UUID,
) (productResponse.Product, error) {
	url := fmt.Sprintf("%s/products/%s", svc.productBaseURL, productID)
	req, err := http.NewRequestWithContext(c, http.MethodGet, url, nil)
	if err != nil {
		return productResponse.Product{}, fmt.Errorf(
			"failed creating product request with error=%w",
			err,
		)
	}
	res, err := svc.client.Do(req)
	if err != nil {
		return productResponse.Product{}, fmt.Errorf(
			"failed requesting product with error=%w",
			err,
		)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return productResponse.Product{}, inErrors.ErrProductNotFound
	}
	if res.StatusCode != http.StatusOK {
		return productResponse.Product{}, fmt.Errorf(
			"failed requesting product with statusCode=%d",
			res.StatusCode,
		)
	}
	envelope := productEnvelope{}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return productResponse.Product{}, fmt.Errorf(
			"failed decoding product response with error=%w",
			err,
		)
	}
	return envelope.Data.Product, nil
}

func (svc OrderService) verifyStock(c context.Context, item domain.LineItem) error {
	product, err := svc.fetchProduct(c, item.Product.ID)
	if err != nil {
		return err
	}
	if item.Variant != nil {
		for _, variant := range product.Variants {
			if variant.ID == item.Variant.ID {
				if variant.Quantity < item.Quantity {
					return inErrors.ErrOutOfStock
				}
				return nil
			}
		}
		return inErrors.ErrProductNotFound
	}
	if product.Quantity < item.Quantity {
		return inErrors.ErrOutOfStock
	}
	return nil
}

// Checkout turns the session's cart into an order. The cart totals are
// recomputed from the stored line items, stock is verified against the
// product catalog, the order is persisted, a stock decrement message is
// published for the listener, and the cart is deleted.
func (svc OrderService) Checkout(
	c context.Context,
	sessionID uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService Checkout").
		Str(log.KeySessionID, sessionID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "loading cart").Logger()
	logger.Info().Msg("loading cart")
	cart, err := svc.store.Load(c, sessionID)
	if err != nil {
		return response.Order{}, err
	}
	if len(cart.Items) == 0 {
		return response.Order{}, inErrors.ErrEmptyCart
	}
	logger.Info().Msg("loaded cart")

	logger = logger.With().Str(log.KeyProcess, "verifying stock").Logger()
	logger.Info().Msg("verifying stock")
	for _, item := range cart.Items {
		if err := svc.verifyStock(c, item); err != nil {
			return response.Order{}, fmt.Errorf(
				"failed verifying stock for product=%s with error=%w",
				item.Product.ID,
				err,
			)
		}
	}
	logger.Info().Msg("verified stock")

	logger = logger.With().Str(log.KeyProcess, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	subtotal := cart.TotalPrice()
	discount := cart.DiscountAmount()
	shippingFee := svc.shipping.FeeFor(subtotal)
	total := subtotal.Sub(discount).Add(shippingFee)

	insert := repository.Order{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Status:      string(order.StatusPending),
		Subtotal:    repository.NumericFromDecimal(subtotal),
		Discount:    repository.NumericFromDecimal(discount),
		ShippingFee: repository.NumericFromDecimal(shippingFee),
		Total:       repository.NumericFromDecimal(total),
	}
	if cart.Coupon != nil {
		insert.CouponCode.String = cart.Coupon.Code
		insert.CouponCode.Valid = true
	}
	items := make([]repository.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, repository.OrderItem{
			ID:        uuid.New(),
			ProductID: item.Product.ID,
			VariantID: item.VariantKey(),
			Name:      item.Product.Name,
			UnitPrice: repository.NumericFromDecimal(item.UnitPrice()),
			Quantity:  item.Quantity,
		})
	}
	inserted, insertedItems, err := svc.repository.InsertOrder(c, insert, items)
	if err != nil {
		return response.Order{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, inserted.ID.String()).Logger()
	logger.Info().Msg("inserted order")

	logger = logger.With().Str(log.KeyProcess, "publishing stock decrement").Logger()
	logger.Info().Msg("publishing stock decrement")
	message := request.StockDecrement{OrderID: inserted.ID}
	for _, item := range insertedItems {
		message.Items = append(message.Items, request.StockDecrementItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}
	messageJson, err := json.Marshal(message)
	if err != nil {
		return response.Order{}, fmt.Errorf(
			"failed marshalling stock decrement with error=%w",
			err,
		)
	}
	if err := svc.cache.Publish(c, constants.ChannelStockDecrement, messageJson).Err(); err != nil {
		return response.Order{}, fmt.Errorf(
			"failed publishing stock decrement with error=%w",
			err,
		)
	}
	logger.Info().Msg("published stock decrement")

	logger = logger.With().Str(log.KeyProcess, "deleting cart").Logger()
	logger.Info().Msg("deleting cart")
	if err := svc.store.Delete(c, sessionID); err != nil {
		return response.Order{}, err
	}
	logger.Info().Msg("deleted cart")

	return inserted.Response(insertedItems), nil
}

func (svc OrderService) FindOrders(
	c context.Context,
	sessionID uuid.UUID,
) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	orders, err := svc.repository.FindOrdersBySession(c, sessionID)
	if err != nil {
		return nil, err
	}
	res := make([]response.Order, 0, len(orders))
	for _, o := range orders {
		items, err := svc.repository.FindOrderItems(c, o.ID)
		if err != nil {
			return nil, err
		}
		res = append(res, o.Response(items))
	}
	return res, nil
}

func (svc OrderService) FindOrderById(
	c context.Context,
	sessionID uuid.UUID,
	orderID uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	o, err := svc.repository.FindOrderById(c, orderID, sessionID)
	if err != nil {
		return response.Order{}, err
	}
	items, err := svc.repository.FindOrderItems(c, o.ID)
	if err != nil {
		return response.Order{}, err
	}
	return o.Response(items), nil
}

// Timeline maps the order's stored status onto its tracking steps.
func (svc OrderService) Timeline(
	c context.Context,
	sessionID uuid.UUID,
	orderID uuid.UUID,
) ([]response.TimelineStep, error) {
	c, span := otel.Tracer.Start(c, "OrderService Timeline")
	defer span.End()

	o, err := svc.repository.FindOrderById(c, orderID, sessionID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}
	steps := order.Timeline(status)
	res := make([]response.TimelineStep, 0, len(steps))
	for _, step := range steps {
		res = append(res, response.TimelineStep{
			Status:    string(step.Status),
			Label:     step.Label,
			Completed: step.Completed,
			Current:   step.Current,
		})
	}
	return res, nil
}

func (svc OrderService) UpdateStatus(
	c context.Context,
	sessionID uuid.UUID,
	orderID uuid.UUID,
	param request.UpdateStatus,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpdateStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService UpdateStatus").
		Str(log.KeyOrderID, orderID.String()).
		Str("orderStatus", param.Status).
		Logger()

	status, err := order.ParseStatus(param.Status)
	if err != nil {
		return response.Order{}, err
	}
	o, err := svc.repository.UpdateOrderStatus(c, orderID, sessionID, string(status))
	if err != nil {
		return response.Order{}, err
	}
	items, err := svc.repository.FindOrderItems(c, o.ID)
	if err != nil {
		return response.Order{}, err
	}
	logger.Info().Msg("updated order status")
	return o.Response(items), nil
}
