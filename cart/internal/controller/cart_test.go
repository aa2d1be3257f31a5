package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantis/storefront/cart/internal/service"
	"github.com/verdantis/storefront/internal/domain"
	"github.com/verdantis/storefront/internal/repository"
	"github.com/verdantis/storefront/internal/session"
)

func newTestRouter(t *testing.T, sessionID uuid.UUID) *mux.Router {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repository.NewRedisCartStore(client, time.Hour)
	shipping := domain.ShippingConfig{
		FreeThreshold: decimal.NewFromInt(999),
		Fee:           decimal.NewFromInt(49),
	}
	svc := service.NewCartService(store, domain.DefaultCatalog(), shipping)

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.AttachIDToContext(r.Context(), sessionID)))
		})
	})
	AttachCartController(router, &svc)
	return router
}

func doJson(
	t *testing.T,
	router *mux.Router,
	method, target string,
	body interface{},
) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	decoded := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&decoded))
	return recorder, decoded
}

func cartFromBody(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response body has no data object")
	cart, ok := data["cart"].(map[string]interface{})
	require.True(t, ok, "response data has no cart object")
	return cart
}

func addItemBody(productID uuid.UUID, price int64, quantity int32) map[string]interface{} {
	return map[string]interface{}{
		"product": map[string]interface{}{
			"id":       productID.String(),
			"name":     "Moringa Capsules",
			"price":    price,
			"in_stock": true,
		},
		"quantity": quantity,
	}
}

func TestControllerGetCart(t *testing.T) {
	router := newTestRouter(t, uuid.New())

	recorder, body := doJson(t, router, http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "success", body["status"])
	cart := cartFromBody(t, body)
	assert.Empty(t, cart["items"])
}

func TestControllerAddItem(t *testing.T) {
	t.Run("given valid request should add item", func(t *testing.T) {
		router := newTestRouter(t, uuid.New())

		recorder, body := doJson(
			t,
			router,
			http.MethodPost,
			"/cart/items",
			addItemBody(uuid.New(), 499, 2),
		)

		assert.Equal(t, http.StatusOK, recorder.Code)
		cart := cartFromBody(t, body)
		assert.Equal(t, float64(2), cart["total_items"])
	})

	t.Run("given invalid json should return bad request", func(t *testing.T) {
		router := newTestRouter(t, uuid.New())

		req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader([]byte("{")))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("given missing product should return bad request", func(t *testing.T) {
		router := newTestRouter(t, uuid.New())

		recorder, _ := doJson(
			t,
			router,
			http.MethodPost,
			"/cart/items",
			map[string]interface{}{"quantity": 1},
		)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestControllerUpdateQuantity(t *testing.T) {
	router := newTestRouter(t, uuid.New())
	productID := uuid.New()
	_, _ = doJson(t, router, http.MethodPost, "/cart/items", addItemBody(productID, 499, 2))

	target := fmt.Sprintf("/cart/items/%s/%s", productID, productID)
	recorder, body := doJson(
		t,
		router,
		http.MethodPut,
		target,
		map[string]interface{}{"quantity": 0},
	)

	assert.Equal(t, http.StatusOK, recorder.Code)
	cart := cartFromBody(t, body)
	assert.Empty(t, cart["items"])
}

func TestControllerRemoveItem(t *testing.T) {
	router := newTestRouter(t, uuid.New())
	productID := uuid.New()
	_, _ = doJson(t, router, http.MethodPost, "/cart/items", addItemBody(productID, 499, 1))

	target := fmt.Sprintf("/cart/items/%s/%s", productID, productID)
	recorder, body := doJson(t, router, http.MethodDelete, target, nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	cart := cartFromBody(t, body)
	assert.Empty(t, cart["items"])
}

func TestControllerApplyCoupon(t *testing.T) {
	t.Run("given valid coupon should return success", func(t *testing.T) {
		router := newTestRouter(t, uuid.New())
		_, _ = doJson(t, router, http.MethodPost, "/cart/items", addItemBody(uuid.New(), 999, 3))

		recorder, body := doJson(
			t,
			router,
			http.MethodPost,
			"/cart/coupon",
			map[string]interface{}{"code": "HEALTH15"},
		)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "success", body["status"])
		data := body["data"].(map[string]interface{})
		assert.Equal(t, true, data["applied"])
		cart := cartFromBody(t, body)
		assert.Equal(t, "450", cart["discount"])
		assert.Equal(t, "2547", cart["final_price"])
	})

	t.Run("given unknown coupon should return unprocessable entity", func(t *testing.T) {
		router := newTestRouter(t, uuid.New())

		recorder, body := doJson(
			t,
			router,
			http.MethodPost,
			"/cart/coupon",
			map[string]interface{}{"code": "NOPE"},
		)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		assert.Equal(t, "failed", body["status"])
		assert.Equal(t, "Invalid coupon code", body["message"])
	})

	t.Run("given empty code should return bad request", func(t *testing.T) {
		router := newTestRouter(t, uuid.New())

		recorder, _ := doJson(
			t,
			router,
			http.MethodPost,
			"/cart/coupon",
			map[string]interface{}{"code": ""},
		)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestControllerRemoveCoupon(t *testing.T) {
	router := newTestRouter(t, uuid.New())
	_, _ = doJson(t, router, http.MethodPost, "/cart/items", addItemBody(uuid.New(), 999, 1))
	_, _ = doJson(t, router, http.MethodPost, "/cart/coupon", map[string]interface{}{"code": "WELCOME10"})

	recorder, body := doJson(t, router, http.MethodDelete, "/cart/coupon", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	cart := cartFromBody(t, body)
	assert.Nil(t, cart["coupon"])
}

func TestControllerClearCart(t *testing.T) {
	router := newTestRouter(t, uuid.New())
	_, _ = doJson(t, router, http.MethodPost, "/cart/items", addItemBody(uuid.New(), 999, 2))

	recorder, body := doJson(t, router, http.MethodDelete, "/cart", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	cart := cartFromBody(t, body)
	assert.Empty(t, cart["items"])
}

func TestControllerVisibility(t *testing.T) {
	t.Run("given open action should open cart", func(t *testing.T) {
		router := newTestRouter(t, uuid.New())

		recorder, body := doJson(t, router, http.MethodPost, "/cart/visibility/open", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		cart := cartFromBody(t, body)
		assert.Equal(t, true, cart["is_open"])
	})

	t.Run("given unknown action should return bad request", func(t *testing.T) {
		router := newTestRouter(t, uuid.New())

		recorder, _ := doJson(t, router, http.MethodPost, "/cart/visibility/hide", nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
