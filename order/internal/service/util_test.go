package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/verdantis/storefront/internal/domain"
	inRepository "github.com/verdantis/storefront/internal/repository"
	"github.com/verdantis/storefront/order/internal/repository"
	productResponse "github.com/verdantis/storefront/product/pkg/response"
)

// testHarness bundles everything a checkout test needs: real postgres and
// redis containers, a stub product catalog server, and the service wired
// against all three.
type testHarness struct {
	service     OrderService
	store       *inRepository.RedisCartStore
	cache       *redis.Client
	pool        *pgxpool.Pool
	products    map[string]productResponse.Product
	productsSrv *httptest.Server
}

func setup(t *testing.T, c context.Context) *testHarness {
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
			filepath.Join("..", "..", "..", "db", "migrations", "000002_create_orders.up.sql"),
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

	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}
	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}
	redisClient := redis.NewClient(redisOpt)
	t.Cleanup(func() { _ = redisClient.Close() })
	if err := redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	products := map[string]productResponse.Product{}
	productsSrv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/products/")
			product, ok := products[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":     "success",
				"statusCode": http.StatusOK,
				"data":       map[string]interface{}{"product": product},
			})
		}),
	)
	t.Cleanup(productsSrv.Close)

	store := inRepository.NewRedisCartStore(redisClient, time.Hour)
	shipping := domainShipping()
	service := NewOrderService(
		repository.NewOrderRepository(pool),
		store,
		redisClient,
		shipping,
		productsSrv.URL,
		productsSrv.Client(),
	)

	return &testHarness{
		service:     service,
		store:       store,
		cache:       redisClient,
		pool:        pool,
		products:    products,
		productsSrv: productsSrv,
	}
}

func (h *testHarness) registerProduct(product productResponse.Product) {
	h.products[product.ID.String()] = product
}

func domainShipping() domain.ShippingConfig {
	return domain.ShippingConfig{
		FreeThreshold: decimal.NewFromInt(999),
		Fee:           decimal.NewFromInt(49),
	}
}
