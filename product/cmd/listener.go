package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/verdantis/storefront/internal/config"
	"github.com/verdantis/storefront/internal/constants"
	"github.com/verdantis/storefront/internal/infra"
	"github.com/verdantis/storefront/internal/log"
	inOtel "github.com/verdantis/storefront/internal/otel"
	"github.com/verdantis/storefront/order/pkg/request"
	"github.com/verdantis/storefront/product/internal/otel"
	"github.com/verdantis/storefront/product/internal/repository"
)

// RunStockListener subscribes to the stock decrement channel and applies each
// checkout's quantities against the product catalog. It runs until the
// context is cancelled.
func RunStockListener(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunStockListener")
	defer span.End()

	cfg := config.Get(c, constants.AppStockListener)

	logger := log.Get(filepath.Join("/var/log/", constants.AppStockListener+".log"), cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppStockListener).
		Str(log.KeyTag, "main RunStockListener").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppStockListener, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := inOtel.ShutdownOtel(context.Background(), shutdownFuncs); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	pool := infra.NewDatabaseClient(c, cfg.Database)
	defer func() {
		logger.Info().Msg("shutting down database")
		pool.Close()
		logger.Info().Msg("shutdown database")
	}()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		logger.Info().Msg("shutting down cache")
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	productRepository := repository.NewProductRepository(pool)

	logger = logger.With().Str(log.KeyProcess, "subscribing stock decrement").Logger()
	logger.Info().Msgf("subscribing to channel %s", constants.ChannelStockDecrement)
	pubsub := cache.Subscribe(c, constants.ChannelStockDecrement)
	defer func() {
		logger.Info().Msg("closing subscription")
		if err := pubsub.Close(); err != nil {
			err = fmt.Errorf("failed closing subscription with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("closed subscription")
	}()
	messages := pubsub.Channel()
	logger.Info().Msg("subscribed to stock decrement channel")

	for {
		select {
		case <-c.Done():
			logger.Info().Msg("received interruption signal, stopping listener")
			return
		case message, ok := <-messages:
			if !ok {
				logger.Info().Msg("subscription channel closed, stopping listener")
				return
			}

			requestID := uuid.NewString()
			lg := logger.With().
				Str(log.KeyProcess, "applying stock decrement").
				Str(log.KeyRequestID, requestID).
				Logger()
			mc := log.AttachRequestIDToContext(lg.WithContext(c), requestID)
			mc, span := otel.Tracer.Start(mc, "RunStockListener ApplyStockDecrement")

			decrement := request.StockDecrement{}
			if err := json.Unmarshal([]byte(message.Payload), &decrement); err != nil {
				err = fmt.Errorf("failed decoding stock decrement with error=%w", err)
				inOtel.RecordError(err, span)
				lg.Error().Err(err).Msg(err.Error())
				span.End()
				continue
			}

			lg = lg.With().Str(log.KeyOrderID, decrement.OrderID.String()).Logger()
			lg.Info().Msgf("applying stock decrement for %d items", len(decrement.Items))
			for _, item := range decrement.Items {
				err := productRepository.DecrementStock(mc, item.ProductID, item.VariantID, item.Quantity)
				if err != nil {
					err = fmt.Errorf(
						"failed decrementing stock for product=%s with error=%w",
						item.ProductID,
						err,
					)
					inOtel.RecordError(err, span)
					lg.Error().Err(err).Msg(err.Error())
					continue
				}
			}
			lg.Info().Msg("applied stock decrement")
			span.End()
		}
	}
}
