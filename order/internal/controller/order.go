package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/verdantis/storefront/internal/errors"
	inHttp "github.com/verdantis/storefront/internal/http"
	"github.com/verdantis/storefront/internal/log"
	inOtel "github.com/verdantis/storefront/internal/otel"
	"github.com/verdantis/storefront/internal/session"
	"github.com/verdantis/storefront/order/internal/otel"
	"github.com/verdantis/storefront/order/internal/service"
	"github.com/verdantis/storefront/order/pkg/request"
)

type OrderController struct {
	service *service.OrderService
}

func AttachOrderController(router *mux.Router, svc *service.OrderService) {
	controller := OrderController{service: svc}

	sub := router.PathPrefix("/orders").Subrouter()
	sub.HandleFunc("/checkout", controller.Checkout).Methods(http.MethodPost)
	sub.HandleFunc("", controller.FindOrders).Methods(http.MethodGet)
	sub.HandleFunc("/{orderId}", controller.FindOrderById).Methods(http.MethodGet)
	sub.HandleFunc("/{orderId}/timeline", controller.Timeline).Methods(http.MethodGet)
	sub.HandleFunc("/{orderId}/status", controller.UpdateStatus).Methods(http.MethodPut)
}

func writeFailed(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	inHttp.WriteJsonResponse(r.Context(), w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": statusCode,
		"message":    err.Error(),
	})
}

func orderIdFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["orderId"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing orderId with error=%w", err)
	}
	return id, nil
}

func checkoutStatusCode(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, inErrors.ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrProductNotFound):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (ctrl OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController Checkout").
		Logger()

	c = logger.WithContext(c)
	order, err := ctrl.service.Checkout(c, session.IDFromContext(c))
	if err != nil {
		statusCode := checkoutStatusCode(err)
		err = fmt.Errorf("failed checking out with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, statusCode, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusCreated,
		"data":       map[string]interface{}{"order": order},
	})
}

func (ctrl OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrders").
		Logger()

	c = logger.WithContext(c)
	orders, err := ctrl.service.FindOrders(c, session.IDFromContext(c))
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusInternalServerError, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"orders": orders},
	})
}

func (ctrl OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrderById").
		Logger()

	orderID, err := orderIdFromPath(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	c = logger.WithContext(c)
	order, err := ctrl.service.FindOrderById(c, session.IDFromContext(c), orderID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrOrderNotFound) {
			statusCode = http.StatusNotFound
		}
		err = fmt.Errorf("failed finding order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, statusCode, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"order": order},
	})
}

func (ctrl OrderController) Timeline(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController Timeline")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController Timeline").
		Logger()

	orderID, err := orderIdFromPath(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	c = logger.WithContext(c)
	timeline, err := ctrl.service.Timeline(c, session.IDFromContext(c), orderID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrOrderNotFound) {
			statusCode = http.StatusNotFound
		}
		err = fmt.Errorf("failed finding order timeline with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, statusCode, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"timeline": timeline},
	})
}

func (ctrl OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController UpdateStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController UpdateStatus").
		Logger()

	orderID, err := orderIdFromPath(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	reqBody := request.UpdateStatus{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	c = logger.WithContext(c)
	order, err := ctrl.service.UpdateStatus(c, session.IDFromContext(c), orderID, reqBody)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrOrderNotFound) {
			statusCode = http.StatusNotFound
		}
		err = fmt.Errorf("failed updating order status with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, statusCode, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"order": order},
	})
}
