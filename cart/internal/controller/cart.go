package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/verdantis/storefront/cart/internal/otel"
	"github.com/verdantis/storefront/cart/internal/service"
	"github.com/verdantis/storefront/cart/pkg/request"
	inHttp "github.com/verdantis/storefront/internal/http"
	"github.com/verdantis/storefront/internal/log"
	inOtel "github.com/verdantis/storefront/internal/otel"
	"github.com/verdantis/storefront/internal/session"
)

type CartController struct {
	service *service.CartService
}

func AttachCartController(router *mux.Router, svc *service.CartService) {
	controller := CartController{service: svc}

	sub := router.PathPrefix("/cart").Subrouter()
	sub.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	sub.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	sub.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	sub.HandleFunc("/items/{productId}/{variantId}", controller.UpdateQuantity).
		Methods(http.MethodPut)
	sub.HandleFunc("/items/{productId}/{variantId}", controller.RemoveItem).
		Methods(http.MethodDelete)
	sub.HandleFunc("/coupon", controller.ApplyCoupon).Methods(http.MethodPost)
	sub.HandleFunc("/coupon", controller.RemoveCoupon).Methods(http.MethodDelete)
	sub.HandleFunc("/visibility/{action}", controller.Visibility).Methods(http.MethodPost)
}

func writeFailed(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	inHttp.WriteJsonResponse(r.Context(), w, map[string]string{}, map[string]interface{}{
		"status":     "failed",
		"statusCode": statusCode,
		"message":    err.Error(),
	})
}

func itemKeyFromPath(r *http.Request) (productID, variantID uuid.UUID, err error) {
	vars := mux.Vars(r)
	productID, err = uuid.Parse(vars["productId"])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed parsing productId with error=%w", err)
	}
	variantID, err = uuid.Parse(vars["variantId"])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed parsing variantId with error=%w", err)
	}
	return productID, variantID, nil
}

func (ctrl CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController GetCart").
		Logger()

	cart, err := ctrl.service.GetCart(c, session.IDFromContext(c))
	if err != nil {
		err = fmt.Errorf("failed getting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusInternalServerError, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	reqBody := request.AddItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	logger = logger.With().Str(log.KeyProcess, "adding item").Logger()
	c = logger.WithContext(c)
	cart, err := ctrl.service.AddItem(c, session.IDFromContext(c), reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusInternalServerError, err)
		return
	}
	logger.Info().Msg("added item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateQuantity").
		Logger()

	productID, variantID, err := itemKeyFromPath(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	reqBody := request.UpdateQuantity{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	c = logger.WithContext(c)
	cart, err := ctrl.service.UpdateQuantity(
		c,
		session.IDFromContext(c),
		productID,
		variantID,
		reqBody.Quantity,
	)
	if err != nil {
		err = fmt.Errorf("failed updating quantity with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusInternalServerError, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveItem").
		Logger()

	productID, variantID, err := itemKeyFromPath(r)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	c = logger.WithContext(c)
	cart, err := ctrl.service.RemoveItem(c, session.IDFromContext(c), productID, variantID)
	if err != nil {
		err = fmt.Errorf("failed removing item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusInternalServerError, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Logger()

	c = logger.WithContext(c)
	cart, err := ctrl.service.ClearCart(c, session.IDFromContext(c))
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusInternalServerError, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ApplyCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ApplyCoupon").
		Logger()

	reqBody := request.ApplyCoupon{}
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
	cart, applied, err := ctrl.service.ApplyCoupon(c, session.IDFromContext(c), reqBody.Code)
	if err != nil {
		err = fmt.Errorf("failed applying coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusInternalServerError, err)
		return
	}

	status := "success"
	statusCode := http.StatusOK
	if !applied {
		status = "failed"
		statusCode = http.StatusUnprocessableEntity
	}
	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     status,
		"statusCode": statusCode,
		"message":    cart.CouponError,
		"data":       map[string]interface{}{"cart": cart, "applied": applied},
	})
}

func (ctrl CartController) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveCoupon")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveCoupon").
		Logger()

	c = logger.WithContext(c)
	cart, err := ctrl.service.RemoveCoupon(c, session.IDFromContext(c))
	if err != nil {
		err = fmt.Errorf("failed removing coupon with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusInternalServerError, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"cart": cart},
	})
}

func (ctrl CartController) Visibility(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController Visibility")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController Visibility").
		Logger()

	action := mux.Vars(r)["action"]
	c = logger.WithContext(c)
	cart, err := ctrl.service.Visibility(c, session.IDFromContext(c), action)
	if err != nil {
		err = fmt.Errorf("failed changing cart visibility with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		writeFailed(w, r, http.StatusBadRequest, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       map[string]interface{}{"cart": cart},
	})
}
