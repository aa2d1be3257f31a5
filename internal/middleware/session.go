package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verdantis/storefront/internal/config"
	inErrors "github.com/verdantis/storefront/internal/errors"
	inHttp "github.com/verdantis/storefront/internal/http"
	"github.com/verdantis/storefront/internal/log"
	"github.com/verdantis/storefront/internal/session"
)

// Session resolves the cart session the request belongs to. A request without
// a token gets a fresh session minted and returned in the X-Session-Token
// response header; a request with an invalid token is rejected.
func Session(cfg config.Application) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(log.KeyTag, "middleware Session").
				Logger()
			c := logger.WithContext(r.Context())

			authorization := r.Header.Get("Authorization")
			if authorization == "" {
				id := uuid.New()
				token, err := session.MintToken(cfg, id)
				if err != nil {
					logger.Error().Err(err).Msg(err.Error())
					inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
						"status":     "failed",
						"statusCode": http.StatusInternalServerError,
						"message":    "Internal Server Error",
					})
					return
				}
				w.Header().Set(inHttp.HeaderSessionToken, token)
				c = session.AttachIDToContext(c, id)
				next.ServeHTTP(w, r.WithContext(c))
				return
			}

			token := strings.TrimPrefix(strings.TrimPrefix(authorization, "Bearer "), "bearer ")
			id, err := session.VerifyToken(c, cfg, token)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrTokenInvalid.Error(),
				})
				return
			}

			c = session.AttachIDToContext(c, id)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
