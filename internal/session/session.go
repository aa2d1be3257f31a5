package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verdantis/storefront/internal/config"
	"github.com/verdantis/storefront/internal/constants"
	inErrors "github.com/verdantis/storefront/internal/errors"
	"github.com/verdantis/storefront/internal/log"
)

type sessionId struct{}

func IDFromContext(c context.Context) uuid.UUID {
	if v, ok := c.Value(sessionId{}).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func AttachIDToContext(c context.Context, id uuid.UUID) context.Context {
	return context.WithValue(c, sessionId{}, id)
}

// MintToken issues a signed token whose subject is the cart session id. The
// storefront frontend holds it for the lifetime of the browsing session and
// presents it as a bearer token on every cart and order call.
func MintToken(cfg config.Application, id uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   id.String(),
		Issuer:    constants.AppStorefront,
		Audience:  jwt.ClaimStrings{constants.AudienceSession},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(30 * 24 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed signing session token with error=%w", err)
	}
	return signed, nil
}

// VerifyToken parses the session token and returns the session id it carries.
func VerifyToken(c context.Context, cfg config.Application, token string) (uuid.UUID, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "session VerifyToken").
		Logger()

	claims := jwt.RegisteredClaims{}
	jwtToken, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.SecretKey), nil
		},
		jwt.WithAudience(constants.AudienceSession),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.AppStorefront),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing session token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	if !jwtToken.Valid {
		logger.Error().Err(inErrors.ErrTokenInvalid).Msg(inErrors.ErrTokenInvalid.Error())
		return uuid.Nil, inErrors.ErrTokenInvalid
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		err = fmt.Errorf("failed parsing session subject with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	return id, nil
}
