package middleware

import (
	"context"
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"mesto/internal/auth"
	apperrors "mesto/internal/errors"
)

// ClaimsContextKey is where the authenticated token claims are stored.
const ClaimsContextKey = "claims"

var errTokenRevoked = errors.New("token revoked")

// TokenValidator is the subset of auth.JWTService the middleware depends on.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// RevocationChecker reports whether a token id was revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) bool
}

// JWT authenticates requests carrying "Authorization: Bearer <token>". Every
// failure short-circuits with an Unauthorized error before the handler runs.
func JWT(tokens TokenValidator, revoked RevocationChecker) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := tokens.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			if revoked != nil && revoked.IsRevoked(c.Request().Context(), claims.ID) {
				return nil, errTokenRevoked
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				return apperrors.Wrap(err, apperrors.KindUnauthorized, "token expired")
			case errors.Is(err, errTokenRevoked):
				return apperrors.Wrap(err, apperrors.KindUnauthorized, "token revoked")
			case errors.Is(err, auth.ErrInvalidToken):
				return apperrors.Wrap(err, apperrors.KindUnauthorized, "invalid token")
			default:
				return apperrors.Wrap(err, apperrors.KindUnauthorized, "authorization required")
			}
		},
	})
}

// Claims returns the authenticated claims, or nil outside the JWT middleware.
func Claims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsContextKey).(*auth.Claims)
	return claims
}

// UserID returns the authenticated user id, or "" outside the JWT middleware.
func UserID(c echo.Context) string {
	if claims := Claims(c); claims != nil {
		return claims.UserID
	}
	return ""
}
