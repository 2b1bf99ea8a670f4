package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-listing-api/internal/utils"
)

// JWTAuth returns an Echo middleware that gates a route group behind a
// Bearer access token. A request without a credential is answered with
// 401; a request whose credential fails verification (bad signature,
// wrong method, expired) gets 403, so clients can tell "log in first"
// apart from "log in again". On success the token's subject and username
// claims are stored on the context under "user_id" and "username".
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
			}

			// Leave type assertions to downstream consumers; sub arrives
			// as float64 after JSON decoding of the claims.
			c.Set("user_id", claims["sub"])
			c.Set("username", claims["username"])
			return next(c)
		}
	}
}
