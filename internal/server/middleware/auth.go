package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware validates the bearer token against the configured JWKS. When
// no key set is configured the deployment runs open and every request passes.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		app := c.(*AppContext).App
		if app.Key == nil {
			return next(c)
		}

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		token := strings.Split(authHeader, " ")[1]

		k := *app.Key
		parsed, err := jwt.Parse(token, k.Keyfunc)
		if err != nil || !parsed.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		subject := ""
		if sub, ok := claims["sub"].(string); ok {
			subject = sub
		}

		role := "user"
		if roleClaim, ok := claims["role"].(string); ok {
			role = roleClaim
		}

		c.(*AppContext).User = &AppUser{
			Subject: subject,
			Role:    role,
		}

		return next(c)
	}
}
