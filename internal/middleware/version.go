package middleware

import "github.com/labstack/echo/v4"

// Version is reported by /health and in the X-API-Version header.
const Version = "1.0.0"

// VersionHeader adds the X-API-Version header to every response.
func VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", Version)
			return next(c)
		}
	}
}
