package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths bypass session checks: health probes and the login endpoint.
var publicPaths = map[string]bool{
	"/health":     true,
	"/health/db":  true,
	"/auth/login": true,
}

// AuthSkipper returns true for requests whose route should skip session
// verification.
func AuthSkipper(c echo.Context) bool {
	return IsPublicPath(c.Path()) || IsPublicPath(c.Request().URL.Path)
}

// IsPublicPath reports whether path is reachable without a session.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
