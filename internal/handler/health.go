package handler // declare the package name; contains HTTP handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health is a plain liveness probe for load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Healthz mirrors Health under the path some uptime monitors expect.
func Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Ping answers GET /api/ping with a timestamp so the front-end can detect a
// sleeping instance and warm it up.
func Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}
