package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
)

var dataFilePattern = regexp.MustCompile(`(?i)\.(json|db)$`)

// BlockDataFiles refuses direct requests for .json/.db paths so the static
// file handler can never expose the ledger or the user directory.
func BlockDataFiles(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if dataFilePattern.MatchString(c.Request().URL.Path) {
			return c.String(http.StatusForbidden, "Forbidden")
		}
		return next(c)
	}
}
