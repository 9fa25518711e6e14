package http

import (
	"github.com/labstack/echo/v4"
	apperrors "github.com/wekeepgrowing/trendloop-checkout/pkg/errors"
)

// errorJSON renders err as {"error": message} with the status its code maps to.
func errorJSON(c echo.Context, err error) error {
	return c.JSON(apperrors.StatusOf(err), echo.Map{
		"error": apperrors.MessageOf(err),
	})
}
