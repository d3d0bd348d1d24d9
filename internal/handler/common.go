// Package handler contains the HTTP endpoints. Handlers bind and
// validate input, call repositories or services with a bounded
// context, and translate sentinel errors into status codes.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vkorchik/train-station-api/internal/repository"
	"github.com/vkorchik/train-station-api/internal/service"
)

const dbTimeout = 5 * time.Second

// reqCtx bounds a request-scoped database call.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// currentUserID extracts the authenticated user's ID placed in the
// context by the JWT middleware. The claim arrives in whatever numeric
// form the token parser produced.
func currentUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return v, true
	case float64:
		return uint64(v), true
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// writeRepoErr maps sentinel errors from the repository and service
// layers onto HTTP responses. Unknown errors become 500 with a generic
// message so internals never leak to clients.
func writeRepoErr(c echo.Context, err error) error {
	var oor *service.OutOfRangeError
	switch {
	case errors.Is(err, repository.ErrTrainTypeNotFound),
		errors.Is(err, repository.ErrTrainNotFound),
		errors.Is(err, repository.ErrStationNotFound),
		errors.Is(err, repository.ErrRouteNotFound),
		errors.Is(err, repository.ErrCrewNotFound),
		errors.Is(err, repository.ErrTripNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSeatTaken),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyOrder):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &oor):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
