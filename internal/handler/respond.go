// Package handler exposes the booking core over HTTP.  Handlers bind
// JSON requests, call the service layer, and translate typed failures
// and repository sentinels into status codes.  Amounts cross the wire
// as 2-decimal floats while staying integer cents internally.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/repository"
)

// errUnauthenticated signals that getUserID already wrote the 401
// response; callers must return without writing again.
var errUnauthenticated = errors.New("unauthenticated")

// getUserID reads the authenticated user id injected by the JWT
// middleware.  On a missing or malformed value it writes the 401
// response itself and returns errUnauthenticated.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := c.Get("user_id").(uint64)
	if !ok || id == 0 {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		return 0, errUnauthenticated
	}
	return id, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// centsToAmount converts integer cents into the 2-decimal wire amount.
func centsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// amountToCents converts a wire amount into integer cents, rounding
// half up to absorb float representation noise.
func amountToCents(amount float64) int64 {
	if amount < 0 {
		return int64(amount*100 - 0.5)
	}
	return int64(amount*100 + 0.5)
}

func failureStatus(kind model.FailureKind) int {
	switch kind {
	case model.FailureShowtimeUnavailable:
		return http.StatusNotFound
	case model.FailureSeatsUnavailable:
		return http.StatusConflict
	case model.FailureInvalidSeatCount, model.FailureCouponInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders any service error as a JSON error body.  Typed
// failures carry their own kind and message; repository sentinels map
// to the conventional statuses; everything else is a 500 with the
// detail kept out of the response.
func writeError(c echo.Context, err error) error {
	var f *model.Failure
	if errors.As(err, &f) {
		if f.Kind == model.FailurePersistence {
			log.WithError(err).Error("request failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": string(f.Kind), "message": "internal server error",
			})
		}
		return c.JSON(failureStatus(f.Kind), echo.Map{
			"error": string(f.Kind), "message": f.Message,
		})
	}
	switch {
	case errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrAlreadyTransitioned):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already finalised"})
	default:
		log.WithError(err).Error("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
