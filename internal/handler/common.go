package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/arrecife/transfers/internal/booking"
    "github.com/arrecife/transfers/internal/pricing"
    "github.com/arrecife/transfers/internal/repository"
)

// writeError translates core errors into HTTP responses.  Validation
// problems carry field context, the distinct not-found conditions keep
// their messages, and anything unexpected is genericized so store errors
// never leak to callers.
func writeError(c echo.Context, err error) error {
    var ve *booking.ValidationError
    if errors.As(err, &ve) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Reason, "field": ve.Field})
    }
    switch {
    case errors.Is(err, pricing.ErrBadPassengerCount),
        errors.Is(err, pricing.ErrNoZoneInput),
        errors.Is(err, pricing.ErrIneligible):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, pricing.ErrUnsupportedPercent):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrZoneNotFound),
        errors.Is(err, repository.ErrTariffNotFound),
        errors.Is(err, repository.ErrCodeNotFound),
        errors.Is(err, repository.ErrReservationNotFound),
        errors.Is(err, repository.ErrLegNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrLegFinalized):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    c.Logger().Errorf("internal error: %v", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// parseWhen parses a timestamp accepted from clients: RFC3339 when an
// offset is supplied, else a local wall-clock time interpreted in the
// service time zone.
func parseWhen(s string, loc *time.Location) (time.Time, error) {
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, nil
    }
    if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
        return t, nil
    }
    return time.ParseInLocation("2006-01-02 15:04:05", s, loc)
}

// errInvalidRange marks a reporting range whose end precedes its start.
var errInvalidRange = errors.New("invalid range")

// parseDay parses a YYYY-MM-DD report date anchored in UTC, matching
// the storage zone of created_at ranges.
func parseDay(s string) (time.Time, error) {
    return time.Parse("2006-01-02", s)
}

// parseDayIn parses a YYYY-MM-DD service day anchored in the given
// location, so day windows over trip schedules fall on the service
// time zone's midnight.
func parseDayIn(s string, loc *time.Location) (time.Time, error) {
    return time.ParseInLocation("2006-01-02", s, loc)
}
