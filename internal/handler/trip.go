package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/arrecife/transfers/internal/booking"
    "github.com/arrecife/transfers/internal/model"
)

// TripHandler receives trip-data updates from drivers and providers:
// assignment details (driver, unit), confirmed passenger counts, pickup
// and dropoff timestamps, and the rider signature reference.
type TripHandler struct {
    Machine *booking.Machine
    Loc     *time.Location
}

func NewTripHandler(m *booking.Machine, loc *time.Location) *TripHandler {
    return &TripHandler{Machine: m, Loc: loc}
}

type tripUpdateReq struct {
    Token        string  `json:"token"`
    Folio        string  `json:"folio"`
    DriverName   *string `json:"driver_name"`
    UnitNumber   *string `json:"unit_number"`
    Passengers   *uint32 `json:"passengers"`
    Comment      *string `json:"comment"`
    SignatureRef *string `json:"signature_ref"`
    StartedAt    *string `json:"started_at"`
    EndedAt      *string `json:"ended_at"`
}

// Update handles PATCH /v1/trips, the generic single-leg shape.
func (h *TripHandler) Update(c echo.Context) error {
    return h.update(c, nil)
}

// UpdateArrival handles PATCH /v1/trips/arrival.
func (h *TripHandler) UpdateArrival(c echo.Context) error {
    k := model.LegArrival
    return h.update(c, &k)
}

// UpdateDeparture handles PATCH /v1/trips/departure.
func (h *TripHandler) UpdateDeparture(c echo.Context) error {
    k := model.LegDeparture
    return h.update(c, &k)
}

func (h *TripHandler) update(c echo.Context, kind *model.LegKind) error {
    var req tripUpdateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    in := booking.UpdateInput{
        Token:        strings.TrimSpace(req.Token),
        Folio:        strings.TrimSpace(req.Folio),
        Kind:         kind,
        DriverName:   req.DriverName,
        UnitNumber:   req.UnitNumber,
        Passengers:   req.Passengers,
        Comment:      req.Comment,
        SignatureRef: req.SignatureRef,
    }

    var err error
    if in.StartedAt, err = h.when(req.StartedAt); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid started_at"})
    }
    if in.EndedAt, err = h.when(req.EndedAt); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ended_at"})
    }

    res, err := h.Machine.Update(c.Request().Context(), in)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, reservationView(res))
}

func (h *TripHandler) when(s *string) (*time.Time, error) {
    if s == nil || strings.TrimSpace(*s) == "" {
        return nil, nil
    }
    t, err := parseWhen(strings.TrimSpace(*s), h.Loc)
    if err != nil {
        return nil, err
    }
    return &t, nil
}
