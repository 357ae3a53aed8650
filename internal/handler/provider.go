package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/arrecife/transfers/internal/model"
    "github.com/arrecife/transfers/internal/repository"
)

// ProviderHandler serves the transport-provider surface: linking a
// reservation to the provider's own folio, and listing the legs assigned
// to the provider for a service day.
type ProviderHandler struct {
    Users        *repository.UserRepo
    Reservations *repository.ReservationRepo
    Loc          *time.Location
}

func NewProviderHandler(users *repository.UserRepo, reservations *repository.ReservationRepo, loc *time.Location) *ProviderHandler {
    return &ProviderHandler{Users: users, Reservations: reservations, Loc: loc}
}

type linkReq struct {
    ProviderFolio string `json:"provider_folio"`
}

// Link handles POST /v1/provider/reservations/:folio/link.  The acting
// provider is resolved from the authenticated account; accounts without
// a provider row are rejected.
func (h *ProviderHandler) Link(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    prov, err := h.Users.ProviderByUserID(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no provider linked to this account"})
    }

    var req linkReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    providerFolio := strings.TrimSpace(req.ProviderFolio)
    if providerFolio == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "provider_folio is required"})
    }

    folio := c.Param("folio")
    if err := h.Reservations.LinkProvider(c.Request().Context(), folio, prov.ID, providerFolio, time.Now().UTC()); err != nil {
        return writeError(c, err)
    }

    return c.JSON(http.StatusOK, echo.Map{
        "folio":          folio,
        "provider":       prov.Name,
        "provider_folio": providerFolio,
    })
}

// Assignments handles GET /v1/provider/assignments?date=&kind= and
// returns the provider's legs scheduled on the given service day.
func (h *ProviderHandler) Assignments(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    prov, err := h.Users.ProviderByUserID(c.Request().Context(), uid)
    if err != nil {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "no provider linked to this account"})
    }

    day, err := parseDayIn(c.QueryParam("date"), h.Loc)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    kind := model.LegKind(strings.ToUpper(strings.TrimSpace(c.QueryParam("kind"))))
    switch kind {
    case model.LegArrival, model.LegDeparture:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be ARRIVAL or DEPARTURE"})
    }

    rows, err := h.Reservations.ListLegsByDay(c.Request().Context(), kind, day, prov.ID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "date":  day.Format("2006-01-02"),
        "kind":  kind,
        "items": rows,
    })
}
