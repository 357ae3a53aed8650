package handler

import (
    "encoding/csv"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/arrecife/transfers/internal/model"
    "github.com/arrecife/transfers/internal/repository"
)

// ReportsHandler serves the back-office reporting surface: per-day
// arrival and departure manifests, revenue aggregates with an optional
// comparison range, and the raw CSV export.
type ReportsHandler struct {
    Reservations *repository.ReservationRepo
    Loc          *time.Location
}

func NewReportsHandler(r *repository.ReservationRepo, loc *time.Location) *ReportsHandler {
    return &ReportsHandler{Reservations: r, Loc: loc}
}

// Arrivals handles GET /v1/reports/arrivals?date=YYYY-MM-DD.
func (h *ReportsHandler) Arrivals(c echo.Context) error {
    return h.manifest(c, model.LegArrival)
}

// Departures handles GET /v1/reports/departures?date=YYYY-MM-DD.
func (h *ReportsHandler) Departures(c echo.Context) error {
    return h.manifest(c, model.LegDeparture)
}

func (h *ReportsHandler) manifest(c echo.Context, kind model.LegKind) error {
    day, err := parseDayIn(c.QueryParam("date"), h.Loc)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    rows, err := h.Reservations.ListLegsByDay(c.Request().Context(), kind, day, 0)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "date":  day.Format("2006-01-02"),
        "kind":  kind,
        "items": rows,
    })
}

// Revenue handles GET /v1/reports/revenue?from=&to=&prev_from=&prev_to=.
// The comparison range is optional and, when present, both bounds are
// required.
func (h *ReportsHandler) Revenue(c echo.Context) error {
    from, to, err := h.rangeParams(c.QueryParam("from"), c.QueryParam("to"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to must be YYYY-MM-DD with from before to"})
    }

    current, err := h.Reservations.RevenueByTripType(c.Request().Context(), from, to)
    if err != nil {
        return writeError(c, err)
    }
    resp := echo.Map{
        "from":    c.QueryParam("from"),
        "to":      c.QueryParam("to"),
        "current": current,
    }

    cf, ct := c.QueryParam("prev_from"), c.QueryParam("prev_to")
    if cf != "" || ct != "" {
        pfrom, pto, err := h.rangeParams(cf, ct)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "prev_from and prev_to must be YYYY-MM-DD with prev_from before prev_to"})
        }
        previous, err := h.Reservations.RevenueByTripType(c.Request().Context(), pfrom, pto)
        if err != nil {
            return writeError(c, err)
        }
        resp["prev_from"] = cf
        resp["prev_to"] = ct
        resp["previous"] = previous
    }

    return c.JSON(http.StatusOK, resp)
}

// ExportCSV handles GET /v1/reports/export.csv?from=&to= and streams the
// reservation rows of the range as a CSV attachment.
func (h *ReportsHandler) ExportCSV(c echo.Context) error {
    from, to, err := h.rangeParams(c.QueryParam("from"), c.QueryParam("to"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to must be YYYY-MM-DD with from before to"})
    }

    rows, err := h.Reservations.ListCreatedBetween(c.Request().Context(), from, to)
    if err != nil {
        return writeError(c, err)
    }

    res := c.Response()
    res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
    res.Header().Set(echo.HeaderContentDisposition,
        `attachment; filename="reservations_`+from.Format("20060102")+`_`+to.AddDate(0, 0, -1).Format("20060102")+`.csv"`)
    res.WriteHeader(http.StatusOK)

    w := csv.NewWriter(res)
    header := []string{
        "folio", "created_at", "trip_type", "transport_type",
        "customer_name", "customer_email", "customer_phone", "customer_note",
        "hotel", "zone", "passengers", "bucket",
        "base_cents", "discount_code", "discount_percent", "total_cents",
        "provider_folio", "notify_state",
    }
    if err := w.Write(header); err != nil {
        return err
    }
    for _, r := range rows {
        record := []string{
            r.Folio,
            r.CreatedAt.Format(time.RFC3339),
            string(r.TripType),
            r.TransportType,
            r.CustomerName,
            r.CustomerEmail,
            r.CustomerPhone,
            r.CustomerNote,
            r.Hotel,
            r.Zone,
            r.PassengerText,
            r.Bucket,
            strconv.FormatUint(uint64(r.BaseCents), 10),
            r.DiscountCode,
            r.Percent,
            strconv.FormatUint(uint64(r.TotalCents), 10),
            deref(r.ProviderFolio),
            notifyStr(r.NotifyState),
        }
        if err := w.Write(record); err != nil {
            return err
        }
    }
    w.Flush()
    return w.Error()
}

// rangeParams parses a [from, to) reporting range; to is exclusive and
// advanced by one day so a same-day range covers the whole day.
func (h *ReportsHandler) rangeParams(fromStr, toStr string) (time.Time, time.Time, error) {
    from, err := parseDay(fromStr)
    if err != nil {
        return time.Time{}, time.Time{}, err
    }
    to, err := parseDay(toStr)
    if err != nil {
        return time.Time{}, time.Time{}, err
    }
    if to.Before(from) {
        return time.Time{}, time.Time{}, errInvalidRange
    }
    return from, to.AddDate(0, 0, 1), nil
}

func deref(s *string) string {
    if s == nil {
        return ""
    }
    return *s
}

func notifyStr(st *model.NotifyState) string {
    if st == nil {
        return ""
    }
    return string(*st)
}
