package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/arrecife/transfers/internal/booking"
    "github.com/arrecife/transfers/internal/model"
    "github.com/arrecife/transfers/internal/repository"
)

// BookingHandler exposes the public reservation surface: creation from
// the booking form, and the check-in lookup reached from the emailed
// link or QR code.
type BookingHandler struct {
    Writer       *booking.Writer
    Reservations *repository.ReservationRepo
    CheckinBase  string
    Loc          *time.Location
}

func NewBookingHandler(w *booking.Writer, r *repository.ReservationRepo, checkinBase string, loc *time.Location) *BookingHandler {
    return &BookingHandler{Writer: w, Reservations: r, CheckinBase: checkinBase, Loc: loc}
}

type legReq struct {
    ScheduledAt  string `json:"scheduled_at"`
    Airline      string `json:"airline"`
    FlightNumber string `json:"flight_number"`
}

type createReservationReq struct {
    TripType      string  `json:"trip_type"`
    TransportType string  `json:"transport_type"`
    CustomerName  string  `json:"customer_name"`
    CustomerEmail string  `json:"customer_email"`
    CustomerPhone string  `json:"customer_phone"`
    CustomerNote  string  `json:"customer_note"`
    Hotel         string  `json:"hotel"`
    Zone          string  `json:"zone"`
    Passengers    string  `json:"passengers"`
    DiscountCode  string  `json:"discount_code"`
    Arrival       *legReq `json:"arrival"`
    Departure     *legReq `json:"departure"`
}

// Create handles POST /v1/reservations.
func (h *BookingHandler) Create(c echo.Context) error {
    var req createReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    in := booking.CreateInput{
        TripType:      model.TripType(strings.ToUpper(strings.TrimSpace(req.TripType))),
        TransportType: strings.TrimSpace(req.TransportType),
        CustomerName:  strings.TrimSpace(req.CustomerName),
        CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
        CustomerPhone: strings.TrimSpace(req.CustomerPhone),
        CustomerNote:  strings.TrimSpace(req.CustomerNote),
        Hotel:         strings.TrimSpace(req.Hotel),
        Zone:          strings.TrimSpace(req.Zone),
        Passengers:    strings.TrimSpace(req.Passengers),
        DiscountCode:  strings.TrimSpace(req.DiscountCode),
    }

    var err error
    if in.Arrival, err = h.legInput(req.Arrival); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrival scheduled_at"})
    }
    if in.Departure, err = h.legInput(req.Departure); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid departure scheduled_at"})
    }

    res, err := h.Writer.Create(c.Request().Context(), in)
    if err != nil {
        return writeError(c, err)
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "folio":       res.Folio,
        "token":       res.Token,
        "checkin_url": booking.CheckinURL(h.CheckinBase, res.Token),
        "total_cents": res.TotalCents,
    })
}

func (h *BookingHandler) legInput(req *legReq) (*booking.LegInput, error) {
    if req == nil {
        return nil, nil
    }
    in := &booking.LegInput{
        Airline:      strings.TrimSpace(req.Airline),
        FlightNumber: strings.TrimSpace(req.FlightNumber),
    }
    if s := strings.TrimSpace(req.ScheduledAt); s != "" {
        t, err := parseWhen(s, h.Loc)
        if err != nil {
            return nil, err
        }
        in.ScheduledAt = &t
    }
    return in, nil
}

// Checkin handles GET /v1/checkin/:token and returns the full
// reservation for the driver-facing check-in view.
func (h *BookingHandler) Checkin(c echo.Context) error {
    token := c.Param("token")
    res, err := h.Reservations.GetByToken(c.Request().Context(), token)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, reservationView(res))
}

// CheckinQR handles GET /v1/checkin/:token/qr and serves a PNG encoding
// of the reservation's check-in URL.
func (h *BookingHandler) CheckinQR(c echo.Context) error {
    token := c.Param("token")
    if _, err := h.Reservations.GetByToken(c.Request().Context(), token); err != nil {
        return writeError(c, err)
    }
    png, err := booking.RenderQR(booking.CheckinURL(h.CheckinBase, token))
    if err != nil {
        c.Logger().Errorf("qr render failed: %v", err)
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "qr render failed"})
    }
    return c.Blob(http.StatusOK, "image/png", png)
}

type legView struct {
    Kind         model.LegKind   `json:"kind"`
    Status       model.LegStatus `json:"status"`
    ScheduledAt  *time.Time      `json:"scheduled_at,omitempty"`
    StartedAt    *time.Time      `json:"started_at,omitempty"`
    EndedAt      *time.Time      `json:"ended_at,omitempty"`
    Airline      string          `json:"airline,omitempty"`
    FlightNumber string          `json:"flight_number,omitempty"`
    DriverName   string          `json:"driver_name,omitempty"`
    UnitNumber   string          `json:"unit_number,omitempty"`
    Passengers   *uint32         `json:"passengers,omitempty"`
    Comment      string          `json:"comment,omitempty"`
    SignatureRef string          `json:"signature_ref,omitempty"`
}

type reservationResp struct {
    Folio         string         `json:"folio"`
    Token         string         `json:"token"`
    TripType      model.TripType `json:"trip_type"`
    TransportType string         `json:"transport_type"`
    CustomerName  string         `json:"customer_name"`
    CustomerEmail string         `json:"customer_email"`
    CustomerPhone string         `json:"customer_phone,omitempty"`
    CustomerNote  string         `json:"customer_note,omitempty"`
    Hotel         string         `json:"hotel,omitempty"`
    Zone          string         `json:"zone,omitempty"`
    Passengers    string         `json:"passengers,omitempty"`
    Bucket        string         `json:"bucket,omitempty"`
    BaseCents     uint32         `json:"base_cents"`
    DiscountCode  string         `json:"discount_code,omitempty"`
    Percent       string         `json:"discount_percent,omitempty"`
    TotalCents    uint32         `json:"total_cents"`
    ProviderFolio *string        `json:"provider_folio,omitempty"`
    CreatedAt     time.Time      `json:"created_at"`
    Legs          []legView      `json:"legs"`
}

func reservationView(r *model.Reservation) reservationResp {
    out := reservationResp{
        Folio:         r.Folio,
        Token:         r.Token,
        TripType:      r.TripType,
        TransportType: r.TransportType,
        CustomerName:  r.CustomerName,
        CustomerEmail: r.CustomerEmail,
        CustomerPhone: r.CustomerPhone,
        CustomerNote:  r.CustomerNote,
        Hotel:         r.Hotel,
        Zone:          r.Zone,
        Passengers:    r.PassengerText,
        Bucket:        r.Bucket,
        BaseCents:     r.BaseCents,
        DiscountCode:  r.DiscountCode,
        Percent:       r.Percent,
        TotalCents:    r.TotalCents,
        ProviderFolio: r.ProviderFolio,
        CreatedAt:     r.CreatedAt,
        Legs:          make([]legView, 0, len(r.Legs)),
    }
    for _, l := range r.Legs {
        out.Legs = append(out.Legs, legView{
            Kind:         l.Kind,
            Status:       l.Status,
            ScheduledAt:  l.ScheduledAt,
            StartedAt:    l.StartedAt,
            EndedAt:      l.EndedAt,
            Airline:      l.Airline,
            FlightNumber: l.FlightNumber,
            DriverName:   l.DriverName,
            UnitNumber:   l.UnitNumber,
            Passengers:   l.Passengers,
            Comment:      l.Comment,
            SignatureRef: l.SignatureRef,
        })
    }
    return out
}
