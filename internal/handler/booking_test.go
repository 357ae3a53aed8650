package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/arrecife/transfers/internal/booking"
    "github.com/arrecife/transfers/internal/model"
    "github.com/arrecife/transfers/internal/pricing"
)

type memStore struct {
    last *model.Reservation
}

func (s *memStore) LastFolio(_ context.Context, _ string) (string, error) { return "", nil }

func (s *memStore) Create(_ context.Context, res *model.Reservation) error {
    res.ID = 1
    s.last = res
    return nil
}

func (s *memStore) SetNotifyState(_ context.Context, _ uint64, _ model.NotifyState) error {
    return nil
}

type noopPricer struct{}

func (noopPricer) Price(_ context.Context, _ pricing.QuoteRequest) (pricing.Quote, error) {
    return pricing.Quote{}, nil
}

func (noopPricer) ResolveZone(_ context.Context, zone, _ string) (string, error) {
    return zone, nil
}

func TestBookingHandler_Create_CarriesCustomerNote(t *testing.T) {
    store := &memStore{}
    w := booking.NewWriter(store, noopPricer{}, nil, "TRF")
    h := NewBookingHandler(w, nil, "https://booking.example.com/checkin", time.UTC)

    body := `{
        "trip_type": "ARRIVAL",
        "customer_name": "Ana Torres",
        "customer_email": "ana@example.com",
        "customer_note": "wheelchair pickup",
        "arrival": {"scheduled_at": "2026-03-14 13:30", "airline": "AM", "flight_number": "AM512"}
    }`
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    if err := h.Create(e.NewContext(req, rec)); err != nil {
        t.Fatalf("Create() error: %v", err)
    }
    if rec.Code != http.StatusCreated {
        t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
    }
    if store.last == nil {
        t.Fatal("no reservation persisted")
    }
    if store.last.CustomerNote != "wheelchair pickup" {
        t.Errorf("customer note = %q, want %q", store.last.CustomerNote, "wheelchair pickup")
    }
}

func TestReservationView_RoundTripsPayloadFields(t *testing.T) {
    at := time.Date(2026, 3, 14, 13, 30, 0, 0, time.UTC)
    res := &model.Reservation{
        Folio:         "TRF-000007",
        Token:         "aabbcc",
        TripType:      model.TripArrival,
        TransportType: "PRIVATE",
        CustomerName:  "Ana Torres",
        CustomerEmail: "ana@example.com",
        CustomerPhone: "+52 998 000 0000",
        CustomerNote:  "wheelchair pickup",
        Hotel:         "Hotel Riu Palace",
        Zone:          "Zone 1",
        PassengerText: "1 - 6 pax",
        Legs: []model.Leg{
            {Kind: model.LegArrival, ScheduledAt: &at, Airline: "AM", FlightNumber: "AM512", Status: model.LegUnset},
        },
    }

    out, err := json.Marshal(reservationView(res))
    if err != nil {
        t.Fatalf("marshal: %v", err)
    }
    var got map[string]interface{}
    if err := json.Unmarshal(out, &got); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }

    want := map[string]string{
        "folio":          "TRF-000007",
        "token":          "aabbcc",
        "customer_name":  "Ana Torres",
        "customer_email": "ana@example.com",
        "customer_phone": "+52 998 000 0000",
        "customer_note":  "wheelchair pickup",
        "hotel":          "Hotel Riu Palace",
        "zone":           "Zone 1",
        "passengers":     "1 - 6 pax",
    }
    for field, val := range want {
        if got[field] != val {
            t.Errorf("view %s = %v, want %q", field, got[field], val)
        }
    }
}
