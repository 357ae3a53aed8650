package pricing

import (
    "context"
    "errors"
    "testing"

    "github.com/arrecife/transfers/internal/model"
    "github.com/arrecife/transfers/internal/repository"
)

type fakeZones struct {
    byName  map[string]string
    byHotel map[string]string
}

func (f *fakeZones) GetByName(_ context.Context, name string) (string, error) {
    if z, ok := f.byName[name]; ok {
        return z, nil
    }
    return "", repository.ErrZoneNotFound
}

func (f *fakeZones) GetByHotel(_ context.Context, hotel string) (string, error) {
    if z, ok := f.byHotel[hotel]; ok {
        return z, nil
    }
    return "", repository.ErrZoneNotFound
}

type fakeTariffs struct {
    rows map[string]*model.Tariff
}

func tariffKey(transportType, zone, bucket string) string {
    return transportType + "|" + zone + "|" + bucket
}

func (f *fakeTariffs) Get(_ context.Context, transportType, zone, bucket string) (*model.Tariff, error) {
    if t, ok := f.rows[tariffKey(transportType, zone, bucket)]; ok {
        return t, nil
    }
    return nil, repository.ErrTariffNotFound
}

type fakeCodes struct {
    rows map[string]*model.DiscountCode
}

func (f *fakeCodes) GetByCode(_ context.Context, code string) (*model.DiscountCode, error) {
    if dc, ok := f.rows[code]; ok {
        return dc, nil
    }
    return nil, repository.ErrCodeNotFound
}

func newTestResolver() *Resolver {
    zones := &fakeZones{
        byName:  map[string]string{"ZONE 1": "Zone 1"},
        byHotel: map[string]string{"Riu Palace": "Zone 1"},
    }
    tariffs := &fakeTariffs{rows: map[string]*model.Tariff{
        // Discount columns are deliberately not base*(1-p) so a quote
        // computed arithmetically instead of looked up fails the tests.
        tariffKey("PRIVATE", "Zone 1", "1-6"): {
            BaseCents:     120000,
            Disc13Cents:   105000,
            Disc13_5Cents: 104000,
            Disc15Cents:   99900,
        },
    }}
    codes := &fakeCodes{rows: map[string]*model.DiscountCode{
        "HOTELDEAL": {
            Code:          "HOTELDEAL",
            TransportType: "PRIVATE",
            Percent:       "15",
            Active:        true,
            Zones:         []string{"GLOBAL"},
        },
    }}
    return NewResolver(zones, tariffs, codes)
}

func TestResolver_Price(t *testing.T) {
    r := newTestResolver()
    ctx := context.Background()

    tests := []struct {
        name      string
        req       QuoteRequest
        wantTotal uint32
        wantPct   Percent
        wantErr   error
    }{
        {
            name:      "base price by zone",
            req:       QuoteRequest{TransportType: "PRIVATE", Zone: "ZONE 1", Passengers: "1 - 6 pax"},
            wantTotal: 120000,
        },
        {
            name:      "base price by hotel",
            req:       QuoteRequest{TransportType: "PRIVATE", Hotel: "Riu Palace", Passengers: "1-6"},
            wantTotal: 120000,
        },
        {
            name:      "discounted price comes from the stored column",
            req:       QuoteRequest{TransportType: "PRIVATE", Zone: "ZONE 1", Passengers: "1-6", Code: "HOTELDEAL"},
            wantTotal: 99900,
            wantPct:   Percent15,
        },
        {
            name:    "neither zone nor hotel",
            req:     QuoteRequest{TransportType: "PRIVATE", Passengers: "1-6"},
            wantErr: ErrNoZoneInput,
        },
        {
            name:    "unknown zone",
            req:     QuoteRequest{TransportType: "PRIVATE", Zone: "ZONE 9", Passengers: "1-6"},
            wantErr: repository.ErrZoneNotFound,
        },
        {
            name:    "unparsable passengers",
            req:     QuoteRequest{TransportType: "PRIVATE", Zone: "ZONE 1", Passengers: "some"},
            wantErr: ErrBadPassengerCount,
        },
        {
            name:    "no tariff row",
            req:     QuoteRequest{TransportType: "SHARED", Zone: "ZONE 1", Passengers: "1-6"},
            wantErr: repository.ErrTariffNotFound,
        },
        {
            name:    "unknown code fails the quote",
            req:     QuoteRequest{TransportType: "PRIVATE", Zone: "ZONE 1", Passengers: "1-6", Code: "NOPE"},
            wantErr: repository.ErrCodeNotFound,
        },
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            q, err := r.Price(ctx, tt.req)
            if tt.wantErr != nil {
                if !errors.Is(err, tt.wantErr) {
                    t.Fatalf("Price() error = %v, want %v", err, tt.wantErr)
                }
                return
            }
            if err != nil {
                t.Fatalf("Price() error: %v", err)
            }
            if q.Zone != "Zone 1" {
                t.Errorf("Price() zone = %q, want %q", q.Zone, "Zone 1")
            }
            if q.Bucket != "1-6" {
                t.Errorf("Price() bucket = %q, want %q", q.Bucket, "1-6")
            }
            if q.BaseCents != 120000 {
                t.Errorf("Price() base = %d, want 120000", q.BaseCents)
            }
            if q.TotalCents != tt.wantTotal {
                t.Errorf("Price() total = %d, want %d", q.TotalCents, tt.wantTotal)
            }
            if q.Percent != tt.wantPct {
                t.Errorf("Price() percent = %q, want %q", q.Percent, tt.wantPct)
            }
        })
    }
}

func TestResolver_ResolveZone_ZoneWinsOverHotel(t *testing.T) {
    r := newTestResolver()
    zone, err := r.ResolveZone(context.Background(), "ZONE 1", "Unknown Hotel")
    if err != nil {
        t.Fatalf("ResolveZone() error: %v", err)
    }
    if zone != "Zone 1" {
        t.Errorf("ResolveZone() = %q, want %q", zone, "Zone 1")
    }
}

func TestResolver_ValidateCode_PassesThroughNotFound(t *testing.T) {
    r := newTestResolver()
    if _, err := r.ValidateCode(context.Background(), "NOPE", "PRIVATE", "Zone 1"); !errors.Is(err, repository.ErrCodeNotFound) {
        t.Errorf("ValidateCode() error = %v, want ErrCodeNotFound", err)
    }
    if _, err := r.ValidateCode(context.Background(), "HOTELDEAL", "SHARED", "Zone 1"); !errors.Is(err, ErrIneligible) {
        t.Errorf("ValidateCode() error = %v, want ErrIneligible", err)
    }
}
