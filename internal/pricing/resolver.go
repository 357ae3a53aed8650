package pricing

import (
    "context"
    "errors"

    "github.com/arrecife/transfers/internal/model"
)

// ErrNoZoneInput is returned when a quote carries neither an explicit
// zone nor a hotel to resolve one from.
var ErrNoZoneInput = errors.New("zone or hotel required")

// ZoneSource resolves pricing zones from an explicit name or a hotel.
type ZoneSource interface {
    GetByName(ctx context.Context, name string) (string, error)
    GetByHotel(ctx context.Context, hotel string) (string, error)
}

// TariffSource fetches a tariff row by its lookup key.
type TariffSource interface {
    Get(ctx context.Context, transportType, zone, bucket string) (*model.Tariff, error)
}

// DiscountSource fetches a discount code with its zone list.
type DiscountSource interface {
    GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)
}

// Resolver glues zone lookup, passenger-bucket normalization, discount
// validation and tariff-column selection into the single pricing entry
// point used by quotes and by the reservation writer.
type Resolver struct {
    zones   ZoneSource
    tariffs TariffSource
    codes   DiscountSource
}

// NewResolver constructs a Resolver from its three sources.
func NewResolver(zones ZoneSource, tariffs TariffSource, codes DiscountSource) *Resolver {
    return &Resolver{zones: zones, tariffs: tariffs, codes: codes}
}

// QuoteRequest carries the pricing inputs.  Zone wins over Hotel when both
// are present.  Code is optional.
type QuoteRequest struct {
    TransportType string
    Zone          string
    Hotel         string
    Passengers    string
    Code          string
}

// Quote is a resolved price.  TotalCents equals BaseCents unless a valid
// discount code selected one of the discounted-price columns.
type Quote struct {
    Zone       string  `json:"zone"`
    Bucket     string  `json:"bucket"`
    BaseCents  uint32  `json:"base_cents"`
    TotalCents uint32  `json:"total_cents"`
    Percent    Percent `json:"percent,omitempty"`
}

// ResolveZone resolves the pricing zone: an explicit zone name is looked
// up directly, otherwise the hotel catalogue is consulted.
func (r *Resolver) ResolveZone(ctx context.Context, zone, hotel string) (string, error) {
    if zone != "" {
        return r.zones.GetByName(ctx, zone)
    }
    if hotel != "" {
        return r.zones.GetByHotel(ctx, hotel)
    }
    return "", ErrNoZoneInput
}

// ValidateCode checks a discount code against a transport type and zone
// and returns its percentage.  Source errors (unknown code) pass through
// untouched so callers can distinguish not-found from ineligible.
func (r *Resolver) ValidateCode(ctx context.Context, code, transportType, zone string) (Percent, error) {
    dc, err := r.codes.GetByCode(ctx, code)
    if err != nil {
        return "", err
    }
    return Eligible(dc, transportType, zone)
}

// Price resolves a full quote.  Zone lookup, bucket normalization and
// tariff lookup happen in that order so the distinct not-found conditions
// surface in a stable way.  A discount code failing validation fails the
// quote; a caller wanting base price despite a bad code must omit it.
func (r *Resolver) Price(ctx context.Context, req QuoteRequest) (Quote, error) {
    zone, err := r.ResolveZone(ctx, req.Zone, req.Hotel)
    if err != nil {
        return Quote{}, err
    }
    bucket, err := Bucket(req.Passengers)
    if err != nil {
        return Quote{}, err
    }
    tariff, err := r.tariffs.Get(ctx, req.TransportType, zone, bucket)
    if err != nil {
        return Quote{}, err
    }
    q := Quote{
        Zone:       zone,
        Bucket:     bucket,
        BaseCents:  tariff.BaseCents,
        TotalCents: tariff.BaseCents,
    }
    if req.Code != "" {
        pct, err := r.ValidateCode(ctx, req.Code, req.TransportType, zone)
        if err != nil {
            return Quote{}, err
        }
        discounted, err := PriceFor(tariff, pct)
        if err != nil {
            return Quote{}, err
        }
        q.Percent = pct
        q.TotalCents = discounted
    }
    return q, nil
}
