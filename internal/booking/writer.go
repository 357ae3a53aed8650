package booking

import (
    "context"
    "errors"
    "log"

    "github.com/arrecife/transfers/internal/model"
    "github.com/arrecife/transfers/internal/pricing"
    "github.com/arrecife/transfers/internal/repository"
)

// maxFolioAttempts bounds the renumber-and-retry loop that closes the
// folio race: two concurrent creations can read the same last folio, the
// UNIQUE index rejects the loser and it retries with a fresh number.
const maxFolioAttempts = 3

// Store is the persistence surface the writer needs.
type Store interface {
    LastFolio(ctx context.Context, prefix string) (string, error)
    Create(ctx context.Context, res *model.Reservation) error
    SetNotifyState(ctx context.Context, id uint64, st model.NotifyState) error
}

// Pricer resolves zones and quotes.  *pricing.Resolver satisfies it.
type Pricer interface {
    Price(ctx context.Context, req pricing.QuoteRequest) (pricing.Quote, error)
    ResolveZone(ctx context.Context, zone, hotel string) (string, error)
}

// Notifier attempts delivery of the reservation confirmation.  Failures
// are recorded on the reservation but never escalate to the creation
// caller.
type Notifier interface {
    ReservationCreated(ctx context.Context, res *model.Reservation) error
}

// Writer orchestrates folio generation, token issuance, zone and price
// resolution and the reservation insert; it is the central write path.
type Writer struct {
    store    Store
    pricer   Pricer
    notifier Notifier
    prefix   string
}

// NewWriter constructs a Writer.  notifier may be nil, in which case no
// delivery is attempted and the notification state stays unset.
func NewWriter(store Store, pricer Pricer, notifier Notifier, folioPrefix string) *Writer {
    return &Writer{store: store, pricer: pricer, notifier: notifier, prefix: folioPrefix}
}

// Create validates the payload, issues a folio and a token, resolves zone
// and price when the pricing inputs are present, and persists the
// reservation with its legs.  After the row commits, notification
// dispatch runs as a best-effort side effect whose outcome is recorded
// back onto the row; the creation call never fails because of it.
func (w *Writer) Create(ctx context.Context, in CreateInput) (*model.Reservation, error) {
    if err := in.Validate(); err != nil {
        return nil, err
    }

    token, err := NewToken()
    if err != nil {
        return nil, err
    }

    res := &model.Reservation{
        Token:         token,
        TripType:      in.TripType,
        TransportType: in.TransportType,
        CustomerName:  in.CustomerName,
        CustomerEmail: in.CustomerEmail,
        CustomerPhone: in.CustomerPhone,
        CustomerNote:  in.CustomerNote,
        Hotel:         in.Hotel,
        PassengerText: in.Passengers,
        DiscountCode:  in.DiscountCode,
    }

    if in.TransportType != "" && in.Passengers != "" && (in.Zone != "" || in.Hotel != "") {
        quote, err := w.pricer.Price(ctx, pricing.QuoteRequest{
            TransportType: in.TransportType,
            Zone:          in.Zone,
            Hotel:         in.Hotel,
            Passengers:    in.Passengers,
            Code:          in.DiscountCode,
        })
        if err != nil {
            return nil, err
        }
        res.Zone = quote.Zone
        res.Bucket = quote.Bucket
        res.BaseCents = quote.BaseCents
        res.TotalCents = quote.TotalCents
        res.Percent = string(quote.Percent)
    } else if in.Zone != "" || in.Hotel != "" {
        // No pricing requested; still record the zone when it resolves so
        // reports can group unpriced reservations geographically.
        if zone, err := w.pricer.ResolveZone(ctx, in.Zone, in.Hotel); err == nil {
            res.Zone = zone
        } else if !errors.Is(err, repository.ErrZoneNotFound) {
            return nil, err
        }
    }

    for _, kind := range model.LegKinds(in.TripType) {
        var src *LegInput
        if kind == model.LegArrival {
            src = in.Arrival
        } else {
            src = in.Departure
        }
        res.Legs = append(res.Legs, model.Leg{
            Kind:         kind,
            ScheduledAt:  src.ScheduledAt,
            Airline:      src.Airline,
            FlightNumber: src.FlightNumber,
            Status:       model.LegUnset,
        })
    }

    for attempt := 0; attempt < maxFolioAttempts; attempt++ {
        last, err := w.store.LastFolio(ctx, w.prefix)
        if err != nil {
            return nil, err
        }
        folio, err := NextFolio(w.prefix, last)
        if err != nil {
            return nil, err
        }
        res.Folio = folio
        err = w.store.Create(ctx, res)
        if errors.Is(err, repository.ErrDuplicateFolio) {
            continue
        }
        if err != nil {
            return nil, err
        }
        w.dispatch(ctx, res)
        return res, nil
    }
    return nil, repository.ErrDuplicateFolio
}

// dispatch attempts notification delivery and records the outcome.  All
// failures are recovered locally: logged, written as state, swallowed.
func (w *Writer) dispatch(ctx context.Context, res *model.Reservation) {
    if w.notifier == nil {
        return
    }
    state := model.NotifySent
    if err := w.notifier.ReservationCreated(ctx, res); err != nil {
        log.Printf("booking: notification for %s failed: %v", res.Folio, err)
        state = model.NotifyError
    }
    res.NotifyState = &state
    if err := w.store.SetNotifyState(ctx, res.ID, state); err != nil {
        log.Printf("booking: recording notify state for %s failed: %v", res.Folio, err)
    }
}
