package model

import "time"

// TripType classifies a reservation by the legs it owns.  A shuttle is a
// shared-van variant of an arrival and owns an arrival leg only.
type TripType string

const (
    TripArrival   TripType = "ARRIVAL"
    TripDeparture TripType = "DEPARTURE"
    TripRoundTrip TripType = "ROUND_TRIP"
    TripShuttle   TripType = "SHUTTLE"
)

// LegKind identifies one directional portion of a trip.  A round-trip
// reservation owns one leg of each kind; every other trip type owns one.
type LegKind string

const (
    LegArrival   LegKind = "ARRIVAL"
    LegDeparture LegKind = "DEPARTURE"
)

// LegStatus is the derived lifecycle state of a leg.  It is never set
// independently of the timestamps that justify it: a started_at implies
// ASSIGNED, an ended_at implies FINALIZED, and FINALIZED is terminal.
type LegStatus string

const (
    LegUnset     LegStatus = "UNSET"
    LegAssigned  LegStatus = "ASSIGNED"
    LegFinalized LegStatus = "FINALIZED"
)

// NotifyState records the outcome of the last notification attempt for a
// reservation.  It is written after the reservation row commits and a
// failure never rolls the reservation back.
type NotifyState string

const (
    NotifySent  NotifyState = "SENT"
    NotifyError NotifyState = "ERROR"
)

// Reservation is the central entity: one booking for ground transportation
// between the airport and a hotel, identified by a sequential human-facing
// folio and an opaque self check-in token.
//
// Fields:
//  ID            – primary key identifier.
//  Folio         – unique sequential ticket number (PREFIX-NNNNNN).
//  Token         – unique random hex token for unauthenticated check-in.
//  TripType      – ARRIVAL, DEPARTURE, ROUND_TRIP or SHUTTLE.
//  TransportType – vehicle class used for tariff lookup (e.g. "VAN").
//  Legs          – zero, one or two legs keyed by kind.
//  Pricing       – resolved zone, bucket and looked-up prices; immutable
//                  once computed at creation.
type Reservation struct {
    ID            uint64    // reservations.id
    Folio         string    // reservations.folio
    Token         string    // reservations.token
    TripType      TripType  // reservations.trip_type
    TransportType string    // reservations.transport_type
    CustomerName  string    // reservations.customer_name
    CustomerEmail string    // reservations.customer_email
    CustomerPhone string    // reservations.customer_phone
    CustomerNote  string    // reservations.customer_note
    Hotel         string    // reservations.hotel
    Zone          string    // reservations.zone (resolved at creation)
    PassengerText string    // reservations.passenger_text (raw input)
    Bucket        string    // reservations.passenger_bucket (e.g. "1-6")
    BaseCents     uint32    // reservations.base_price_cents
    DiscountCode  string    // reservations.discount_code
    Percent       string    // reservations.discount_percent ("13","13.5","15")
    TotalCents    uint32    // reservations.total_cents
    ProviderID    *uint64   // reservations.provider_id (nullable)
    ProviderFolio *string   // reservations.provider_folio (nullable)
    ProviderAt    *time.Time // reservations.provider_assigned_at (nullable)
    NotifyState   *NotifyState // reservations.notify_state (nullable)
    CreatedAt     time.Time // reservations.created_at
    UpdatedAt     time.Time // reservations.updated_at

    Legs []Leg // reservation_legs rows owned by this reservation
}

// Leg is one directional portion of a trip.  Each leg carries its own
// schedule, flight data, driver assignment and lifecycle timestamps and
// progresses independently of its sibling.
type Leg struct {
    ID            uint64     // reservation_legs.id
    ReservationID uint64     // reservation_legs.reservation_id
    Kind          LegKind    // reservation_legs.kind
    ScheduledAt   *time.Time // reservation_legs.scheduled_at (nullable)
    Airline       string     // reservation_legs.airline
    FlightNumber  string     // reservation_legs.flight_number
    DriverName    string     // reservation_legs.driver_name
    UnitNumber    string     // reservation_legs.unit_number
    Passengers    *uint32    // reservation_legs.confirmed_passengers (nullable)
    Comment       string     // reservation_legs.comment
    SignatureRef  string     // reservation_legs.signature_ref
    StartedAt     *time.Time // reservation_legs.started_at (nullable)
    EndedAt       *time.Time // reservation_legs.ended_at (nullable)
    Status        LegStatus  // reservation_legs.status (derived)
}

// LegKinds returns the leg kinds a reservation of the given trip type owns,
// in storage order.  Shuttle trips behave as arrivals.
func LegKinds(t TripType) []LegKind {
    switch t {
    case TripDeparture:
        return []LegKind{LegDeparture}
    case TripRoundTrip:
        return []LegKind{LegArrival, LegDeparture}
    default: // ARRIVAL and SHUTTLE
        return []LegKind{LegArrival}
    }
}

// LegOfKind returns the reservation's leg of the given kind, or nil when
// the reservation does not own one.
func (r *Reservation) LegOfKind(k LegKind) *Leg {
    for i := range r.Legs {
        if r.Legs[i].Kind == k {
            return &r.Legs[i]
        }
    }
    return nil
}
