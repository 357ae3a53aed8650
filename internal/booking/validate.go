package booking

import (
    "fmt"
    "strings"
    "time"

    "github.com/arrecife/transfers/internal/model"
)

// ValidationError reports a missing or malformed required input with
// field context so API consumers can highlight the offending control.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// LegInput is the creation payload of one leg.
type LegInput struct {
    ScheduledAt  *time.Time
    Airline      string
    FlightNumber string
}

// CreateInput is the reservation creation payload.  Arrival and Departure
// are required according to the trip type; pricing inputs (transport
// type, passengers, zone or hotel) are optional and skip pricing when
// absent.
type CreateInput struct {
    TripType      model.TripType
    TransportType string
    CustomerName  string
    CustomerEmail string
    CustomerPhone string
    CustomerNote  string
    Hotel         string
    Zone          string
    Passengers    string
    DiscountCode  string
    Arrival       *LegInput
    Departure     *LegInput
}

// Validate enforces the per-trip-type required field groups: arrival
// trips need a complete arrival leg (date/time, airline, flight),
// departure trips a complete departure leg, round trips both.  Customer
// name and email are always required.  The first violation is returned.
func (in *CreateInput) Validate() error {
    switch in.TripType {
    case model.TripArrival, model.TripDeparture, model.TripRoundTrip, model.TripShuttle:
    default:
        return &ValidationError{Field: "trip_type", Reason: "must be ARRIVAL, DEPARTURE, ROUND_TRIP or SHUTTLE"}
    }
    if strings.TrimSpace(in.CustomerName) == "" {
        return &ValidationError{Field: "customer_name", Reason: "required"}
    }
    if strings.TrimSpace(in.CustomerEmail) == "" {
        return &ValidationError{Field: "customer_email", Reason: "required"}
    }
    needsArrival := in.TripType == model.TripArrival || in.TripType == model.TripShuttle || in.TripType == model.TripRoundTrip
    needsDeparture := in.TripType == model.TripDeparture || in.TripType == model.TripRoundTrip
    if needsArrival {
        if err := validateLeg("arrival", in.Arrival); err != nil {
            return err
        }
    }
    if needsDeparture {
        if err := validateLeg("departure", in.Departure); err != nil {
            return err
        }
    }
    return nil
}

func validateLeg(name string, leg *LegInput) error {
    if leg == nil {
        return &ValidationError{Field: name, Reason: "required for this trip type"}
    }
    if leg.ScheduledAt == nil {
        return &ValidationError{Field: name + ".scheduled_at", Reason: "required"}
    }
    if strings.TrimSpace(leg.Airline) == "" {
        return &ValidationError{Field: name + ".airline", Reason: "required"}
    }
    if strings.TrimSpace(leg.FlightNumber) == "" {
        return &ValidationError{Field: name + ".flight_number", Reason: "required"}
    }
    return nil
}
