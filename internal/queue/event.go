// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published after a reservation row commits.
// It carries enough for the notification worker to compose and deliver
// the confirmation email without querying the primary database.
type ReservationCreatedEvent struct {
    EventID       string `json:"event_id"`
    Folio         string `json:"folio"`
    Token         string `json:"token"`
    TripType      string `json:"trip_type"`
    TransportType string `json:"transport_type"`
    CustomerName  string `json:"customer_name"`
    CustomerEmail string `json:"customer_email"`
    Hotel         string `json:"hotel"`
    Zone          string `json:"zone"`
    TotalCents    uint32 `json:"total_cents"`
    CheckinURL    string `json:"checkin_url"`
    CreatedAt     string `json:"created_at"`
}
