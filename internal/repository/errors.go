// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrZoneNotFound and ErrTariffNotFound are distinct so that
// pricing callers can tell an unknown region apart from a known region
// with no rate for the requested vehicle and passenger bucket.
package repository

import "errors"

// ErrReservationNotFound is returned when no reservation matches the
// token or folio used to identify it. Handlers translate this into an
// HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrLegNotFound is returned when a reservation exists but does not own
// a leg of the requested kind, e.g. a departure update against an
// arrival-only reservation.
var ErrLegNotFound = errors.New("leg not found")

// ErrZoneNotFound is returned when neither an explicit zone name nor a
// hotel lookup resolves to a pricing zone.
var ErrZoneNotFound = errors.New("zone not found")

// ErrTariffNotFound is returned when the zone is known but no tariff row
// exists for the requested transport type and passenger bucket.
var ErrTariffNotFound = errors.New("tariff not found")

// ErrCodeNotFound is returned when a discount code does not exist.
var ErrCodeNotFound = errors.New("discount code not found")

// ErrDuplicateFolio is returned when an insert collides with an existing
// folio. The reservation writer reacts by renumbering and retrying a
// bounded number of times.
var ErrDuplicateFolio = errors.New("duplicate folio")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, e.g. a provider touching another provider's
// assignment. Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
