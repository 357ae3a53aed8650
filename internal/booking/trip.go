package booking

import (
    "context"
    "errors"
    "time"

    "github.com/arrecife/transfers/internal/model"
    "github.com/arrecife/transfers/internal/repository"
)

// ErrLegFinalized is returned when a timestamp-bearing update targets a
// leg that already finished.  FINALIZED is terminal per leg; late or
// out-of-order timestamps are rejected rather than silently overwriting
// the recorded trip times.
var ErrLegFinalized = errors.New("leg already finalized")

// LegStore is the persistence surface of the leg status machine.
type LegStore interface {
    GetByToken(ctx context.Context, token string) (*model.Reservation, error)
    GetByFolio(ctx context.Context, folio string) (*model.Reservation, error)
    UpdateLeg(ctx context.Context, legID uint64, u repository.LegUpdate) error
}

// UpdateInput is one trip-data update.  The reservation is identified by
// token when present, else folio.  Kind selects the leg on round-trip
// reservations and must be nil for the generic single-leg shape.  All
// data fields are optional; absent fields are left untouched in storage.
type UpdateInput struct {
    Token string
    Folio string
    Kind  *model.LegKind

    DriverName   *string
    UnitNumber   *string
    Passengers   *uint32
    Comment      *string
    SignatureRef *string
    StartedAt    *time.Time
    EndedAt      *time.Time
}

// Machine governs the per-leg lifecycle of existing reservations:
// unset → assigned → finalized, with FINALIZED terminal.  It is invoked
// both by self-service trip updates (token) and by provider or driver
// folio-linked calls.
type Machine struct {
    store LegStore
    loc   *time.Location
}

// NewMachine constructs a Machine.  loc is the fixed service time zone
// trip timestamps are normalized to before storage.
func NewMachine(store LegStore, loc *time.Location) *Machine {
    return &Machine{store: store, loc: loc}
}

// Update applies one partial update to the targeted leg and derives its
// status from the timestamps present in the call: an end timestamp wins
// over a start timestamp when both arrive together, otherwise whichever
// timestamp triggered the update decides.  Calls without timestamps
// leave the status untouched.  The updated reservation is returned.
func (m *Machine) Update(ctx context.Context, in UpdateInput) (*model.Reservation, error) {
    res, err := m.fetch(ctx, in)
    if err != nil {
        return nil, err
    }
    leg, err := m.pick(res, in.Kind)
    if err != nil {
        return nil, err
    }

    upd := repository.LegUpdate{
        DriverName:   in.DriverName,
        UnitNumber:   in.UnitNumber,
        Passengers:   in.Passengers,
        Comment:      in.Comment,
        SignatureRef: in.SignatureRef,
    }
    if in.StartedAt != nil || in.EndedAt != nil {
        if leg.Status == model.LegFinalized {
            return nil, ErrLegFinalized
        }
        status := model.LegAssigned
        if in.StartedAt != nil {
            t := in.StartedAt.In(m.loc)
            upd.StartedAt = &t
        }
        if in.EndedAt != nil {
            t := in.EndedAt.In(m.loc)
            upd.EndedAt = &t
            status = model.LegFinalized
        }
        upd.Status = &status
    }

    if err := m.store.UpdateLeg(ctx, leg.ID, upd); err != nil {
        return nil, err
    }
    return m.fetch(ctx, in)
}

func (m *Machine) fetch(ctx context.Context, in UpdateInput) (*model.Reservation, error) {
    if in.Token != "" {
        return m.store.GetByToken(ctx, in.Token)
    }
    if in.Folio != "" {
        return m.store.GetByFolio(ctx, in.Folio)
    }
    return nil, &ValidationError{Field: "token", Reason: "token or folio required"}
}

// pick selects the targeted leg.  The generic shape (nil kind) is only
// valid for single-leg reservations; round trips own two independent leg
// state machines and callers must address one explicitly.
func (m *Machine) pick(res *model.Reservation, kind *model.LegKind) (*model.Leg, error) {
    if kind == nil {
        if len(res.Legs) != 1 {
            return nil, &ValidationError{Field: "kind", Reason: "required for round-trip reservations"}
        }
        return &res.Legs[0], nil
    }
    leg := res.LegOfKind(*kind)
    if leg == nil {
        return nil, repository.ErrLegNotFound
    }
    return leg, nil
}
