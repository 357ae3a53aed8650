package booking

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/arrecife/transfers/internal/model"
    "github.com/arrecife/transfers/internal/repository"
)

type fakeLegStore struct {
    byToken map[string]*model.Reservation
    byFolio map[string]*model.Reservation
    updates []repository.LegUpdate
}

func newFakeLegStore(res ...*model.Reservation) *fakeLegStore {
    s := &fakeLegStore{
        byToken: map[string]*model.Reservation{},
        byFolio: map[string]*model.Reservation{},
    }
    for _, r := range res {
        s.byToken[r.Token] = r
        s.byFolio[r.Folio] = r
    }
    return s
}

func (s *fakeLegStore) GetByToken(_ context.Context, token string) (*model.Reservation, error) {
    if r, ok := s.byToken[token]; ok {
        return r, nil
    }
    return nil, repository.ErrReservationNotFound
}

func (s *fakeLegStore) GetByFolio(_ context.Context, folio string) (*model.Reservation, error) {
    if r, ok := s.byFolio[folio]; ok {
        return r, nil
    }
    return nil, repository.ErrReservationNotFound
}

func (s *fakeLegStore) UpdateLeg(_ context.Context, legID uint64, u repository.LegUpdate) error {
    s.updates = append(s.updates, u)
    for _, r := range s.byFolio {
        for i := range r.Legs {
            if r.Legs[i].ID != legID {
                continue
            }
            l := &r.Legs[i]
            if u.DriverName != nil {
                l.DriverName = *u.DriverName
            }
            if u.UnitNumber != nil {
                l.UnitNumber = *u.UnitNumber
            }
            if u.Passengers != nil {
                l.Passengers = u.Passengers
            }
            if u.Comment != nil {
                l.Comment = *u.Comment
            }
            if u.SignatureRef != nil {
                l.SignatureRef = *u.SignatureRef
            }
            if u.StartedAt != nil {
                l.StartedAt = u.StartedAt
            }
            if u.EndedAt != nil {
                l.EndedAt = u.EndedAt
            }
            if u.Status != nil {
                l.Status = *u.Status
            }
            return nil
        }
    }
    return repository.ErrLegNotFound
}

func singleLegReservation() *model.Reservation {
    return &model.Reservation{
        ID:       1,
        Folio:    "TRF-000001",
        Token:    "tok-1",
        TripType: model.TripArrival,
        Legs: []model.Leg{
            {ID: 11, Kind: model.LegArrival, Status: model.LegUnset},
        },
    }
}

func roundTripReservation() *model.Reservation {
    return &model.Reservation{
        ID:       2,
        Folio:    "TRF-000002",
        Token:    "tok-2",
        TripType: model.TripRoundTrip,
        Legs: []model.Leg{
            {ID: 21, Kind: model.LegArrival, Status: model.LegUnset},
            {ID: 22, Kind: model.LegDeparture, Status: model.LegUnset},
        },
    }
}

func testMachine(res ...*model.Reservation) (*Machine, *fakeLegStore) {
    store := newFakeLegStore(res...)
    return NewMachine(store, time.UTC), store
}

func TestMachine_Update_StartAssigns(t *testing.T) {
    res := singleLegReservation()
    res.Legs[0].DriverName = "J. Gomez"
    res.Legs[0].UnitNumber = "VAN-07"
    m, _ := testMachine(res)
    start := time.Date(2026, 3, 14, 13, 30, 0, 0, time.UTC)

    got, err := m.Update(context.Background(), UpdateInput{Token: "tok-1", StartedAt: &start})
    if err != nil {
        t.Fatalf("Update() error: %v", err)
    }
    leg := got.Legs[0]
    if leg.Status != model.LegAssigned {
        t.Errorf("status = %q, want %q", leg.Status, model.LegAssigned)
    }
    if leg.StartedAt == nil || !leg.StartedAt.Equal(start) {
        t.Errorf("started_at = %v, want %v", leg.StartedAt, start)
    }
    if leg.EndedAt != nil {
        t.Errorf("ended_at set by a start-only update")
    }
    // Previously recorded assignment data stays untouched.
    if leg.DriverName != "J. Gomez" || leg.UnitNumber != "VAN-07" {
        t.Errorf("assignment fields changed: %q %q", leg.DriverName, leg.UnitNumber)
    }
}

func TestMachine_Update_EndFinalizes(t *testing.T) {
    m, _ := testMachine(singleLegReservation())
    end := time.Date(2026, 3, 14, 14, 10, 0, 0, time.UTC)

    res, err := m.Update(context.Background(), UpdateInput{Token: "tok-1", EndedAt: &end})
    if err != nil {
        t.Fatalf("Update() error: %v", err)
    }
    if res.Legs[0].Status != model.LegFinalized {
        t.Errorf("status = %q, want %q", res.Legs[0].Status, model.LegFinalized)
    }
}

func TestMachine_Update_BothTimestampsFinalize(t *testing.T) {
    m, _ := testMachine(singleLegReservation())
    start := time.Date(2026, 3, 14, 13, 30, 0, 0, time.UTC)
    end := start.Add(40 * time.Minute)

    res, err := m.Update(context.Background(), UpdateInput{Token: "tok-1", StartedAt: &start, EndedAt: &end})
    if err != nil {
        t.Fatalf("Update() error: %v", err)
    }
    leg := res.Legs[0]
    if leg.Status != model.LegFinalized {
        t.Errorf("status = %q, want %q", leg.Status, model.LegFinalized)
    }
    if leg.StartedAt == nil || leg.EndedAt == nil {
        t.Errorf("timestamps not both recorded: %v %v", leg.StartedAt, leg.EndedAt)
    }
}

func TestMachine_Update_FinalizedRejectsTimestamps(t *testing.T) {
    res := singleLegReservation()
    res.Legs[0].Status = model.LegFinalized
    m, store := testMachine(res)
    late := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

    if _, err := m.Update(context.Background(), UpdateInput{Token: "tok-1", StartedAt: &late}); !errors.Is(err, ErrLegFinalized) {
        t.Fatalf("Update() error = %v, want ErrLegFinalized", err)
    }
    if len(store.updates) != 0 {
        t.Errorf("store updated despite finalized leg")
    }
}

func TestMachine_Update_DataOnlyLeavesStatusAlone(t *testing.T) {
    res := singleLegReservation()
    res.Legs[0].Status = model.LegFinalized
    m, _ := testMachine(res)
    driver := "J. Gomez"

    got, err := m.Update(context.Background(), UpdateInput{Token: "tok-1", DriverName: &driver})
    if err != nil {
        t.Fatalf("Update() error: %v", err)
    }
    if got.Legs[0].DriverName != driver {
        t.Errorf("driver = %q, want %q", got.Legs[0].DriverName, driver)
    }
    if got.Legs[0].Status != model.LegFinalized {
        t.Errorf("status changed by data-only update: %q", got.Legs[0].Status)
    }
}

func TestMachine_Update_FolioLookup(t *testing.T) {
    m, _ := testMachine(singleLegReservation())
    unit := "VAN-07"

    got, err := m.Update(context.Background(), UpdateInput{Folio: "TRF-000001", UnitNumber: &unit})
    if err != nil {
        t.Fatalf("Update() error: %v", err)
    }
    if got.Legs[0].UnitNumber != unit {
        t.Errorf("unit = %q, want %q", got.Legs[0].UnitNumber, unit)
    }
}

func TestMachine_Update_RoundTripRequiresKind(t *testing.T) {
    m, _ := testMachine(roundTripReservation())
    start := time.Date(2026, 3, 14, 13, 30, 0, 0, time.UTC)

    _, err := m.Update(context.Background(), UpdateInput{Token: "tok-2", StartedAt: &start})
    var ve *ValidationError
    if !errors.As(err, &ve) {
        t.Fatalf("Update() error = %v, want *ValidationError", err)
    }
}

func TestMachine_Update_RoundTripLegsAreIndependent(t *testing.T) {
    m, _ := testMachine(roundTripReservation())
    end := time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)
    arrival := model.LegArrival

    res, err := m.Update(context.Background(), UpdateInput{Token: "tok-2", Kind: &arrival, EndedAt: &end})
    if err != nil {
        t.Fatalf("Update() error: %v", err)
    }
    if res.LegOfKind(model.LegArrival).Status != model.LegFinalized {
        t.Errorf("arrival status = %q, want FINALIZED", res.LegOfKind(model.LegArrival).Status)
    }
    if res.LegOfKind(model.LegDeparture).Status != model.LegUnset {
        t.Errorf("departure status = %q, want UNSET", res.LegOfKind(model.LegDeparture).Status)
    }

    // The departure leg still accepts its own lifecycle afterwards.
    departure := model.LegDeparture
    start := end.Add(3 * time.Hour)
    res, err = m.Update(context.Background(), UpdateInput{Token: "tok-2", Kind: &departure, StartedAt: &start})
    if err != nil {
        t.Fatalf("Update() departure error: %v", err)
    }
    if res.LegOfKind(model.LegDeparture).Status != model.LegAssigned {
        t.Errorf("departure status = %q, want ASSIGNED", res.LegOfKind(model.LegDeparture).Status)
    }
}

func TestMachine_Update_AbsentKind(t *testing.T) {
    // An arrival-only reservation has no departure leg to address.
    m, _ := testMachine(singleLegReservation())
    departure := model.LegDeparture

    if _, err := m.Update(context.Background(), UpdateInput{Token: "tok-1", Kind: &departure}); !errors.Is(err, repository.ErrLegNotFound) {
        t.Errorf("Update() error = %v, want ErrLegNotFound", err)
    }
}

func TestMachine_Update_UnknownReservation(t *testing.T) {
    m, _ := testMachine(singleLegReservation())
    if _, err := m.Update(context.Background(), UpdateInput{Token: "nope"}); !errors.Is(err, repository.ErrReservationNotFound) {
        t.Errorf("Update() error = %v, want ErrReservationNotFound", err)
    }
}

func TestMachine_Update_NoIdentifier(t *testing.T) {
    m, _ := testMachine(singleLegReservation())
    _, err := m.Update(context.Background(), UpdateInput{})
    var ve *ValidationError
    if !errors.As(err, &ve) {
        t.Errorf("Update() error = %v, want *ValidationError", err)
    }
}

func TestMachine_Update_Idempotent(t *testing.T) {
    m, _ := testMachine(singleLegReservation())
    driver := "J. Gomez"
    in := UpdateInput{Token: "tok-1", DriverName: &driver}

    first, err := m.Update(context.Background(), in)
    if err != nil {
        t.Fatalf("Update() error: %v", err)
    }
    second, err := m.Update(context.Background(), in)
    if err != nil {
        t.Fatalf("repeat Update() error: %v", err)
    }
    if first.Legs[0] != second.Legs[0] {
        t.Errorf("repeated identical update changed state: %+v vs %+v", first.Legs[0], second.Legs[0])
    }
}

func TestMachine_Update_NormalizesToServiceZone(t *testing.T) {
    loc := time.FixedZone("Cancun", -5*3600)
    res := singleLegReservation()
    store := newFakeLegStore(res)
    m := NewMachine(store, loc)

    start := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
    got, err := m.Update(context.Background(), UpdateInput{Token: "tok-1", StartedAt: &start})
    if err != nil {
        t.Fatalf("Update() error: %v", err)
    }
    leg := got.Legs[0]
    if leg.StartedAt == nil {
        t.Fatal("started_at not recorded")
    }
    if leg.StartedAt.Location().String() != "Cancun" {
        t.Errorf("started_at zone = %q, want Cancun", leg.StartedAt.Location())
    }
    if !leg.StartedAt.Equal(start) {
        t.Errorf("started_at instant changed: %v vs %v", leg.StartedAt, start)
    }
}
