package booking

import (
    "context"
    "errors"
    "testing"

    "github.com/arrecife/transfers/internal/model"
    "github.com/arrecife/transfers/internal/pricing"
    "github.com/arrecife/transfers/internal/repository"
)

type fakeStore struct {
    lastFolio    string
    nextID       uint64
    created      []*model.Reservation
    dupRemaining int
    notifyStates map[uint64]model.NotifyState
}

func newFakeStore() *fakeStore {
    return &fakeStore{notifyStates: map[uint64]model.NotifyState{}}
}

func (s *fakeStore) LastFolio(_ context.Context, _ string) (string, error) {
    return s.lastFolio, nil
}

func (s *fakeStore) Create(_ context.Context, res *model.Reservation) error {
    if s.dupRemaining > 0 {
        s.dupRemaining--
        return repository.ErrDuplicateFolio
    }
    s.nextID++
    res.ID = s.nextID
    s.lastFolio = res.Folio
    cp := *res
    s.created = append(s.created, &cp)
    return nil
}

func (s *fakeStore) SetNotifyState(_ context.Context, id uint64, st model.NotifyState) error {
    s.notifyStates[id] = st
    return nil
}

type fakePricer struct {
    quote   pricing.Quote
    zone    string
    zoneErr error
    err     error
    calls   int
}

func (p *fakePricer) Price(_ context.Context, _ pricing.QuoteRequest) (pricing.Quote, error) {
    p.calls++
    if p.err != nil {
        return pricing.Quote{}, p.err
    }
    return p.quote, nil
}

func (p *fakePricer) ResolveZone(_ context.Context, _, _ string) (string, error) {
    if p.zoneErr != nil {
        return "", p.zoneErr
    }
    return p.zone, nil
}

type fakeNotifier struct {
    err   error
    calls int
}

func (n *fakeNotifier) ReservationCreated(_ context.Context, _ *model.Reservation) error {
    n.calls++
    return n.err
}

func arrivalInput() CreateInput {
    return CreateInput{
        TripType:      model.TripArrival,
        TransportType: "PRIVATE",
        CustomerName:  "Ana Torres",
        CustomerEmail: "ana@example.com",
        Hotel:         "Riu Palace",
        Passengers:    "1-6",
        Arrival:       validLeg(),
    }
}

func TestWriter_Create(t *testing.T) {
    store := newFakeStore()
    pricer := &fakePricer{quote: pricing.Quote{Zone: "Zone 1", Bucket: "1-6", BaseCents: 120000, TotalCents: 120000}}
    notifier := &fakeNotifier{}
    w := NewWriter(store, pricer, notifier, "TRF")

    res, err := w.Create(context.Background(), arrivalInput())
    if err != nil {
        t.Fatalf("Create() error: %v", err)
    }
    if res.Folio != "TRF-000001" {
        t.Errorf("folio = %q, want TRF-000001", res.Folio)
    }
    if len(res.Token) != tokenBytes*2 {
        t.Errorf("token length = %d, want %d", len(res.Token), tokenBytes*2)
    }
    if res.Zone != "Zone 1" || res.Bucket != "1-6" || res.TotalCents != 120000 {
        t.Errorf("pricing not applied: zone=%q bucket=%q total=%d", res.Zone, res.Bucket, res.TotalCents)
    }
    if len(res.Legs) != 1 || res.Legs[0].Kind != model.LegArrival {
        t.Fatalf("legs = %+v, want one arrival leg", res.Legs)
    }
    if res.Legs[0].Status != model.LegUnset {
        t.Errorf("new leg status = %q, want %q", res.Legs[0].Status, model.LegUnset)
    }
    if notifier.calls != 1 {
        t.Errorf("notifier calls = %d, want 1", notifier.calls)
    }
    if store.notifyStates[res.ID] != model.NotifySent {
        t.Errorf("notify state = %q, want %q", store.notifyStates[res.ID], model.NotifySent)
    }
}

func TestWriter_Create_FoliosIncrease(t *testing.T) {
    store := newFakeStore()
    pricer := &fakePricer{quote: pricing.Quote{Zone: "Zone 1", Bucket: "1-6", BaseCents: 1, TotalCents: 1}}
    w := NewWriter(store, pricer, nil, "TRF")

    want := []string{"TRF-000001", "TRF-000002", "TRF-000003"}
    for _, wf := range want {
        res, err := w.Create(context.Background(), arrivalInput())
        if err != nil {
            t.Fatalf("Create() error: %v", err)
        }
        if res.Folio != wf {
            t.Errorf("folio = %q, want %q", res.Folio, wf)
        }
    }
}

func TestWriter_Create_RetriesOnDuplicateFolio(t *testing.T) {
    store := newFakeStore()
    store.dupRemaining = 2
    pricer := &fakePricer{quote: pricing.Quote{Zone: "Zone 1", Bucket: "1-6", BaseCents: 1, TotalCents: 1}}
    w := NewWriter(store, pricer, nil, "TRF")

    res, err := w.Create(context.Background(), arrivalInput())
    if err != nil {
        t.Fatalf("Create() error after retries: %v", err)
    }
    if res.Folio == "" {
        t.Error("empty folio after successful retry")
    }
}

func TestWriter_Create_GivesUpAfterMaxAttempts(t *testing.T) {
    store := newFakeStore()
    store.dupRemaining = maxFolioAttempts
    pricer := &fakePricer{quote: pricing.Quote{Zone: "Zone 1", Bucket: "1-6", BaseCents: 1, TotalCents: 1}}
    w := NewWriter(store, pricer, nil, "TRF")

    if _, err := w.Create(context.Background(), arrivalInput()); !errors.Is(err, repository.ErrDuplicateFolio) {
        t.Errorf("Create() error = %v, want ErrDuplicateFolio", err)
    }
}

func TestWriter_Create_NotificationFailureDoesNotFailCreate(t *testing.T) {
    store := newFakeStore()
    pricer := &fakePricer{quote: pricing.Quote{Zone: "Zone 1", Bucket: "1-6", BaseCents: 1, TotalCents: 1}}
    notifier := &fakeNotifier{err: errors.New("broker down")}
    w := NewWriter(store, pricer, notifier, "TRF")

    res, err := w.Create(context.Background(), arrivalInput())
    if err != nil {
        t.Fatalf("Create() error: %v", err)
    }
    if store.notifyStates[res.ID] != model.NotifyError {
        t.Errorf("notify state = %q, want %q", store.notifyStates[res.ID], model.NotifyError)
    }
    if res.NotifyState == nil || *res.NotifyState != model.NotifyError {
        t.Errorf("reservation notify state = %v, want ERROR", res.NotifyState)
    }
}

func TestWriter_Create_SkipsPricingWithoutInputs(t *testing.T) {
    store := newFakeStore()
    pricer := &fakePricer{zone: "Zone 1"}
    w := NewWriter(store, pricer, nil, "TRF")

    in := arrivalInput()
    in.Passengers = ""
    res, err := w.Create(context.Background(), in)
    if err != nil {
        t.Fatalf("Create() error: %v", err)
    }
    if pricer.calls != 0 {
        t.Errorf("pricer called %d times, want 0", pricer.calls)
    }
    if res.TotalCents != 0 {
        t.Errorf("total = %d, want 0 when pricing skipped", res.TotalCents)
    }
    // Zone still recorded best-effort from the hotel.
    if res.Zone != "Zone 1" {
        t.Errorf("zone = %q, want %q", res.Zone, "Zone 1")
    }
}

func TestWriter_Create_UnresolvableZoneIsNotFatal(t *testing.T) {
    store := newFakeStore()
    pricer := &fakePricer{zoneErr: repository.ErrZoneNotFound}
    w := NewWriter(store, pricer, nil, "TRF")

    in := arrivalInput()
    in.Passengers = ""
    res, err := w.Create(context.Background(), in)
    if err != nil {
        t.Fatalf("Create() error: %v", err)
    }
    if res.Zone != "" {
        t.Errorf("zone = %q, want empty", res.Zone)
    }
}

func TestWriter_Create_PricingErrorFailsCreate(t *testing.T) {
    store := newFakeStore()
    pricer := &fakePricer{err: repository.ErrTariffNotFound}
    w := NewWriter(store, pricer, nil, "TRF")

    if _, err := w.Create(context.Background(), arrivalInput()); !errors.Is(err, repository.ErrTariffNotFound) {
        t.Errorf("Create() error = %v, want ErrTariffNotFound", err)
    }
    if len(store.created) != 0 {
        t.Errorf("reservation persisted despite pricing failure")
    }
}

func TestWriter_Create_RoundTripBuildsBothLegs(t *testing.T) {
    store := newFakeStore()
    pricer := &fakePricer{quote: pricing.Quote{Zone: "Zone 1", Bucket: "1-6", BaseCents: 1, TotalCents: 1}}
    w := NewWriter(store, pricer, nil, "TRF")

    in := arrivalInput()
    in.TripType = model.TripRoundTrip
    in.Departure = validLeg()
    res, err := w.Create(context.Background(), in)
    if err != nil {
        t.Fatalf("Create() error: %v", err)
    }
    if len(res.Legs) != 2 {
        t.Fatalf("legs = %d, want 2", len(res.Legs))
    }
    if res.Legs[0].Kind != model.LegArrival || res.Legs[1].Kind != model.LegDeparture {
        t.Errorf("leg kinds = %q, %q", res.Legs[0].Kind, res.Legs[1].Kind)
    }
}
