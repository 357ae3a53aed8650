package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/arrecife/transfers/internal/model"
)

// ReservationRepo provides persistence for reservations and their legs.
// A reservation owns one or two reservation_legs rows keyed by kind, so
// trip-data updates operate uniformly on "the leg of kind K belonging to
// reservation R" instead of dispatching on column families.  All
// timestamp fields are stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to open a
// transaction spanning several repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, folio, token, trip_type, transport_type,
    customer_name, customer_email, customer_phone, customer_note,
    hotel, zone, passenger_text, passenger_bucket,
    base_price_cents, discount_code, discount_percent, total_cents,
    provider_id, provider_folio, provider_assigned_at, notify_state,
    created_at, updated_at`

const legCols = `id, reservation_id, kind, scheduled_at, airline, flight_number,
    driver_name, unit_number, confirmed_passengers, comment, signature_ref,
    started_at, ended_at, status`

// LastFolio returns the highest folio currently stored under the given
// prefix, or an empty string when none exists.  Folios are zero-padded to
// a fixed width, so ordering by length then lexicographically yields the
// numerically largest suffix even past the padding width.
func (r *ReservationRepo) LastFolio(ctx context.Context, prefix string) (string, error) {
    const q = `SELECT folio FROM reservations
               WHERE folio LIKE CONCAT(?, '-%')
               ORDER BY LENGTH(folio) DESC, folio DESC
               LIMIT 1`
    var folio string
    err := r.db.QueryRowContext(ctx, q, prefix).Scan(&folio)
    if errors.Is(err, sql.ErrNoRows) {
        return "", nil
    }
    if err != nil {
        return "", err
    }
    return folio, nil
}

// Create inserts a reservation together with its legs in one transaction
// and populates the generated IDs and timestamps on the passed record.
// A folio collision with a concurrent writer surfaces as ErrDuplicateFolio
// so the caller can renumber and retry.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const q = `INSERT INTO reservations
        (folio, token, trip_type, transport_type,
         customer_name, customer_email, customer_phone, customer_note,
         hotel, zone, passenger_text, passenger_bucket,
         base_price_cents, discount_code, discount_percent, total_cents)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
    result, err := tx.ExecContext(ctx, q,
        res.Folio, res.Token, res.TripType, res.TransportType,
        res.CustomerName, res.CustomerEmail, res.CustomerPhone, res.CustomerNote,
        res.Hotel, res.Zone, res.PassengerText, res.Bucket,
        res.BaseCents, res.DiscountCode, res.Percent, res.TotalCents)
    if err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == 1062 && strings.Contains(me.Message, "folio") {
            return ErrDuplicateFolio
        }
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)

    const legQ = `INSERT INTO reservation_legs
        (reservation_id, kind, scheduled_at, airline, flight_number, status)
        VALUES (?,?,?,?,?,?)`
    for i := range res.Legs {
        leg := &res.Legs[i]
        leg.ReservationID = res.ID
        if leg.Status == "" {
            leg.Status = model.LegUnset
        }
        lres, err := tx.ExecContext(ctx, legQ,
            res.ID, leg.Kind, leg.ScheduledAt, leg.Airline, leg.FlightNumber, leg.Status)
        if err != nil {
            return err
        }
        lid, err := lres.LastInsertId()
        if err != nil {
            return err
        }
        leg.ID = uint64(lid)
    }

    // Query back timestamps and defaults populated by the database.
    const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
    if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByToken returns the full reservation identified by its self check-in
// token, legs included.  ErrReservationNotFound is returned when no row
// matches.
func (r *ReservationRepo) GetByToken(ctx context.Context, token string) (*model.Reservation, error) {
    return r.getBy(ctx, "token", token)
}

// GetByFolio returns the full reservation identified by its folio.
func (r *ReservationRepo) GetByFolio(ctx context.Context, folio string) (*model.Reservation, error) {
    return r.getBy(ctx, "folio", folio)
}

func (r *ReservationRepo) getBy(ctx context.Context, col, val string) (*model.Reservation, error) {
    q := `SELECT ` + reservationCols + ` FROM reservations WHERE ` + col + ` = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, val))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrReservationNotFound
    }
    if err != nil {
        return nil, err
    }
    legQ := `SELECT ` + legCols + ` FROM reservation_legs WHERE reservation_id = ? ORDER BY kind`
    rows, err := r.db.QueryContext(ctx, legQ, res.ID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        leg, err := scanLeg(rows)
        if err != nil {
            return nil, err
        }
        res.Legs = append(res.Legs, leg)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return res, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
    var res model.Reservation
    var providerID sql.NullInt64
    var providerFolio, notifyState sql.NullString
    var providerAt sql.NullTime
    err := row.Scan(
        &res.ID, &res.Folio, &res.Token, &res.TripType, &res.TransportType,
        &res.CustomerName, &res.CustomerEmail, &res.CustomerPhone, &res.CustomerNote,
        &res.Hotel, &res.Zone, &res.PassengerText, &res.Bucket,
        &res.BaseCents, &res.DiscountCode, &res.Percent, &res.TotalCents,
        &providerID, &providerFolio, &providerAt, &notifyState,
        &res.CreatedAt, &res.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if providerID.Valid {
        pid := uint64(providerID.Int64)
        res.ProviderID = &pid
    }
    if providerFolio.Valid {
        pf := providerFolio.String
        res.ProviderFolio = &pf
    }
    if providerAt.Valid {
        at := providerAt.Time
        res.ProviderAt = &at
    }
    if notifyState.Valid {
        st := model.NotifyState(notifyState.String)
        res.NotifyState = &st
    }
    return &res, nil
}

func scanLeg(row rowScanner) (model.Leg, error) {
    var leg model.Leg
    var scheduled, started, ended sql.NullTime
    var passengers sql.NullInt64
    err := row.Scan(
        &leg.ID, &leg.ReservationID, &leg.Kind, &scheduled, &leg.Airline, &leg.FlightNumber,
        &leg.DriverName, &leg.UnitNumber, &passengers, &leg.Comment, &leg.SignatureRef,
        &started, &ended, &leg.Status,
    )
    if err != nil {
        return model.Leg{}, err
    }
    if scheduled.Valid {
        t := scheduled.Time
        leg.ScheduledAt = &t
    }
    if started.Valid {
        t := started.Time
        leg.StartedAt = &t
    }
    if ended.Valid {
        t := ended.Time
        leg.EndedAt = &t
    }
    if passengers.Valid {
        p := uint32(passengers.Int64)
        leg.Passengers = &p
    }
    return leg, nil
}

// LegUpdate carries the optional fields of a trip-data update.  Nil fields
// are left untouched in storage; the repository builds the SET clause from
// the fields that are present.
type LegUpdate struct {
    DriverName   *string
    UnitNumber   *string
    Passengers   *uint32
    Comment      *string
    SignatureRef *string
    StartedAt    *time.Time
    EndedAt      *time.Time
    Status       *model.LegStatus
}

// UpdateLeg applies a partial update to one leg row.  An empty update is a
// no-op.  ErrLegNotFound is returned when the leg row no longer exists.
func (r *ReservationRepo) UpdateLeg(ctx context.Context, legID uint64, u LegUpdate) error {
    sets := make([]string, 0, 8)
    args := make([]interface{}, 0, 9)
    add := func(col string, v interface{}) {
        sets = append(sets, col+" = ?")
        args = append(args, v)
    }
    if u.DriverName != nil {
        add("driver_name", *u.DriverName)
    }
    if u.UnitNumber != nil {
        add("unit_number", *u.UnitNumber)
    }
    if u.Passengers != nil {
        add("confirmed_passengers", *u.Passengers)
    }
    if u.Comment != nil {
        add("comment", *u.Comment)
    }
    if u.SignatureRef != nil {
        add("signature_ref", *u.SignatureRef)
    }
    if u.StartedAt != nil {
        add("started_at", *u.StartedAt)
    }
    if u.EndedAt != nil {
        add("ended_at", *u.EndedAt)
    }
    if u.Status != nil {
        add("status", *u.Status)
    }
    if len(sets) == 0 {
        return nil
    }
    q := `UPDATE reservation_legs SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
    args = append(args, legID)
    result, err := r.db.ExecContext(ctx, q, args...)
    if err != nil {
        return err
    }
    // RowsAffected is zero both for a vanished row and for an update that
    // changed nothing, so verify existence separately only on zero.
    if n, err := result.RowsAffected(); err == nil && n == 0 {
        var exists int
        if err := r.db.QueryRowContext(ctx,
            `SELECT 1 FROM reservation_legs WHERE id = ?`, legID).Scan(&exists); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return ErrLegNotFound
            }
            return err
        }
    }
    return nil
}

// SetNotifyState records the outcome of the last notification attempt on
// the reservation row.  Called after the insert committed; a failure here
// is logged by the caller and never escalated.
func (r *ReservationRepo) SetNotifyState(ctx context.Context, id uint64, st model.NotifyState) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE reservations SET notify_state = ? WHERE id = ?`, st, id)
    return err
}

// LinkProvider records the provider assignment of a reservation: the
// provider's identifier, the folio issued inside the provider's own
// system and the assignment timestamp.  ErrReservationNotFound is
// returned when the folio does not match any reservation.
func (r *ReservationRepo) LinkProvider(ctx context.Context, folio string, providerID uint64, providerFolio string, at time.Time) error {
    result, err := r.db.ExecContext(ctx,
        `UPDATE reservations
         SET provider_id = ?, provider_folio = ?, provider_assigned_at = ?
         WHERE folio = ?`,
        providerID, providerFolio, at, folio)
    if err != nil {
        return err
    }
    if n, err := result.RowsAffected(); err == nil && n == 0 {
        var exists int
        if err := r.db.QueryRowContext(ctx,
            `SELECT 1 FROM reservations WHERE folio = ?`, folio).Scan(&exists); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return ErrReservationNotFound
            }
            return err
        }
    }
    return nil
}

// LegListing is one line of an arrivals/departures report or a provider
// assignment sheet: the leg joined with the reservation that owns it.
type LegListing struct {
    Folio         string           `json:"folio"`
    TripType      model.TripType   `json:"trip_type"`
    TransportType string           `json:"transport_type"`
    CustomerName  string           `json:"customer_name"`
    Hotel         string           `json:"hotel"`
    Zone          string           `json:"zone"`
    Kind          model.LegKind    `json:"kind"`
    ScheduledAt   *string          `json:"scheduled_at"`
    Airline       string           `json:"airline"`
    FlightNumber  string           `json:"flight_number"`
    DriverName    string           `json:"driver_name"`
    UnitNumber    string           `json:"unit_number"`
    Passengers    *uint32          `json:"confirmed_passengers,omitempty"`
    Status        model.LegStatus  `json:"status"`
    ProviderID    *uint64          `json:"provider_id,omitempty"`
}

// dayWindow is the half-open [start, start+24h) range covering the
// calendar day of t in t's own location.  Legs are stored normalized to
// the service time zone, so callers must pass the day anchored there or
// legs near midnight drift onto the neighboring day's manifest.
func dayWindow(t time.Time) (time.Time, time.Time) {
    start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
    return start, start.Add(24 * time.Hour)
}

// ListLegsByDay returns all legs of the given kind scheduled on the given
// calendar day, joined with their reservations and ordered by scheduled
// time.  The day's location decides where midnight falls.  When
// providerID is non-zero the listing is restricted to reservations
// assigned to that provider.
func (r *ReservationRepo) ListLegsByDay(ctx context.Context, kind model.LegKind, day time.Time, providerID uint64) ([]LegListing, error) {
    q := `SELECT res.folio, res.trip_type, res.transport_type, res.customer_name,
                 res.hotel, res.zone, res.provider_id,
                 l.kind, l.scheduled_at, l.airline, l.flight_number,
                 l.driver_name, l.unit_number, l.confirmed_passengers, l.status
          FROM reservation_legs l
          JOIN reservations res ON res.id = l.reservation_id
          WHERE l.kind = ? AND l.scheduled_at >= ? AND l.scheduled_at < ?`
    dayStart, dayEnd := dayWindow(day)
    args := []interface{}{kind, dayStart, dayEnd}
    if providerID != 0 {
        q += ` AND res.provider_id = ?`
        args = append(args, providerID)
    }
    q += ` ORDER BY l.scheduled_at, res.folio`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    listings := make([]LegListing, 0)
    for rows.Next() {
        var l LegListing
        var pid sql.NullInt64
        var scheduled sql.NullTime
        var passengers sql.NullInt64
        if err := rows.Scan(
            &l.Folio, &l.TripType, &l.TransportType, &l.CustomerName,
            &l.Hotel, &l.Zone, &pid,
            &l.Kind, &scheduled, &l.Airline, &l.FlightNumber,
            &l.DriverName, &l.UnitNumber, &passengers, &l.Status,
        ); err != nil {
            return nil, err
        }
        if pid.Valid {
            p := uint64(pid.Int64)
            l.ProviderID = &p
        }
        if scheduled.Valid {
            iso := scheduled.Time.UTC().Format(time.RFC3339)
            l.ScheduledAt = &iso
        }
        if passengers.Valid {
            p := uint32(passengers.Int64)
            l.Passengers = &p
        }
        listings = append(listings, l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return listings, nil
}

// RevenueRow aggregates reservation totals for one trip type within a
// reporting range.
type RevenueRow struct {
    TripType     model.TripType `json:"trip_type"`
    Reservations uint64         `json:"reservations"`
    TotalCents   uint64         `json:"total_cents"`
}

// RevenueByTripType sums reservation totals per trip type for rows created
// in [from, to).  Trip types with no reservations in the range are absent
// from the result.
func (r *ReservationRepo) RevenueByTripType(ctx context.Context, from, to time.Time) ([]RevenueRow, error) {
    const q = `SELECT trip_type, COUNT(*), COALESCE(SUM(total_cents), 0)
               FROM reservations
               WHERE created_at >= ? AND created_at < ?
               GROUP BY trip_type
               ORDER BY trip_type`
    rows, err := r.db.QueryContext(ctx, q, from, to)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]RevenueRow, 0)
    for rows.Next() {
        var row RevenueRow
        if err := rows.Scan(&row.TripType, &row.Reservations, &row.TotalCents); err != nil {
            return nil, err
        }
        out = append(out, row)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ListCreatedBetween returns reservations created in [from, to) without
// their legs, ordered by folio.  Used by the CSV export.
func (r *ReservationRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
    q := `SELECT ` + reservationCols + ` FROM reservations
          WHERE created_at >= ? AND created_at < ?
          ORDER BY folio`
    rows, err := r.db.QueryContext(ctx, q, from, to)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
