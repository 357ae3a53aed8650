package repository // repository holds data access logic for domain entities

import (
    "context"      // context is used to manage deadlines and cancellation
    "database/sql" // sql provides DB primitives
    "errors"       // errors allows sentinel comparisons
    "strings"      // strings normalizes lookup input
)

// ZoneRepo resolves geographic pricing zones.  A zone can be looked up by
// its own name or through the hotel catalogue: zone_hotels maps hotel
// names onto zones and lookups match case-insensitively on a substring of
// the stored hotel name, first hit wins.
type ZoneRepo struct {
    db *sql.DB // db is the underlying database connection
}

// NewZoneRepo constructs a ZoneRepo with the given DB handle.
func NewZoneRepo(db *sql.DB) *ZoneRepo {
    return &ZoneRepo{db: db}
}

// GetByName returns the zone with the given name (case-insensitive).
// ErrZoneNotFound is returned when no zone matches.
func (r *ZoneRepo) GetByName(ctx context.Context, name string) (string, error) {
    const q = `SELECT name FROM zones WHERE UPPER(name) = ? LIMIT 1`
    var zone string
    err := r.db.QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(name))).Scan(&zone)
    if errors.Is(err, sql.ErrNoRows) {
        return "", ErrZoneNotFound
    }
    if err != nil {
        return "", err
    }
    return zone, nil
}

// GetByHotel resolves a zone from a hotel name.  The stored hotel name
// only needs to contain the supplied text, so "Riu Palace" finds the
// catalogue entry "Hotel Riu Palace Las Americas".  The first match in
// catalogue order wins.  ErrZoneNotFound is returned when no hotel
// matches.
func (r *ZoneRepo) GetByHotel(ctx context.Context, hotel string) (string, error) {
    const q = `SELECT z.name
               FROM zone_hotels zh
               JOIN zones z ON z.id = zh.zone_id
               WHERE UPPER(zh.hotel_name) LIKE CONCAT('%', ?, '%')
               ORDER BY zh.id
               LIMIT 1`
    var zone string
    err := r.db.QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(hotel))).Scan(&zone)
    if errors.Is(err, sql.ErrNoRows) {
        return "", ErrZoneNotFound
    }
    if err != nil {
        return "", err
    }
    return zone, nil
}
