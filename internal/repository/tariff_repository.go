package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/arrecife/transfers/internal/model"
)

// TariffRepo reads the tariff table.  Each row is keyed by
// (transport type, zone, passenger bucket) and carries the base price next
// to one pre-computed column per supported discount percentage.
type TariffRepo struct {
    db *sql.DB
}

// NewTariffRepo constructs a TariffRepo with the given DB handle.
func NewTariffRepo(db *sql.DB) *TariffRepo {
    return &TariffRepo{db: db}
}

// Get returns the tariff row for the given key.  Transport type and zone
// match case-insensitively; the bucket must match exactly as normalized
// by the pricing package.  ErrTariffNotFound is returned when no row
// matches.
func (r *TariffRepo) Get(ctx context.Context, transportType, zone, bucket string) (*model.Tariff, error) {
    const q = `SELECT id, transport_type, zone, bucket,
                      base_cents, disc13_cents, disc13_5_cents, disc15_cents
               FROM tariffs
               WHERE UPPER(transport_type) = ? AND UPPER(zone) = ? AND bucket = ?
               LIMIT 1`
    var t model.Tariff
    err := r.db.QueryRowContext(ctx, q,
        strings.ToUpper(strings.TrimSpace(transportType)),
        strings.ToUpper(strings.TrimSpace(zone)),
        bucket,
    ).Scan(&t.ID, &t.TransportType, &t.Zone, &t.Bucket,
        &t.BaseCents, &t.Disc13Cents, &t.Disc13_5Cents, &t.Disc15Cents)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrTariffNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}
