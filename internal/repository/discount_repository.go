package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/arrecife/transfers/internal/model"
)

// DiscountRepo reads discount codes and their zone lists.  Eligibility
// rules (zone membership, transport match, supported percentages) live in
// the pricing package; this repository only fetches the stored record.
type DiscountRepo struct {
    db *sql.DB
}

// NewDiscountRepo constructs a DiscountRepo with the given DB handle.
func NewDiscountRepo(db *sql.DB) *DiscountRepo {
    return &DiscountRepo{db: db}
}

// GetByCode returns the discount code matching the trimmed,
// case-insensitive code string together with its zone list.  The percent
// is returned exactly as stored; validation of supported percentages is
// the caller's concern.  ErrCodeNotFound is returned when no code
// matches.
func (r *DiscountRepo) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
    const q = `SELECT id, code, transport_type, percent, active
               FROM discount_codes
               WHERE UPPER(code) = ?
               LIMIT 1`
    var dc model.DiscountCode
    err := r.db.QueryRowContext(ctx, q,
        strings.ToUpper(strings.TrimSpace(code))).
        Scan(&dc.ID, &dc.Code, &dc.TransportType, &dc.Percent, &dc.Active)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrCodeNotFound
    }
    if err != nil {
        return nil, err
    }
    const zoneQ = `SELECT zone FROM discount_code_zones WHERE code_id = ? ORDER BY zone`
    rows, err := r.db.QueryContext(ctx, zoneQ, dc.ID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var z string
        if err := rows.Scan(&z); err != nil {
            return nil, err
        }
        dc.Zones = append(dc.Zones, z)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return &dc, nil
}
