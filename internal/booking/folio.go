// Package booking implements the reservation write path: folio and token
// issuance, payload validation, the reservation writer and the per-leg
// status machine.  Persistence happens behind small store interfaces so
// the rules are testable without a database.
package booking

import (
    "errors"
    "fmt"
    "strconv"
    "strings"
)

// folioWidth is the zero-padded width of the numeric folio suffix.
const folioWidth = 6

// ErrBadFolio is returned when a stored folio cannot be parsed back into
// a prefix and numeric suffix.
var ErrBadFolio = errors.New("malformed folio")

// FormatFolio renders a folio as PREFIX-NNNNNN.  Suffixes past the padded
// width keep all their digits.
func FormatFolio(prefix string, n uint64) string {
    return fmt.Sprintf("%s-%0*d", prefix, folioWidth, n)
}

// ParseFolio splits a folio into its prefix and numeric suffix.  The
// suffix is everything after the last dash, so prefixes containing dashes
// round-trip.
func ParseFolio(folio string) (string, uint64, error) {
    i := strings.LastIndex(folio, "-")
    if i <= 0 || i == len(folio)-1 {
        return "", 0, ErrBadFolio
    }
    n, err := strconv.ParseUint(folio[i+1:], 10, 64)
    if err != nil {
        return "", 0, ErrBadFolio
    }
    return folio[:i], n, nil
}

// NextFolio computes the folio following last under the given prefix.
// An empty last folio starts the sequence at 1.  A malformed stored folio
// is an error, never silently restarted.
func NextFolio(prefix, last string) (string, error) {
    if last == "" {
        return FormatFolio(prefix, 1), nil
    }
    _, n, err := ParseFolio(last)
    if err != nil {
        return "", err
    }
    return FormatFolio(prefix, n+1), nil
}
