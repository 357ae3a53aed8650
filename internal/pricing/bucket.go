// Package pricing implements tariff resolution: passenger-bucket
// normalization, discount-code eligibility and the price-column selection
// rule.  The package holds the pure business rules; row access lives in
// the repository layer behind small source interfaces.
package pricing

import (
    "errors"
    "regexp"
    "strings"
)

// ErrBadPassengerCount is returned when no integer or integer range can
// be extracted from the passenger-count input.  Unparsable input is a
// hard error, never a default bucket.
var ErrBadPassengerCount = errors.New("unparsable passenger count")

// bucketRe matches the first integer-range or bare integer substring in
// free text, e.g. "1-6", "1 - 6 pax", "4 adults".
var bucketRe = regexp.MustCompile(`(\d+)\s*-\s*(\d+)|(\d+)`)

// Bucket extracts the normalized passenger-bucket token from free-text
// passenger-count input.  A range like "1 - 6 personas" normalizes to
// "1-6"; a bare count like "4 adults" normalizes to "4".  The token is
// used verbatim as the tariff lookup key.
func Bucket(text string) (string, error) {
    m := bucketRe.FindStringSubmatch(strings.TrimSpace(text))
    if m == nil {
        return "", ErrBadPassengerCount
    }
    if m[1] != "" {
        return m[1] + "-" + m[2], nil
    }
    return m[3], nil
}
