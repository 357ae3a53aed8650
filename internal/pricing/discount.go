package pricing

import (
    "errors"
    "strings"

    "github.com/arrecife/transfers/internal/model"
)

// Percent is a supported discount percentage.  Only three discrete values
// exist; each maps to its own pre-computed price column on the tariff
// row.  Anything else stored on a code is rejected at validation time,
// never rounded.
type Percent string

const (
    Percent13   Percent = "13"
    Percent13_5 Percent = "13.5"
    Percent15   Percent = "15"
)

// GlobalZone is the wildcard marker in a discount code's zone list that
// makes the code valid in every zone.
const GlobalZone = "GLOBAL"

// ErrIneligible is returned when a discount code exists but fails any
// eligibility predicate: inactive, transport-type mismatch or zone not
// covered.  There are no partial matches and no fallback ordering.
var ErrIneligible = errors.New("discount code not eligible")

// ErrUnsupportedPercent is returned when a code's stored percentage has
// no corresponding price column.
var ErrUnsupportedPercent = errors.New("unsupported discount percentage")

// NormalizePercent maps a stored decimal string onto a Percent, trimming
// an insignificant trailing ".0" (DECIMAL columns scan as "13.0").
// ErrUnsupportedPercent is returned for any value outside the supported
// set.
func NormalizePercent(s string) (Percent, error) {
    v := strings.TrimSpace(s)
    v = strings.TrimSuffix(v, ".0")
    switch Percent(v) {
    case Percent13, Percent13_5, Percent15:
        return Percent(v), nil
    }
    return "", ErrUnsupportedPercent
}

// Eligible checks a discount code against the requested transport type
// and zone and returns its percentage.  Eligibility requires the code to
// be active, the transport type to match case-insensitively, the zone
// list to contain the requested zone or the GLOBAL wildcard, and the
// stored percentage to be one of the supported values.
func Eligible(dc *model.DiscountCode, transportType, zone string) (Percent, error) {
    if !dc.Active {
        return "", ErrIneligible
    }
    if !strings.EqualFold(strings.TrimSpace(transportType), dc.TransportType) {
        return "", ErrIneligible
    }
    zone = strings.ToUpper(strings.TrimSpace(zone))
    covered := false
    for _, z := range dc.Zones {
        z = strings.ToUpper(strings.TrimSpace(z))
        if z == GlobalZone || z == zone {
            covered = true
            break
        }
    }
    if !covered {
        return "", ErrIneligible
    }
    return NormalizePercent(dc.Percent)
}

// PriceFor selects the pre-computed price column matching the percentage.
// Discounted prices are looked up, never derived from the base price, so
// a zero column means the tariff row was never priced for that
// percentage and the discount cannot take effect.
func PriceFor(t *model.Tariff, p Percent) (uint32, error) {
    var cents uint32
    switch p {
    case Percent13:
        cents = t.Disc13Cents
    case Percent13_5:
        cents = t.Disc13_5Cents
    case Percent15:
        cents = t.Disc15Cents
    default:
        return 0, ErrUnsupportedPercent
    }
    if cents == 0 {
        return 0, ErrUnsupportedPercent
    }
    return cents, nil
}
