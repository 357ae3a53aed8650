package model

// Zone is a geographic pricing region.  Hotels map onto zones through the
// zone_hotels lookup table; tariffs are keyed by zone name.
type Zone struct {
    ID   uint64 // zones.id
    Name string // zones.name (upper-case, e.g. "NORTH")
}

// Tariff is one pricing row keyed by (transport type, zone, passenger
// bucket).  Discounted prices are stored per supported percentage and
// looked up, never computed from the base price.
type Tariff struct {
    ID            uint64 // tariffs.id
    TransportType string // tariffs.transport_type
    Zone          string // tariffs.zone
    Bucket        string // tariffs.bucket (e.g. "1-6")
    BaseCents     uint32 // tariffs.base_cents
    Disc13Cents   uint32 // tariffs.disc13_cents (13% column)
    Disc13_5Cents uint32 // tariffs.disc13_5_cents (13.5% column)
    Disc15Cents   uint32 // tariffs.disc15_cents (15% column)
}

// DiscountCode is a promotional code restricted to a transport type and a
// set of zones.  The zone list may contain the literal "GLOBAL" marker,
// which makes the code valid in every zone.
type DiscountCode struct {
    ID            uint64   // discount_codes.id
    Code          string   // discount_codes.code
    TransportType string   // discount_codes.transport_type
    Percent       string   // discount_codes.percent as stored ("13","13.5","15")
    Active        bool     // discount_codes.active
    Zones         []string // discount_code_zones.zone values
}
