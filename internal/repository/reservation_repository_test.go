package repository

import (
    "testing"
    "time"
)

func TestDayWindow(t *testing.T) {
    cancun := time.FixedZone("Cancun", -5*3600)

    day, err := time.ParseInLocation("2006-01-02", "2026-03-14", cancun)
    if err != nil {
        t.Fatalf("parse day: %v", err)
    }
    start, end := dayWindow(day)

    if !start.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, cancun)) {
        t.Errorf("start = %v, want local midnight", start)
    }
    if !end.Equal(start.Add(24 * time.Hour)) {
        t.Errorf("end = %v, want start+24h", end)
    }

    // A leg scheduled 23:30 service time belongs to the local day even
    // though it is already past midnight in UTC.
    late := time.Date(2026, 3, 14, 23, 30, 0, 0, cancun)
    if late.Before(start) || !late.Before(end) {
        t.Errorf("23:30 local not inside [%v, %v)", start, end)
    }
    utcStart := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
    if late.UTC().Before(utcStart.Add(24 * time.Hour)) {
        t.Errorf("fixture not near midnight: %v should cross the UTC day boundary", late.UTC())
    }

    // Anchoring the same date in UTC yields the UTC window, so the
    // caller's location decides where midnight falls.
    s2, _ := dayWindow(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
    if !s2.Equal(utcStart) {
        t.Errorf("UTC-anchored start = %v, want %v", s2, utcStart)
    }
}
