package booking

import (
    "errors"
    "testing"
)

func TestFormatFolio(t *testing.T) {
    tests := []struct {
        prefix string
        n      uint64
        want   string
    }{
        {prefix: "TRF", n: 1, want: "TRF-000001"},
        {prefix: "TRF", n: 123456, want: "TRF-123456"},
        {prefix: "TRF", n: 1234567, want: "TRF-1234567"},
        {prefix: "TRF-MX", n: 42, want: "TRF-MX-000042"},
    }
    for _, tt := range tests {
        if got := FormatFolio(tt.prefix, tt.n); got != tt.want {
            t.Errorf("FormatFolio(%q, %d) = %q, want %q", tt.prefix, tt.n, got, tt.want)
        }
    }
}

func TestParseFolio(t *testing.T) {
    tests := []struct {
        folio      string
        wantPrefix string
        wantN      uint64
        wantErr    bool
    }{
        {folio: "TRF-000001", wantPrefix: "TRF", wantN: 1},
        {folio: "TRF-123456", wantPrefix: "TRF", wantN: 123456},
        {folio: "TRF-MX-000042", wantPrefix: "TRF-MX", wantN: 42},
        {folio: "TRF-1234567", wantPrefix: "TRF", wantN: 1234567},
        {folio: "TRF", wantErr: true},
        {folio: "TRF-", wantErr: true},
        {folio: "-000001", wantErr: true},
        {folio: "TRF-abc", wantErr: true},
        {folio: "", wantErr: true},
    }
    for _, tt := range tests {
        prefix, n, err := ParseFolio(tt.folio)
        if tt.wantErr {
            if !errors.Is(err, ErrBadFolio) {
                t.Errorf("ParseFolio(%q) error = %v, want ErrBadFolio", tt.folio, err)
            }
            continue
        }
        if err != nil {
            t.Errorf("ParseFolio(%q) error: %v", tt.folio, err)
            continue
        }
        if prefix != tt.wantPrefix || n != tt.wantN {
            t.Errorf("ParseFolio(%q) = (%q, %d), want (%q, %d)", tt.folio, prefix, n, tt.wantPrefix, tt.wantN)
        }
    }
}

func TestNextFolio(t *testing.T) {
    tests := []struct {
        last    string
        want    string
        wantErr bool
    }{
        {last: "", want: "TRF-000001"},
        {last: "TRF-000001", want: "TRF-000002"},
        {last: "TRF-000999", want: "TRF-001000"},
        {last: "TRF-999999", want: "TRF-1000000"},
        {last: "garbage", wantErr: true},
    }
    for _, tt := range tests {
        got, err := NextFolio("TRF", tt.last)
        if tt.wantErr {
            if err == nil {
                t.Errorf("NextFolio(%q) expected error, got %q", tt.last, got)
            }
            continue
        }
        if err != nil {
            t.Errorf("NextFolio(%q) error: %v", tt.last, err)
            continue
        }
        if got != tt.want {
            t.Errorf("NextFolio(%q) = %q, want %q", tt.last, got, tt.want)
        }
    }
}

func TestFolioRoundTrip(t *testing.T) {
    folio := FormatFolio("TRF", 4242)
    prefix, n, err := ParseFolio(folio)
    if err != nil {
        t.Fatalf("ParseFolio(%q) error: %v", folio, err)
    }
    if prefix != "TRF" || n != 4242 {
        t.Errorf("round trip of %q = (%q, %d)", folio, prefix, n)
    }
}
