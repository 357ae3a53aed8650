package utils

import (
    "crypto/rand"   // secure random number generation
    "encoding/hex"  // hex encoding of random bytes
)

// RandomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.  It backs the per‑reservation
// check‑in tokens.  If the random number generator fails, an error is
// returned and no token is fabricated.
func RandomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
