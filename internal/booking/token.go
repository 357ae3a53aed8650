package booking

import (
    "net/url"

    qrcode "github.com/skip2/go-qrcode"

    "github.com/arrecife/transfers/internal/utils"
)

// tokenBytes is the entropy of a check-in token.  24 random bytes encode
// to 48 hex characters; collisions are statistically negligible and no
// uniqueness check is performed against existing tokens.
const tokenBytes = 24

// serviceType is the fixed service-type discriminator embedded in every
// check-in URL so the widget can route the scan.
const serviceType = "transfer"

// NewToken issues an opaque per-reservation check-in token.  Tokens are
// generated once at creation and never reused.
func NewToken() (string, error) {
    return utils.RandomHex(tokenBytes)
}

// CheckinURL deterministically embeds a token and the service-type
// discriminator into the check-in URL template.
func CheckinURL(base, token string) string {
    v := url.Values{}
    v.Set("svc", serviceType)
    v.Set("token", token)
    return base + "?" + v.Encode()
}

// qrSize is the pixel width of rendered check-in QR images.
const qrSize = 256

// RenderQR encodes a check-in URL as a scannable PNG.  Rendering is
// best-effort from the reservation flow's point of view: a failure here
// is reported to the caller and never blocks a reservation from being
// created, since the link itself can be re-rendered any time.
func RenderQR(checkinURL string) ([]byte, error) {
    return qrcode.Encode(checkinURL, qrcode.Medium, qrSize)
}
