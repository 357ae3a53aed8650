package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/arrecife/transfers/internal/pricing"
)

// PricingHandler serves ahead-of-booking price quotes and discount code
// validation for the public booking form.
type PricingHandler struct {
    Resolver *pricing.Resolver
}

func NewPricingHandler(r *pricing.Resolver) *PricingHandler {
    return &PricingHandler{Resolver: r}
}

type quoteReq struct {
    TransportType string `json:"transport_type"`
    Zone          string `json:"zone"`
    Hotel         string `json:"hotel"`
    Passengers    string `json:"passengers"`
    DiscountCode  string `json:"discount_code"`
}

// Quote handles POST /v1/pricing/quote.
func (h *PricingHandler) Quote(c echo.Context) error {
    var req quoteReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    q, err := h.Resolver.Price(c.Request().Context(), pricing.QuoteRequest{
        TransportType: strings.TrimSpace(req.TransportType),
        Zone:          strings.TrimSpace(req.Zone),
        Hotel:         strings.TrimSpace(req.Hotel),
        Passengers:    strings.TrimSpace(req.Passengers),
        Code:          strings.TrimSpace(req.DiscountCode),
    })
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, q)
}

type discountReq struct {
    Code          string `json:"code"`
    TransportType string `json:"transport_type"`
    Zone          string `json:"zone"`
}

// ValidateDiscount handles POST /v1/pricing/discount.  Unknown codes are
// 404; known codes that do not apply to the given transport type or zone
// come back eligible=false rather than as an error, so the form can show
// the reason inline without a retry.
func (h *PricingHandler) ValidateDiscount(c echo.Context) error {
    var req discountReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    pct, err := h.Resolver.ValidateCode(c.Request().Context(),
        strings.TrimSpace(req.Code),
        strings.TrimSpace(req.TransportType),
        strings.TrimSpace(req.Zone))
    if errors.Is(err, pricing.ErrIneligible) {
        return c.JSON(http.StatusOK, echo.Map{"eligible": false, "reason": err.Error()})
    }
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"eligible": true, "percent": pct})
}
