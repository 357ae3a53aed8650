package router

import (
    "github.com/labstack/echo/v4"

    "github.com/arrecife/transfers/internal/handler"
    "github.com/arrecife/transfers/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// that load balancers and monitoring can probe.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Login lives under
// /v1/auth and needs no session; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/login", a.Login)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("OPS", "PROVIDER"))
    auth.GET("/me", a.Me)
}

// RegisterPublic registers the guest-facing surface: reservation
// creation, pricing, the check-in lookup and its QR image, and the trip
// update endpoints drivers reach through the check-in token.  None of
// these apply JWT middleware; the reservation token is the credential.
// The optional rate limiter guards the whole group.
func RegisterPublic(e *echo.Echo, b *handler.BookingHandler, p *handler.PricingHandler, t *handler.TripHandler, limiter echo.MiddlewareFunc) {
    g := e.Group("/v1")
    if limiter != nil {
        g.Use(limiter)
    }

    g.POST("/reservations", b.Create)
    g.GET("/checkin/:token", b.Checkin)
    g.GET("/checkin/:token/qr", b.CheckinQR)

    g.POST("/pricing/quote", p.Quote)
    g.POST("/pricing/discount", p.ValidateDiscount)

    g.PATCH("/trips", t.Update)
    g.PATCH("/trips/arrival", t.UpdateArrival)
    g.PATCH("/trips/departure", t.UpdateDeparture)
}

// RegisterOps registers the back-office reporting routes.  All of them
// require an OPS access token.  The optional cache middleware serves
// repeated manifest and revenue reads from Redis.
func RegisterOps(e *echo.Echo, r *handler.ReportsHandler, jwtSecret string, cache echo.MiddlewareFunc) {
    g := e.Group("/v1/reports")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("OPS"))
    if cache != nil {
        g.Use(cache)
    }

    g.GET("/arrivals", r.Arrivals)
    g.GET("/departures", r.Departures)
    g.GET("/revenue", r.Revenue)
    g.GET("/export.csv", r.ExportCSV)
}

// RegisterProvider registers the transport-provider routes.  Providers
// authenticate with their own accounts; the acting provider row is
// resolved inside the handlers from the token's user id.
func RegisterProvider(e *echo.Echo, p *handler.ProviderHandler, jwtSecret string) {
    g := e.Group("/v1/provider")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("PROVIDER"))

    g.POST("/reservations/:folio/link", p.Link)
    g.GET("/assignments", p.Assignments)
}
