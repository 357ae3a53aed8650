package main

import (
    "context"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/arrecife/transfers/internal/booking"
    "github.com/arrecife/transfers/internal/config"
    "github.com/arrecife/transfers/internal/database"
    "github.com/arrecife/transfers/internal/handler"
    "github.com/arrecife/transfers/internal/middleware"
    "github.com/arrecife/transfers/internal/notify"
    "github.com/arrecife/transfers/internal/pricing"
    "github.com/arrecife/transfers/internal/queue"
    "github.com/arrecife/transfers/internal/repository"
    "github.com/arrecife/transfers/internal/router"
)

func main() {
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    loc, err := time.LoadLocation(cfg.ServiceTZ)
    if err != nil {
        log.Fatalf("time zone %q: %v", cfg.ServiceTZ, err)
    }

    // Optional Redis: when unreachable the rate limiter and report cache
    // are simply skipped and the API runs without them.
    rdb := config.NewRedisClient()

    // The notification consumer runs for the life of the process and
    // reconnects on broker failures.
    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Printf("notification consumer stopped: %v", err)
        }
    }()

    reservations := repository.NewReservationRepo(db)
    users := repository.NewUserRepo(db)
    zones := repository.NewZoneRepo(db)
    tariffs := repository.NewTariffRepo(db)
    discounts := repository.NewDiscountRepo(db)

    resolver := pricing.NewResolver(zones, tariffs, discounts)
    dispatcher := notify.NewDispatcher(cfg.CheckinBaseURL)
    writer := booking.NewWriter(reservations, resolver, dispatcher, cfg.FolioPrefix)
    machine := booking.NewMachine(reservations, loc)

    e := echo.New()
    e.HideBanner = true

    var limiter, cache echo.MiddlewareFunc
    if rdb != nil {
        if rl := config.LoadRateLimitConfig(); rl.Enabled {
            limiter = middleware.NewTokenBucket(rl, rdb)
        }
        if cc := config.LoadCacheConfig(); cc.Enabled {
            cache = middleware.NewRedisCache(cc, rdb)
        }
    }

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret)
    router.RegisterPublic(e,
        handler.NewBookingHandler(writer, reservations, cfg.CheckinBaseURL, loc),
        handler.NewPricingHandler(resolver),
        handler.NewTripHandler(machine, loc),
        limiter)
    router.RegisterOps(e, handler.NewReportsHandler(reservations, loc), cfg.JWTSecret, cache)
    router.RegisterProvider(e, handler.NewProviderHandler(users, reservations, loc), cfg.JWTSecret)

    addr := ":" + cfg.Port
    go func() {
        log.Printf("listening on %s (env=%s)", addr, cfg.Env)
        if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(ctx); err != nil {
        log.Printf("shutdown: %v", err)
    }
    log.Println("server stopped")
}
