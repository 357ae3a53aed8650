package config // package config loads application configuration from environment variables

import (
    "log" // log is used to report configuration errors and halt execution
    "os"  // os provides access to environment variables
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers, secrets and templates.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs for the back office
    AccessTTLMin   int    // access token time‑to‑live in minutes
    BcryptCost     int    // bcrypt cost for back‑office password hashing
    FolioPrefix    string // prefix of generated reservation folios (e.g. "TRF")
    CheckinBaseURL string // base URL embedded in self check‑in links
    ServiceTZ      string // IANA time zone all trip timestamps are normalized to
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Operationally
// tunable values fall back to sensible defaults.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),      // environment (dev/test/prod)
        Port:           must("APP_PORT"),     // port to bind the HTTP server
        DBUser:         must("DB_USER"),      // database user
        DBPass:         os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:         must("DB_HOST"),      // database host
        DBPort:         must("DB_PORT"),      // database port
        DBName:         must("DB_NAME"),      // database name
        JWTSecret:      must("JWT_SECRET"),   // JWT signing secret
        AccessTTLMin:   atoi(getenv("ACCESS_TTL_MIN", "60")),
        BcryptCost:     atoi(getenv("BCRYPT_COST", "10")),
        FolioPrefix:    getenv("FOLIO_PREFIX", "TRF"),
        CheckinBaseURL: getenv("CHECKIN_BASE_URL", "https://booking.arrecife-transfers.mx/checkin"),
        ServiceTZ:      getenv("SERVICE_TZ", "America/Cancun"),
    }
}

// must returns the value of the environment variable or exits the process
// when it is unset.  Configuration is resolved once at startup so failing
// fast here beats failing on the first request.
func must(key string) string {
    v := os.Getenv(key)
    if v == "" {
        log.Fatalf("missing required environment variable %s", key)
    }
    return v
}
