package model

import "time"

// User represents a back-office account as stored in the `users` table.
// These accounts belong to operations staff and provider dispatchers, never
// to passengers: passengers interact through the public booking widget and
// token-based check-in links and have no credentials.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – OPS for dashboard staff, PROVIDER for external operators.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role (OPS or PROVIDER)
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// Provider is an external ground-transport operator to whom a reservation
// may be assigned.  A PROVIDER user authenticates on behalf of exactly one
// provider row.
type Provider struct {
    ID     uint64 // providers.id
    Name   string // providers.name
    UserID uint64 // providers.user_id (back-office account)
}
