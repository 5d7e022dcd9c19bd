package models

import (
	"database/sql"
	"time"
)

// User represents a row in the users table.
type User struct {
	UserID         string         `db:"user_id"`
	Name           string         `db:"name"`
	Email          string         `db:"email"`
	PasswordHash   sql.NullString `db:"password_hash"` // NULL for users created through an external provider
	AuthProvider   string         `db:"auth_provider"`
	ProviderUserID sql.NullString `db:"provider_user_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
