package domain

import "time"

// AuthProvider identifies how a user signs in.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a user of the application in the domain.
type User struct {
	UserID         string       `json:"userID"` // Primary Key (e.g., UUID)
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"`
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID string       `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}
