package repositories

import "context"

// HealthChecker reports whether the underlying datastore is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
