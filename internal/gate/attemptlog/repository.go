package attemptlog

import "context"

// Repository is the port for persisting attempt rows. The gate and the
// checkout service depend on this abstraction, not on SQLite directly.
// Implementations append; the log is never updated in place.
type Repository interface {
	Save(ctx context.Context, entry *Attempt) error
}
