package schemagate

import (
	"context"
	"time"
)

// StoredSchema is the durable row layout: primary key plus the serialized
// schema text, a free-text description, and the last-changed timestamp.
type StoredSchema struct {
	ID          int64
	Name        string
	Schema      string
	Description string
	ChangedAt   time.Time
}

// Store is the durable persistence capability behind the registry cache. It
// is optional: a nil Store slot means every operation runs cache-only. Calls
// may block on I/O; a failure is treated as "store unavailable for this call"
// and is never retried within the same request.
type Store interface {
	// FindByID returns the row for id, or nil when absent.
	FindByID(ctx context.Context, id int64) (*StoredSchema, error)

	// FindAllOrderedByID returns every row ordered by ascending ID.
	FindAllOrderedByID(ctx context.Context) ([]StoredSchema, error)

	// ExistsByID reports whether a row with id exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Save inserts or replaces a row keyed by its ID.
	Save(ctx context.Context, row StoredSchema) error

	// DeleteByID removes the row for id if present.
	DeleteByID(ctx context.Context, id int64) error

	// MaxID returns the highest stored ID. ok is false when the store is
	// empty.
	MaxID(ctx context.Context) (id int64, ok bool, err error)
}
