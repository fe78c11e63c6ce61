package schemagate

import (
	"errors"
	"fmt"
)

// Domain error kinds. Protocol-level mapping happens in the rpc package; the
// registry and validator only ever return these or nil.
var (
	// ErrIDInUse marks a save with an explicit ID that already exists in the
	// cache or the durable store.
	ErrIDInUse = errors.New("schemagate: id already in use")

	// ErrNotFound marks a lookup of an ID absent from both the cache and the
	// durable store.
	ErrNotFound = errors.New("schemagate: schema not found")
)

// IDInUseError carries the colliding ID. It unwraps to ErrIDInUse.
type IDInUseError struct {
	ID int64
}

func (e *IDInUseError) Error() string { return fmt.Sprintf("ID %d already in use", e.ID) }

func (e *IDInUseError) Unwrap() error { return ErrIDInUse }

// NotFoundError carries the missing ID. It unwraps to ErrNotFound.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("Schema with ID %d not found", e.ID) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
