/*
Package store defines the durable key-value persistence interface.

PURPOSE:
  Everything this system persists - the office location, the allowed
  radius, the reminder time, the attendance history - is a small string
  value under a well-known key. The KV interface is that contract, and
  the rest of the code never sees a database.

WRITE-THROUGH CONTRACT:
  Every successful mutation is flushed before the call returns. After a
  crash, the recovered state equals the last successful write. Callers
  do not roll back in-memory state on a failed write; the in-memory
  value remains the best-effort source of truth until the next write
  succeeds.

IMPLEMENTATIONS:
  - Memory (this package): for tests and development
  - store/sqlite: production, WAL mode

SEE ALSO:
  - attendance/ledger.go: persists the serialized history through KV
  - session/session.go: persists office location and allowed radius
*/
package store

import "context"

// KV is a durable string key-value store.
type KV interface {
	// Get returns the value for key. The bool reports whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	// The write is durable when Set returns nil.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
