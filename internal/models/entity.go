// ABOUTME: Shared entity contract for all maestro domain records.
// ABOUTME: Every entity carries a client-generated string ID and CreatedAt.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every domain record held in a store
// collection. IDs are client-generated and unique within a collection;
// they are the only authoritative key.
type Entity interface {
	EntityID() string
}

// NewID returns a fresh client-generated entity id.
func NewID() string {
	return uuid.NewString()
}

// Now returns the timestamp used for CreatedAt fields, truncated to
// second precision so round-trips through JSON stay stable.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
