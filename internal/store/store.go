// ABOUTME: Shared plumbing for the local stores: mirror hook and
// ABOUTME: generic id-keyed collection helpers used by every store.
package store

import (
	"reflect"

	"github.com/harperreed/maestro/internal/models"
)

// Mirror receives fire-and-forget replication calls after local
// mutations. A nil Mirror disables replication (tests, guest mode).
// cloud.Mirror satisfies this.
type Mirror interface {
	Upsert(table string, entity any)
	Delete(table, id string)
}

// upsertByID inserts or replaces an entity in a collection. Add paths
// use this instead of a bare append so a duplicate id can never
// produce two entries.
func upsertByID[T models.Entity](list []T, e T) []T {
	for i := range list {
		if list[i].EntityID() == e.EntityID() {
			list[i] = e
			return list
		}
	}
	return append(list, e)
}

// removeByID deletes the entity with the given id, reporting whether
// it was present.
func removeByID[T models.Entity](list []T, id string) ([]T, bool) {
	for i := range list {
		if list[i].EntityID() == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// findByID returns a copy of the entity with the given id.
func findByID[T models.Entity](list []T, id string) (T, bool) {
	for i := range list {
		if list[i].EntityID() == id {
			return list[i], true
		}
	}
	var zero T
	return zero, false
}

// mergeByID unions local and remote collections by id. Remote entries
// always win on id collision; local-only entries survive, appended
// after the remote ones in their original order. The second return is
// how many differing local copies were overwritten by remote ones.
func mergeByID[T models.Entity](local, remote []T) ([]T, int) {
	merged := make([]T, 0, len(local)+len(remote))
	seen := make(map[string]int, len(remote))
	overwrote := 0

	for _, e := range remote {
		merged = append(merged, e)
		seen[e.EntityID()] = len(merged) - 1
	}
	for _, e := range local {
		if i, ok := seen[e.EntityID()]; ok {
			if !reflect.DeepEqual(merged[i], e) {
				overwrote++
			}
			continue
		}
		merged = append(merged, e)
	}
	return merged, overwrote
}

// copyOf returns a defensive copy of a collection for read accessors.
func copyOf[T any](list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	return out
}
