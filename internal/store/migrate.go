// ABOUTME: Schema migrations for persisted store snapshots.
// ABOUTME: Ordered pure transforms keyed by source version, applied sequentially.
package store

import (
	"encoding/json"
	"fmt"
)

// Current schema versions for the persisted snapshots.
const (
	ContentSchemaVersion = 3
	GearSchemaVersion    = 1
	FinanceSchemaVersion = 1
)

// A migration transforms a raw decoded snapshot from one schema
// version to the next. Transforms are pure: they only rewrite the map.
type migration struct {
	From  int
	Apply func(raw map[string]any)
}

// contentMigrations in source-version order.
var contentMigrations = []migration{
	{From: 2, Apply: migrateGigsToEvents},
}

// migrateRaw decodes a persisted blob, walks it through every
// applicable migration in order, stamps the target version, and
// re-encodes. A blob without a schemaVersion is treated as version 1.
func migrateRaw(data []byte, migrations []migration, target int) ([]byte, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	version := 1
	if v, ok := raw["schemaVersion"].(float64); ok {
		version = int(v)
	}
	if version > target {
		return nil, fmt.Errorf("snapshot version %d is newer than supported %d", version, target)
	}

	for _, m := range migrations {
		if version == m.From && version < target {
			m.Apply(raw)
			version = m.From + 1
		}
	}
	raw["schemaVersion"] = target

	return json.Marshal(raw)
}

// migrateGigsToEvents renames the legacy v2 `gigs` collection into
// `events` by concatenation, preserving order, and drops the old key.
func migrateGigsToEvents(raw map[string]any) {
	gigs, ok := raw["gigs"].([]any)
	if ok {
		events, _ := raw["events"].([]any)
		raw["events"] = append(events, gigs...)
	}
	delete(raw, "gigs")
}
