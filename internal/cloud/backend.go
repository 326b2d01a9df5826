// ABOUTME: Backend interface for the remote per-entity table store.
// ABOUTME: Defines upsert/delete/bulk/select-all/wipe/profile operations.
package cloud

import (
	"context"

	"github.com/harperreed/maestro/internal/models"
)

// Remote table names for the mirrored entity collections. Songs and
// set lists are local-only and have no remote table.
const (
	TableBlocks        = "blocks"
	TableRoutines      = "routines"
	TableEvents        = "events"
	TableCategories    = "categories"
	TablePeople        = "people"
	TableLearningPaths = "learning_paths"
	TableUserProgress  = "user_progress"
	TableProofOfWork   = "proof_of_work"
	TableGearAssets    = "gear_assets"
	TablePackLists     = "pack_lists"
	TableTransactions  = "transactions"
)

// MirroredTables lists every remote entity table, in push order.
var MirroredTables = []string{
	TableBlocks, TableRoutines, TableEvents, TableCategories, TablePeople,
	TableLearningPaths, TableUserProgress, TableProofOfWork,
	TableGearAssets, TablePackLists, TableTransactions,
}

// Backend is the remote row store reachable for authenticated
// sessions. Every entity written must carry its `id` field; the
// backend uses it as the natural key for upsert and delete.
// This interface allows swapping implementations (e.g., for testing).
type Backend interface {
	// Upsert writes a single entity keyed by its id.
	Upsert(ctx context.Context, table string, entity any) error

	// Delete removes a single row by id.
	Delete(ctx context.Context, table, id string) error

	// UpsertAll bulk-upserts an entire collection. entities must be a
	// slice of entity values. Used only by the full-sync push phase.
	UpsertAll(ctx context.Context, table string, entities any) error

	// FetchAll selects every row owned by the current user into out,
	// which must be a pointer to a slice of entity values.
	FetchAll(ctx context.Context, table string, out any) error

	// FetchProfile returns the remote profile, or nil if none exists.
	FetchProfile(ctx context.Context) (*models.Profile, error)

	// UpsertProfile writes the profile row.
	UpsertProfile(ctx context.Context, p models.Profile) error

	// DeleteAllUserData removes every row owned by the current user
	// across all tables, including the profile.
	DeleteAllUserData(ctx context.Context) error
}
