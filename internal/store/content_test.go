// ABOUTME: Tests for ContentStore CRUD, cascades, hydration and merge.
// ABOUTME: Each test constructs a fresh store over in-memory blobs.
package store

import (
	"testing"

	"github.com/harperreed/maestro/internal/cloud"
	"github.com/harperreed/maestro/internal/models"
	"github.com/harperreed/maestro/internal/storage"
)

func newTestContentStore(t *testing.T) (*ContentStore, *memBlobs, *recordingMirror) {
	t.Helper()
	blobs := newMemBlobs()
	mirror := &recordingMirror{}
	s := NewContentStore(blobs, mirror, nopLogger())
	if err := s.Hydrate(); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	return s, blobs, mirror
}

func strPtr(s string) *string { return &s }

func TestAddBlockIsUpsertByID(t *testing.T) {
	s, _, _ := newTestContentStore(t)

	b := *models.NewContentBlock("Scales")
	s.AddBlock(b)

	// Adding the same id again must replace, not duplicate.
	b.Title = "Scales (revised)"
	s.AddBlock(b)

	blocks := s.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block after duplicate add, got %d", len(blocks))
	}
	if blocks[0].Title != "Scales (revised)" {
		t.Errorf("expected replacement, got %q", blocks[0].Title)
	}
}

func TestUpdateBlockIsIdempotent(t *testing.T) {
	s, _, _ := newTestContentStore(t)

	b := *models.NewContentBlock("Arpeggios")
	s.AddBlock(b)

	patch := models.ContentBlockPatch{Title: strPtr("Arpeggios in C"), Content: strPtr("1-3-5")}
	s.UpdateBlock(b.ID, patch)
	once, _ := s.Block(b.ID)

	s.UpdateBlock(b.ID, patch)
	twice, _ := s.Block(b.ID)

	if once != twice {
		t.Errorf("patch applied twice diverged: %+v vs %+v", once, twice)
	}
	if twice.Title != "Arpeggios in C" || twice.Content != "1-3-5" {
		t.Errorf("patch not applied: %+v", twice)
	}
}

func TestUpdateBlockNilFieldsLeaveValuesUntouched(t *testing.T) {
	s, _, _ := newTestContentStore(t)

	b := models.NewContentBlock("Etude").WithContent("bars 1-16")
	s.AddBlock(*b)

	s.UpdateBlock(b.ID, models.ContentBlockPatch{Title: strPtr("Etude No. 2")})

	got, _ := s.Block(b.ID)
	if got.Title != "Etude No. 2" {
		t.Errorf("Title not patched: %q", got.Title)
	}
	if got.Content != "bars 1-16" {
		t.Errorf("Content should be untouched, got %q", got.Content)
	}
}

func TestUpdateUnknownIDIsSilentNoop(t *testing.T) {
	s, _, mirror := newTestContentStore(t)

	s.UpdateBlock("no-such-id", models.ContentBlockPatch{Title: strPtr("ghost")})

	if len(s.Blocks()) != 0 {
		t.Errorf("no-op update created a block")
	}
	if len(mirror.Calls()) != 0 {
		t.Errorf("no-op update mirrored %d calls", len(mirror.Calls()))
	}
}

func TestUpdateBlockFansOutToEmbeddedCopies(t *testing.T) {
	s, _, _ := newTestContentStore(t)

	b := *models.NewContentBlock("Chromatic warmup")
	s.AddBlock(b)
	r := models.NewRoutine("Morning").WithBlocks(b)
	s.AddRoutine(*r)

	s.UpdateBlock(b.ID, models.ContentBlockPatch{Title: strPtr("Chromatic warmup v2")})

	got, _ := s.Routine(r.ID)
	if len(got.Blocks) != 1 || got.Blocks[0].Title != "Chromatic warmup v2" {
		t.Errorf("embedded copy not rewritten: %+v", got.Blocks)
	}
}

func TestDeleteCategoryNilsBlockReferences(t *testing.T) {
	s, _, _ := newTestContentStore(t)

	cat := *models.NewCategory("Technique")
	s.AddCategory(cat)
	b := models.NewContentBlock("Slurs").WithCategory(cat.ID)
	s.AddBlock(*b)

	s.DeleteCategory(cat.ID)

	if len(s.Categories()) != 0 {
		t.Fatalf("category not deleted")
	}
	got, _ := s.Block(b.ID)
	if got.CategoryID != nil {
		t.Errorf("CategoryID should be nil after cascade, got %v", *got.CategoryID)
	}
}

func TestDeleteRoutineStripsEventReferences(t *testing.T) {
	s, _, _ := newTestContentStore(t)

	r := *models.NewRoutine("Set warmup")
	s.AddRoutine(r)
	e := models.NewAppEvent("Friday gig", models.EventPerformance, models.Now())
	e.Routines = []string{r.ID, "other-routine"}
	s.AddEvent(*e)

	s.DeleteRoutine(r.ID)

	got, _ := s.Event(e.ID)
	if len(got.Routines) != 1 || got.Routines[0] != "other-routine" {
		t.Errorf("routine id not stripped from event: %v", got.Routines)
	}
}

func TestDeleteBlockStripsEmbeddedCopies(t *testing.T) {
	s, _, _ := newTestContentStore(t)

	b1 := *models.NewContentBlock("Keep me")
	b2 := *models.NewContentBlock("Delete me")
	s.AddBlock(b1)
	s.AddBlock(b2)
	r := models.NewRoutine("Full routine").WithBlocks(b1, b2)
	s.AddRoutine(*r)

	s.DeleteBlock(b2.ID)

	got, _ := s.Routine(r.ID)
	if len(got.Blocks) != 1 || got.Blocks[0].ID != b1.ID {
		t.Errorf("embedded copy not stripped: %+v", got.Blocks)
	}
	if _, ok := s.Block(b2.ID); ok {
		t.Errorf("block still present after delete")
	}
}

func TestDeleteSongStripsSetListReferences(t *testing.T) {
	s, _, _ := newTestContentStore(t)

	song := *models.NewSong("All The Things You Are")
	s.AddSong(song)
	sl := models.NewSetList("Jazz night")
	sl.SongIDs = []string{song.ID, "another-song"}
	s.AddSetList(*sl)

	s.DeleteSong(song.ID)

	got, _ := s.SetList(sl.ID)
	if len(got.SongIDs) != 1 || got.SongIDs[0] != "another-song" {
		t.Errorf("song id not stripped from set list: %v", got.SongIDs)
	}
}

func TestMutationsMirrorSingleEntities(t *testing.T) {
	s, _, mirror := newTestContentStore(t)

	b := *models.NewContentBlock("Mirrored")
	s.AddBlock(b)
	s.DeleteBlock(b.ID)

	calls := mirror.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 mirror calls, got %d", len(calls))
	}
	if calls[0].Op != "upsert" || calls[0].Table != cloud.TableBlocks || calls[0].ID != b.ID {
		t.Errorf("unexpected first call: %+v", calls[0])
	}
	if calls[1].Op != "delete" || calls[1].Table != cloud.TableBlocks || calls[1].ID != b.ID {
		t.Errorf("unexpected second call: %+v", calls[1])
	}
}

func TestSongsAndSetListsAreNeverMirrored(t *testing.T) {
	s, _, mirror := newTestContentStore(t)

	song := *models.NewSong("Local tune")
	s.AddSong(song)
	sl := *models.NewSetList("Local set")
	s.AddSetList(sl)
	s.DeleteSong(song.ID)
	s.DeleteSetList(sl.ID)

	if n := len(mirror.Calls()); n != 0 {
		t.Errorf("local-only entities made %d mirror calls", n)
	}
}

func TestHydrateRoundTrip(t *testing.T) {
	blobs := newMemBlobs()
	s1 := NewContentStore(blobs, nil, nopLogger())
	if err := s1.Hydrate(); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	b := *models.NewContentBlock("Persisted")
	s1.AddBlock(b)

	s2 := NewContentStore(blobs, nil, nopLogger())
	if s2.HasHydrated() {
		t.Errorf("fresh store reports hydrated before Hydrate")
	}
	if err := s2.Hydrate(); err != nil {
		t.Fatalf("second Hydrate failed: %v", err)
	}
	if !s2.HasHydrated() {
		t.Errorf("HasHydrated false after Hydrate")
	}

	blocks := s2.Blocks()
	if len(blocks) != 1 || blocks[0].ID != b.ID || blocks[0].Title != "Persisted" {
		t.Errorf("round-trip mismatch: %+v", blocks)
	}
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	blobs := newMemBlobs()
	blobs.FailWrites = true
	s := NewContentStore(blobs, nil, nopLogger())
	if err := s.Hydrate(); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}

	// Mutation must not fail even though the write does.
	b := *models.NewContentBlock("Ephemeral")
	s.AddBlock(b)

	if len(s.Blocks()) != 1 {
		t.Errorf("in-memory state lost on persist failure")
	}
	if blobs.has(storage.ContentKey) {
		t.Errorf("blob written despite injected failure")
	}
}

func TestMergeRemotePrefersRemoteAndKeepsLocalOnly(t *testing.T) {
	s, _, mirror := newTestContentStore(t)

	local := models.ContentBlock{ID: "a", Title: "Scale", CreatedAt: models.Now()}
	localOnly := models.ContentBlock{ID: "b", Title: "Local riff", CreatedAt: models.Now()}
	s.AddBlock(local)
	s.AddBlock(localOnly)
	before := len(mirror.Calls())

	remote := models.ContentBlock{ID: "a", Title: "Scale (edited remotely)", CreatedAt: local.CreatedAt}
	s.MergeRemote(RemoteContent{Blocks: []models.ContentBlock{remote}})

	blocks := s.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks after merge, got %d", len(blocks))
	}
	got, _ := s.Block("a")
	if got.Title != "Scale (edited remotely)" {
		t.Errorf("remote did not win on id collision: %q", got.Title)
	}
	if kept, ok := s.Block("b"); !ok || kept.Title != "Local riff" {
		t.Errorf("local-only entity did not survive merge")
	}
	if len(mirror.Calls()) != before {
		t.Errorf("merge re-mirrored entities")
	}
}

func TestMergeRemoteReplacesProfileWholesale(t *testing.T) {
	s, _, _ := newTestContentStore(t)
	s.SetProfile(models.Profile{ID: "user-1", DisplayName: "Old Name"})

	remote := models.Profile{ID: "user-1", DisplayName: "New Name", Instrument: "trumpet"}
	s.MergeRemote(RemoteContent{Profile: &remote})

	if got := s.Profile(); got != remote {
		t.Errorf("profile not replaced wholesale: %+v", got)
	}
}

func TestWipeClearsCollectionsAndRemovesKey(t *testing.T) {
	s, blobs, _ := newTestContentStore(t)
	s.AddBlock(*models.NewContentBlock("Doomed"))
	if !blobs.has(storage.ContentKey) {
		t.Fatalf("expected persisted blob before wipe")
	}

	if err := s.Wipe(); err != nil {
		t.Fatalf("Wipe failed: %v", err)
	}
	if len(s.Blocks()) != 0 {
		t.Errorf("blocks survive wipe")
	}
	if blobs.has(storage.ContentKey) {
		t.Errorf("persisted key still present after wipe")
	}
}
