// ABOUTME: ContentStore holds the authoritative in-process copy of the
// ABOUTME: practice collections, persisted as one blob per mutation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harperreed/maestro/internal/cloud"
	"github.com/harperreed/maestro/internal/models"
	"github.com/harperreed/maestro/internal/storage"
)

// contentSnapshot is the persisted shape of the content store.
type contentSnapshot struct {
	SchemaVersion int                   `json:"schemaVersion"`
	Blocks        []models.ContentBlock `json:"blocks"`
	Routines      []models.Routine      `json:"routines"`
	Events        []models.AppEvent     `json:"events"`
	Categories    []models.Category     `json:"categories"`
	People        []models.Person       `json:"people"`
	LearningPaths []models.LearningPath `json:"learningPaths"`
	Progress      []models.UserProgress `json:"userProgress"`
	Proofs        []models.ProofOfWork  `json:"proofOfWork"`
	Songs         []models.Song         `json:"songs"`
	SetLists      []models.SetList      `json:"setLists"`
	Settings      models.Settings       `json:"settings"`
	Profile       models.Profile        `json:"profile"`
}

func emptyContentSnapshot() contentSnapshot {
	return contentSnapshot{SchemaVersion: ContentSchemaVersion}
}

// ContentStore is the single source of truth for practice material,
// calendar, roster, progression and set-list data. Construct one per
// process (or per test); it is not a package-level singleton.
type ContentStore struct {
	mu       sync.Mutex
	blobs    storage.Blobs
	mirror   Mirror
	log      zerolog.Logger
	hydrated bool
	snap     contentSnapshot
}

// NewContentStore creates a content store over the given blob storage.
// mirror may be nil to disable cloud replication.
func NewContentStore(blobs storage.Blobs, mirror Mirror, log zerolog.Logger) *ContentStore {
	return &ContentStore{
		blobs:  blobs,
		mirror: mirror,
		log:    log,
		snap:   emptyContentSnapshot(),
	}
}

// Hydrate loads the last persisted snapshot, running schema migrations
// if the stored version is older than current. Callers gate reads on
// HasHydrated to avoid a flash of empty state.
func (s *ContentStore) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.blobs.Get(storage.ContentKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.hydrated = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("hydrate content store: %w", err)
	}

	migrated, err := migrateRaw(data, contentMigrations, ContentSchemaVersion)
	if err != nil {
		return fmt.Errorf("migrate content snapshot: %w", err)
	}

	var snap contentSnapshot
	if err := json.Unmarshal(migrated, &snap); err != nil {
		return fmt.Errorf("decode content snapshot: %w", err)
	}
	s.snap = snap
	s.hydrated = true
	return nil
}

// HasHydrated reports whether the persisted snapshot has been loaded.
func (s *ContentStore) HasHydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// persistLocked writes the full snapshot. Write failures are swallowed
// after logging: in-memory state stays correct for this session and
// the user is never interrupted over a storage error.
func (s *ContentStore) persistLocked() {
	data, err := json.Marshal(s.snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("content: encode snapshot failed")
		return
	}
	if err := s.blobs.Set(storage.ContentKey, data); err != nil {
		s.log.Warn().Err(err).Msg("content: persist failed, state survives this session only")
	}
}

func (s *ContentStore) mirrorUpsert(table string, entity any) {
	if s.mirror != nil {
		s.mirror.Upsert(table, entity)
	}
}

func (s *ContentStore) mirrorDelete(table, id string) {
	if s.mirror != nil {
		s.mirror.Delete(table, id)
	}
}

// --- Blocks ---

// Blocks returns a copy of the content block collection.
func (s *ContentStore) Blocks() []models.ContentBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.Blocks)
}

// Block returns the block with the given id.
func (s *ContentStore) Block(id string) (models.ContentBlock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByID(s.snap.Blocks, id)
}

// AddBlock upserts a block by id and mirrors it.
func (s *ContentStore) AddBlock(b models.ContentBlock) {
	s.mu.Lock()
	s.snap.Blocks = upsertByID(s.snap.Blocks, b)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableBlocks, b)
}

// UpdateBlock patches a block and fans the change out to the embedded
// copy inside every routine holding a block with the same id. Unknown
// ids are a silent no-op.
func (s *ContentStore) UpdateBlock(id string, patch models.ContentBlockPatch) {
	s.mu.Lock()
	b, ok := findByID(s.snap.Blocks, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	patch.Apply(&b)
	s.snap.Blocks = upsertByID(s.snap.Blocks, b)

	var touched []models.Routine
	for i := range s.snap.Routines {
		for j := range s.snap.Routines[i].Blocks {
			if s.snap.Routines[i].Blocks[j].ID == id {
				s.snap.Routines[i].Blocks[j] = b
				touched = append(touched, s.snap.Routines[i])
				break
			}
		}
	}
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableBlocks, b)
	for _, r := range touched {
		s.mirrorUpsert(cloud.TableRoutines, r)
	}
}

// DeleteBlock removes a block and its embedded copy from every routine.
func (s *ContentStore) DeleteBlock(id string) {
	s.mu.Lock()
	blocks, found := removeByID(s.snap.Blocks, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.Blocks = blocks

	var touched []models.Routine
	for i := range s.snap.Routines {
		kept := s.snap.Routines[i].Blocks[:0]
		stripped := false
		for _, eb := range s.snap.Routines[i].Blocks {
			if eb.ID == id {
				stripped = true
				continue
			}
			kept = append(kept, eb)
		}
		if stripped {
			s.snap.Routines[i].Blocks = kept
			touched = append(touched, s.snap.Routines[i])
		}
	}
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorDelete(cloud.TableBlocks, id)
	for _, r := range touched {
		s.mirrorUpsert(cloud.TableRoutines, r)
	}
}

// --- Categories ---

// Categories returns a copy of the category collection.
func (s *ContentStore) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.Categories)
}

// AddCategory upserts a category by id and mirrors it.
func (s *ContentStore) AddCategory(c models.Category) {
	s.mu.Lock()
	s.snap.Categories = upsertByID(s.snap.Categories, c)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableCategories, c)
}

// UpdateCategory patches a category. Unknown ids are a silent no-op.
func (s *ContentStore) UpdateCategory(id string, patch models.CategoryPatch) {
	s.mu.Lock()
	c, ok := findByID(s.snap.Categories, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	patch.Apply(&c)
	s.snap.Categories = upsertByID(s.snap.Categories, c)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableCategories, c)
}

// DeleteCategory removes a category and nils CategoryID on every block
// that referenced it.
func (s *ContentStore) DeleteCategory(id string) {
	s.mu.Lock()
	cats, found := removeByID(s.snap.Categories, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.Categories = cats

	var touched []models.ContentBlock
	for i := range s.snap.Blocks {
		if s.snap.Blocks[i].CategoryID != nil && *s.snap.Blocks[i].CategoryID == id {
			s.snap.Blocks[i].CategoryID = nil
			touched = append(touched, s.snap.Blocks[i])
		}
	}
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorDelete(cloud.TableCategories, id)
	for _, b := range touched {
		s.mirrorUpsert(cloud.TableBlocks, b)
	}
}

// --- Routines ---

// Routines returns a copy of the routine collection.
func (s *ContentStore) Routines() []models.Routine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.Routines)
}

// Routine returns the routine with the given id.
func (s *ContentStore) Routine(id string) (models.Routine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByID(s.snap.Routines, id)
}

// AddRoutine upserts a routine by id and mirrors it. The embedded
// blocks are stored as-is: a point-in-time copy.
func (s *ContentStore) AddRoutine(r models.Routine) {
	s.mu.Lock()
	s.snap.Routines = upsertByID(s.snap.Routines, r)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableRoutines, r)
}

// UpdateRoutine patches a routine. Unknown ids are a silent no-op.
func (s *ContentStore) UpdateRoutine(id string, patch models.RoutinePatch) {
	s.mu.Lock()
	r, ok := findByID(s.snap.Routines, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	patch.Apply(&r)
	s.snap.Routines = upsertByID(s.snap.Routines, r)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableRoutines, r)
}

// DeleteRoutine removes a routine and strips its id from every event's
// routine list.
func (s *ContentStore) DeleteRoutine(id string) {
	s.mu.Lock()
	routines, found := removeByID(s.snap.Routines, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.Routines = routines

	var touched []models.AppEvent
	for i := range s.snap.Events {
		kept := s.snap.Events[i].Routines[:0]
		stripped := false
		for _, rid := range s.snap.Events[i].Routines {
			if rid == id {
				stripped = true
				continue
			}
			kept = append(kept, rid)
		}
		if stripped {
			s.snap.Events[i].Routines = kept
			touched = append(touched, s.snap.Events[i])
		}
	}
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorDelete(cloud.TableRoutines, id)
	for _, e := range touched {
		s.mirrorUpsert(cloud.TableEvents, e)
	}
}

// --- Events ---

// Events returns a copy of the event collection.
func (s *ContentStore) Events() []models.AppEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.Events)
}

// Event returns the event with the given id.
func (s *ContentStore) Event(id string) (models.AppEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByID(s.snap.Events, id)
}

// AddEvent upserts an event by id and mirrors it.
func (s *ContentStore) AddEvent(e models.AppEvent) {
	s.mu.Lock()
	s.snap.Events = upsertByID(s.snap.Events, e)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableEvents, e)
}

// UpdateEvent patches an event. Unknown ids are a silent no-op.
func (s *ContentStore) UpdateEvent(id string, patch models.AppEventPatch) {
	s.mu.Lock()
	e, ok := findByID(s.snap.Events, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	patch.Apply(&e)
	s.snap.Events = upsertByID(s.snap.Events, e)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableEvents, e)
}

// CancelEvent soft-deletes an event: it stays on the books with a
// DeletedAt stamp and is mirrored as an upsert, not a delete.
func (s *ContentStore) CancelEvent(id string) {
	s.mu.Lock()
	e, ok := findByID(s.snap.Events, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	now := models.Now()
	e.DeletedAt = &now
	s.snap.Events = upsertByID(s.snap.Events, e)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableEvents, e)
}

// DeleteEvent removes an event outright.
func (s *ContentStore) DeleteEvent(id string) {
	s.mu.Lock()
	events, found := removeByID(s.snap.Events, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.Events = events
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorDelete(cloud.TableEvents, id)
}

// --- People ---

// People returns a copy of the contact collection.
func (s *ContentStore) People() []models.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.People)
}

// Person returns the contact with the given id.
func (s *ContentStore) Person(id string) (models.Person, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByID(s.snap.People, id)
}

// AddPerson upserts a contact by id and mirrors it.
func (s *ContentStore) AddPerson(p models.Person) {
	s.mu.Lock()
	s.snap.People = upsertByID(s.snap.People, p)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TablePeople, p)
}

// UpdatePerson patches a contact. Unknown ids are a silent no-op.
func (s *ContentStore) UpdatePerson(id string, patch models.PersonPatch) {
	s.mu.Lock()
	p, ok := findByID(s.snap.People, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	patch.Apply(&p)
	s.snap.People = upsertByID(s.snap.People, p)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TablePeople, p)
}

// DeletePerson removes a contact. Booking slots referencing the person
// are left dangling on purpose: references are not enforced.
func (s *ContentStore) DeletePerson(id string) {
	s.mu.Lock()
	people, found := removeByID(s.snap.People, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.People = people
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorDelete(cloud.TablePeople, id)
}

// --- Learning paths, progress, proof of work ---

// LearningPaths returns a copy of the path collection.
func (s *ContentStore) LearningPaths() []models.LearningPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.LearningPaths)
}

// LearningPath returns the path with the given id.
func (s *ContentStore) LearningPath(id string) (models.LearningPath, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByID(s.snap.LearningPaths, id)
}

// AddLearningPath upserts a path by id and mirrors it.
func (s *ContentStore) AddLearningPath(lp models.LearningPath) {
	s.mu.Lock()
	s.snap.LearningPaths = upsertByID(s.snap.LearningPaths, lp)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableLearningPaths, lp)
}

// UpdateLearningPath patches a path. Unknown ids are a silent no-op.
func (s *ContentStore) UpdateLearningPath(id string, patch models.LearningPathPatch) {
	s.mu.Lock()
	lp, ok := findByID(s.snap.LearningPaths, id)
	if !ok {
		s.mu.Unlock()
		return
	}
	patch.Apply(&lp)
	s.snap.LearningPaths = upsertByID(s.snap.LearningPaths, lp)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableLearningPaths, lp)
}

// DeleteLearningPath removes a path. Progress rows referencing it are
// left in place.
func (s *ContentStore) DeleteLearningPath(id string) {
	s.mu.Lock()
	paths, found := removeByID(s.snap.LearningPaths, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.LearningPaths = paths
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorDelete(cloud.TableLearningPaths, id)
}

// Progress returns a copy of the progress collection.
func (s *ContentStore) Progress() []models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.Progress)
}

// AddProgress upserts a progress record by id and mirrors it.
func (s *ContentStore) AddProgress(up models.UserProgress) {
	s.mu.Lock()
	s.snap.Progress = upsertByID(s.snap.Progress, up)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableUserProgress, up)
}

// DeleteProgress removes a progress record.
func (s *ContentStore) DeleteProgress(id string) {
	s.mu.Lock()
	progress, found := removeByID(s.snap.Progress, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.Progress = progress
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorDelete(cloud.TableUserProgress, id)
}

// Proofs returns a copy of the proof-of-work collection.
func (s *ContentStore) Proofs() []models.ProofOfWork {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.Proofs)
}

// AddProof upserts a proof record by id and mirrors it.
func (s *ContentStore) AddProof(pw models.ProofOfWork) {
	s.mu.Lock()
	s.snap.Proofs = upsertByID(s.snap.Proofs, pw)
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorUpsert(cloud.TableProofOfWork, pw)
}

// DeleteProof removes a proof record.
func (s *ContentStore) DeleteProof(id string) {
	s.mu.Lock()
	proofs, found := removeByID(s.snap.Proofs, id)
	if !found {
		s.mu.Unlock()
		return
	}
	s.snap.Proofs = proofs
	s.persistLocked()
	s.mu.Unlock()

	s.mirrorDelete(cloud.TableProofOfWork, id)
}

// --- Songs and set lists (local-only, never mirrored) ---

// Songs returns a copy of the song collection.
func (s *ContentStore) Songs() []models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.Songs)
}

// AddSong upserts a song by id.
func (s *ContentStore) AddSong(song models.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Songs = upsertByID(s.snap.Songs, song)
	s.persistLocked()
}

// UpdateSong patches a song. Unknown ids are a silent no-op.
func (s *ContentStore) UpdateSong(id string, patch models.SongPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	song, ok := findByID(s.snap.Songs, id)
	if !ok {
		return
	}
	patch.Apply(&song)
	s.snap.Songs = upsertByID(s.snap.Songs, song)
	s.persistLocked()
}

// DeleteSong removes a song and strips its id from every set list.
func (s *ContentStore) DeleteSong(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	songs, found := removeByID(s.snap.Songs, id)
	if !found {
		return
	}
	s.snap.Songs = songs

	for i := range s.snap.SetLists {
		kept := s.snap.SetLists[i].SongIDs[:0]
		for _, sid := range s.snap.SetLists[i].SongIDs {
			if sid != id {
				kept = append(kept, sid)
			}
		}
		s.snap.SetLists[i].SongIDs = kept
	}
	s.persistLocked()
}

// SetLists returns a copy of the set-list collection.
func (s *ContentStore) SetLists() []models.SetList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOf(s.snap.SetLists)
}

// SetList returns the set list with the given id.
func (s *ContentStore) SetList(id string) (models.SetList, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findByID(s.snap.SetLists, id)
}

// AddSetList upserts a set list by id.
func (s *ContentStore) AddSetList(sl models.SetList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.SetLists = upsertByID(s.snap.SetLists, sl)
	s.persistLocked()
}

// UpdateSetList patches a set list. Unknown ids are a silent no-op.
func (s *ContentStore) UpdateSetList(id string, patch models.SetListPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := findByID(s.snap.SetLists, id)
	if !ok {
		return
	}
	patch.Apply(&sl)
	s.snap.SetLists = upsertByID(s.snap.SetLists, sl)
	s.persistLocked()
}

// DeleteSetList removes a set list.
func (s *ContentStore) DeleteSetList(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setLists, found := removeByID(s.snap.SetLists, id)
	if !found {
		return
	}
	s.snap.SetLists = setLists
	s.persistLocked()
}

// --- Profile and settings ---

// Profile returns the current profile.
func (s *ContentStore) Profile() models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Profile
}

// SetProfile replaces the profile and persists. The profile is not
// mirrored per-mutation; full sync reconciles it.
func (s *ContentStore) SetProfile(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Profile = p
	s.persistLocked()
}

// Settings returns the current settings.
func (s *ContentStore) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Settings
}

// UpdateSettings replaces the settings and persists.
func (s *ContentStore) UpdateSettings(set models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Settings = set
	s.persistLocked()
}

// --- Reconciliation ---

// RemoteContent is the pulled remote state applied by MergeRemote.
type RemoteContent struct {
	Blocks        []models.ContentBlock
	Routines      []models.Routine
	Events        []models.AppEvent
	Categories    []models.Category
	People        []models.Person
	LearningPaths []models.LearningPath
	Progress      []models.UserProgress
	Proofs        []models.ProofOfWork
	Profile       *models.Profile
}

// MergeRemote merges pulled remote collections into the store: remote
// wins on id collision, local-only entries survive. The profile is
// replaced wholesale when the remote returned one. The merge persists
// but does not re-mirror; the push phase already made local state
// remotely visible.
func (s *ContentStore) MergeRemote(r RemoteContent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overwrote := 0
	var n int
	s.snap.Blocks, n = mergeByID(s.snap.Blocks, r.Blocks)
	overwrote += n
	s.snap.Routines, n = mergeByID(s.snap.Routines, r.Routines)
	overwrote += n
	s.snap.Events, n = mergeByID(s.snap.Events, r.Events)
	overwrote += n
	s.snap.Categories, n = mergeByID(s.snap.Categories, r.Categories)
	overwrote += n
	s.snap.People, n = mergeByID(s.snap.People, r.People)
	overwrote += n
	s.snap.LearningPaths, n = mergeByID(s.snap.LearningPaths, r.LearningPaths)
	overwrote += n
	s.snap.Progress, n = mergeByID(s.snap.Progress, r.Progress)
	overwrote += n
	s.snap.Proofs, n = mergeByID(s.snap.Proofs, r.Proofs)
	overwrote += n

	if overwrote > 0 {
		s.log.Debug().Int("entities", overwrote).
			Msg("content: remote copies overwrote differing local copies")
	}
	if r.Profile != nil {
		s.snap.Profile = *r.Profile
	}
	s.persistLocked()
}

// Wipe clears every collection and removes the persisted key entirely,
// leaving no stale-schema residue behind.
func (s *ContentStore) Wipe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = emptyContentSnapshot()
	if err := s.blobs.Delete(storage.ContentKey); err != nil {
		return fmt.Errorf("wipe content store: %w", err)
	}
	return nil
}
