// ABOUTME: Song and SetList models for performance set composition.
// ABOUTME: Set lists reference songs by id; both are local-only entities.
package models

import "time"

// Song is one tune in the repertoire.
type Song struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist,omitempty"`
	Key         string    `json:"key,omitempty"`
	TempoBPM    int       `json:"tempoBpm,omitempty"`
	DurationSec int       `json:"durationSec,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s Song) EntityID() string { return s.ID }

// NewSong creates a song with a generated id.
func NewSong(title string) *Song {
	return &Song{
		ID:        NewID(),
		Title:     title,
		CreatedAt: Now(),
	}
}

// SongPatch is a partial update for a Song.
type SongPatch struct {
	Title       *string
	Artist      *string
	Key         *string
	TempoBPM    *int
	DurationSec *int
}

// Apply shallow-merges the patch over the song.
func (p SongPatch) Apply(s *Song) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Artist != nil {
		s.Artist = *p.Artist
	}
	if p.Key != nil {
		s.Key = *p.Key
	}
	if p.TempoBPM != nil {
		s.TempoBPM = *p.TempoBPM
	}
	if p.DurationSec != nil {
		s.DurationSec = *p.DurationSec
	}
}

// SetList is an ordered list of song ids for a performance, optionally
// tied to an event.
type SetList struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SongIDs   []string  `json:"songIds"`
	EventID   *string   `json:"eventId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (sl SetList) EntityID() string { return sl.ID }

// NewSetList creates a set list with a generated id.
func NewSetList(title string) *SetList {
	return &SetList{
		ID:        NewID(),
		Title:     title,
		SongIDs:   []string{},
		CreatedAt: Now(),
	}
}

// SetListPatch is a partial update for a SetList. A non-nil SongIDs
// slice replaces the order wholesale.
type SetListPatch struct {
	Title   *string
	SongIDs *[]string
	EventID *string
}

// Apply shallow-merges the patch over the set list.
func (p SetListPatch) Apply(sl *SetList) {
	if p.Title != nil {
		sl.Title = *p.Title
	}
	if p.SongIDs != nil {
		sl.SongIDs = *p.SongIDs
	}
	if p.EventID != nil {
		sl.EventID = p.EventID
	}
}
