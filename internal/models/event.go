// ABOUTME: AppEvent calendar model with booking slots for roster assignment.
// ABOUTME: Events reference routines by id; slots reference people by id.
package models

import "time"

// EventKind classifies a calendar event.
type EventKind string

const (
	EventPerformance EventKind = "performance"
	EventLesson      EventKind = "lesson"
	EventRehearsal   EventKind = "rehearsal"
	EventOther       EventKind = "other"
)

// AllEventKinds returns all valid event kinds.
var AllEventKinds = []EventKind{
	EventPerformance, EventLesson, EventRehearsal, EventOther,
}

// IsValidEventKind checks if a string is a valid event kind.
func IsValidEventKind(s string) bool {
	for _, k := range AllEventKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// SlotStatus is the booking state of a roster slot.
type SlotStatus string

const (
	SlotInvited   SlotStatus = "invited"
	SlotConfirmed SlotStatus = "confirmed"
	SlotDeclined  SlotStatus = "declined"
)

// BookingSlot assigns a musician to a role on an event. MusicianID
// refers to a Person by id; the reference is not enforced.
type BookingSlot struct {
	Role       string     `json:"role"`
	MusicianID string     `json:"musicianId,omitempty"`
	Status     SlotStatus `json:"status"`
}

// AppEvent is a calendar event: a gig, lesson, rehearsal or other
// appointment. Routines holds routine ids; dangling ids are stripped
// by the store's delete cascade, not by validation here.
type AppEvent struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Kind      EventKind     `json:"kind"`
	StartsAt  time.Time     `json:"startsAt"`
	EndsAt    time.Time     `json:"endsAt,omitempty"`
	Location  string        `json:"location,omitempty"`
	Routines  []string      `json:"routines,omitempty"`
	Slots     []BookingSlot `json:"slots,omitempty"`
	Fee       *float64      `json:"fee,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	DeletedAt *time.Time    `json:"deletedAt,omitempty"`
}

func (e AppEvent) EntityID() string { return e.ID }

// NewAppEvent creates an event with a generated id and current timestamp.
func NewAppEvent(title string, kind EventKind, startsAt time.Time) *AppEvent {
	return &AppEvent{
		ID:        NewID(),
		Title:     title,
		Kind:      kind,
		StartsAt:  startsAt,
		CreatedAt: Now(),
	}
}

// WithLocation sets the venue or address.
func (e *AppEvent) WithLocation(loc string) *AppEvent {
	e.Location = loc
	return e
}

// WithFee sets the agreed fee for the event.
func (e *AppEvent) WithFee(fee float64) *AppEvent {
	e.Fee = &fee
	return e
}

// AppEventPatch is a partial update for an AppEvent. Non-nil slices
// replace the existing value wholesale.
type AppEventPatch struct {
	Title    *string
	Kind     *EventKind
	StartsAt *time.Time
	EndsAt   *time.Time
	Location *string
	Routines *[]string
	Slots    *[]BookingSlot
	Fee      *float64
	Notes    *string
}

// Apply shallow-merges the patch over the event.
func (p AppEventPatch) Apply(e *AppEvent) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Kind != nil {
		e.Kind = *p.Kind
	}
	if p.StartsAt != nil {
		e.StartsAt = *p.StartsAt
	}
	if p.EndsAt != nil {
		e.EndsAt = *p.EndsAt
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Routines != nil {
		e.Routines = *p.Routines
	}
	if p.Slots != nil {
		e.Slots = *p.Slots
	}
	if p.Fee != nil {
		e.Fee = p.Fee
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
}
