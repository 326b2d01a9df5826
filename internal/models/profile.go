// ABOUTME: User profile and settings persisted with the content store.
// ABOUTME: A "local-" id prefix marks guest sessions that never touch the network.
package models

import "strings"

// LocalProfilePrefix marks a guest/local-only profile id. Sessions with
// such a profile never perform mirror or sync network calls.
const LocalProfilePrefix = "local-"

// Profile identifies the current user. For authenticated sessions the
// id is the remote account id; for guest sessions it is a generated id
// carrying the local-only prefix.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	Instrument  string `json:"instrument,omitempty"`
}

// NewLocalProfile creates a guest profile that bypasses all cloud I/O.
func NewLocalProfile() Profile {
	return Profile{ID: LocalProfilePrefix + NewID()}
}

// IsLocalOnly reports whether this is a guest/local-only session.
func (p Profile) IsLocalOnly() bool {
	return p.ID == "" || strings.HasPrefix(p.ID, LocalProfilePrefix)
}

// Settings are user preferences persisted alongside the content
// collections. They ride in the snapshot but are never mirrored.
type Settings struct {
	DefaultCurrency  string `json:"defaultCurrency,omitempty"`
	WeekStartsMonday bool   `json:"weekStartsMonday,omitempty"`
	ReminderMinutes  int    `json:"reminderMinutes,omitempty"`
}
