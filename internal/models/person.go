// ABOUTME: Person contact model: musicians, students, venue managers.
// ABOUTME: Referenced by booking slots and progress records, unenforced.
package models

import "time"

// PersonRole classifies a contact.
type PersonRole string

const (
	RoleMusician PersonRole = "musician"
	RoleStudent  PersonRole = "student"
	RoleVenue    PersonRole = "venue"
)

// IsValidPersonRole checks if a string is a valid person role.
func IsValidPersonRole(s string) bool {
	switch PersonRole(s) {
	case RoleMusician, RoleStudent, RoleVenue:
		return true
	}
	return false
}

// Person is a contact in the roster.
type Person struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Role       PersonRole `json:"role"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Instrument string     `json:"instrument,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (p Person) EntityID() string { return p.ID }

// NewPerson creates a contact with a generated id.
func NewPerson(name string, role PersonRole) *Person {
	return &Person{
		ID:        NewID(),
		Name:      name,
		Role:      role,
		CreatedAt: Now(),
	}
}

// PersonPatch is a partial update for a Person.
type PersonPatch struct {
	Name       *string
	Role       *PersonRole
	Email      *string
	Phone      *string
	Instrument *string
	Notes      *string
}

// Apply shallow-merges the patch over the person.
func (p PersonPatch) Apply(pe *Person) {
	if p.Name != nil {
		pe.Name = *p.Name
	}
	if p.Role != nil {
		pe.Role = *p.Role
	}
	if p.Email != nil {
		pe.Email = *p.Email
	}
	if p.Phone != nil {
		pe.Phone = *p.Phone
	}
	if p.Instrument != nil {
		pe.Instrument = *p.Instrument
	}
	if p.Notes != nil {
		pe.Notes = *p.Notes
	}
}
