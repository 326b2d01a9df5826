// ABOUTME: GearAsset and PackList models for equipment tracking.
// ABOUTME: Pack lists are per-event checklists of gear items.
package models

import "time"

// GearAsset is a piece of equipment: an instrument, amp, cable case.
type GearAsset struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind,omitempty"`
	SerialNumber string    `json:"serialNumber,omitempty"`
	Value        float64   `json:"value,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (g GearAsset) EntityID() string { return g.ID }

// NewGearAsset creates a gear asset with a generated id.
func NewGearAsset(name string) *GearAsset {
	return &GearAsset{
		ID:        NewID(),
		Name:      name,
		CreatedAt: Now(),
	}
}

// GearAssetPatch is a partial update for a GearAsset.
type GearAssetPatch struct {
	Name         *string
	Kind         *string
	SerialNumber *string
	Value        *float64
	Notes        *string
}

// Apply shallow-merges the patch over the asset.
func (p GearAssetPatch) Apply(g *GearAsset) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Kind != nil {
		g.Kind = *p.Kind
	}
	if p.SerialNumber != nil {
		g.SerialNumber = *p.SerialNumber
	}
	if p.Value != nil {
		g.Value = *p.Value
	}
	if p.Notes != nil {
		g.Notes = *p.Notes
	}
}

// PackItem is one line of a packing checklist. GearID refers to a
// GearAsset by id; Label is a free-form fallback for unlisted items.
type PackItem struct {
	GearID string `json:"gearId,omitempty"`
	Label  string `json:"label,omitempty"`
	Packed bool   `json:"packed"`
}

// PackList is a per-event packing checklist.
type PackList struct {
	ID        string     `json:"id"`
	EventID   string     `json:"eventId,omitempty"`
	Items     []PackItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (pl PackList) EntityID() string { return pl.ID }

// NewPackList creates a pack list for an event.
func NewPackList(eventID string) *PackList {
	return &PackList{
		ID:        NewID(),
		EventID:   eventID,
		Items:     []PackItem{},
		CreatedAt: Now(),
	}
}

// PackListPatch is a partial update for a PackList. A non-nil Items
// slice replaces the checklist wholesale.
type PackListPatch struct {
	EventID *string
	Items   *[]PackItem
}

// Apply shallow-merges the patch over the pack list.
func (p PackListPatch) Apply(pl *PackList) {
	if p.EventID != nil {
		pl.EventID = *p.EventID
	}
	if p.Items != nil {
		pl.Items = *p.Items
	}
}
