// ABOUTME: Routine model: an ordered practice sequence of content blocks.
// ABOUTME: Blocks are embedded point-in-time copies, not references.
package models

import "time"

// Routine is an ordered practice sequence. Blocks are denormalized:
// a routine embeds full copies of its content blocks at save time, so
// later edits to a source block only reach routines through the
// store's explicit fan-out on block update.
type Routine struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Blocks      []ContentBlock `json:"blocks"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (r Routine) EntityID() string { return r.ID }

// NewRoutine creates a routine with a generated id and current timestamp.
func NewRoutine(title string) *Routine {
	return &Routine{
		ID:        NewID(),
		Title:     title,
		Blocks:    []ContentBlock{},
		CreatedAt: Now(),
	}
}

// WithBlocks embeds copies of the given blocks, in order.
func (r *Routine) WithBlocks(blocks ...ContentBlock) *Routine {
	r.Blocks = append(r.Blocks, blocks...)
	return r
}

// RoutinePatch is a partial update for a Routine. A non-nil Blocks
// slice replaces the embedded copies wholesale.
type RoutinePatch struct {
	Title       *string
	Description *string
	Blocks      *[]ContentBlock
}

// Apply shallow-merges the patch over the routine.
func (p RoutinePatch) Apply(r *Routine) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Blocks != nil {
		r.Blocks = *p.Blocks
	}
}
