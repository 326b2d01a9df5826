// ABOUTME: Progression-tracking triad: LearningPath, UserProgress, ProofOfWork.
// ABOUTME: Paths hold ordered steps; progress and proof reference by id only.
package models

import "time"

// PathStep is one step of a learning path, optionally pointing at a
// content block holding its material.
type PathStep struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	BlockID *string `json:"blockId,omitempty"`
}

// LearningPath is an ordered curriculum of steps.
type LearningPath struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Steps       []PathStep `json:"steps"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (lp LearningPath) EntityID() string { return lp.ID }

// NewLearningPath creates a path with a generated id.
func NewLearningPath(title string) *LearningPath {
	return &LearningPath{
		ID:        NewID(),
		Title:     title,
		Steps:     []PathStep{},
		CreatedAt: Now(),
	}
}

// AddStep appends a step with a generated id and returns it.
func (lp *LearningPath) AddStep(title string) PathStep {
	step := PathStep{ID: NewID(), Title: title}
	lp.Steps = append(lp.Steps, step)
	return step
}

// LearningPathPatch is a partial update for a LearningPath.
type LearningPathPatch struct {
	Title       *string
	Description *string
	Steps       *[]PathStep
}

// Apply shallow-merges the patch over the path.
func (p LearningPathPatch) Apply(lp *LearningPath) {
	if p.Title != nil {
		lp.Title = *p.Title
	}
	if p.Description != nil {
		lp.Description = *p.Description
	}
	if p.Steps != nil {
		lp.Steps = *p.Steps
	}
}

// UserProgress records completion of one path step, optionally for a
// specific student.
type UserProgress struct {
	ID          string    `json:"id"`
	PathID      string    `json:"pathId"`
	StepID      string    `json:"stepId"`
	PersonID    *string   `json:"personId,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (up UserProgress) EntityID() string { return up.ID }

// NewUserProgress records completion of a step right now.
func NewUserProgress(pathID, stepID string) *UserProgress {
	now := Now()
	return &UserProgress{
		ID:          NewID(),
		PathID:      pathID,
		StepID:      stepID,
		CompletedAt: now,
		CreatedAt:   now,
	}
}

// ProofKind classifies a proof-of-work attachment.
type ProofKind string

const (
	ProofRecording ProofKind = "recording"
	ProofNote      ProofKind = "note"
	ProofLink      ProofKind = "link"
)

// ProofOfWork attaches evidence to a progress record.
type ProofOfWork struct {
	ID         string    `json:"id"`
	ProgressID string    `json:"progressId"`
	Kind       ProofKind `json:"kind"`
	Reference  string    `json:"reference,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (pw ProofOfWork) EntityID() string { return pw.ID }

// NewProofOfWork creates a proof record for a progress entry.
func NewProofOfWork(progressID string, kind ProofKind) *ProofOfWork {
	return &ProofOfWork{
		ID:         NewID(),
		ProgressID: progressID,
		Kind:       kind,
		CreatedAt:  Now(),
	}
}
