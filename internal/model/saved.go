package model

import "time"

// SavedEstimate is a persisted project calculation: the input it was
// computed from and the resulting estimate, kept together so a saved
// offer can always be recalculated and compared.
type SavedEstimate struct {
	ID          string          `json:"id"`
	ProjectName string          `json:"project_name"`
	Input       ProjectInput    `json:"input"`
	Estimate    ProjectEstimate `json:"estimate"`
	CreatedAt   time.Time       `json:"created_at"`
}
