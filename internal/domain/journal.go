package domain

import "time"

// AnalysisResult holds the fields written by the analysis pipeline.
// A nil pointer means "not analyzed yet".
type AnalysisResult struct {
	StressScore *int `json:"stress_score"`

	// Deprecated: kept for response-shape compatibility, always nil after analysis.
	HappinessScore *int `json:"happiness_score"`

	TherapyNote       *string `json:"therapy_note"`
	TherapyNoteViewed bool    `json:"therapy_note_viewed"`
}

// HasUnviewedNote reports whether the latest note was not acknowledged yet.
func (a AnalysisResult) HasUnviewedNote() bool {
	return a.TherapyNote != nil && !a.TherapyNoteViewed
}

// JournalEntry is a single journal submission owned by one user.
type JournalEntry struct {
	ID     JournalEntryID `json:"id"`
	UserID UserID         `json:"user_id"`

	// Text is only mutated by its owner.
	Text string `json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Analysis is only mutated by the pipeline (and the viewed acknowledgment).
	Analysis AnalysisResult `json:"analysis"`
}

// AnalysisUpdate is the wholesale analysis write. Applying it sets
// stress_score and therapy_note, clears happiness_score and resets
// therapy_note_viewed to false.
type AnalysisUpdate struct {
	StressScore int
	TherapyNote string
}

// Apply returns the AnalysisResult produced by this update.
func (u AnalysisUpdate) Apply() AnalysisResult {
	stress := u.StressScore
	note := u.TherapyNote
	return AnalysisResult{
		StressScore:       &stress,
		HappinessScore:    nil,
		TherapyNote:       &note,
		TherapyNoteViewed: false,
	}
}
