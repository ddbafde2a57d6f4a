package domain

import (
	"context"
	"time"
)

// Classifier is one external text-classification backend.
// It returns the raw payload; shape handling happens in the normalizer.
type Classifier interface {
	Classify(ctx context.Context, task ClassificationTask, text string) ([]byte, error)
}

// JournalStore is the persistence collaborator. Every mutation is scoped
// by owner: a store must behave as if a record owned by someone else does
// not exist (ErrEntryNotFound).
type JournalStore interface {
	CreateEntry(ctx context.Context, entry *JournalEntry) error
	GetEntry(ctx context.Context, owner UserID, id JournalEntryID) (*JournalEntry, error)
	ListEntriesByUser(ctx context.Context, owner UserID, limit int) ([]*JournalEntry, error)
	UpdateText(ctx context.Context, owner UserID, id JournalEntryID, text string, at time.Time) error
	UpdateAnalysis(ctx context.Context, owner UserID, id JournalEntryID, update AnalysisUpdate) error
	MarkNoteViewed(ctx context.Context, owner UserID, id JournalEntryID) error
	DeleteEntry(ctx context.Context, owner UserID, id JournalEntryID) error
}

// InferenceClient runs both classifications for one entry. It never fails:
// a call that could not be made or failed carries the neutral default payload
// and its Fallback flag set.
type InferenceClient interface {
	Classify(ctx context.Context, text string) RawClassification
}

// RawClassification holds the untouched classifier payloads.
type RawClassification struct {
	Sentiment []byte
	Emotion   []byte

	SentimentFallback bool
	EmotionFallback   bool
}
