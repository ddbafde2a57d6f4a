package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

// JournalStore is a simple in-memory implementation of domain.JournalStore.
// It is NOT persistent and is only suitable for development / local mode.
type JournalStore struct {
	mu       sync.RWMutex
	entries  map[domain.JournalEntryID]*domain.JournalEntry
	byUserID map[domain.UserID][]domain.JournalEntryID
}

// NewJournalStore creates a new in-memory JournalStore.
func NewJournalStore() *JournalStore {
	return &JournalStore{
		entries:  make(map[domain.JournalEntryID]*domain.JournalEntry),
		byUserID: make(map[domain.UserID][]domain.JournalEntryID),
	}
}

// CreateEntry saves a new journal entry.
func (s *JournalStore) CreateEntry(_ context.Context, entry *domain.JournalEntry) error {
	if entry == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = domain.JournalEntryID(uuid.NewString())
	}

	s.entries[entry.ID] = cloneEntry(entry)
	s.byUserID[entry.UserID] = append(s.byUserID[entry.UserID], entry.ID)

	return nil
}

// owned returns the entry if it exists and belongs to owner. Caller holds the lock.
func (s *JournalStore) owned(owner domain.UserID, id domain.JournalEntryID) (*domain.JournalEntry, error) {
	e, ok := s.entries[id]
	if !ok || e.UserID != owner {
		return nil, domain.ErrEntryNotFound
	}
	return e, nil
}

func (s *JournalStore) GetEntry(_ context.Context, owner domain.UserID, id domain.JournalEntryID) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, err := s.owned(owner, id)
	if err != nil {
		return nil, err
	}
	return cloneEntry(e), nil
}

// ListEntriesByUser returns the last `limit` entries for a user, newest first.
// If limit <= 0, returns all.
func (s *JournalStore) ListEntriesByUser(
	_ context.Context,
	owner domain.UserID,
	limit int,
) ([]*domain.JournalEntry, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUserID[owner]
	if len(ids) == 0 {
		return []*domain.JournalEntry{}, nil
	}

	// If limit is not valid, use all
	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}

	out := make([]*domain.JournalEntry, 0, limit)
	for i := len(ids) - 1; i >= 0 && len(out) < limit; i-- {
		if e, ok := s.entries[ids[i]]; ok {
			out = append(out, cloneEntry(e))
		}
	}

	return out, nil
}

func (s *JournalStore) UpdateText(_ context.Context, owner domain.UserID, id domain.JournalEntryID, text string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.owned(owner, id)
	if err != nil {
		return err
	}
	e.Text = text
	e.UpdatedAt = at
	return nil
}

// UpdateAnalysis replaces all analysis fields at once.
func (s *JournalStore) UpdateAnalysis(_ context.Context, owner domain.UserID, id domain.JournalEntryID, update domain.AnalysisUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.owned(owner, id)
	if err != nil {
		return err
	}
	e.Analysis = update.Apply()
	return nil
}

func (s *JournalStore) MarkNoteViewed(_ context.Context, owner domain.UserID, id domain.JournalEntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.owned(owner, id)
	if err != nil {
		return err
	}
	e.Analysis.TherapyNoteViewed = true
	return nil
}

func (s *JournalStore) DeleteEntry(_ context.Context, owner domain.UserID, id domain.JournalEntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.owned(owner, id); err != nil {
		return err
	}
	delete(s.entries, id)

	ids := s.byUserID[owner]
	for i, v := range ids {
		if v == id {
			s.byUserID[owner] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// cloneEntry copies an entry so callers never share the stored pointers.
func cloneEntry(e *domain.JournalEntry) *domain.JournalEntry {
	c := *e
	if e.Analysis.StressScore != nil {
		v := *e.Analysis.StressScore
		c.Analysis.StressScore = &v
	}
	if e.Analysis.HappinessScore != nil {
		v := *e.Analysis.HappinessScore
		c.Analysis.HappinessScore = &v
	}
	if e.Analysis.TherapyNote != nil {
		v := *e.Analysis.TherapyNote
		c.Analysis.TherapyNote = &v
	}
	return &c
}
