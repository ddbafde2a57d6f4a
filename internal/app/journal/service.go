package journal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/farum-journal/internal/domain"
	"github.com/PabloGalante/farum-journal/internal/observability"
)

const defaultListLimit = 20

// Service holds the logic of writing and reading journal entries.
// Entry text is always saved on its own, independently of analysis.
type Service struct {
	store domain.JournalStore
	now   func() time.Time
}

// NewService creates a journal service from a JournalStore
func NewService(store domain.JournalStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// CreateEntry stores a new, not yet analyzed entry.
func (s *Service) CreateEntry(ctx context.Context, userID domain.UserID, text string) (*domain.JournalEntry, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}

	now := s.now().UTC()
	entry := &domain.JournalEntry{
		ID:        domain.JournalEntryID(uuid.NewString()),
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID, "journal_id", entry.ID)
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		log.Errorw("failed to create journal entry", "error", err)
		return nil, err
	}
	log.Infow("journal entry created")

	return entry, nil
}

func (s *Service) GetEntry(ctx context.Context, userID domain.UserID, id domain.JournalEntryID) (*domain.JournalEntry, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.store.GetEntry(ctx, userID, id)
}

// GetUserJournal returns the last `limit` journal entries for a user
// If limit <= 0, a reasonable default value is used.
func (s *Service) GetUserJournal(
	ctx context.Context,
	userID domain.UserID,
	limit int,
) ([]*domain.JournalEntry, error) {

	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	return s.store.ListEntriesByUser(ctx, userID, limit)
}

// UpdateText saves owner-edited text. It does not touch analysis fields;
// re-analysis is a separate call.
func (s *Service) UpdateText(ctx context.Context, userID domain.UserID, id domain.JournalEntryID, text string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyText
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID, "journal_id", id)
	if err := s.store.UpdateText(ctx, userID, id, text, s.now().UTC()); err != nil {
		log.Errorw("failed to update journal text", "error", err)
		return err
	}
	log.Infow("journal text updated")
	return nil
}

// MarkNoteViewed is the explicit "viewed" acknowledgment from the reader.
func (s *Service) MarkNoteViewed(ctx context.Context, userID domain.UserID, id domain.JournalEntryID) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	return s.store.MarkNoteViewed(ctx, userID, id)
}

func (s *Service) DeleteEntry(ctx context.Context, userID domain.UserID, id domain.JournalEntryID) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID, "journal_id", id)
	if err := s.store.DeleteEntry(ctx, userID, id); err != nil {
		log.Errorw("failed to delete journal entry", "error", err)
		return err
	}
	log.Infow("journal entry deleted")
	return nil
}
