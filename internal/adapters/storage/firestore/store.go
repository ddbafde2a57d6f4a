package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store.
// Uses the project passed (FARUM_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) journalsCol() *firestore.CollectionRef {
	return s.client.Collection("journal_entries")
}

func (s *Store) journalDoc(id domain.JournalEntryID) *firestore.DocumentRef {
	return s.journalsCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type journalDoc struct {
	UserID            string    `firestore:"user_id"`
	EntryText         string    `firestore:"entry_text"`
	CreatedAt         time.Time `firestore:"created_at"`
	UpdatedAt         time.Time `firestore:"updated_at"`
	StressScore       *int64    `firestore:"stress_score"`
	HappinessScore    *int64    `firestore:"happiness_score"`
	TherapyNote       *string   `firestore:"therapy_note"`
	TherapyNoteViewed bool      `firestore:"therapy_note_viewed"`
}

func toDomain(id string, doc journalDoc) *domain.JournalEntry {
	e := &domain.JournalEntry{
		ID:        domain.JournalEntryID(id),
		UserID:    domain.UserID(doc.UserID),
		Text:      doc.EntryText,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if doc.StressScore != nil {
		v := int(*doc.StressScore)
		e.Analysis.StressScore = &v
	}
	if doc.HappinessScore != nil {
		v := int(*doc.HappinessScore)
		e.Analysis.HappinessScore = &v
	}
	e.Analysis.TherapyNote = doc.TherapyNote
	e.Analysis.TherapyNoteViewed = doc.TherapyNoteViewed
	return e
}

// ownedInTx loads the document inside a transaction and enforces ownership.
// A record owned by someone else is reported as not found.
func (s *Store) ownedInTx(tx *firestore.Transaction, owner domain.UserID, ref *firestore.DocumentRef) error {
	snap, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrEntryNotFound
		}
		return err
	}
	var doc journalDoc
	if err := snap.DataTo(&doc); err != nil {
		return fmt.Errorf("decode journalDoc: %w", err)
	}
	if doc.UserID != string(owner) {
		return domain.ErrEntryNotFound
	}
	return nil
}

// updateOwned applies updates to one record in a transaction, scoped by owner.
func (s *Store) updateOwned(ctx context.Context, op string, owner domain.UserID, id domain.JournalEntryID, updates []firestore.Update) error {
	ref := s.journalDoc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := s.ownedInTx(tx, owner, ref); err != nil {
			return err
		}
		return tx.Update(ref, updates)
	})
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return err
		}
		return fmt.Errorf("firestore %s: %w", op, err)
	}
	return nil
}

// ─────────────────────────────────────────
// JournalStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = domain.JournalEntryID(uuid.NewString())
	}

	doc := journalDoc{
		UserID:    string(entry.UserID),
		EntryText: entry.Text,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}

	_, err := s.journalDoc(entry.ID).Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore CreateEntry: %w", err)
	}
	return nil
}

func (s *Store) GetEntry(ctx context.Context, owner domain.UserID, id domain.JournalEntryID) (*domain.JournalEntry, error) {
	snap, err := s.journalDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("firestore GetEntry: %w", err)
	}

	var doc journalDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetEntry decode: %w", err)
	}
	if doc.UserID != string(owner) {
		return nil, domain.ErrEntryNotFound
	}

	return toDomain(snap.Ref.ID, doc), nil
}

func (s *Store) ListEntriesByUser(ctx context.Context, owner domain.UserID, limit int) ([]*domain.JournalEntry, error) {
	q := s.journalsCol().Where("user_id", "==", string(owner)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []*domain.JournalEntry{}
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListEntriesByUser: %w", err)
		}

		var doc journalDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode journalDoc: %w", err)
		}
		out = append(out, toDomain(snap.Ref.ID, doc))
	}
	return out, nil
}

func (s *Store) UpdateText(ctx context.Context, owner domain.UserID, id domain.JournalEntryID, text string, at time.Time) error {
	return s.updateOwned(ctx, "UpdateText", owner, id, []firestore.Update{
		{Path: "entry_text", Value: text},
		{Path: "updated_at", Value: at},
	})
}

// UpdateAnalysis writes every analysis field in one update.
func (s *Store) UpdateAnalysis(ctx context.Context, owner domain.UserID, id domain.JournalEntryID, update domain.AnalysisUpdate) error {
	return s.updateOwned(ctx, "UpdateAnalysis", owner, id, []firestore.Update{
		{Path: "stress_score", Value: int64(update.StressScore)},
		{Path: "happiness_score", Value: nil},
		{Path: "therapy_note", Value: update.TherapyNote},
		{Path: "therapy_note_viewed", Value: false},
	})
}

func (s *Store) MarkNoteViewed(ctx context.Context, owner domain.UserID, id domain.JournalEntryID) error {
	return s.updateOwned(ctx, "MarkNoteViewed", owner, id, []firestore.Update{
		{Path: "therapy_note_viewed", Value: true},
	})
}

func (s *Store) DeleteEntry(ctx context.Context, owner domain.UserID, id domain.JournalEntryID) error {
	ref := s.journalDoc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := s.ownedInTx(tx, owner, ref); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return err
		}
		return fmt.Errorf("firestore DeleteEntry: %w", err)
	}
	return nil
}
