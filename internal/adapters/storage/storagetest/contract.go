// Package storagetest holds the behavior every domain.JournalStore must share.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

// RunJournalStore runs the contract against stores built by newStore.
// Each subtest gets a fresh store.
func RunJournalStore(t *testing.T, newStore func(t *testing.T) domain.JournalStore) {
	t.Helper()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mkEntry := func(id string, owner domain.UserID, offset time.Duration) *domain.JournalEntry {
		at := base.Add(offset)
		return &domain.JournalEntry{
			ID:        domain.JournalEntryID(id),
			UserID:    owner,
			Text:      "text of " + id,
			CreatedAt: at,
			UpdatedAt: at,
		}
	}

	t.Run("create and get", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.CreateEntry(ctx, mkEntry("e1", "alice", 0)))

		got, err := s.GetEntry(ctx, "alice", "e1")
		require.NoError(t, err)
		assert.Equal(t, "text of e1", got.Text)
		assert.Equal(t, domain.UserID("alice"), got.UserID)
		assert.True(t, base.Equal(got.CreatedAt))
		assert.Nil(t, got.Analysis.StressScore)
		assert.Nil(t, got.Analysis.TherapyNote)
		assert.False(t, got.Analysis.TherapyNoteViewed)
	})

	t.Run("owner scoping", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.CreateEntry(ctx, mkEntry("e1", "alice", 0)))

		_, err := s.GetEntry(ctx, "bob", "e1")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)

		assert.ErrorIs(t, s.UpdateText(ctx, "bob", "e1", "hijack", base), domain.ErrEntryNotFound)
		assert.ErrorIs(t, s.UpdateAnalysis(ctx, "bob", "e1", domain.AnalysisUpdate{StressScore: 9, TherapyNote: "x"}), domain.ErrEntryNotFound)
		assert.ErrorIs(t, s.MarkNoteViewed(ctx, "bob", "e1"), domain.ErrEntryNotFound)
		assert.ErrorIs(t, s.DeleteEntry(ctx, "bob", "e1"), domain.ErrEntryNotFound)

		got, err := s.GetEntry(ctx, "alice", "e1")
		require.NoError(t, err)
		assert.Equal(t, "text of e1", got.Text)
		assert.Nil(t, got.Analysis.StressScore)
	})

	t.Run("missing entry", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		_, err := s.GetEntry(ctx, "alice", "nope")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
		assert.ErrorIs(t, s.UpdateAnalysis(ctx, "alice", "nope", domain.AnalysisUpdate{StressScore: 5}), domain.ErrEntryNotFound)
	})

	t.Run("text and analysis are independent writes", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.CreateEntry(ctx, mkEntry("e1", "alice", 0)))

		require.NoError(t, s.UpdateAnalysis(ctx, "alice", "e1", domain.AnalysisUpdate{StressScore: 7, TherapyNote: "note one"}))
		require.NoError(t, s.UpdateText(ctx, "alice", "e1", "edited", base.Add(time.Hour)))

		got, err := s.GetEntry(ctx, "alice", "e1")
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Text)
		assert.True(t, base.Add(time.Hour).Equal(got.UpdatedAt))
		require.NotNil(t, got.Analysis.StressScore)
		assert.Equal(t, 7, *got.Analysis.StressScore)
		require.NotNil(t, got.Analysis.TherapyNote)
		assert.Equal(t, "note one", *got.Analysis.TherapyNote)
	})

	t.Run("analysis write is wholesale", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.CreateEntry(ctx, mkEntry("e1", "alice", 0)))

		require.NoError(t, s.UpdateAnalysis(ctx, "alice", "e1", domain.AnalysisUpdate{StressScore: 3, TherapyNote: "first"}))
		require.NoError(t, s.MarkNoteViewed(ctx, "alice", "e1"))

		got, err := s.GetEntry(ctx, "alice", "e1")
		require.NoError(t, err)
		assert.True(t, got.Analysis.TherapyNoteViewed)

		require.NoError(t, s.UpdateAnalysis(ctx, "alice", "e1", domain.AnalysisUpdate{StressScore: 8, TherapyNote: "second"}))

		got, err = s.GetEntry(ctx, "alice", "e1")
		require.NoError(t, err)
		assert.Equal(t, 8, *got.Analysis.StressScore)
		assert.Equal(t, "second", *got.Analysis.TherapyNote)
		assert.Nil(t, got.Analysis.HappinessScore)
		assert.False(t, got.Analysis.TherapyNoteViewed)
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		for i := 0; i < 5; i++ {
			require.NoError(t, s.CreateEntry(ctx, mkEntry(fmt.Sprintf("a%d", i), "alice", time.Duration(i)*time.Minute)))
		}
		require.NoError(t, s.CreateEntry(ctx, mkEntry("b0", "bob", 0)))

		all, err := s.ListEntriesByUser(ctx, "alice", 0)
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, domain.JournalEntryID("a4"), all[0].ID)
		assert.Equal(t, domain.JournalEntryID("a0"), all[4].ID)

		limited, err := s.ListEntriesByUser(ctx, "alice", 2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, domain.JournalEntryID("a4"), limited[0].ID)
		assert.Equal(t, domain.JournalEntryID("a3"), limited[1].ID)

		none, err := s.ListEntriesByUser(ctx, "carol", 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("delete", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.CreateEntry(ctx, mkEntry("e1", "alice", 0)))
		require.NoError(t, s.CreateEntry(ctx, mkEntry("e2", "alice", time.Minute)))

		require.NoError(t, s.DeleteEntry(ctx, "alice", "e1"))

		_, err := s.GetEntry(ctx, "alice", "e1")
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
		assert.ErrorIs(t, s.UpdateAnalysis(ctx, "alice", "e1", domain.AnalysisUpdate{StressScore: 5}), domain.ErrEntryNotFound)

		left, err := s.ListEntriesByUser(ctx, "alice", 0)
		require.NoError(t, err)
		require.Len(t, left, 1)
		assert.Equal(t, domain.JournalEntryID("e2"), left[0].ID)
	})

	t.Run("returned entries are copies", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.CreateEntry(ctx, mkEntry("e1", "alice", 0)))
		require.NoError(t, s.UpdateAnalysis(ctx, "alice", "e1", domain.AnalysisUpdate{StressScore: 4, TherapyNote: "n"}))

		got, err := s.GetEntry(ctx, "alice", "e1")
		require.NoError(t, err)
		got.Text = "mutated"
		*got.Analysis.StressScore = 99

		again, err := s.GetEntry(ctx, "alice", "e1")
		require.NoError(t, err)
		assert.Equal(t, "text of e1", again.Text)
		assert.Equal(t, 4, *again.Analysis.StressScore)
	})
}
