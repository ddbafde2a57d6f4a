package editflow

import (
	"context"

	"github.com/PabloGalante/farum-journal/internal/app/analysis"
	"github.com/PabloGalante/farum-journal/internal/app/journal"
	"github.com/PabloGalante/farum-journal/internal/domain"
)

// LocalGateway runs the flow against in-process services for one user.
type LocalGateway struct {
	UserID   domain.UserID
	Journals *journal.Service
	Analysis *analysis.Service
}

func (g *LocalGateway) Load(ctx context.Context, id domain.JournalEntryID) (*domain.JournalEntry, error) {
	return g.Journals.GetEntry(ctx, g.UserID, id)
}

func (g *LocalGateway) UpdateText(ctx context.Context, id domain.JournalEntryID, text string) error {
	return g.Journals.UpdateText(ctx, g.UserID, id, text)
}

func (g *LocalGateway) Analyze(ctx context.Context, id domain.JournalEntryID, text string) error {
	_, err := g.Analysis.Analyze(ctx, analysis.AnalyzeInput{
		UserID:    g.UserID,
		JournalID: id,
		Text:      text,
	})
	return err
}

func (g *LocalGateway) MarkViewed(ctx context.Context, id domain.JournalEntryID) error {
	return g.Journals.MarkNoteViewed(ctx, g.UserID, id)
}
