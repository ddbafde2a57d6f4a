package analysis_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-journal/internal/adapters/inference"
	"github.com/PabloGalante/farum-journal/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-journal/internal/app/analysis"
	"github.com/PabloGalante/farum-journal/internal/domain"
)

// fakeClassifier answers with canned payloads per task.
type fakeClassifier struct {
	sentiment []byte
	emotion   []byte
	emoErr    error
	calls     atomic.Int32
}

func (f *fakeClassifier) Classify(_ context.Context, task domain.ClassificationTask, _ string) ([]byte, error) {
	f.calls.Add(1)
	if task == domain.TaskEmotion {
		if f.emoErr != nil {
			return nil, f.emoErr
		}
		return f.emotion, nil
	}
	return f.sentiment, nil
}

type failingStore struct {
	*memory.JournalStore
}

func (failingStore) UpdateAnalysis(context.Context, domain.UserID, domain.JournalEntryID, domain.AnalysisUpdate) error {
	return errors.New("write rejected")
}

func seed(t *testing.T, store domain.JournalStore, user domain.UserID, text string) domain.JournalEntryID {
	t.Helper()
	now := time.Now().UTC()
	entry := &domain.JournalEntry{
		ID:        domain.JournalEntryID("entry-" + string(user)),
		UserID:    user,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.CreateEntry(context.Background(), entry))
	return entry.ID
}

func newService(backend domain.Classifier, credential string, store domain.JournalStore) *analysis.Service {
	client := inference.NewClient(inference.Config{Credential: credential}, backend, nil)
	return analysis.NewService(client, store)
}

func TestAnalyzeJoyfulEntry(t *testing.T) {
	ctx := context.Background()
	store := memory.NewJournalStore()
	id := seed(t, store, "alice", "I feel wonderful and calm today")

	backend := &fakeClassifier{
		sentiment: []byte(`[[{"label":"POSITIVE","score":0.9},{"label":"NEGATIVE","score":0.1}]]`),
		emotion:   []byte(`[[{"label":"joy","score":0.9},{"label":"neutral","score":0.1}]]`),
	}
	svc := newService(backend, "token", store)

	out, err := svc.Analyze(ctx, analysis.AnalyzeInput{UserID: "alice", JournalID: id, Text: "I feel wonderful and calm today"})
	require.NoError(t, err)

	assert.Equal(t, 1, out.StressScore)
	assert.Equal(t, 10, out.HappinessScore)
	assert.Equal(t, "joy", out.DominantEmotion)
	assert.True(t, len(out.TherapyNote) > 0)
	assert.EqualValues(t, 2, backend.calls.Load())

	stored, err := store.GetEntry(ctx, "alice", id)
	require.NoError(t, err)
	require.NotNil(t, stored.Analysis.StressScore)
	assert.Equal(t, 1, *stored.Analysis.StressScore)
	assert.Equal(t, out.TherapyNote, *stored.Analysis.TherapyNote)
	assert.Nil(t, stored.Analysis.HappinessScore)
	assert.False(t, stored.Analysis.TherapyNoteViewed)
}

func TestAnalyzeEmotionCallFails(t *testing.T) {
	ctx := context.Background()
	store := memory.NewJournalStore()
	id := seed(t, store, "bob", "meh")

	backend := &fakeClassifier{
		sentiment: []byte(`[{"label":"NEGATIVE","score":0.5}]`),
		emoErr:    domain.ErrExternalServiceUnavailable,
	}
	svc := newService(backend, "token", store)

	out, err := svc.Analyze(ctx, analysis.AnalyzeInput{UserID: "bob", JournalID: id, Text: "meh"})
	require.NoError(t, err)

	assert.Equal(t, 5, out.StressScore)
	assert.Equal(t, 3, out.HappinessScore)
	assert.Equal(t, domain.SentimentNegative, out.Sentiment.Label)
}

func TestAnalyzeWithoutCredentialSkipsClassifier(t *testing.T) {
	ctx := context.Background()
	store := memory.NewJournalStore()
	id := seed(t, store, "carol", "anything at all")

	backend := &fakeClassifier{}
	svc := newService(backend, "", store)

	out, err := svc.Analyze(ctx, analysis.AnalyzeInput{UserID: "carol", JournalID: id, Text: "anything at all"})
	require.NoError(t, err)

	assert.Zero(t, backend.calls.Load())
	assert.Equal(t, 5, out.StressScore)
	assert.Equal(t, 5, out.HappinessScore)
	assert.Equal(t, domain.SentimentNeutral, out.Sentiment.Label)
}

func TestAnalyzeMalformedPayloadsDegrade(t *testing.T) {
	ctx := context.Background()
	store := memory.NewJournalStore()
	id := seed(t, store, "dan", "text")

	backend := &fakeClassifier{
		sentiment: []byte(`{"error":"Model is currently loading"}`),
		emotion:   []byte(`not json`),
	}
	svc := newService(backend, "token", store)

	out, err := svc.Analyze(ctx, analysis.AnalyzeInput{UserID: "dan", JournalID: id, Text: "text"})
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentNeutral, out.Sentiment.Label)
	assert.Equal(t, "neutral", out.DominantEmotion)
	assert.Equal(t, 5, out.StressScore)
	assert.Equal(t, 5, out.HappinessScore)
}

func TestUnreadableAndFailedEmotionCallsScoreAlike(t *testing.T) {
	ctx := context.Background()
	sentiment := []byte(`[{"label":"NEGATIVE","score":0.5}]`)

	failed := &fakeClassifier{sentiment: sentiment, emoErr: domain.ErrExternalServiceUnavailable}
	unreadable := &fakeClassifier{sentiment: sentiment, emotion: []byte(`{"error":"Model is currently loading"}`)}

	var scores [][2]int
	for _, backend := range []*fakeClassifier{failed, unreadable} {
		store := memory.NewJournalStore()
		id := seed(t, store, "hana", "meh")

		out, err := newService(backend, "token", store).Analyze(ctx, analysis.AnalyzeInput{UserID: "hana", JournalID: id, Text: "meh"})
		require.NoError(t, err)
		assert.NotContains(t, out.TherapyNote, "fairly relaxed")
		scores = append(scores, [2]int{out.StressScore, out.HappinessScore})
	}

	assert.Equal(t, [2]int{5, 3}, scores[0])
	assert.Equal(t, scores[0], scores[1])
}

func TestAnalyzeValidationHappensBeforeInference(t *testing.T) {
	backend := &fakeClassifier{}
	svc := newService(backend, "token", memory.NewJournalStore())

	tests := []struct {
		name string
		in   analysis.AnalyzeInput
		want error
	}{
		{"no user", analysis.AnalyzeInput{JournalID: "j", Text: "t"}, domain.ErrUnauthenticated},
		{"no journal", analysis.AnalyzeInput{UserID: "u", Text: "t"}, domain.ErrMissingJournalID},
		{"blank text", analysis.AnalyzeInput{UserID: "u", JournalID: "j", Text: " \n\t"}, domain.ErrEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Analyze(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, backend.calls.Load())
}

func TestAnalyzePersistenceFailureIsSurfaced(t *testing.T) {
	ctx := context.Background()
	store := failingStore{memory.NewJournalStore()}
	id := seed(t, store, "erin", "hello")

	svc := newService(inference.NewMockClassifier(), "local", store)

	_, err := svc.Analyze(ctx, analysis.AnalyzeInput{UserID: "erin", JournalID: id, Text: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Contains(t, err.Error(), "write rejected")

	stored, err := store.GetEntry(ctx, "erin", id)
	require.NoError(t, err)
	assert.Nil(t, stored.Analysis.StressScore)
	assert.Nil(t, stored.Analysis.TherapyNote)
}

func TestAnalyzeCannotWriteAnotherUsersEntry(t *testing.T) {
	ctx := context.Background()
	store := memory.NewJournalStore()
	id := seed(t, store, "frank", "mine")

	svc := newService(inference.NewMockClassifier(), "local", store)

	_, err := svc.Analyze(ctx, analysis.AnalyzeInput{UserID: "mallory", JournalID: id, Text: "mine"})
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	stored, err := store.GetEntry(ctx, "frank", id)
	require.NoError(t, err)
	assert.Nil(t, stored.Analysis.StressScore)
}

func TestReanalysisResetsViewedFlag(t *testing.T) {
	ctx := context.Background()
	store := memory.NewJournalStore()
	id := seed(t, store, "gina", "I am so anxious and worried")

	svc := newService(inference.NewMockClassifier(), "local", store)
	in := analysis.AnalyzeInput{UserID: "gina", JournalID: id, Text: "I am so anxious and worried"}

	_, err := svc.Analyze(ctx, in)
	require.NoError(t, err)
	require.NoError(t, store.MarkNoteViewed(ctx, "gina", id))

	_, err = svc.Analyze(ctx, in)
	require.NoError(t, err)

	stored, err := store.GetEntry(ctx, "gina", id)
	require.NoError(t, err)
	assert.False(t, stored.Analysis.TherapyNoteViewed)
	assert.True(t, stored.Analysis.HasUnviewedNote())
}
