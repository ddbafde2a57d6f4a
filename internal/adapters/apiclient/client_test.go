package apiclient_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-journal/internal/adapters/apiclient"
	httpadapter "github.com/PabloGalante/farum-journal/internal/adapters/http"
	"github.com/PabloGalante/farum-journal/internal/adapters/inference"
	"github.com/PabloGalante/farum-journal/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-journal/internal/app/analysis"
	"github.com/PabloGalante/farum-journal/internal/app/editflow"
	journalapp "github.com/PabloGalante/farum-journal/internal/app/journal"
	"github.com/PabloGalante/farum-journal/internal/domain"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewJournalStore()
	client := inference.NewClient(inference.Config{Credential: "local"}, inference.NewMockClassifier(), nil)
	srv := httptest.NewServer(httpadapter.NewServer(
		journalapp.NewService(store),
		analysis.NewService(client, store),
	))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTrip(t *testing.T) {
	srv := newAPI(t)
	ctx := context.Background()
	c := apiclient.New(srv.URL, "alice", nil)

	entry, err := c.Create(ctx, "I was anxious about the exam")
	require.NoError(t, err)
	assert.Nil(t, entry.Analysis.StressScore)

	require.NoError(t, c.Analyze(ctx, entry.ID, entry.Text))

	loaded, err := c.Load(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Analysis.StressScore)
	assert.True(t, loaded.Analysis.HasUnviewedNote())

	require.NoError(t, c.MarkViewed(ctx, entry.ID))
	loaded, err = c.Load(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Analysis.TherapyNoteViewed)
}

func TestClientMapsNotFound(t *testing.T) {
	srv := newAPI(t)
	ctx := context.Background()

	owner := apiclient.New(srv.URL, "alice", nil)
	entry, err := owner.Create(ctx, "private")
	require.NoError(t, err)

	other := apiclient.New(srv.URL, "mallory", nil)
	_, err = other.Load(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	err = other.UpdateText(ctx, entry.ID, "overwritten")
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEditFlowOverHTTP(t *testing.T) {
	srv := newAPI(t)
	ctx := context.Background()
	c := apiclient.New(srv.URL, "alice", nil)

	entry, err := c.Create(ctx, "a plain day")
	require.NoError(t, err)

	flow := editflow.New(c, entry)
	require.NoError(t, flow.Start())

	task, err := flow.Save(ctx, "a happy and wonderful day")
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := task.Wait(waitCtx)
	require.NoError(t, err)

	require.NoError(t, out.AnalysisErr)
	require.NotNil(t, out.Entry)
	assert.Equal(t, "a happy and wonderful day", out.Entry.Text)
	assert.True(t, flow.HasNewInsight())
	assert.Equal(t, editflow.Viewing, flow.State())
}
