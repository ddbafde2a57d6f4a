package firestore_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	firestorestore "github.com/PabloGalante/farum-journal/internal/adapters/storage/firestore"
	"github.com/PabloGalante/farum-journal/internal/adapters/storage/storagetest"
	"github.com/PabloGalante/farum-journal/internal/domain"
)

// Runs only against the Firestore emulator (gcloud emulators firestore start).
func TestJournalStoreContract(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	storagetest.RunJournalStore(t, func(t *testing.T) domain.JournalStore {
		// The emulator keeps one database per project, so every subtest gets its own.
		s, err := firestorestore.NewStore(context.Background(), "farum-test-"+uuid.NewString()[:8])
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestNewStoreRequiresProject(t *testing.T) {
	_, err := firestorestore.NewStore(context.Background(), "")
	require.Error(t, err)
}
