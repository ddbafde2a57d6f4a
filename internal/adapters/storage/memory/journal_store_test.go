package memory_test

import (
	"testing"

	"github.com/PabloGalante/farum-journal/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-journal/internal/adapters/storage/storagetest"
	"github.com/PabloGalante/farum-journal/internal/domain"
)

func TestJournalStoreContract(t *testing.T) {
	storagetest.RunJournalStore(t, func(t *testing.T) domain.JournalStore {
		return memory.NewJournalStore()
	})
}
