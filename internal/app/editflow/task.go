package editflow

import (
	"context"
	"sync"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

// Outcome is what a finished re-analysis left behind.
type Outcome struct {
	// Entry is the authoritative record after reload. Nil when the record
	// was deleted or could not be reloaded.
	Entry *domain.JournalEntry

	// AnalysisErr is the orchestrator failure, if any. The text save had
	// already been committed when it happened.
	AnalysisErr error

	// LoadErr is set when the reload failed for a reason other than deletion.
	LoadErr error

	// Deleted reports that the record disappeared while analysis ran.
	Deleted bool
}

// Task is a handle on a background re-analysis. It completes exactly once.
type Task struct {
	done chan struct{}

	mu        sync.Mutex
	outcome   Outcome
	callbacks []func(Outcome)
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// OnComplete registers fn to run with the outcome. If the task already
// finished, fn runs immediately on the caller's goroutine.
func (t *Task) OnComplete(fn func(Outcome)) {
	t.mu.Lock()
	select {
	case <-t.done:
		o := t.outcome
		t.mu.Unlock()
		fn(o)
		return
	default:
	}
	t.callbacks = append(t.callbacks, fn)
	t.mu.Unlock()
}

func (t *Task) complete(o Outcome) {
	t.mu.Lock()
	t.outcome = o
	callbacks := t.callbacks
	t.callbacks = nil
	close(t.done)
	t.mu.Unlock()

	for _, fn := range callbacks {
		fn(o)
	}
}
