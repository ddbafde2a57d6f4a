// Package editflow coordinates editing an entry on the client side: the
// text is saved first, then re-analysis runs in the background and the
// authoritative record is reloaded when it finishes.
package editflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/PabloGalante/farum-journal/internal/domain"
	"github.com/PabloGalante/farum-journal/internal/observability"
)

type State int

const (
	Viewing State = iota
	Editing
	Saving
	Analyzing
	// Deleted is terminal: the record vanished while the flow was running.
	Deleted
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	case Analyzing:
		return "analyzing"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidTransition is returned when an action is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid edit flow transition")

// Gateway is what the flow needs from the backend, already scoped to the
// signed-in user.
type Gateway interface {
	Load(ctx context.Context, id domain.JournalEntryID) (*domain.JournalEntry, error)
	UpdateText(ctx context.Context, id domain.JournalEntryID, text string) error
	Analyze(ctx context.Context, id domain.JournalEntryID, text string) error
	MarkViewed(ctx context.Context, id domain.JournalEntryID) error
}

// Flow is the per-entry edit state machine.
type Flow struct {
	gw  Gateway
	id  domain.JournalEntryID
	log *zap.SugaredLogger

	mu         sync.Mutex
	state      State
	entry      *domain.JournalEntry
	draft      string
	newInsight bool
}

// New starts a flow in Viewing for an already loaded entry. The flow keeps
// its own copy; the caller's entry is never written to.
func New(gw Gateway, entry *domain.JournalEntry) *Flow {
	e := *entry
	return &Flow{
		gw:    gw,
		id:    e.ID,
		log:   observability.WithFields("journal_id", e.ID, "component", "editflow"),
		state: Viewing,
		entry: &e,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Entry returns the flow's current view of the record (optimistic while analyzing).
func (f *Flow) Entry() *domain.JournalEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entry == nil {
		return nil
	}
	e := *f.entry
	return &e
}

func (f *Flow) Draft() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// HasNewInsight reports a freshly written note that was not acknowledged.
func (f *Flow) HasNewInsight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newInsight
}

func (f *Flow) transition(from, to State) error {
	if f.state != from {
		return fmt.Errorf("%w: %s -> %s while %s", ErrInvalidTransition, from, to, f.state)
	}
	f.state = to
	return nil
}

// Start enters Editing with the current text as draft.
func (f *Flow) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.transition(Viewing, Editing); err != nil {
		return err
	}
	f.draft = f.entry.Text
	return nil
}

func (f *Flow) SetDraft(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Editing {
		return fmt.Errorf("%w: cannot edit draft while %s", ErrInvalidTransition, f.state)
	}
	f.draft = text
	return nil
}

// Cancel discards the draft and goes back to Viewing.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.transition(Editing, Viewing); err != nil {
		return err
	}
	f.draft = ""
	return nil
}

// Save persists text, then starts re-analysis in the background and returns
// its handle. The text write is committed before the analysis is even
// requested, so it survives any analysis failure.
func (f *Flow) Save(ctx context.Context, text string) (*Task, error) {
	f.mu.Lock()
	if f.state != Editing {
		state := f.state
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot save while %s", ErrInvalidTransition, state)
	}
	if strings.TrimSpace(text) == "" {
		f.mu.Unlock()
		return nil, domain.ErrEmptyText
	}
	f.state = Saving
	f.draft = text
	f.mu.Unlock()

	if err := f.gw.UpdateText(ctx, f.id, text); err != nil {
		f.mu.Lock()
		if errors.Is(err, domain.ErrEntryNotFound) {
			f.state = Deleted
		} else {
			f.state = Editing
		}
		f.mu.Unlock()
		f.log.Warnw("saving text failed", "error", err)
		return nil, err
	}

	f.mu.Lock()
	f.entry.Text = text
	f.draft = ""
	f.state = Analyzing
	f.mu.Unlock()

	task := newTask()
	// The UI does not wait for analysis; cancellation of ctx must not stop it.
	go f.reanalyze(context.WithoutCancel(ctx), task, text)
	return task, nil
}

func (f *Flow) reanalyze(ctx context.Context, task *Task, text string) {
	analysisErr := f.gw.Analyze(ctx, f.id, text)
	if analysisErr != nil {
		f.log.Warnw("re-analysis failed, entry stays with previous analysis", "error", analysisErr)
	}

	loaded, loadErr := f.gw.Load(ctx, f.id)

	out := Outcome{AnalysisErr: analysisErr}

	f.mu.Lock()
	switch {
	case errors.Is(loadErr, domain.ErrEntryNotFound):
		f.state = Deleted
		f.entry = nil
		f.newInsight = false
		out.Deleted = true
		f.log.Infow("entry deleted while analyzing")

	case loadErr != nil:
		f.state = Viewing
		out.LoadErr = loadErr
		f.log.Warnw("reload after analysis failed", "error", loadErr)

	default:
		f.state = Viewing
		f.entry = loaded
		if analysisErr == nil && loaded.Analysis.HasUnviewedNote() {
			f.newInsight = true
		}
		e := *loaded
		out.Entry = &e
	}
	f.mu.Unlock()

	task.complete(out)
}

// AcknowledgeInsight marks the note as viewed and clears the flag.
func (f *Flow) AcknowledgeInsight(ctx context.Context) error {
	f.mu.Lock()
	if !f.newInsight {
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()

	if err := f.gw.MarkViewed(ctx, f.id); err != nil {
		return err
	}

	f.mu.Lock()
	f.newInsight = false
	if f.entry != nil {
		f.entry.Analysis.TherapyNoteViewed = true
	}
	f.mu.Unlock()
	return nil
}
