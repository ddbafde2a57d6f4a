package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/PabloGalante/farum-journal/internal/app/analysis"
	"github.com/PabloGalante/farum-journal/internal/app/journal"
	"github.com/PabloGalante/farum-journal/internal/domain"
	"github.com/PabloGalante/farum-journal/internal/observability"
)

type Server struct {
	journals *journal.Service
	analysis *analysis.Service
}

func NewServer(journals *journal.Service, analysisSvc *analysis.Service) http.Handler {
	s := &Server{journals: journals, analysis: analysisSvc}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	// POST /analyze → run the analysis pipeline for one entry
	mux.HandleFunc("POST /analyze", requireUser(s.handleAnalyze))

	mux.HandleFunc("POST /journals", requireUser(s.handleCreateEntry))
	mux.HandleFunc("GET /journals", requireUser(s.handleListEntries))
	mux.HandleFunc("GET /journals/{id}", requireUser(s.handleGetEntry))
	mux.HandleFunc("PATCH /journals/{id}", requireUser(s.handleUpdateText))
	mux.HandleFunc("DELETE /journals/{id}", requireUser(s.handleDeleteEntry))
	mux.HandleFunc("POST /journals/{id}/viewed", requireUser(s.handleMarkViewed))
	// retry affordance: re-run analysis on the stored text
	mux.HandleFunc("POST /journals/{id}/analyze", requireUser(s.handleReanalyze))

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type analyzeRequest struct {
	EntryText string `json:"entry_text"`
	JournalID string `json:"journal_id"`
}

type analyzeResponse struct {
	StressScore    int    `json:"stress_score"`
	HappinessScore *int   `json:"happiness_score"`
	TherapyNote    string `json:"therapy_note"`
}

type entryTextRequest struct {
	Text string `json:"text"`
}

type entryResponse struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Text              string    `json:"text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	StressScore       *int      `json:"stress_score"`
	HappinessScore    *int      `json:"happiness_score"`
	TherapyNote       *string   `json:"therapy_note"`
	TherapyNoteViewed bool      `json:"therapy_note_viewed"`
}

type listEntriesResponse struct {
	Entries []entryResponse `json:"entries"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s.runAnalysis(w, r, analysis.AnalyzeInput{
		UserID:    userID,
		JournalID: domain.JournalEntryID(req.JournalID),
		Text:      req.EntryText,
	})
}

func (s *Server) handleReanalyze(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	id := domain.JournalEntryID(r.PathValue("id"))

	entry, err := s.journals.GetEntry(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.runAnalysis(w, r, analysis.AnalyzeInput{
		UserID:    userID,
		JournalID: id,
		Text:      entry.Text,
	})
}

func (s *Server) runAnalysis(w http.ResponseWriter, r *http.Request, in analysis.AnalyzeInput) {
	// A client that goes away does not cancel the pipeline; the write still happens.
	ctx := context.WithoutCancel(r.Context())

	out, err := s.analysis.Analyze(ctx, in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		StressScore:    out.StressScore,
		HappinessScore: nil,
		TherapyNote:    out.TherapyNote,
	})
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	var req entryTextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := s.journals.CreateEntry(r.Context(), userID, req.Text)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := s.journals.GetUserJournal(r.Context(), userID, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := listEntriesResponse{Entries: make([]entryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	entry, err := s.journals.GetEntry(r.Context(), userID, domain.JournalEntryID(r.PathValue("id")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleUpdateText(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	var req entryTextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id := domain.JournalEntryID(r.PathValue("id"))
	if err := s.journals.UpdateText(r.Context(), userID, id, req.Text); err != nil {
		writeDomainError(w, r, err)
		return
	}

	entry, err := s.journals.GetEntry(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	if err := s.journals.DeleteEntry(r.Context(), userID, domain.JournalEntryID(r.PathValue("id"))); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkViewed(w http.ResponseWriter, r *http.Request, userID domain.UserID) {
	if err := s.journals.MarkNoteViewed(r.Context(), userID, domain.JournalEntryID(r.PathValue("id"))); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Journal Helpers
// ─────────────────────────────────────────────

func toEntryResponse(e *domain.JournalEntry) entryResponse {
	return entryResponse{
		ID:                string(e.ID),
		UserID:            string(e.UserID),
		Text:              e.Text,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
		StressScore:       e.Analysis.StressScore,
		HappinessScore:    e.Analysis.HappinessScore,
		TherapyNote:       e.Analysis.TherapyNote,
		TherapyNoteViewed: e.Analysis.TherapyNoteViewed,
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

// maxBodyBytes caps request bodies; journal text is a few KB at most.
const maxBodyBytes = 1 << 20

// decodeJSON reads a bounded JSON body into v and writes the error
// response itself when it fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	badRequest(w, "invalid JSON body")
	return false
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyText), errors.Is(err, domain.ErrMissingJournalID):
		badRequest(w, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		observability.LoggerFromContext(r.Context()).Errorw("request failed", "error", err)
		// Persistence failures are reported with their underlying message.
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
