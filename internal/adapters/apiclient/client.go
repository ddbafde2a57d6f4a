// Package apiclient talks to a running farum-api on behalf of one user.
// It implements editflow.Gateway over HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

const userHeader = "X-User-ID"

type Client struct {
	baseURL    string
	userID     domain.UserID
	httpClient *http.Client
}

// New builds a client. A nil httpClient gets a 30s timeout client.
func New(baseURL string, userID domain.UserID, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: httpClient,
	}
}

type errorResponse struct {
	Error string `json:"error"`
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

func (e entryResponse) toDomain() *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:        domain.JournalEntryID(e.ID),
		UserID:    domain.UserID(e.UserID),
		Text:      e.Text,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		Analysis: domain.AnalysisResult{
			StressScore:       e.StressScore,
			HappinessScore:    e.HappinessScore,
			TherapyNote:       e.TherapyNote,
			TherapyNoteViewed: e.TherapyNoteViewed,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set(userHeader, string(c.userID))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return statusError(resp.StatusCode, e.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// statusError maps API statuses back onto the domain error taxonomy.
func statusError(status int, msg string) error {
	switch status {
	case http.StatusNotFound:
		return domain.ErrEntryNotFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusBadRequest:
		return fmt.Errorf("bad request: %s", msg)
	default:
		return fmt.Errorf("api error (status %d): %s", status, msg)
	}
}

func entryPath(id domain.JournalEntryID) string {
	return "/journals/" + url.PathEscape(string(id))
}

func (c *Client) Create(ctx context.Context, text string) (*domain.JournalEntry, error) {
	var resp entryResponse
	if err := c.do(ctx, http.MethodPost, "/journals", map[string]string{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func (c *Client) Load(ctx context.Context, id domain.JournalEntryID) (*domain.JournalEntry, error) {
	var resp entryResponse
	if err := c.do(ctx, http.MethodGet, entryPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func (c *Client) UpdateText(ctx context.Context, id domain.JournalEntryID, text string) error {
	return c.do(ctx, http.MethodPatch, entryPath(id), map[string]string{"text": text}, nil)
}

// Analyze triggers the pipeline through POST /analyze.
func (c *Client) Analyze(ctx context.Context, id domain.JournalEntryID, text string) error {
	body := map[string]string{
		"entry_text": text,
		"journal_id": string(id),
	}
	return c.do(ctx, http.MethodPost, "/analyze", body, nil)
}

func (c *Client) MarkViewed(ctx context.Context, id domain.JournalEntryID) error {
	return c.do(ctx, http.MethodPost, entryPath(id)+"/viewed", nil, nil)
}
