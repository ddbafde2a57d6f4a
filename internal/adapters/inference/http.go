package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

// maxResponseBytes caps how much of a classifier response is read.
const maxResponseBytes = 1 << 20

// HTTPClassifier calls hosted text-classification endpoints that take
// {"inputs": "..."} and answer with label/score lists.
type HTTPClassifier struct {
	sentimentURL string
	emotionURL   string
	credential   string
	httpClient   *http.Client
}

// NewHTTPClassifier builds a classifier from the endpoint config.
// A nil httpClient uses http.DefaultClient.
func NewHTTPClassifier(cfg Config, httpClient *http.Client) *HTTPClassifier {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClassifier{
		sentimentURL: cfg.SentimentURL,
		emotionURL:   cfg.EmotionURL,
		credential:   cfg.Credential,
		httpClient:   httpClient,
	}
}

type classifyRequest struct {
	Inputs string `json:"inputs"`
}

// Classify implements domain.Classifier.
func (c *HTTPClassifier) Classify(ctx context.Context, task domain.ClassificationTask, text string) ([]byte, error) {
	var url string
	switch task {
	case domain.TaskSentiment:
		url = c.sentimentURL
	case domain.TaskEmotion:
		url = c.emotionURL
	default:
		return nil, fmt.Errorf("unknown classification task %q", task)
	}
	if url == "" {
		return nil, fmt.Errorf("%w: no endpoint configured for %s", domain.ErrExternalServiceUnavailable, task)
	}

	body, err := json.Marshal(classifyRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", task, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", task, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s call: %v", domain.ErrExternalServiceUnavailable, task, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", domain.ErrExternalServiceUnavailable, task, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s call returned status %d", domain.ErrExternalServiceUnavailable, task, resp.StatusCode)
	}

	return raw, nil
}
