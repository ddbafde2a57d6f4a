package inference

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/PabloGalante/farum-journal/internal/domain"
	"github.com/PabloGalante/farum-journal/internal/observability"
)

// Neutral default payloads, in the same wire shape real classifiers use.
var (
	DefaultSentimentPayload = []byte(`[{"label":"neutral","score":0}]`)
	DefaultEmotionPayload   = []byte(`[{"label":"neutral","score":1}]`)
)

// Config is everything the client needs; nothing is read from the environment.
type Config struct {
	SentimentURL string
	EmotionURL   string

	// Credential is optional. Without it no call is made.
	Credential string

	// Timeout bounds each classifier call. Zero means no extra bound.
	Timeout time.Duration
}

// HasCredential reports whether external calls are enabled.
func (c Config) HasCredential() bool {
	return strings.TrimSpace(c.Credential) != ""
}

// Client implements domain.InferenceClient on top of a Classifier backend.
type Client struct {
	cfg     Config
	backend domain.Classifier
	log     *zap.SugaredLogger
}

// NewClient builds a client. A nil logger uses the global one.
func NewClient(cfg Config, backend domain.Classifier, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = observability.Logger()
	}
	return &Client{
		cfg:     cfg,
		backend: backend,
		log:     log,
	}
}

// Classify runs the sentiment and emotion calls concurrently. Each call
// falls back on its own; no retries are made.
func (c *Client) Classify(ctx context.Context, text string) domain.RawClassification {
	out := domain.RawClassification{
		Sentiment:         DefaultSentimentPayload,
		Emotion:           DefaultEmotionPayload,
		SentimentFallback: true,
		EmotionFallback:   true,
	}

	if !c.cfg.HasCredential() || c.backend == nil {
		c.log.Debugw("inference credential absent, using neutral defaults")
		return out
	}

	var g errgroup.Group

	g.Go(func() error {
		if raw, ok := c.call(ctx, domain.TaskSentiment, text); ok {
			out.Sentiment = raw
			out.SentimentFallback = false
		}
		return nil
	})

	g.Go(func() error {
		if raw, ok := c.call(ctx, domain.TaskEmotion, text); ok {
			out.Emotion = raw
			out.EmotionFallback = false
		}
		return nil
	})

	_ = g.Wait()
	return out
}

func (c *Client) call(ctx context.Context, task domain.ClassificationTask, text string) ([]byte, bool) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	log := c.log.With("task", task)
	start := time.Now()

	raw, err := c.backend.Classify(ctx, task, text)
	if err != nil {
		log.Warnw("classifier call failed, using neutral default",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, false
	}

	log.Debugw("classifier call done", "elapsed_ms", time.Since(start).Milliseconds())
	return raw, true
}
