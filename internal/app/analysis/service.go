package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/farum-journal/internal/domain"
	"github.com/PabloGalante/farum-journal/internal/observability"
)

// Service is the request-scoped analysis entry point. It keeps no state
// between invocations.
type Service struct {
	inference domain.InferenceClient
	store     domain.JournalStore
}

// NewService creates an analysis service.
func NewService(inference domain.InferenceClient, store domain.JournalStore) *Service {
	return &Service{
		inference: inference,
		store:     store,
	}
}

type AnalyzeInput struct {
	UserID    domain.UserID
	JournalID domain.JournalEntryID
	Text      string
}

type AnalyzeOutput struct {
	StressScore int
	// HappinessScore is computed for the note only; it is never persisted.
	HappinessScore  int
	TherapyNote     string
	DominantEmotion string
	Sentiment       domain.Sentiment
}

// run carries the intermediate values between stages.
type run struct {
	in AnalyzeInput

	raw       domain.RawClassification
	sentiment domain.Sentiment
	emotions  domain.EmotionSet
	// noEmotion: the emotion call fell back or its payload was unusable.
	noEmotion bool
	scores    domain.Scores
	dominant  string
	note      string
}

type stage struct {
	name string
	fn   func(ctx context.Context, r *run) error
}

func (s *Service) stages() []stage {
	return []stage{
		{"infer", s.infer},
		{"normalize", s.normalize},
		{"score", s.score},
		{"note", s.writeNote},
		{"persist", s.persist},
	}
}

// Analyze runs exactly one infer/normalize/score/note/persist sequence.
// Only a failed write is reported as an error; classifier trouble degrades
// to neutral defaults.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (*AnalyzeOutput, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", in.UserID,
		"journal_id", in.JournalID,
	)
	log.Infow("analysis started", "text_len", len(in.Text))

	r := &run{in: in}
	for _, st := range s.stages() {
		start := time.Now()

		if err := st.fn(ctx, r); err != nil {
			log.Errorw("analysis stage failed", "stage", st.name, "error", err)
			return nil, err
		}

		log.Debugw("analysis stage end", "stage", st.name, "elapsed_ms", time.Since(start).Milliseconds())
	}

	log.Infow("analysis completed",
		"stress_score", r.scores.Stress,
		"dominant_emotion", r.dominant,
		"sentiment", r.sentiment.Label)

	return &AnalyzeOutput{
		StressScore:     r.scores.Stress,
		HappinessScore:  r.scores.Happiness,
		TherapyNote:     r.note,
		DominantEmotion: r.dominant,
		Sentiment:       r.sentiment,
	}, nil
}

func validate(in AnalyzeInput) error {
	if in.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if in.JournalID == "" {
		return domain.ErrMissingJournalID
	}
	if strings.TrimSpace(in.Text) == "" {
		return domain.ErrEmptyText
	}
	return nil
}

func (s *Service) infer(ctx context.Context, r *run) error {
	r.raw = s.inference.Classify(ctx, r.in.Text)
	return nil
}

func (s *Service) normalize(ctx context.Context, r *run) error {
	log := observability.LoggerFromContext(ctx)

	var ok bool
	r.sentiment, ok = NormalizeSentiment(r.raw.Sentiment)
	if !ok && !r.raw.SentimentFallback {
		log.Warnw("unrecognized sentiment payload, using neutral default", "error", domain.ErrMalformedResponse)
	}

	r.emotions, ok = NormalizeEmotions(r.raw.Emotion)
	if !ok && !r.raw.EmotionFallback {
		log.Warnw("unrecognized emotion payload, using neutral default", "error", domain.ErrMalformedResponse)
	}
	r.noEmotion = !ok || r.raw.EmotionFallback
	return nil
}

func (s *Service) score(_ context.Context, r *run) error {
	emotions := r.emotions
	if r.noEmotion {
		// No emotion signal at all: stress stays at baseline.
		emotions = nil
	}
	r.scores = Calculate(r.sentiment, emotions)

	if d, ok := r.emotions.Dominant(); ok {
		r.dominant = d.Label
	}
	return nil
}

func (s *Service) writeNote(_ context.Context, r *run) error {
	r.note = GenerateNote(NoteInput{
		DominantEmotion: r.dominant,
		StressScore:     r.scores.Stress,
		HappinessScore:  r.scores.Happiness,
		Text:            r.in.Text,
	})
	return nil
}

func (s *Service) persist(ctx context.Context, r *run) error {
	update := domain.AnalysisUpdate{
		StressScore: r.scores.Stress,
		TherapyNote: r.note,
	}
	if err := s.store.UpdateAnalysis(ctx, r.in.UserID, r.in.JournalID, update); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return nil
}
