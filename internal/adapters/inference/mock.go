package inference

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

// MockClassifier is a keyword model for local mode. It answers in the
// nested [[...]] shape hosted classifiers use.
type MockClassifier struct{}

func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

var emotionKeywords = map[string][]string{
	domain.EmotionJoy:     {"happy", "joy", "wonderful", "great", "calm", "grateful", "love", "excited"},
	domain.EmotionSadness: {"sad", "lonely", "cry", "down", "miss", "lost", "tired"},
	domain.EmotionAnger:   {"angry", "furious", "hate", "annoyed", "mad", "unfair"},
	domain.EmotionFear:    {"afraid", "scared", "anxious", "worried", "nervous", "panic"},
}

// Order used to report emotions, so ties stay deterministic.
var emotionOrder = []string{
	domain.EmotionJoy,
	domain.EmotionSadness,
	domain.EmotionAnger,
	domain.EmotionFear,
}

type mockCandidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (m *MockClassifier) Classify(_ context.Context, task domain.ClassificationTask, text string) ([]byte, error) {
	counts := countKeywords(text)

	var list []mockCandidate
	switch task {
	case domain.TaskSentiment:
		pos := counts[domain.EmotionJoy]
		neg := counts[domain.EmotionSadness] + counts[domain.EmotionAnger] + counts[domain.EmotionFear]
		total := pos + neg
		if total == 0 {
			list = []mockCandidate{{"POSITIVE", 0.5}, {"NEGATIVE", 0.5}}
			break
		}
		p := float64(pos) / float64(total)
		list = []mockCandidate{{"POSITIVE", p}, {"NEGATIVE", 1 - p}}

	default:
		total := 0
		for _, c := range counts {
			total += c
		}
		if total == 0 {
			list = []mockCandidate{{domain.EmotionNeutral, 1}}
			break
		}
		for _, label := range emotionOrder {
			if counts[label] > 0 {
				list = append(list, mockCandidate{label, float64(counts[label]) / float64(total)})
			}
		}
	}

	return json.Marshal([][]mockCandidate{list})
}

func countKeywords(text string) map[string]int {
	counts := make(map[string]int, len(emotionKeywords))
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		for label, keywords := range emotionKeywords {
			for _, k := range keywords {
				if word == k {
					counts[label]++
				}
			}
		}
	}
	return counts
}
