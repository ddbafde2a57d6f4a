package analysis

import (
	"math"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

const (
	baselineScore = 5
	minScore      = 1
	maxScore      = 10
)

// Calculate maps a sentiment and an emotion set onto stress and happiness
// scores in [1,10]. Clamping happens after the arithmetic.
func Calculate(sentiment domain.Sentiment, emotions domain.EmotionSet) domain.Scores {
	stress := baselineScore
	if dominant, ok := emotions.Dominant(); ok {
		switch dominant.Label {
		case domain.EmotionAnger, domain.EmotionFear, domain.EmotionSadness:
			stress = round(baselineScore + dominant.Score*5)
		case domain.EmotionJoy, domain.EmotionNeutral:
			stress = round(baselineScore - dominant.Score*4)
		}
	}

	happiness := baselineScore
	switch sentiment.Label {
	case domain.SentimentPositive:
		happiness += round(sentiment.Score * 5)
	case domain.SentimentNegative:
		happiness -= round(sentiment.Score * 4)
	}

	return domain.Scores{
		Stress:    clampScore(stress),
		Happiness: clampScore(happiness),
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

func clampScore(v int) int {
	return max(minScore, min(maxScore, v))
}
