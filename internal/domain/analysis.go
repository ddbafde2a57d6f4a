package domain

// Sentiment is the canonical output of the sentiment classifier.
type Sentiment struct {
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
}

// Emotion is one (label, confidence) pair of the emotion classifier.
type Emotion struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// EmotionSet keeps the order in which the classifier reported emotions.
type EmotionSet []Emotion

// Dominant returns the emotion with the highest confidence.
// Ties go to the first one seen. ok is false for an empty set.
func (s EmotionSet) Dominant() (Emotion, bool) {
	if len(s) == 0 {
		return Emotion{}, false
	}
	best := s[0]
	for _, e := range s[1:] {
		if e.Score > best.Score {
			best = e
		}
	}
	return best, true
}

// NeutralSentiment is used whenever no sentiment could be inferred.
func NeutralSentiment() Sentiment {
	return Sentiment{Label: SentimentNeutral, Score: 0}
}

// NeutralEmotions is used whenever no emotions could be inferred.
func NeutralEmotions() EmotionSet {
	return EmotionSet{{Label: EmotionNeutral, Score: 1.0}}
}

// Scores are the bounded integers derived from a classification.
type Scores struct {
	Stress    int
	Happiness int
}
