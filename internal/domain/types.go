package domain

type UserID string
type JournalEntryID string

// SentimentLabel is the closed set every classifier label is mapped into.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// ClassificationTask selects which external classifier is called.
type ClassificationTask string

const (
	TaskSentiment ClassificationTask = "sentiment"
	TaskEmotion   ClassificationTask = "emotion"
)

// Emotion labels the scoring and note rules know about.
const (
	EmotionJoy     = "joy"
	EmotionSadness = "sadness"
	EmotionAnger   = "anger"
	EmotionFear    = "fear"
	EmotionNeutral = "neutral"
)
