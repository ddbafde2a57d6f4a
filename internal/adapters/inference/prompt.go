package inference

import "github.com/PabloGalante/farum-journal/internal/domain"

const baseClassifierPrompt = `
You are a text classifier used by a private journaling app.
You never answer the user, you only classify the journal entry you receive.

Output rules:
- Answer with JSON only, no prose and no markdown fences.
- The JSON is a list of objects {"label": string, "score": number}.
- Scores are confidences between 0 and 1 and add up to roughly 1.
- Sort the list by score, highest first.
`

const sentimentInstructions = `
Task: sentiment
Allowed labels: POSITIVE, NEGATIVE, NEUTRAL.
`

const emotionInstructions = `
Task: emotion
Allowed labels: anger, disgust, fear, joy, neutral, sadness, surprise.
`

// BuildClassifierPrompt returns the system instruction for a task.
func BuildClassifierPrompt(task domain.ClassificationTask) string {
	return baseClassifierPrompt + "\n" + taskInstructions(task)
}

func taskInstructions(task domain.ClassificationTask) string {
	switch task {
	case domain.TaskEmotion:
		return emotionInstructions
	case domain.TaskSentiment:
		fallthrough
	default:
		return sentimentInstructions
	}
}
