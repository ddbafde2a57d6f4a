package analysis

import (
	"strings"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

// longEntryWords is the word count above which an entry counts as long.
const longEntryWords = 100

var emotionOpeners = map[string]string{
	domain.EmotionJoy:     "It's wonderful to see so much joy in what you wrote today.",
	domain.EmotionSadness: "It sounds like you're carrying some sadness right now, and that's okay to feel.",
	domain.EmotionAnger:   "It seems something really frustrated you, and your anger deserves to be heard.",
	domain.EmotionFear:    "It sounds like something is worrying you, and feeling afraid is a natural response.",
}

const genericOpener = "Thank you for taking a moment to put your thoughts into words."

const (
	highStressRemark = "Your stress level seems high. Try to give yourself a short break, a few slow breaths or a walk can help."
	lowStressRemark  = "You seem fairly relaxed, which is a great moment to notice what is helping you feel this way."

	highHappinessRemark = "There is a lot of positivity in your words. Consider writing down what made today good so you can come back to it."
	lowHappinessRemark  = "Things seem heavy at the moment. Be gentle with yourself and consider reaching out to someone you trust."

	longEntryCloser  = "You wrote a lot today. Reflecting in depth like this is a powerful way to understand yourself."
	shortEntryCloser = "Even a few words can make a difference. Come back whenever you want to write more."
)

// NoteInput is everything the note depends on.
type NoteInput struct {
	DominantEmotion string
	StressScore     int
	HappinessScore  int
	Text            string
}

// GenerateNote builds the therapy note from fixed fragments:
// opener, stress remark, happiness remark, closer. Same input, same note.
func GenerateNote(in NoteInput) string {
	parts := make([]string, 0, 4)

	if opener, ok := emotionOpeners[in.DominantEmotion]; ok {
		parts = append(parts, opener)
	} else {
		parts = append(parts, genericOpener)
	}

	switch {
	case in.StressScore > 7:
		parts = append(parts, highStressRemark)
	case in.StressScore < 4:
		parts = append(parts, lowStressRemark)
	}

	switch {
	case in.HappinessScore > 7:
		parts = append(parts, highHappinessRemark)
	case in.HappinessScore < 4:
		parts = append(parts, lowHappinessRemark)
	}

	if len(strings.Fields(in.Text)) > longEntryWords {
		parts = append(parts, longEntryCloser)
	} else {
		parts = append(parts, shortEntryCloser)
	}

	return strings.Join(parts, " ")
}
