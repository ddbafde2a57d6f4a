package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNoteJoyShortEntry(t *testing.T) {
	note := GenerateNote(NoteInput{
		DominantEmotion: "joy",
		StressScore:     1,
		HappinessScore:  10,
		Text:            "I feel wonderful and calm today",
	})

	assert.True(t, strings.HasPrefix(note, emotionOpeners["joy"]), note)
	assert.Contains(t, note, lowStressRemark)
	assert.Contains(t, note, highHappinessRemark)
	assert.True(t, strings.HasSuffix(note, shortEntryCloser), note)
}

func TestGenerateNoteFragments(t *testing.T) {
	tests := []struct {
		name     string
		in       NoteInput
		contains []string
		absent   []string
	}{
		{
			name:     "unknown emotion uses generic opener",
			in:       NoteInput{DominantEmotion: "surprise", StressScore: 5, HappinessScore: 5, Text: "hm"},
			contains: []string{genericOpener, shortEntryCloser},
			absent:   []string{highStressRemark, lowStressRemark, highHappinessRemark, lowHappinessRemark},
		},
		{
			name:     "neutral has no dedicated opener",
			in:       NoteInput{DominantEmotion: "neutral", StressScore: 8, HappinessScore: 3, Text: "hm"},
			contains: []string{genericOpener, highStressRemark, lowHappinessRemark},
		},
		{
			name:     "thresholds are exclusive",
			in:       NoteInput{DominantEmotion: "fear", StressScore: 7, HappinessScore: 4, Text: "hm"},
			contains: []string{emotionOpeners["fear"]},
			absent:   []string{highStressRemark, lowStressRemark, highHappinessRemark, lowHappinessRemark},
		},
		{
			name:     "long entry",
			in:       NoteInput{DominantEmotion: "sadness", StressScore: 9, HappinessScore: 2, Text: strings.Repeat("word ", 101)},
			contains: []string{emotionOpeners["sadness"], longEntryCloser},
			absent:   []string{shortEntryCloser},
		},
		{
			name:     "exactly one hundred words is short",
			in:       NoteInput{DominantEmotion: "anger", StressScore: 9, HappinessScore: 2, Text: strings.Repeat("word ", 100)},
			contains: []string{shortEntryCloser},
			absent:   []string{longEntryCloser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := GenerateNote(tt.in)
			for _, s := range tt.contains {
				assert.Contains(t, note, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, note, s)
			}
		})
	}
}

func TestGenerateNoteIsDeterministic(t *testing.T) {
	in := NoteInput{DominantEmotion: "anger", StressScore: 10, HappinessScore: 1, Text: "unfair"}
	assert.Equal(t, GenerateNote(in), GenerateNote(in))
}
