package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

func TestParsePayloadShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind PayloadKind
		n    int
	}{
		{"singleton list", `[[{"label":"joy","score":0.9},{"label":"fear","score":0.1}]]`, SingletonList, 2},
		{"flat list", `[{"label":"joy","score":0.9},{"label":"fear","score":0.1}]`, FlatList, 2},
		{"single object", `{"label":"POSITIVE","score":0.7}`, SingleObject, 1},
		{"empty list", `[]`, Unrecognized, 0},
		{"empty nested list", `[[]]`, Unrecognized, 0},
		{"error object", `{"error":"Model is loading"}`, Unrecognized, 0},
		{"not json", `<html>bad gateway</html>`, Unrecognized, 0},
		{"empty body", ``, Unrecognized, 0},
		{"scalar", `42`, Unrecognized, 0},
		{"items without score", `[{"label":"joy"}]`, Unrecognized, 0},
		{"partially valid", `[{"label":"joy","score":0.4},{"nope":true}]`, FlatList, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePayload([]byte(tt.raw))
			assert.Equal(t, tt.kind, p.Kind, p.Kind.String())
			assert.Len(t, p.Candidates, tt.n)
		})
	}
}

func TestParsePayloadClampsScores(t *testing.T) {
	p := ParsePayload([]byte(`[{"label":"a","score":1.7},{"label":"b","score":-0.2}]`))
	require.Len(t, p.Candidates, 2)
	assert.Equal(t, 1.0, p.Candidates[0].Score)
	assert.Equal(t, 0.0, p.Candidates[1].Score)
}

func TestNestedAndFlatNormalizeIdentically(t *testing.T) {
	flat := `[{"label":"NEGATIVE","score":0.2},{"label":"POSITIVE","score":0.8}]`
	nested := "[" + flat + "]"

	s1, ok1 := NormalizeSentiment([]byte(flat))
	s2, ok2 := NormalizeSentiment([]byte(nested))
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, s1, s2)

	emo := `[{"label":"Joy ","score":0.6},{"label":"sadness","score":0.4}]`
	e1, _ := NormalizeEmotions([]byte(emo))
	e2, _ := NormalizeEmotions([]byte("[" + emo + "]"))
	assert.Equal(t, e1, e2)
	assert.Equal(t, "joy", e1[0].Label)
}

func TestParseSentimentLabel(t *testing.T) {
	tests := []struct {
		label string
		want  domain.SentimentLabel
	}{
		{"POSITIVE", domain.SentimentPositive},
		{"LABEL_1", domain.SentimentPositive},
		{"pos_strong", domain.SentimentPositive},
		{"Positive", domain.SentimentPositive},
		{"NEGATIVE", domain.SentimentNegative},
		{"LABEL_0", domain.SentimentNegative},
		{"neg", domain.SentimentNegative},
		{"LABEL_2", domain.SentimentNeutral},
		{"neutral", domain.SentimentNeutral},
		{"", domain.SentimentNeutral},
		{"mixed", domain.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSentimentLabel(tt.label))
		})
	}
}

func TestNormalizeSentimentPicksHighestScore(t *testing.T) {
	s, ok := NormalizeSentiment([]byte(`[[{"label":"LABEL_0","score":0.3},{"label":"LABEL_1","score":0.7}]]`))
	require.True(t, ok)
	assert.Equal(t, domain.SentimentPositive, s.Label)
	assert.InDelta(t, 0.7, s.Score, 1e-9)
}

func TestNormalizeFallsBackToNeutral(t *testing.T) {
	s, ok := NormalizeSentiment([]byte(`{"error":"boom"}`))
	assert.False(t, ok)
	assert.Equal(t, domain.NeutralSentiment(), s)

	e, ok := NormalizeEmotions([]byte(`null`))
	assert.False(t, ok)
	assert.Equal(t, domain.NeutralEmotions(), e)
}
