package analysis

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

// PayloadKind is the closed set of shapes classifier responses come in.
type PayloadKind int

const (
	// Unrecognized: nothing usable, the caller substitutes the neutral default.
	Unrecognized PayloadKind = iota
	// SingletonList: [[{label, score}, ...]]
	SingletonList
	// FlatList: [{label, score}, ...]
	FlatList
	// SingleObject: {label, score}
	SingleObject
)

func (k PayloadKind) String() string {
	switch k {
	case SingletonList:
		return "singleton_list"
	case FlatList:
		return "flat_list"
	case SingleObject:
		return "single_object"
	default:
		return "unrecognized"
	}
}

// Candidate is one (label, score) pair as reported by a classifier.
type Candidate struct {
	Label string
	Score float64
}

// Payload is a classifier response tagged with the shape it arrived in.
type Payload struct {
	Kind       PayloadKind
	Candidates []Candidate
}

// ParsePayload inspects a raw classifier response and tags its shape.
// It never fails: anything it cannot interpret is Unrecognized.
func ParsePayload(raw []byte) Payload {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Payload{Kind: Unrecognized}
	}

	root := gjson.ParseBytes(raw)
	kind := FlatList

	switch {
	case root.IsObject():
		c, ok := candidateFrom(root)
		if !ok {
			return Payload{Kind: Unrecognized}
		}
		return Payload{Kind: SingleObject, Candidates: []Candidate{c}}

	case root.IsArray():
		items := root.Array()
		if len(items) == 0 {
			return Payload{Kind: Unrecognized}
		}
		// Nested shape: unwrap exactly once.
		if items[0].IsArray() {
			kind = SingletonList
			items = items[0].Array()
		}

		candidates := make([]Candidate, 0, len(items))
		for _, item := range items {
			if c, ok := candidateFrom(item); ok {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) == 0 {
			return Payload{Kind: Unrecognized}
		}
		return Payload{Kind: kind, Candidates: candidates}

	default:
		return Payload{Kind: Unrecognized}
	}
}

func candidateFrom(r gjson.Result) (Candidate, bool) {
	if !r.IsObject() {
		return Candidate{}, false
	}
	label := r.Get("label")
	score := r.Get("score")
	if label.Type != gjson.String || score.Type != gjson.Number {
		return Candidate{}, false
	}
	return Candidate{Label: label.String(), Score: clampUnit(score.Float())}, true
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Sentiment selects the highest-confidence candidate. ok is false when
// the payload carries no result.
func (p Payload) Sentiment() (domain.Sentiment, bool) {
	if p.Kind == Unrecognized || len(p.Candidates) == 0 {
		return domain.Sentiment{}, false
	}
	best := p.Candidates[0]
	for _, c := range p.Candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return domain.Sentiment{Label: ParseSentimentLabel(best.Label), Score: best.Score}, true
}

// Emotions keeps every candidate, in the order the classifier sent them.
func (p Payload) Emotions() (domain.EmotionSet, bool) {
	if p.Kind == Unrecognized || len(p.Candidates) == 0 {
		return nil, false
	}
	out := make(domain.EmotionSet, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		out = append(out, domain.Emotion{
			Label: strings.ToLower(strings.TrimSpace(c.Label)),
			Score: c.Score,
		})
	}
	return out, true
}

// ParseSentimentLabel maps provider vocabularies onto positive/negative/neutral.
// "POSITIVE", "pos_strong" and "LABEL_1" are positive; "NEGATIVE" and
// "LABEL_0" are negative; everything else is neutral.
func ParseSentimentLabel(label string) domain.SentimentLabel {
	upper := strings.ToUpper(strings.TrimSpace(label))

	switch {
	case strings.Contains(upper, "POS"):
		return domain.SentimentPositive
	case strings.Contains(upper, "NEG"):
		return domain.SentimentNegative
	}

	code, ok := trailingCode(upper)
	if !ok {
		return domain.SentimentNeutral
	}
	switch code {
	case 1:
		return domain.SentimentPositive
	case 0:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// trailingCode parses the run of digits at the end of s ("LABEL_10" -> 10).
func trailingCode(s string) (int, bool) {
	i := len(s)
	for i > 0 && unicode.IsDigit(rune(s[i-1])) {
		i--
	}
	if i == len(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NormalizeSentiment parses a sentiment payload, falling back to neutral.
func NormalizeSentiment(raw []byte) (domain.Sentiment, bool) {
	if s, ok := ParsePayload(raw).Sentiment(); ok {
		return s, true
	}
	return domain.NeutralSentiment(), false
}

// NormalizeEmotions parses an emotion payload, falling back to neutral.
func NormalizeEmotions(raw []byte) (domain.EmotionSet, bool) {
	if e, ok := ParsePayload(raw).Emotions(); ok {
		return e, true
	}
	return domain.NeutralEmotions(), false
}
