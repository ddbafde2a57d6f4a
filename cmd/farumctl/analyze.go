package main

import (
	"github.com/spf13/cobra"

	"github.com/PabloGalante/farum-journal/internal/adapters/inference"
	memstore "github.com/PabloGalante/farum-journal/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-journal/internal/app/analysis"
	"github.com/PabloGalante/farum-journal/internal/app/journal"
	"github.com/PabloGalante/farum-journal/internal/domain"
)

var (
	analyzeText    string
	analyzeNeutral bool
)

// analyzeCmd runs the whole pipeline in-process
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one entry with the local keyword classifier",
	Long: `Stores the text in a throwaway in-memory journal, runs the analysis
pipeline on it and prints the response.

With --neutral no classifier is called, which is what the service does
when no inference credential is configured.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "entry text to analyze")
	analyzeCmd.Flags().BoolVar(&analyzeNeutral, "neutral", false, "skip the classifier and use neutral defaults")
	_ = analyzeCmd.MarkFlagRequired("text")
}

type analyzeResult struct {
	StressScore     int     `json:"stress_score"`
	HappinessScore  *int    `json:"happiness_score"`
	TherapyNote     string  `json:"therapy_note"`
	DominantEmotion string  `json:"dominant_emotion,omitempty"`
	Sentiment       string  `json:"sentiment"`
	SentimentScore  float64 `json:"sentiment_score"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	const user domain.UserID = "farumctl"

	credential := "local"
	if analyzeNeutral {
		credential = ""
	}

	store := memstore.NewJournalStore()
	client := inference.NewClient(inference.Config{Credential: credential}, inference.NewMockClassifier(), nil)

	entry, err := journal.NewService(store).CreateEntry(ctx, user, analyzeText)
	if err != nil {
		return err
	}

	out, err := analysis.NewService(client, store).Analyze(ctx, analysis.AnalyzeInput{
		UserID:    user,
		JournalID: entry.ID,
		Text:      entry.Text,
	})
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), analyzeResult{
		StressScore:     out.StressScore,
		TherapyNote:     out.TherapyNote,
		DominantEmotion: out.DominantEmotion,
		Sentiment:       string(out.Sentiment.Label),
		SentimentScore:  out.Sentiment.Score,
	})
}
