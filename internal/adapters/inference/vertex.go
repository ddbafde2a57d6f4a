package inference

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

// VertexClassifier asks a Gemini model on Vertex AI to classify entries.
type VertexClassifier struct {
	client    *genai.Client
	modelName string
}

// NewVertexClassifier creates a Classifier based on Vertex AI (Gemini).
func NewVertexClassifier(ctx context.Context, projectID, location, modelName string) (*VertexClassifier, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("vertex classifier needs a GCP project and location")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClassifier{
		client:    client,
		modelName: modelName,
	}, nil
}

// Classify implements domain.Classifier using Vertex AI.
func (v *VertexClassifier) Classify(ctx context.Context, task domain.ClassificationTask, text string) ([]byte, error) {
	// Classification wants stable output, not creativity.
	temp := float32(0)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(BuildClassifierPrompt(task), genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   512,
		ResponseMIMEType:  "application/json",
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: vertex %s: %v", domain.ErrExternalServiceUnavailable, task, err)
	}

	out := res.Text()
	if out == "" {
		return nil, fmt.Errorf("%w: vertex returned empty text for %s", domain.ErrMalformedResponse, task)
	}

	return []byte(out), nil
}
