package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

// labelScore mirrors one classifier candidate.
type labelScore struct {
	Label string  `json:"label" jsonschema:"required"`
	Score float64 `json:"score" jsonschema:"required"`
}

// classificationOutput is the structured output requested from the model.
// Strict JSON schemas must have an object at the root.
type classificationOutput struct {
	Labels []labelScore `json:"labels" jsonschema:"required"`
}

var classificationSchema = generateSchema[classificationOutput]()

// OpenAIClassifier classifies entries with the OpenAI Responses API.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier builds a classifier. baseURL may be empty.
func NewOpenAIClassifier(apiKey, baseURL, model string) *OpenAIClassifier {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	client := openai.NewClient(opts...)
	return &OpenAIClassifier{
		client: &client,
		model:  model,
	}
}

// Classify implements domain.Classifier. It returns the "labels" list as a
// flat JSON array so it goes through the same normalizer as other backends.
func (c *OpenAIClassifier) Classify(ctx context.Context, task domain.ClassificationTask, text string) ([]byte, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "Classification",
			Schema:      classificationSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Label/score list for a journal entry"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(400),
		Instructions:    openai.String(BuildClassifierPrompt(task) + "\nWrap the list in an object under the key \"labels\"."),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: openai %s: %v", domain.ErrExternalServiceUnavailable, task, err)
	}

	var out classificationOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.OutputText())), &out); err != nil {
		return nil, fmt.Errorf("%w: openai %s: %v", domain.ErrMalformedResponse, task, err)
	}

	raw, err := json.Marshal(out.Labels)
	if err != nil {
		return nil, fmt.Errorf("re-encoding %s labels: %w", task, err)
	}
	return raw, nil
}

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	strictify(m)
	return m
}

// strictify marks every object closed and every property required, which
// strict structured outputs demand.
func strictify(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				strictify(pm)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		strictify(items)
	}
}
