package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pathshala/pathshala/internal/domain"
)

// quizSchema constrains the model's quiz output: 2 to 4 items, four
// options each, answer index in range.
const quizSchema = `{
  "type": "array",
  "minItems": 2,
  "maxItems": 4,
  "items": {
    "type": "object",
    "required": ["question", "options", "answer"],
    "properties": {
      "question": {"type": "string", "minLength": 1},
      "options": {
        "type": "array",
        "minItems": 4,
        "maxItems": 4,
        "items": {"type": "string", "minLength": 1}
      },
      "answer": {"type": "integer", "minimum": 0, "maximum": 3}
    }
  }
}`

// BuildQuizPrompt asks for quiz questions grounded in the same material
// as the answer, as strict JSON.
func BuildQuizPrompt(query, answer string, ctxt domain.RetrievedContext) string {
	var b strings.Builder
	b.WriteString("Write 3 multiple-choice questions testing the material below.\n")
	b.WriteString("Respond with a JSON array only, no prose. Each element: ")
	b.WriteString(`{"question": string, "options": [4 strings], "answer": index 0-3}.` + "\n\n")
	b.WriteString("MATERIAL\n")
	for _, sc := range ctxt {
		b.WriteString(strings.TrimSpace(sc.Chunk.Text))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nThe student asked: %s\nThe answer given was: %s\n", query, answer)
	return b.String()
}

// generateQuiz runs the quiz generation step. Any failure here is
// recoverable; callers log it and return the rest of the result.
func (o *Orchestrator) generateQuiz(ctx context.Context, query, answer string, ctxt domain.RetrievedContext, maxTokens int) ([]domain.QuizItem, error) {
	raw, err := o.generator.Generate(ctx, BuildQuizPrompt(query, answer, ctxt), maxTokens)
	if err != nil {
		return nil, err
	}
	return ParseQuiz(raw)
}

// ParseQuiz extracts and validates the quiz JSON from model output.
func ParseQuiz(raw string) ([]domain.QuizItem, error) {
	jsonText := extractJSONArray(raw)
	if jsonText == "" {
		return nil, fmt.Errorf("%w: no JSON array in output", domain.ErrQuizInvalid)
	}

	schemaLoader := gojsonschema.NewStringLoader(quizSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonText)
	validation, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuizInvalid, err)
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			details = append(details, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrQuizInvalid, strings.Join(details, "; "))
	}

	var items []domain.QuizItem
	if err := json.Unmarshal([]byte(jsonText), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuizInvalid, err)
	}
	return items, nil
}

// extractJSONArray pulls the first top-level JSON array out of model
// output, tolerating surrounding prose and code fences.
func extractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
