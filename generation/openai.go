package generation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/mohamedamineameur/comptia/config"
	"github.com/mohamedamineameur/comptia/middleware"
	"github.com/mohamedamineameur/comptia/utils"
)

// PromptVersion identifies the prompt pair recorded on every generation run
const PromptVersion = "v1"

// GeneratedChoice is one provider-returned answer option
type GeneratedChoice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// GeneratedQuestion is one provider-returned question with its four choices
type GeneratedQuestion struct {
	QuestionText string            `json:"questionText"`
	Explanation  string            `json:"explanation"`
	Choices      []GeneratedChoice `json:"choices"`
}

// Request describes what to generate
type Request struct {
	SubObjectiveTitle string
	Topics            []string
	Lang              utils.Locale
	Difficulty        int
	Count             int
}

// Result carries validated questions plus the token cost when the provider
// reported one
type Result struct {
	Questions  []GeneratedQuestion
	CostTokens *int
}

// Provider produces multiple choice questions for a sub-objective
type Provider interface {
	Generate(req Request) (*Result, error)
}

// outputSchema is the strict structured-output contract sent to the provider
const outputSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"questions": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"additionalProperties": false,
				"properties": {
					"questionText": {"type": "string"},
					"explanation": {"type": "string"},
					"choices": {
						"type": "array",
						"minItems": 4,
						"maxItems": 4,
						"items": {
							"type": "object",
							"additionalProperties": false,
							"properties": {
								"text": {"type": "string"},
								"isCorrect": {"type": "boolean"}
							},
							"required": ["text", "isCorrect"]
						}
					}
				},
				"required": ["questionText", "explanation", "choices"]
			}
		}
	},
	"required": ["questions"]
}`

// OpenAIProvider calls the OpenAI Responses API with a strict JSON schema
type OpenAIProvider struct {
	client  *resty.Client
	apiKey  string
	model   string
	baseURL string
}

// NewOpenAIProvider builds a provider from application config
func NewOpenAIProvider() *OpenAIProvider {
	return newOpenAIProvider(
		config.AppConfig.OpenAIAPIKey,
		config.AppConfig.OpenAIModel,
		"https://api.openai.com/v1",
	)
}

func newOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	return &OpenAIProvider{
		client:  resty.New().SetTimeout(60 * time.Second),
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
	}
}

// responseEnvelope covers both documented response shapes: a flat output_text
// field or typed content chunks nested under output items
type responseEnvelope struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage struct {
		TotalTokens *int `json:"total_tokens"`
	} `json:"usage"`
}

type generatedPayload struct {
	Questions []GeneratedQuestion `json:"questions"`
}

// Generate requests req.Count questions from the provider. The response must
// satisfy the structured-output schema; the list is truncated to req.Count
// because the provider may return more than asked.
func (p *OpenAIProvider) Generate(req Request) (*Result, error) {
	if p.apiKey == "" {
		return nil, middleware.NewAppError(middleware.CodeOpenAIKeyMissing, fiber.StatusBadGateway)
	}

	systemPrompt, userPrompt := buildPrompts(req)

	body := map[string]interface{}{
		"model": p.model,
		"input": []map[string]interface{}{
			{"role": "system", "content": []map[string]string{{"type": "input_text", "text": systemPrompt}}},
			{"role": "user", "content": []map[string]string{{"type": "input_text", "text": userPrompt}}},
		},
		"text": map[string]interface{}{
			"format": map[string]interface{}{
				"type":   "json_schema",
				"name":   "qcm_generation",
				"schema": json.RawMessage(outputSchema),
				"strict": true,
			},
		},
	}

	resp, err := p.client.R().
		SetHeader("Authorization", "Bearer "+p.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(p.baseURL + "/responses")
	if err != nil {
		return nil, middleware.NewAppError(middleware.CodeOpenAIFailed, fiber.StatusBadGateway)
	}
	if !resp.IsSuccess() {
		return nil, middleware.NewAppError(middleware.CodeOpenAIFailed, fiber.StatusBadGateway)
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, middleware.NewAppError(middleware.CodeOpenAIEmpty, fiber.StatusBadGateway)
	}

	outputText, err := extractOutputText(&envelope)
	if err != nil {
		return nil, err
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(outputText), &payload); err != nil {
		return nil, middleware.NewAppError(middleware.CodeOpenAIInvalidFormat, fiber.StatusBadGateway)
	}
	if err := validatePayload(&payload); err != nil {
		return nil, err
	}

	questions := payload.Questions
	if len(questions) > req.Count {
		questions = questions[:req.Count]
	}

	return &Result{Questions: questions, CostTokens: envelope.Usage.TotalTokens}, nil
}

// extractOutputText searches both envelope shapes for a usable text payload
func extractOutputText(envelope *responseEnvelope) (string, error) {
	if envelope.OutputText != "" {
		return envelope.OutputText, nil
	}
	for _, item := range envelope.Output {
		for _, chunk := range item.Content {
			if chunk.Type == "output_text" && chunk.Text != "" {
				return chunk.Text, nil
			}
		}
	}
	return "", middleware.NewAppError(middleware.CodeOpenAIEmpty, fiber.StatusBadGateway)
}

// validatePayload enforces the schema server side: at least one question,
// 10+ char texts, exactly 4 choices with exactly one correct
func validatePayload(payload *generatedPayload) error {
	invalid := middleware.NewAppError(middleware.CodeOpenAIInvalidFormat, fiber.StatusBadGateway)

	if len(payload.Questions) == 0 {
		return invalid
	}
	for _, question := range payload.Questions {
		if len(question.QuestionText) < 10 || len(question.Explanation) < 10 {
			return invalid
		}
		if len(question.Choices) != 4 {
			return invalid
		}
		correct := 0
		for _, choice := range question.Choices {
			if choice.Text == "" {
				return invalid
			}
			if choice.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return invalid
		}
	}
	return nil
}

func buildPrompts(req Request) (systemPrompt, userPrompt string) {
	topics := strings.Join(req.Topics, ", ")
	if topics == "" {
		topics = "general"
	}

	if req.Lang == utils.LocaleFr {
		systemPrompt = "Tu es un generateur de QCM de cybersecurite. Produis uniquement des questions d'entrainement pedagogiques (pas de questions d'examen reelles), avec exactement une bonne reponse."
		userPrompt = fmt.Sprintf(
			"Sous-objectif: %s\nTopics: %s\nDifficulte: %d/5\nNombre: %d\nDonne des questions claires, utiles et variees.",
			req.SubObjectiveTitle, topics, req.Difficulty, req.Count,
		)
		return systemPrompt, userPrompt
	}

	systemPrompt = "You generate cybersecurity practice MCQs only (never real exam dump questions), with exactly one correct answer."
	userPrompt = fmt.Sprintf(
		"Sub-objective: %s\nTopics: %s\nDifficulty: %d/5\nCount: %d\nProvide clear, useful and varied questions.",
		req.SubObjectiveTitle, topics, req.Difficulty, req.Count,
	)
	return systemPrompt, userPrompt
}
