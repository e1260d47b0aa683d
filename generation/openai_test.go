package generation

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedamineameur/comptia/middleware"
	"github.com/mohamedamineameur/comptia/utils"
)

func validQuestionJSON(n int) string {
	questions := make([]map[string]interface{}, n)
	for i := range questions {
		questions[i] = map[string]interface{}{
			"questionText": "Which control best mitigates credential stuffing attacks?",
			"explanation":  "MFA blocks reuse of stolen credentials even when the password is known.",
			"choices": []map[string]interface{}{
				{"text": "Multi-factor authentication", "isCorrect": true},
				{"text": "Longer session timeouts", "isCorrect": false},
				{"text": "Disabling TLS", "isCorrect": false},
				{"text": "Open password policies", "isCorrect": false},
			},
		}
	}
	raw, _ := json.Marshal(map[string]interface{}{"questions": questions})
	return string(raw)
}

func stubServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *middleware.AppError
	require.True(t, errors.As(err, &appErr), "expected an AppError, got %v", err)
	return appErr.Code
}

func TestGenerateMissingKey(t *testing.T) {
	provider := newOpenAIProvider("", "gpt-4o-mini", "http://unused")

	_, err := provider.Generate(Request{SubObjectiveTitle: "Threats", Lang: utils.LocaleEn, Difficulty: 2, Count: 1})

	require.Error(t, err)
	assert.Equal(t, middleware.CodeOpenAIKeyMissing, appErrorCode(t, err))
}

func TestGenerateFlatOutputText(t *testing.T) {
	envelope, _ := json.Marshal(map[string]interface{}{
		"output_text": validQuestionJSON(2),
		"usage":       map[string]int{"total_tokens": 321},
	})
	server := stubServer(t, http.StatusOK, string(envelope))
	defer server.Close()

	provider := newOpenAIProvider("test-key", "gpt-4o-mini", server.URL)
	result, err := provider.Generate(Request{SubObjectiveTitle: "Threats", Lang: utils.LocaleEn, Difficulty: 2, Count: 2})

	require.NoError(t, err)
	assert.Len(t, result.Questions, 2)
	require.NotNil(t, result.CostTokens)
	assert.Equal(t, 321, *result.CostTokens)
}

func TestGenerateNestedOutputChunks(t *testing.T) {
	envelope, _ := json.Marshal(map[string]interface{}{
		"output": []map[string]interface{}{
			{"content": []map[string]string{
				{"type": "reasoning", "text": "ignored"},
				{"type": "output_text", "text": validQuestionJSON(1)},
			}},
		},
	})
	server := stubServer(t, http.StatusOK, string(envelope))
	defer server.Close()

	provider := newOpenAIProvider("test-key", "gpt-4o-mini", server.URL)
	result, err := provider.Generate(Request{SubObjectiveTitle: "Threats", Lang: utils.LocaleFr, Difficulty: 3, Count: 1})

	require.NoError(t, err)
	assert.Len(t, result.Questions, 1)
	assert.Nil(t, result.CostTokens)
}

func TestGenerateEmptyEnvelope(t *testing.T) {
	server := stubServer(t, http.StatusOK, `{}`)
	defer server.Close()

	provider := newOpenAIProvider("test-key", "gpt-4o-mini", server.URL)
	_, err := provider.Generate(Request{SubObjectiveTitle: "Threats", Lang: utils.LocaleEn, Difficulty: 2, Count: 1})

	require.Error(t, err)
	assert.Equal(t, middleware.CodeOpenAIEmpty, appErrorCode(t, err))
}

func TestGenerateUpstreamFailure(t *testing.T) {
	server := stubServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
	defer server.Close()

	provider := newOpenAIProvider("test-key", "gpt-4o-mini", server.URL)
	_, err := provider.Generate(Request{SubObjectiveTitle: "Threats", Lang: utils.LocaleEn, Difficulty: 2, Count: 1})

	require.Error(t, err)
	assert.Equal(t, middleware.CodeOpenAIFailed, appErrorCode(t, err))
}

func TestGenerateMalformedPayload(t *testing.T) {
	envelope, _ := json.Marshal(map[string]string{"output_text": "not json at all"})
	server := stubServer(t, http.StatusOK, string(envelope))
	defer server.Close()

	provider := newOpenAIProvider("test-key", "gpt-4o-mini", server.URL)
	_, err := provider.Generate(Request{SubObjectiveTitle: "Threats", Lang: utils.LocaleEn, Difficulty: 2, Count: 1})

	require.Error(t, err)
	assert.Equal(t, middleware.CodeOpenAIInvalidFormat, appErrorCode(t, err))
}

func TestGenerateRejectsTwoCorrectChoices(t *testing.T) {
	payload := strings.Replace(validQuestionJSON(1), `"isCorrect":false`, `"isCorrect":true`, 1)
	envelope, _ := json.Marshal(map[string]string{"output_text": payload})
	server := stubServer(t, http.StatusOK, string(envelope))
	defer server.Close()

	provider := newOpenAIProvider("test-key", "gpt-4o-mini", server.URL)
	_, err := provider.Generate(Request{SubObjectiveTitle: "Threats", Lang: utils.LocaleEn, Difficulty: 2, Count: 1})

	require.Error(t, err)
	assert.Equal(t, middleware.CodeOpenAIInvalidFormat, appErrorCode(t, err))
}

func TestGenerateRejectsShortTexts(t *testing.T) {
	payload := `{"questions":[{"questionText":"short","explanation":"also short","choices":[
		{"text":"a","isCorrect":true},{"text":"b","isCorrect":false},
		{"text":"c","isCorrect":false},{"text":"d","isCorrect":false}]}]}`
	envelope, _ := json.Marshal(map[string]string{"output_text": payload})
	server := stubServer(t, http.StatusOK, string(envelope))
	defer server.Close()

	provider := newOpenAIProvider("test-key", "gpt-4o-mini", server.URL)
	_, err := provider.Generate(Request{SubObjectiveTitle: "Threats", Lang: utils.LocaleEn, Difficulty: 2, Count: 1})

	require.Error(t, err)
	assert.Equal(t, middleware.CodeOpenAIInvalidFormat, appErrorCode(t, err))
}

func TestGenerateTruncatesToRequestedCount(t *testing.T) {
	envelope, _ := json.Marshal(map[string]string{"output_text": validQuestionJSON(5)})
	server := stubServer(t, http.StatusOK, string(envelope))
	defer server.Close()

	provider := newOpenAIProvider("test-key", "gpt-4o-mini", server.URL)
	result, err := provider.Generate(Request{SubObjectiveTitle: "Threats", Lang: utils.LocaleEn, Difficulty: 2, Count: 3})

	require.NoError(t, err)
	assert.Len(t, result.Questions, 3)
}

func TestBuildPromptsByLocale(t *testing.T) {
	req := Request{SubObjectiveTitle: "Social engineering", Topics: []string{"Phishing", "Vishing"}, Difficulty: 4, Count: 2}

	req.Lang = utils.LocaleFr
	systemFr, userFr := buildPrompts(req)
	assert.Contains(t, systemFr, "QCM")
	assert.Contains(t, userFr, "Phishing, Vishing")
	assert.Contains(t, userFr, "Difficulte: 4/5")

	req.Lang = utils.LocaleEn
	systemEn, userEn := buildPrompts(req)
	assert.Contains(t, systemEn, "exactly one correct answer")
	assert.Contains(t, userEn, "Difficulty: 4/5")
	assert.Contains(t, userEn, "Count: 2")
}

func TestBuildPromptsDefaultsTopics(t *testing.T) {
	_, userPrompt := buildPrompts(Request{SubObjectiveTitle: "Threats", Lang: utils.LocaleEn, Difficulty: 1, Count: 1})
	assert.Contains(t, userPrompt, "Topics: general")
}
