package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestDefaultConfig(t *testing.T) {
	openaiCfg := DefaultConfig(ProviderOpenAI)
	assert.Equal(t, ProviderOpenAI, openaiCfg.Provider)
	assert.Equal(t, "gpt-4o-mini", openaiCfg.GetModel(TierLite))
	assert.Equal(t, "gpt-4o", openaiCfg.GetModel(TierStandard))

	geminiCfg := DefaultConfig(ProviderGemini)
	assert.Equal(t, ProviderGemini, geminiCfg.Provider)
	assert.Equal(t, "gemini-2.5-pro", geminiCfg.GetModel(TierAdvanced))

	assert.Equal(t, ProviderOpenAI, DefaultConfig("other").Provider)
}

func TestGetModel_Fallback(t *testing.T) {
	cfg := &Config{Models: map[ModelTier]string{TierLite: "fallback-model"}}
	assert.Equal(t, "fallback-model", cfg.GetModel(TierAdvanced))

	empty := &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.GetModel(TierAdvanced))
}

func TestWithModel_CopiesTable(t *testing.T) {
	cfg := DefaultOpenAIConfig()
	custom := cfg.WithModel(TierAdvanced, "gpt-custom")

	assert.Equal(t, "gpt-4o", cfg.GetModel(TierAdvanced))
	assert.Equal(t, "gpt-custom", custom.GetModel(TierAdvanced))
	assert.Equal(t, cfg.Temperature, custom.Temperature)
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json code block", "```json\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"generic code block", "```\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"code block with language", "```javascript\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"plain JSON", `  {"key": "value"}  `, `{"key": "value"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSONObject("Here you go: {\"a\":1} hope it helps"))
	assert.Equal(t, `{"a":{"b":2}}`, ExtractJSONObject("```json\n{\"a\":{\"b\":2}}\n```"))
	assert.Equal(t, "", ExtractJSONObject("no json here"))
}

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("world")}},
		}},
	}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", text)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)
}

// fakeModel records the last call made through langchaingo.
type fakeModel struct {
	messages []llms.MessageContent
	options  llms.CallOptions
	reply    string
	err      error
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	m.options = llms.CallOptions{}
	for _, opt := range options {
		opt(&m.options)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestOpenAIClient_GenerateContent(t *testing.T) {
	model := &fakeModel{reply: "a critique"}
	client := newOpenAIClientWithModel(model, DefaultOpenAIConfig())

	out, err := client.GenerateContent(context.Background(), Prompt{System: "be strict", User: "grade this"}, TierLite)
	require.NoError(t, err)
	assert.Equal(t, "a critique", out)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, "gpt-4o-mini", model.options.Model)
	assert.Equal(t, 0.7, model.options.Temperature)
	assert.False(t, model.options.JSONMode)
}

func TestOpenAIClient_GenerateJSON(t *testing.T) {
	model := &fakeModel{reply: "```json\n{\"ok\":true}\n```"}
	client := newOpenAIClientWithModel(model, DefaultOpenAIConfig())

	out, err := client.GenerateJSON(context.Background(), Prompt{User: "give json"}, TierAdvanced)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.True(t, model.options.JSONMode)
	require.Len(t, model.messages, 1, "no system message when System is empty")
}

func TestOpenAIClient_Error(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exceeded")}
	client := newOpenAIClientWithModel(model, DefaultOpenAIConfig())

	_, err := client.GenerateContent(context.Background(), Prompt{User: "x"}, TierStandard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ProviderOpenAI, perr.Provider)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), DefaultOpenAIConfig(), "")
	assert.Error(t, err)
	_, err = NewClient(context.Background(), &Config{Provider: "mystery"}, "key")
	assert.Error(t, err)
}
