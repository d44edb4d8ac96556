package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultOpenAIModel is a chat model with built-in web browsing.
const DefaultOpenAIModel = "gpt-4o-search-preview"

// SystemPrompt instructs the search model how to shape its answer.
const SystemPrompt = "Answer the user's query with accurate, real-time web results. " +
	"Format your response as a clear, concise paragraph without any markdown formatting. " +
	"Include source citations naturally in the text."

// OpenAI answers queries with a search-enabled chat model. Citations come
// back as markdown links inside the prose.
type OpenAI struct {
	client openai.Client
	// Model defaults to DefaultOpenAIModel.
	Model string
	// ContextSize is the web_search_options search_context_size (low, medium or high).
	ContextSize string
	// Prompt overrides SystemPrompt when set.
	Prompt string
}

// NewOpenAI constructs an OpenAI searcher. baseURL may be empty.
func NewOpenAI(apiKey, baseURL string) *OpenAI {
	options := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	return &OpenAI{
		client:      openai.NewClient(options...),
		Model:       DefaultOpenAIModel,
		ContextSize: "low",
	}
}

// Search runs one chat completion with web search enabled.
func (o *OpenAI) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("openai search: query is empty")
	}

	system := o.Prompt
	if system == "" {
		system = SystemPrompt
	}
	model := o.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(query),
		},
	}
	if o.ContextSize != "" {
		params.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{
			SearchContextSize: o.ContextSize,
		}
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai search: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", emptyResults("openai search", query)
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", emptyResults("openai search", query)
	}
	return text, nil
}
