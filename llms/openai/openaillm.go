// Package openai provides an llms.Model backed by the OpenAI chat completions API,
// either on api.openai.com or on Azure OpenAI.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

var (
	ErrMissingAPIKey = errors.New("missing the OpenAI API key")
	ErrEmptyResponse = errors.New("no response")
)

// LLM is an OpenAI chat model. It also creates embeddings, so it can back a
// langchaingo embeddings.Embedder.
type LLM struct {
	client         *goopenai.Client
	model          string
	embeddingModel string
}

var (
	_ llms.Model                = (*LLM)(nil)
	_ embeddings.EmbedderClient = (*LLM)(nil)
)

// New returns an OpenAI LLM.
//
//	llm, err := openai.New(openai.WithModel("gpt-4"))
//
// or, on Azure OpenAI, where the model is the deployment name:
//
//	llm, err := openai.New(
//		openai.WithAzure("2024-02-01"),
//		openai.WithBaseURL("https://my-resource.openai.azure.com"),
//		openai.WithModel("gpt-4"),
//	)
func New(opts ...Option) (*LLM, error) {
	options := &options{
		apiKey:         getEnvOrDefault("OPENAI_API_KEY", ""),
		model:          DefaultModel,
		embeddingModel: DefaultEmbeddingModel,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.apiKey == "" {
		return nil, fmt.Errorf(`%w
You can pass it with openai.New(openai.WithAPIKey("{API Key}"))
or
export OPENAI_API_KEY={API Key}`, ErrMissingAPIKey)
	}

	var config goopenai.ClientConfig
	if options.azure {
		if options.baseURL == "" {
			return nil, errors.New("azure OpenAI requires a base URL")
		}
		config = goopenai.DefaultAzureConfig(options.apiKey, options.baseURL)
		if options.apiVersion != "" {
			config.APIVersion = options.apiVersion
		} else {
			config.APIVersion = DefaultAzureAPIVersion
		}
		// model names are deployment names
		config.AzureModelMapperFunc = func(model string) string { return model }
	} else {
		config = goopenai.DefaultConfig(options.apiKey)
		if options.baseURL != "" {
			config.BaseURL = options.baseURL
		}
	}
	if options.httpClient != nil {
		config.HTTPClient = options.httpClient
	}

	return &LLM{
		client:         goopenai.NewClientWithConfig(config),
		model:          options.model,
		embeddingModel: options.embeddingModel,
	}, nil
}

// Model returns the configured chat model.
func (o *LLM) Model() string { return o.model }

// Call generates a response from the LLM for the given prompt.
func (o *LLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, o, prompt, options...)
}

// GenerateContent implements the Model interface. Only text parts are sent.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := &llms.CallOptions{}
	for _, opt := range options {
		opt(opts)
	}

	req := goopenai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    make([]goopenai.ChatCompletionMessage, 0, len(messages)),
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
		TopP:        float32(opts.TopP),
		Stop:        opts.StopWords,
		Seed:        seed(opts.Seed),
	}
	if opts.Model != "" {
		req.Model = opts.Model
	}

	for _, msg := range messages {
		var content strings.Builder
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				content.WriteString(text.Text)
			}
		}
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{
			Role:    role(msg.Role),
			Content: content.String(),
		})
	}

	result, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(result.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	resp := &llms.ContentResponse{Choices: make([]*llms.ContentChoice, 0, len(result.Choices))}
	for _, c := range result.Choices {
		resp.Choices = append(resp.Choices, &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
			GenerationInfo: map[string]any{
				"prompt_tokens":     result.Usage.PromptTokens,
				"completion_tokens": result.Usage.CompletionTokens,
				"total_tokens":      result.Usage.TotalTokens,
			},
		})
	}
	return resp, nil
}

// CreateEmbedding embeds texts with the embedding model.
func (o *LLM) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: texts,
		Model: goopenai.EmbeddingModel(o.embeddingModel),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrEmptyResponse, len(resp.Data), len(texts))
	}

	emb := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(emb) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		emb[d.Index] = d.Embedding
	}
	return emb, nil
}

func role(t llms.ChatMessageType) string {
	switch t {
	case llms.ChatMessageTypeSystem:
		return goopenai.ChatMessageRoleSystem
	case llms.ChatMessageTypeAI:
		return goopenai.ChatMessageRoleAssistant
	case llms.ChatMessageTypeTool:
		return goopenai.ChatMessageRoleTool
	default:
		return goopenai.ChatMessageRoleUser
	}
}

func seed(s int) *int {
	if s == 0 {
		return nil
	}
	return &s
}
