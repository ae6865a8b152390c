package openai

import (
	"net/http"
	"os"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4"
	// DefaultEmbeddingModel is used by CreateEmbedding when no embedding model is configured.
	DefaultEmbeddingModel = "text-embedding-ada-002"
	// DefaultAzureAPIVersion is the Azure OpenAI API version used by WithAzure("").
	DefaultAzureAPIVersion = "2024-02-01"
)

type options struct {
	apiKey         string
	model          string
	embeddingModel string
	baseURL        string
	azure          bool
	apiVersion     string
	httpClient     *http.Client
}

// Option is a function that configures an LLM.
type Option func(*options)

// WithAPIKey sets the API key. The default is the OPENAI_API_KEY environment variable.
func WithAPIKey(apiKey string) Option {
	return func(opts *options) {
		opts.apiKey = apiKey
	}
}

// WithModel sets the chat model, or the deployment name with Azure.
func WithModel(model string) Option {
	return func(opts *options) {
		opts.model = model
	}
}

// WithEmbeddingModel sets the embedding model used by CreateEmbedding.
func WithEmbeddingModel(model string) Option {
	return func(opts *options) {
		opts.embeddingModel = model
	}
}

// WithBaseURL sets the API base URL. With Azure it is the resource endpoint,
// for example "https://my-resource.openai.azure.com".
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithAzure switches to Azure OpenAI with the given API version.
func WithAzure(apiVersion string) Option {
	return func(opts *options) {
		opts.azure = true
		opts.apiVersion = apiVersion
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
