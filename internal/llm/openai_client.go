// ABOUTME: OpenAI client for embeddings, query classification and answer generation
// ABOUTME: Uses text-embedding-3-small for embeddings and gpt-4o-mini for chat (configurable)
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/harper/muzakir/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for answers and classification
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
	// DefaultTimeout bounds a single API attempt
	DefaultTimeout = 30 * time.Second
)

// ErrMissingAPIKey is returned at first use when no API key is configured
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is not set")

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey          string
	BaseURL         string // empty means the public API
	ChatModel       string
	ClassifierModel string
	EmbeddingModel  string
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

// DefaultConfig returns the default client configuration. Calls are not retried.
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:          apiKey,
		ChatModel:       DefaultChatModel,
		ClassifierModel: DefaultChatModel,
		EmbeddingModel:  DefaultEmbeddingModel,
		Timeout:         DefaultTimeout,
		MaxRetries:      0,
		RetryDelay:      2 * time.Second,
	}
}

// CompletionRequest is one system+user chat exchange
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	JSON        bool // ask for a JSON object response
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client          *openai.Client
	chatModel       string
	classifierModel string
	embeddingModel  openai.EmbeddingModel
	timeout         time.Duration
	maxRetries      int
	retryDelay      time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	oaConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oaConfig.BaseURL = config.BaseURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OpenAIClient{
		client:          openai.NewClientWithConfig(oaConfig),
		chatModel:       orDefault(config.ChatModel, DefaultChatModel),
		classifierModel: orDefault(config.ClassifierModel, DefaultChatModel),
		embeddingModel:  openai.EmbeddingModel(orDefault(config.EmbeddingModel, DefaultEmbeddingModel)),
		timeout:         timeout,
		maxRetries:      config.MaxRetries,
		retryDelay:      config.RetryDelay,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// GenerateEmbedding embeds text with the configured embedding model
func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	var embedding []float64
	err := c.withRetry(ctx, "generate embedding", func(ctx context.Context) error {
		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return errors.New("no embeddings returned")
		}

		// Convert []float32 to []float64
		embedding32 := resp.Data[0].Embedding
		embedding = make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding[i] = float64(v)
		}
		return nil
	})
	return embedding, err
}

// ClassifyQuery runs a deterministic JSON-mode completion with the classifier
// model and returns the raw JSON content.
func (c *OpenAIClient) ClassifyQuery(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, c.classifierModel, CompletionRequest{
		System:      system,
		User:        user,
		Temperature: 0,
		MaxTokens:   200,
		JSON:        true,
	})
}

// GenerateAnswer runs a chat completion with the answer model
func (c *OpenAIClient) GenerateAnswer(ctx context.Context, req CompletionRequest) (string, error) {
	return c.complete(ctx, c.chatModel, req)
}

func (c *OpenAIClient) complete(ctx context.Context, model string, req CompletionRequest) (string, error) {
	temperature := req.Temperature
	if temperature == 0 {
		// go-openai omits a zero temperature, which the API reads as 1
		temperature = math.SmallestNonzeroFloat32
	}

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var content string
	err := c.withRetry(ctx, "create chat completion", func(ctx context.Context) error {
		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("no completion choices returned")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	return content, err
}

// withRetry runs fn up to maxRetries+1 times, each under its own timeout
func (c *OpenAIClient) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := util.WaitBackoff(ctx, c.retryDelay, attempt); err != nil {
				return fmt.Errorf("failed to %s: %w", op, err)
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
		if ctx.Err() != nil {
			break
		}
	}

	return fmt.Errorf("failed to %s after %d attempts: %w", op, c.maxRetries+1, lastErr)
}
