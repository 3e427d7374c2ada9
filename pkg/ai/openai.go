package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	ecaerrors "github.com/vishwa0198/earnings-call-analyzer/pkg/errors"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/logging"
)

// Options configures the OpenAI-backed client.
type Options struct {
	// APIKey is the OpenAI API key.
	APIKey string

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string

	// CompletionModel is the chat completion model name.
	CompletionModel string

	// RequestTimeout bounds each individual API call.
	RequestTimeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// InitialBackoff is the initial backoff duration for retries.
	InitialBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultOptions returns options suitable for interactive CLI use.
func DefaultOptions(apiKey string) *Options {
	return &Options{
		APIKey:            apiKey,
		EmbeddingModel:    "text-embedding-3-small",
		CompletionModel:   "gpt-4o",
		RequestTimeout:    60 * time.Second,
		MaxRetries:        1,
		InitialBackoff:    time.Second,
		BackoffMultiplier: 2.0,
	}
}

// OpenAIClient implements Embedder and Completer against the OpenAI API.
type OpenAIClient struct {
	client  *openai.Client
	options *Options
	logger  logging.Logger
}

// NewOpenAIClient creates a client from options. A nil logger is replaced
// with a no-op logger.
func NewOpenAIClient(opts *Options, logger logging.Logger) (*OpenAIClient, error) {
	if opts == nil || opts.APIKey == "" {
		return nil, fmt.Errorf("%w: missing OpenAI API key", ecaerrors.ErrValidation)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	config := openai.DefaultConfig(opts.APIKey)
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(config),
		options: opts,
		logger:  logger.With(logging.F("component", "openai")),
	}, nil
}

// EmbedDocuments embeds a batch of texts in input order.
func (c *OpenAIClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var embeddings [][]float32
	err := c.withRetry(ctx, "embed documents", func(callCtx context.Context) error {
		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(c.options.EmbeddingModel),
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
		}
		embeddings = make([][]float32, len(resp.Data))
		for i, d := range resp.Data {
			embeddings[i] = d.Embedding
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ecaerrors.ErrExternalService, err)
	}
	return embeddings, nil
}

// EmbedQuery embeds a single question.
func (c *OpenAIClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// Complete runs a chat completion with a system and user message and
// returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	var content string
	err := c.withRetry(ctx, "chat completion", func(callCtx context.Context) error {
		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.options.CompletionModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ecaerrors.ErrExternalService, err)
	}
	return content, nil
}

// withRetry executes fn with a per-call timeout and exponential backoff
// between attempts. Context cancellation aborts the whole sequence.
func (c *OpenAIClient) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	backoff := c.options.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= c.options.MaxRetries; attempt++ {
		callCtx := ctx
		var cancel context.CancelFunc
		if c.options.RequestTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, c.options.RequestTimeout)
		}
		err := fn(callCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == c.options.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s cancelled: %w", op, ctx.Err())
		}

		c.logger.Warn("api call failed, retrying",
			logging.F("operation", op),
			logging.F("attempt", attempt+1),
			logging.Err(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled during backoff: %w", op, ctx.Err())
		case <-time.After(backoff):
		}
		backoff = time.Duration(float64(backoff) * c.options.BackoffMultiplier)
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, c.options.MaxRetries+1, lastErr)
}
