package ai

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "text-embedding-004"

// Embedder turns text into a vector. Client is the production implementation.
type Embedder interface {
	// EmbedString returns the vector both as a storable blob and as floats.
	EmbedString(ctx context.Context, text string) ([]byte, []float32, error)
}

// Client embeds perfume descriptions and search queries through Gemini.
type Client struct {
	gc    *genai.Client
	embed *genai.EmbeddingModel
}

// NewClient connects to Gemini. GEMINI_API_KEY is required,
// GEMINI_EMBED_MODEL optionally overrides the embedding model.
func NewClient(ctx context.Context) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is required")
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	return &Client{gc: gc, embed: gc.EmbeddingModel(ModelName())}, nil
}

// ModelName is the embedding model in use.
func ModelName() string {
	if m := os.Getenv("GEMINI_EMBED_MODEL"); m != "" {
		return m
	}
	return defaultModel
}

func (c *Client) Close() error {
	if c.gc == nil {
		return nil
	}
	return c.gc.Close()
}

func (c *Client) EmbedString(ctx context.Context, text string) ([]byte, []float32, error) {
	res, err := c.embed.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, nil, err
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, nil, fmt.Errorf("model %s returned an empty embedding", ModelName())
	}

	vec := res.Embedding.Values
	blob, err := FloatsToBytes(vec)
	if err != nil {
		return nil, nil, err
	}
	return blob, vec, nil
}
