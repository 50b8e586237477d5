package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/markremodeling/renovation/pkg/client"
	"github.com/markremodeling/renovation/pkg/types"
)

// DefaultTimeout applies when the caller's context has no deadline
const DefaultTimeout = 300 * time.Second

// Client wraps the Ollama API client
type Client struct {
	client  *api.Client
	timeout time.Duration
}

// NewClient creates a new Ollama client
func NewClient(ollamaURL string, timeout time.Duration) (*Client, error) {
	// Parse the provided URL
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", ollamaURL)
	}

	// Create base URL from the provided URL (removing path like /api/chat)
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{client: api.NewClient(baseURL, http.DefaultClient), timeout: timeout}, nil
}

// Chat runs a non-streaming chat against a local model
func (c *Client) Chat(ctx context.Context, req types.ChatRequest) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	streamFalse := false
	chatReq := &api.ChatRequest{
		Model:    req.Model,
		Messages: make([]api.Message, 0, len(req.Messages)),
		Stream:   &streamFalse,
		Options:  options(req),
	}
	if req.JSON {
		chatReq.Format = json.RawMessage(`"json"`)
	}

	for _, m := range req.Messages {
		msg := api.Message{Role: string(m.Role), Content: m.Content}
		for _, img := range m.Images {
			msg.Images = append(msg.Images, api.ImageData(img.Data))
		}
		chatReq.Messages = append(chatReq.Messages, msg)
	}

	var responseContent strings.Builder
	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		responseContent.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat error: %v", err)
	}

	if responseContent.Len() == 0 {
		return "", fmt.Errorf("empty response from ollama")
	}
	return responseContent.String(), nil
}

// GenerateImage is not available on Ollama
func (c *Client) GenerateImage(ctx context.Context, req types.ImageRequest) (*types.GeneratedImage, error) {
	return nil, fmt.Errorf("ollama image generation: %w", client.ErrUnsupported)
}

func options(req types.ChatRequest) map[string]any {
	opts := map[string]any{}
	if req.Temperature != nil {
		opts["temperature"] = *req.Temperature
	}
	if req.MaxTokens > 0 {
		opts["num_predict"] = req.MaxTokens
	}

	// Vision models need a larger context window for the image tokens
	modelLower := strings.ToLower(req.Model)
	if strings.Contains(modelLower, "llava") || strings.Contains(modelLower, "minicpm-v") {
		opts["num_ctx"] = 4096
	}
	return opts
}
