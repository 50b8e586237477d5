// Package gemini implements the model backend on Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/markremodeling/renovation/pkg/types"
)

// Client calls Gemini models through the genai SDK.
type Client struct {
	client *genai.Client
}

// Option customises the underlying SDK configuration.
type Option func(*genai.ClientConfig)

// WithBaseURL points the SDK at a different endpoint.
func WithBaseURL(baseURL string) Option {
	return func(cc *genai.ClientConfig) {
		cc.HTTPOptions.BaseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(hc *http.Client) Option {
	return func(cc *genai.ClientConfig) {
		cc.HTTPClient = hc
	}
}

// NewClient creates a Gemini backend.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cc)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: client}, nil
}

// Chat maps system messages onto the system instruction and the rest onto
// user/model turns.
func (c *Client) Chat(ctx context.Context, req types.ChatRequest) (string, error) {
	contents, system := toContents(req.Messages)

	config := &genai.GenerateContentConfig{}
	if system != nil {
		config.SystemInstruction = system
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		config.Temperature = &t
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}

// GenerateImage uses the Imagen endpoint for imagen-* models. Other models
// go through GenerateContent with an image response modality, which also
// accepts the reference photo.
func (c *Client) GenerateImage(ctx context.Context, req types.ImageRequest) (*types.GeneratedImage, error) {
	if strings.HasPrefix(req.Model, "imagen") {
		return c.generateImagen(ctx, req)
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Reference != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Reference.Data, req.Reference.MIMEType))
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}})
	if err != nil {
		return nil, fmt.Errorf("gemini generate image: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &types.GeneratedImage{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
			}
		}
	}
	return nil, fmt.Errorf("no image returned")
}

func (c *Client) generateImagen(ctx context.Context, req types.ImageRequest) (*types.GeneratedImage, error) {
	resp, err := c.client.Models.GenerateImages(ctx, req.Model, req.Prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspectRatio(req.Size),
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate images: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("no image returned")
	}

	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &types.GeneratedImage{Data: img.ImageBytes, MIMEType: mime}, nil
}

func toContents(msgs []types.Message) ([]*genai.Content, *genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(msgs))

	for _, m := range msgs {
		switch m.Role {
		case types.RoleSystem:
			system = append(system, m.Content)
			continue
		case types.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
			continue
		}

		if len(m.Images) == 0 {
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
			continue
		}
		parts := []*genai.Part{genai.NewPartFromText(m.Content)}
		for _, img := range m.Images {
			mime := img.MIMEType
			if mime == "" {
				mime = "image/jpeg"
			}
			parts = append(parts, genai.NewPartFromBytes(img.Data, mime))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	if len(system) == 0 {
		return contents, nil
	}
	return contents, genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
}

// aspectRatio converts a WxH size into the closest Imagen aspect ratio
func aspectRatio(size string) string {
	var w, h int
	if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return "1:1"
	}
	switch r := float64(w) / float64(h); {
	case r > 1.5:
		return "16:9"
	case r > 1.1:
		return "4:3"
	case r < 0.67:
		return "9:16"
	case r < 0.9:
		return "3:4"
	default:
		return "1:1"
	}
}
