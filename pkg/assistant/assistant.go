// Package assistant turns renovation questions and room photos into model
// prompts and interprets the answers.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/markremodeling/renovation/pkg/catalog"
	"github.com/markremodeling/renovation/pkg/client"
	"github.com/markremodeling/renovation/pkg/types"
)

// MaxTips is the number of renovation tips kept from a photo analysis
const MaxTips = 3

// FallbackReply is returned when the chat model answers with nothing
const FallbackReply = "I'm not sure how to respond to that."

var (
	ErrNoMessages  = errors.New("no messages provided")
	ErrNoImage     = errors.New("no image provided")
	ErrNoStyle     = errors.New("no design style provided")
	ErrEmptyDesign = errors.New("style or room description required")
)

// Models selects the model name used for each task
type Models struct {
	Chat   string `json:"chat" yaml:"chat"`
	Vision string `json:"vision" yaml:"vision"`
	Design string `json:"design" yaml:"design"`
	Advice string `json:"advice" yaml:"advice"`
	Image  string `json:"image" yaml:"image"`
}

// DefaultModels returns the OpenAI model lineup
func DefaultModels() Models {
	return Models{
		Chat:   "gpt-4.1",
		Vision: "gpt-4o-mini",
		Design: "gpt-4o-mini",
		Advice: "gpt-4.1-mini",
		Image:  "gpt-image-1",
	}
}

// ImageSize is the square render size requested for redesign images
const ImageSize = "1024x1024"

// Assistant handles all model-backed features
type Assistant struct {
	client  client.Client
	models  Models
	company catalog.Company
}

// New creates a new assistant with a model client
func New(c client.Client, models Models, company catalog.Company) *Assistant {
	return &Assistant{client: c, models: models, company: company}
}

// Chat answers a conversation using the company data system prompt
func (a *Assistant) Chat(ctx context.Context, history []types.Message) (string, error) {
	if len(history) == 0 {
		return "", ErrNoMessages
	}

	msgs := make([]types.Message, 0, len(history)+1)
	msgs = append(msgs, types.Message{
		Role:    types.RoleSystem,
		Content: fmt.Sprintf(ChatSystemPrompt, a.company.Name, a.company.JSON()),
	})
	for _, m := range history {
		// Clients may not inject their own system turns
		if m.Role != types.RoleUser && m.Role != types.RoleAssistant {
			m.Role = types.RoleUser
		}
		msgs = append(msgs, types.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := a.client.Chat(ctx, types.ChatRequest{
		Model:       a.models.Chat,
		Messages:    msgs,
		Temperature: temperature(0.7),
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return FallbackReply, nil
	}
	return reply, nil
}

// AnalyzePhoto estimates room dimensions from a prepared JPEG
func (a *Assistant) AnalyzePhoto(ctx context.Context, img types.Image) (*types.RoomAnalysis, error) {
	if len(img.Data) == 0 {
		return nil, ErrNoImage
	}

	raw, err := a.client.Chat(ctx, types.ChatRequest{
		Model: a.models.Vision,
		JSON:  true,
		Messages: []types.Message{
			{Role: types.RoleSystem, Content: PhotoSystemPrompt},
			{Role: types.RoleUser, Content: PhotoPrompt, Images: []types.Image{img}},
		},
	})
	if err != nil {
		return nil, err
	}

	return normalizeAnalysis(ParseRoomAnalysis(raw)), nil
}

// RedesignText writes a design plan from a style and a room description
func (a *Assistant) RedesignText(ctx context.Context, style, description string) (string, error) {
	style = strings.TrimSpace(style)
	description = strings.TrimSpace(description)
	if style == "" && description == "" {
		return "", ErrEmptyDesign
	}

	return a.client.Chat(ctx, types.ChatRequest{
		Model: a.models.Design,
		Messages: []types.Message{
			{Role: types.RoleSystem, Content: redesignSystemPrompt},
			{Role: types.RoleUser, Content: fmt.Sprintf(redesignTextPrompt, style, description)},
		},
	})
}

// RedesignVision writes a design plan from a room photo
func (a *Assistant) RedesignVision(ctx context.Context, img types.Image) (string, error) {
	if len(img.Data) == 0 {
		return "", ErrNoImage
	}

	return a.client.Chat(ctx, types.ChatRequest{
		Model: a.models.Design,
		Messages: []types.Message{
			{Role: types.RoleSystem, Content: visionSystemPrompt},
			{Role: types.RoleUser, Content: visionPrompt, Images: []types.Image{img}},
		},
	})
}

// RedesignImage renders the room in a new style. The reference photo is
// forwarded to backends that can use it.
func (a *Assistant) RedesignImage(ctx context.Context, style string, ref *types.Image) (*types.GeneratedImage, error) {
	if ref == nil || len(ref.Data) == 0 {
		return nil, ErrNoImage
	}
	style = strings.TrimSpace(style)
	if style == "" {
		return nil, ErrNoStyle
	}

	img, err := a.client.GenerateImage(ctx, types.ImageRequest{
		Model:     a.models.Image,
		Prompt:    fmt.Sprintf(redesignImagePrompt, style),
		Size:      ImageSize,
		Reference: ref,
	})
	if err != nil {
		return nil, err
	}
	if img.MIMEType == "" {
		img.MIMEType = "image/png"
	}
	return img, nil
}

// Advise returns budget and material advice for a planned project
func (a *Assistant) Advise(ctx context.Context, p types.ProjectDetails) (string, error) {
	return a.client.Chat(ctx, types.ChatRequest{
		Model:       a.models.Advice,
		Temperature: temperature(0.5),
		Messages: []types.Message{
			{Role: types.RoleSystem, Content: adviceSystemPrompt},
			{Role: types.RoleUser, Content: advicePrompt(p)},
		},
	})
}

func temperature(v float64) *float64 { return &v }
