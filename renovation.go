// Package renovation is the backend of a home renovation website.
//
// It combines two client-side measuring tools, a cost estimator and a set of
// model-backed assistants behind one HTTP server:
//
//   - pkg/measure: calibrated pixel ruler and polygon area tracer
//   - pkg/estimate: ballpark pricing from fixed tables
//   - pkg/assistant: chat, photo analysis, redesign and advice prompts
//   - pkg/openai, pkg/ollama, pkg/gemini: model backends
//   - internal/api: JSON API, marketing pages and stored images
//
// Basic usage:
//
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	c, err := renovation.NewClient(ctx, cfg.AI)
//	if err != nil {
//		log.Fatal(err)
//	}
//	a := assistant.New(c, cfg.AI.Models, catalog.DefaultCompany())
//	reply, err := a.Chat(ctx, []types.Message{{Role: types.RoleUser, Content: "Do you remodel kitchens?"}})
//
// The renovation command wires everything together; see cmd/renovation.
package renovation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/markremodeling/renovation/internal/config"
	"github.com/markremodeling/renovation/pkg/client"
	"github.com/markremodeling/renovation/pkg/gemini"
	"github.com/markremodeling/renovation/pkg/ollama"
	"github.com/markremodeling/renovation/pkg/openai"
)

// Version of the renovation backend
const Version = "1.0.0"

// NewClient creates the model backend selected by cfg.Backend
func NewClient(ctx context.Context, cfg config.AIConfig) (client.Client, error) {
	switch cfg.Backend {
	case config.BackendOpenAI, "":
		c, err := openai.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout())
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendOllama:
		c, err := ollama.NewClient(cfg.BaseURL, cfg.Timeout())
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.BackendGemini:
		key := cfg.GeminiAPIKey
		if key == "" {
			key = cfg.APIKey
		}
		opts := []gemini.Option{gemini.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()})}
		if cfg.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.BaseURL))
		}
		c, err := gemini.NewClient(ctx, key, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown AI backend %q", cfg.Backend)
	}
}
