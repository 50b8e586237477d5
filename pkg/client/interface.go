package client

import (
	"context"
	"errors"

	"github.com/markremodeling/renovation/pkg/types"
)

// ErrUnsupported is returned by backends that lack a capability
var ErrUnsupported = errors.New("operation not supported by this backend")

// Client is a language/vision/image model backend
type Client interface {
	Chat(ctx context.Context, req types.ChatRequest) (string, error)
	GenerateImage(ctx context.Context, req types.ImageRequest) (*types.GeneratedImage, error)
}
