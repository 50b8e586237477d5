package analyzer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/markremodeling/renovation/pkg/processing"
)

// MaxUploadBytes is the default upload limit (10 MB)
const MaxUploadBytes = 10 << 20

var (
	ErrEmptyImage        = errors.New("no file uploaded")
	ErrImageTooLarge     = errors.New("image too large")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrImageTooSmall     = errors.New("image too small")
)

// ImageAnalyzer checks uploaded photos before they reach storage or a model
type ImageAnalyzer struct {
	config    Config
	processor *processing.Processor
}

// Config holds configuration for the image analyzer
type Config struct {
	MaxBytes         int64
	SupportedFormats []string
	MinImageSize     int
}

// DefaultConfig accepts jpeg, png, webp and gif photos up to 10 MB
func DefaultConfig() Config {
	return Config{
		MaxBytes:         MaxUploadBytes,
		SupportedFormats: []string{"jpeg", "png", "webp", "gif"},
		MinImageSize:     16,
	}
}

// New creates a new ImageAnalyzer with default configuration
func New() *ImageAnalyzer {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new ImageAnalyzer with custom configuration
func NewWithConfig(config Config) *ImageAnalyzer {
	if config.MaxBytes <= 0 {
		config.MaxBytes = MaxUploadBytes
	}
	return &ImageAnalyzer{config: config, processor: processing.NewProcessor()}
}

// MaxBytes returns the configured upload limit
func (a *ImageAnalyzer) MaxBytes() int64 {
	return a.config.MaxBytes
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspectRatio"`
	Area        int     `json:"area"`
	Format      string  `json:"format"`
	MIMEType    string  `json:"mimeType"`
	Bytes       int     `json:"bytes"`
}

// ReadUpload reads at most MaxBytes from r and fails if more is available
func (a *ImageAnalyzer) ReadUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, a.config.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > a.config.MaxBytes {
		return nil, fmt.Errorf("%w: max = %s", ErrImageTooLarge, formatLimit(a.config.MaxBytes))
	}
	return data, nil
}

// Inspect validates an uploaded image and returns its metadata
func (a *ImageAnalyzer) Inspect(data []byte) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, ErrEmptyImage
	}
	if int64(len(data)) > a.config.MaxBytes {
		return ImageInfo{}, fmt.Errorf("%w: max = %s", ErrImageTooLarge, formatLimit(a.config.MaxBytes))
	}

	width, height, format, err := a.processor.DecodeConfig(data)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if !a.isFormatSupported(format) {
		return ImageInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	info := GetImageInfo(width, height)
	info.Format = format
	info.MIMEType = processing.MIMEType(format)
	info.Bytes = len(data)

	if err := a.ValidateSize(info); err != nil {
		return ImageInfo{}, err
	}
	return info, nil
}

// GetImageInfo returns basic information about an image of the given size
func GetImageInfo(width, height int) ImageInfo {
	info := ImageInfo{
		Width:  width,
		Height: height,
		Area:   width * height,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}

func (a *ImageAnalyzer) isFormatSupported(format string) bool {
	for _, supported := range a.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}

// ValidateSize checks if an image meets minimum requirements
func (a *ImageAnalyzer) ValidateSize(info ImageInfo) error {
	if info.Width < a.config.MinImageSize || info.Height < a.config.MinImageSize {
		return fmt.Errorf("%w: %dx%d (minimum: %d)", ErrImageTooSmall,
			info.Width, info.Height, a.config.MinImageSize)
	}
	return nil
}

func formatLimit(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}
