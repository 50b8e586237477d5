package processing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/markremodeling/renovation/pkg/crop"
	"github.com/markremodeling/renovation/pkg/types"
)

const (
	// ModelWidth is the width photos are reduced to before vision calls
	ModelWidth = 1024
	// ModelQuality is the JPEG quality used for vision calls
	ModelQuality = 70
	// ThumbnailSize is the long edge of admin thumbnails
	ThumbnailSize = 256
)

// Processor handles image processing operations
type Processor struct {
	httpClient *http.Client
	cropper    *crop.Detector
}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cropper:    crop.New(),
	}
}

// LoadImageFromURL downloads an image and returns its raw bytes
func (p *Processor) LoadImageFromURL(imageURL string) ([]byte, error) {
	// Validate URL
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsedURL.Scheme)
	}

	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", "renovation/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", contentType)
	}

	return io.ReadAll(resp.Body)
}

// LoadSource reads an image from either a file path or URL
func (p *Processor) LoadSource(source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return p.LoadImageFromURL(source)
	}
	return os.ReadFile(source)
}

// Decode decodes an image from byte data with WebP support
func (p *Processor) Decode(data []byte) (image.Image, string, error) {
	// Try standard image.Decode first
	if img, format, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, format, nil
	}

	// Try WebP decode
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, "webp", nil
	}

	return nil, "", fmt.Errorf("image: unknown or unsupported format")
}

// DecodeConfig returns the native pixel size and format without decoding pixels
func (p *Processor) DecodeConfig(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		return cfg.Width, cfg.Height, format, nil
	}

	if w, h, _, werr := webp.GetInfo(data); werr == nil {
		return w, h, "webp", nil
	}
	return 0, 0, "", fmt.Errorf("image: unknown or unsupported format")
}

// PrepareForModel scales the photo down to ModelWidth and re-encodes it as
// JPEG. Smaller photos keep their size.
func (p *Processor) PrepareForModel(data []byte) (types.Image, error) {
	img, _, err := p.Decode(data)
	if err != nil {
		return types.Image{}, err
	}

	if img.Bounds().Dx() > ModelWidth {
		img = imaging.Resize(img, ModelWidth, 0, imaging.Lanczos)
	}

	out, err := p.Encode(img, "jpeg", ModelQuality)
	if err != nil {
		return types.Image{}, err
	}
	return types.Image{Data: out, MIMEType: "image/jpeg"}, nil
}

// Thumbnail cuts the image to ratio around its most detailed region and
// scales it so the long edge is size. The result is WebP.
func (p *Processor) Thumbnail(data []byte, size int, ratio crop.Ratio) ([]byte, error) {
	if size <= 0 {
		size = ThumbnailSize
	}
	if ratio.Float() <= 0 {
		ratio = crop.Square
	}
	img, _, err := p.Decode(data)
	if err != nil {
		return nil, err
	}
	w, h := ratio.Size(size)
	thumb, err := p.cropper.Cover(img, w, h)
	if err != nil {
		return nil, err
	}
	return p.Encode(thumb, "webp", 80)
}

// Encode writes an image in the given format
func (p *Processor) Encode(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "webp":
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return nil, err
		}
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
	default: // jpg
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path, format string, quality int) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return webp.Encode(f, img, &webp.Options{Quality: float32(quality)})
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

// EncodeBase64 returns the standard base64 form of data
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DataURL embeds data in a data: URL
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + EncodeBase64(data)
}

// MIMEType maps a decoder format name to its content type
func MIMEType(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
