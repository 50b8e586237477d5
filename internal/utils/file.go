package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DefaultFolder is used for uploads that name no folder
const DefaultFolder = "misc"

var unsafeFolderChars = regexp.MustCompile(`(?i)[^a-z0-9/_-]`)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// GetFileExtension returns the file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// SanitizeFolder strips everything except letters, digits, '/', '_' and '-'
// and removes empty path segments.
func SanitizeFolder(folder string) string {
	folder = unsafeFolderChars.ReplaceAllString(folder, "")
	parts := strings.Split(folder, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

// BlobKey builds images/<folder>/<base>-<unix ms>.<ext> for an upload
func BlobKey(folder, filename string, now time.Time) string {
	folder = SanitizeFolder(folder)
	if folder == "" {
		folder = DefaultFolder
	}

	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := GetFileExtension(name)
	if ext == "" {
		ext = "webp"
	}
	base := SanitizeFilename(strings.TrimSuffix(name, filepath.Ext(name)))
	base = strings.ReplaceAll(base, " ", "-")
	if base == "" {
		base = "image"
	}

	return fmt.Sprintf("images/%s/%s-%d.%s", folder, base, now.UnixMilli(), ext)
}

// ListPrefix returns the key prefix for listing a folder
func ListPrefix(folder string) string {
	if folder = SanitizeFolder(folder); folder != "" {
		return "images/" + folder
	}
	return "images"
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// SanitizeFilename removes or replaces invalid characters in filenames
func SanitizeFilename(filename string) string {
	// Replace invalid characters with underscores
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := filename

	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}

	// Remove leading/trailing spaces and dots
	result = strings.Trim(result, " .")

	return result
}

// FormatFileSize formats file size in human-readable format
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// OverlayFilename derives <name>_overlay.png next to the input photo
func OverlayFilename(inputFile string) string {
	dir := filepath.Dir(inputFile)
	base := filepath.Base(inputFile)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+"_overlay.png")
}
