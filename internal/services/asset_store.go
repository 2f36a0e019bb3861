package services

import (
	"context"
	"fmt"
	"mime"
	"path"
	"slices"
	"strings"
	"time"

	"movie-catalog/internal/models"

	"github.com/google/uuid"
)

// AssetStore keeps poster images in object storage.
type AssetStore interface {
	// Upload validates the file, stores it under a fresh unique key and
	// returns its public URL.
	Upload(ctx context.Context, file *models.PosterFile) (string, error)
	// Delete removes the object addressed by a key or by its public URL.
	// Deleting a missing object succeeds.
	Delete(ctx context.Context, keyOrURL string) error
}

const DefaultMaxPosterSize int64 = 5 * 1024 * 1024

var DefaultPosterTypes = []string{"image/jpeg", "image/png", "image/webp"}

type PosterRules struct {
	MaxSize      int64
	AllowedTypes []string
}

func DefaultPosterRules() PosterRules {
	return PosterRules{
		MaxSize:      DefaultMaxPosterSize,
		AllowedTypes: DefaultPosterTypes,
	}
}

func (r PosterRules) Validate(file *models.PosterFile) error {
	if file.Size > r.MaxSize {
		return &ValidationError{
			Field:   "posterImage",
			Message: fmt.Sprintf("File size exceeds the maximum allowed limit of %dMB.", r.MaxSize/(1024*1024)),
		}
	}

	mediaType, _, err := mime.ParseMediaType(file.ContentType)
	if err != nil || !slices.Contains(r.AllowedTypes, strings.ToLower(mediaType)) {
		return &ValidationError{
			Field:   "posterImage",
			Message: "Unsupported file type. Only JPEG, PNG, and WEBP are allowed.",
		}
	}

	return nil
}

// GenerateObjectKey builds <name>_<yyyyMMddHHmmss>_<8 hex><ext> from the
// uploaded filename. The random suffix keeps repeated uploads apart.
func GenerateObjectKey(filename string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := path.Ext(base)
	name := sanitizeKeyPart(strings.TrimSuffix(base, ext))
	if ext == "." {
		ext = ""
	}
	if name == "" {
		name = "poster"
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s%s", name, now.UTC().Format("20060102150405"), suffix, sanitizeKeyPart(ext))
}

func sanitizeKeyPart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, s)
}

// ExtractObjectKey returns the trailing path segment of a URL, or the
// value itself when it is already a bare key.
func ExtractObjectKey(keyOrURL string) string {
	key := keyOrURL
	if idx := strings.IndexAny(key, "?#"); idx != -1 {
		key = key[:idx]
	}
	if idx := strings.LastIndex(key, "/"); idx != -1 {
		key = key[idx+1:]
	}
	return key
}

func publicObjectURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
