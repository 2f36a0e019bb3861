package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"movie-catalog/internal/models"
)

func TestPosterRulesValidate(t *testing.T) {
	rules := DefaultPosterRules()

	tests := []struct {
		name        string
		size        int64
		contentType string
		wantErr     string
	}{
		{"jpeg", 1024, "image/jpeg", ""},
		{"png at limit", 5 * 1024 * 1024, "image/png", ""},
		{"webp with params", 10, "image/webp; charset=binary", ""},
		{"upper case type", 10, "IMAGE/JPEG", ""},
		{"too large", 6 * 1024 * 1024, "image/jpeg", "File size exceeds the maximum allowed limit of 5MB."},
		{"text", 10, "text/plain", "Unsupported file type. Only JPEG, PNG, and WEBP are allowed."},
		{"gif", 10, "image/gif", "Unsupported file type. Only JPEG, PNG, and WEBP are allowed."},
		{"missing type", 10, "", "Unsupported file type. Only JPEG, PNG, and WEBP are allowed."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.Validate(&models.PosterFile{Filename: "x", Size: tt.size, ContentType: tt.contentType})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if verr.Message != tt.wantErr {
				t.Errorf("Message = %q, want %q", verr.Message, tt.wantErr)
			}
		})
	}
}

func TestGenerateObjectKey(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 30, 45, 0, time.UTC)
	pattern := regexp.MustCompile(`^foo_20240101123045_[0-9a-f]{8}\.jpg$`)

	first := GenerateObjectKey("foo.jpg", now)
	second := GenerateObjectKey("foo.jpg", now)

	if !pattern.MatchString(first) {
		t.Errorf("GenerateObjectKey() = %q, want match %s", first, pattern)
	}
	if first == second {
		t.Errorf("repeated identical uploads produced the same key %q", first)
	}
}

func TestGenerateObjectKeySanitizes(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		filename string
		pattern  string
	}{
		{`..\..\etc\my poster.png`, `^my-poster_20240101000000_[0-9a-f]{8}\.png$`},
		{"dir/sub/ok-name_1.webp", `^ok-name_1_20240101000000_[0-9a-f]{8}\.webp$`},
		{".jpg", `^poster_20240101000000_[0-9a-f]{8}\.jpg$`},
		{"noext", `^noext_20240101000000_[0-9a-f]{8}$`},
		{".", `^poster_20240101000000_[0-9a-f]{8}$`},
		{"trailing.", `^trailing_20240101000000_[0-9a-f]{8}$`},
		{"dir/.", `^poster_20240101000000_[0-9a-f]{8}$`},
	}

	for _, tt := range tests {
		got := GenerateObjectKey(tt.filename, now)
		if !regexp.MustCompile(tt.pattern).MatchString(got) {
			t.Errorf("GenerateObjectKey(%q) = %q, want match %s", tt.filename, got, tt.pattern)
		}
	}
}

func TestExtractObjectKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://pub.r2.dev/foo_20240101_ab12cd34.jpg", "foo_20240101_ab12cd34.jpg"},
		{"http://localhost:9000/posters/foo.jpg?X-Amz-Signature=abc", "foo.jpg"},
		{"foo.jpg", "foo.jpg"},
		{"posters/foo.jpg", "foo.jpg"},
	}

	for _, tt := range tests {
		if got := ExtractObjectKey(tt.in); got != tt.want {
			t.Errorf("ExtractObjectKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPublicObjectURL(t *testing.T) {
	if got := publicObjectURL("https://pub.r2.dev/", "a.jpg"); got != "https://pub.r2.dev/a.jpg" {
		t.Errorf("publicObjectURL() = %q", got)
	}
}
