package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestNewPaginatedResponse(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		total        int64
		wantPages    int
		wantPrevious bool
		wantNext     bool
	}{
		{"first of three", 1, 10, 25, 3, false, true},
		{"middle", 2, 10, 25, 3, true, true},
		{"last partial page", 3, 10, 25, 3, true, false},
		{"exact fit", 2, 10, 20, 2, true, false},
		{"empty", 1, 10, 0, 0, false, false},
		{"past the end", 5, 10, 25, 3, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPaginatedResponse(nil, tt.page, tt.pageSize, tt.total)
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.HasPreviousPage != tt.wantPrevious {
				t.Errorf("HasPreviousPage = %v, want %v", got.HasPreviousPage, tt.wantPrevious)
			}
			if got.HasNextPage != tt.wantNext {
				t.Errorf("HasNextPage = %v, want %v", got.HasNextPage, tt.wantNext)
			}
			if got.CurrentPage != tt.page || got.PageSize != tt.pageSize || got.TotalItems != tt.total {
				t.Errorf("echoed fields = %+v", got)
			}
		})
	}
}

func TestEnvelopeShape(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return SuccessResponse(c, fiber.StatusOK, "done", fiber.Map{"a": 1})
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusNotFound, ErrCodeMovieNotFound, "Movie not found")
	})
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return ValidationErrorResponse(c, map[string][]string{"title": {"Title is required"}})
	})

	t.Run("success", func(t *testing.T) {
		body := doGet(t, app, "/ok", fiber.StatusOK)
		if body["success"] != true || body["message"] != "done" || body["statusCode"] != float64(200) {
			t.Errorf("body = %v", body)
		}
		if _, ok := body["error"]; ok {
			t.Errorf("error present on success: %v", body["error"])
		}
		if _, ok := body["timestamp"]; !ok {
			t.Error("timestamp missing")
		}
	})

	t.Run("not found", func(t *testing.T) {
		body := doGet(t, app, "/missing", fiber.StatusNotFound)
		if body["success"] != false || body["data"] != nil {
			t.Errorf("body = %v", body)
		}
		errBody := body["error"].(map[string]interface{})
		if errBody["errorCode"] != ErrCodeMovieNotFound {
			t.Errorf("errorCode = %v", errBody["errorCode"])
		}
	})

	t.Run("validation", func(t *testing.T) {
		body := doGet(t, app, "/invalid", fiber.StatusBadRequest)
		errBody := body["error"].(map[string]interface{})
		if errBody["errorCode"] != ErrCodeValidation {
			t.Errorf("errorCode = %v", errBody["errorCode"])
		}
		fields := errBody["validationErrors"].(map[string]interface{})
		msgs := fields["title"].([]interface{})
		if len(msgs) != 1 || msgs[0] != "Title is required" {
			t.Errorf("validationErrors = %v", fields)
		}
	})
}

func TestErrorCodeForStatus(t *testing.T) {
	cases := map[int]string{
		fiber.StatusNotFound:              ErrCodeNotFound,
		fiber.StatusBadRequest:            ErrCodeBadRequest,
		fiber.StatusRequestEntityTooLarge: ErrCodeTooLarge,
		fiber.StatusInternalServerError:   ErrCodeInternal,
		fiber.StatusServiceUnavailable:    ErrCodeInternal,
	}
	for status, want := range cases {
		if got := ErrorCodeForStatus(status); got != want {
			t.Errorf("ErrorCodeForStatus(%d) = %q, want %q", status, got, want)
		}
	}
}

func doGet(t *testing.T, app *fiber.App, path string, wantStatus int) map[string]interface{} {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("status = %d, want %d", resp.StatusCode, wantStatus)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}
