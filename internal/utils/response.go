package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeMovieNotFound = "MOVIE_NOT_FOUND"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeTooLarge      = "PAYLOAD_TOO_LARGE"
	ErrCodeInternal      = "INTERNAL_SERVER_ERROR"
)

// StandardResponse represents the standard API response format
type StandardResponse struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	StatusCode int           `json:"statusCode"`
	Data       interface{}   `json:"data"`
	Error      *ErrorDetails `json:"error,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// ErrorDetails describes why a request failed
type ErrorDetails struct {
	ErrorCode        string              `json:"errorCode"`
	ErrorMessage     string              `json:"errorMessage"`
	StackTrace       string              `json:"stackTrace,omitempty"`
	ValidationErrors map[string][]string `json:"validationErrors,omitempty"`
}

// PaginatedResponse wraps one page of results
type PaginatedResponse struct {
	Data            interface{} `json:"data"`
	CurrentPage     int         `json:"currentPage"`
	PageSize        int         `json:"pageSize"`
	TotalItems      int64       `json:"totalItems"`
	TotalPages      int         `json:"totalPages"`
	HasPreviousPage bool        `json:"hasPreviousPage"`
	HasNextPage     bool        `json:"hasNextPage"`
}

// NewPaginatedResponse computes paging metadata; totalPages is ceil(total/pageSize).
func NewPaginatedResponse(data interface{}, page, pageSize int, total int64) PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return PaginatedResponse{
		Data:            data,
		CurrentPage:     page,
		PageSize:        pageSize,
		TotalItems:      total,
		TotalPages:      totalPages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages,
	}
}

// SuccessResponse sends a success response
func SuccessResponse(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(StandardResponse{
		Success:    true,
		Message:    message,
		StatusCode: code,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	})
}

// ErrorResponse sends an error response with the given error code
func ErrorResponse(c *fiber.Ctx, code int, errorCode, message string) error {
	return ErrorWithDetailsResponse(c, code, message, &ErrorDetails{
		ErrorCode:    errorCode,
		ErrorMessage: message,
	})
}

// ValidationErrorResponse sends a 400 listing messages per field
func ValidationErrorResponse(c *fiber.Ctx, errs map[string][]string) error {
	return ErrorWithDetailsResponse(c, fiber.StatusBadRequest, "Validation failed", &ErrorDetails{
		ErrorCode:        ErrCodeValidation,
		ErrorMessage:     "One or more validation errors occurred.",
		ValidationErrors: errs,
	})
}

func ErrorWithDetailsResponse(c *fiber.Ctx, code int, message string, details *ErrorDetails) error {
	return c.Status(code).JSON(StandardResponse{
		Success:    false,
		Message:    message,
		StatusCode: code,
		Error:      details,
		Timestamp:  time.Now().UTC(),
	})
}

// ErrorCodeForStatus maps HTTP statuses raised outside the handlers to error codes.
func ErrorCodeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return ErrCodeNotFound
	case fiber.StatusBadRequest:
		return ErrCodeBadRequest
	case fiber.StatusRequestEntityTooLarge:
		return ErrCodeTooLarge
	default:
		return ErrCodeInternal
	}
}
