package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"runtime/debug"
	"strings"

	"movie-catalog/internal/config"
	"movie-catalog/internal/models"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const posterField = "posterImage"

type MovieHandler struct {
	service    services.MovieService
	pagination config.PaginationConfig
	validator  *requestValidator
	logger     *logrus.Logger
	// exposeErrors adds error messages and stack traces to 500 responses.
	exposeErrors bool
}

func NewMovieHandler(service services.MovieService, pagination config.PaginationConfig, exposeErrors bool, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		service:      service,
		pagination:   pagination,
		validator:    newRequestValidator(pagination.MaxPageSize),
		logger:       logger,
		exposeErrors: exposeErrors,
	}
}

// GetAllMovies godoc
// @Summary Get all movies
// @Description List movies with title search, exact genre filter, sorting and pagination
// @Tags movies
// @Produce json
// @Param searchTerm query string false "Case-insensitive title pattern"
// @Param genre query string false "Exact genre, case-insensitive"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(10)
// @Param sortBy query string false "Title or Rating" default(Title)
// @Param sortDirection query string false "Ascending or Descending" default(Ascending)
// @Success 200 {object} utils.StandardResponse{data=utils.PaginatedResponse{data=[]MovieResponse}} "Page of movies"
// @Failure 400 {object} utils.StandardResponse "Invalid query"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies [get]
func (h *MovieHandler) GetAllMovies(c *fiber.Ctx) error {
	errs := fieldErrors{}
	params := MovieListParams{
		SearchTerm:    c.Query("searchTerm"),
		Genre:         c.Query("genre"),
		Page:          parseIntOrDefault("page", c.Query("page"), 1, errs),
		PageSize:      parseIntOrDefault("pageSize", c.Query("pageSize"), h.pagination.DefaultPageSize, errs),
		SortBy:        parseSortBy(c.Query("sortBy"), errs),
		SortDirection: parseSortDirection(c.Query("sortDirection"), errs),
	}
	if len(errs) == 0 {
		h.validator.checkList(params, errs)
	}
	if len(errs) > 0 {
		return utils.ValidationErrorResponse(c, errs)
	}

	movies, total, err := h.service.GetAllMovies(c.Context(), params.toQuery())
	if err != nil {
		return h.handleError(c, err, "Failed to get movies")
	}

	page := utils.NewPaginatedResponse(toMovieResponses(movies), params.Page, params.PageSize, total)
	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", page)
}

// GetMovieByID godoc
// @Summary Get movie by ID
// @Description Get a single movie by its ID
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} utils.StandardResponse{data=MovieResponse} "Movie details"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovieByID(c *fiber.Ctx) error {
	id := c.Params("id")

	movie, err := h.service.GetMovieByID(c.Context(), id)
	if err != nil {
		return h.handleError(c, err, "Failed to get movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie retrieved successfully", toMovieResponse(movie))
}

// CreateMovie godoc
// @Summary Create a new movie
// @Description Create a movie, optionally uploading a poster image (JPEG, PNG or WEBP, max 5MB)
// @Tags movies
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param genre formData string false "Genre"
// @Param rating formData int false "Rating 1-5"
// @Param posterImage formData file false "Poster image"
// @Success 201 {object} utils.StandardResponse{data=MovieResponse} "Movie created successfully"
// @Failure 400 {object} utils.StandardResponse "Validation failed"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(c *fiber.Ctx) error {
	input, cleanup, err := h.bindMovieInput(c)
	if err != nil {
		return h.handleError(c, err, "Invalid movie request")
	}
	defer cleanup()

	movie, err := h.service.CreateMovie(c.Context(), input)
	if err != nil {
		return h.handleError(c, err, "Failed to create movie")
	}

	c.Location(fmt.Sprintf("%s/%s", strings.TrimRight(c.Path(), "/"), movie.ID))
	return utils.SuccessResponse(c, fiber.StatusCreated, "Movie created successfully", toMovieResponse(movie))
}

// UpdateMovie godoc
// @Summary Update a movie
// @Description Replace title, genre and rating; a new poster replaces the old one
// @Tags movies
// @Accept mpfd
// @Produce json
// @Param id path string true "Movie ID"
// @Param title formData string true "Title"
// @Param genre formData string false "Genre"
// @Param rating formData int false "Rating 1-5"
// @Param posterImage formData file false "Poster image"
// @Success 200 {object} utils.StandardResponse{data=MovieResponse} "Movie updated, or found with no changes"
// @Failure 400 {object} utils.StandardResponse "Validation failed"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c *fiber.Ctx) error {
	id := c.Params("id")

	input, cleanup, err := h.bindMovieInput(c)
	if err != nil {
		return h.handleError(c, err, "Invalid movie request")
	}
	defer cleanup()

	movie, modified, err := h.service.UpdateMovie(c.Context(), id, input)
	if err != nil {
		return h.handleError(c, err, "Failed to update movie")
	}

	message := "Movie updated successfully"
	if !modified {
		message = "Movie found but no changes were made"
	}
	return utils.SuccessResponse(c, fiber.StatusOK, message, toMovieResponse(movie))
}

// DeleteMovie godoc
// @Summary Delete a movie
// @Description Delete a movie and its poster image
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} utils.StandardResponse{data=bool} "Movie deleted successfully"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.DeleteMovie(c.Context(), id); err != nil {
		return h.handleError(c, err, "Failed to delete movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie deleted successfully", true)
}

// bindMovieInput reads and validates the form. The returned cleanup closes
// the poster file and is never nil.
func (h *MovieHandler) bindMovieInput(c *fiber.Ctx) (services.MovieInput, func(), error) {
	noop := func() {}
	errs := fieldErrors{}

	form := MovieForm{
		Title:  c.FormValue("title"),
		Rating: parseOptionalInt("rating", c.FormValue("rating"), errs),
	}
	if genre := c.FormValue("genre"); genre != "" {
		form.Genre = &genre
	}
	h.validator.check(form, errs)

	header, err := posterHeader(c)
	if err != nil {
		return services.MovieInput{}, noop, fiber.NewError(fiber.StatusBadRequest, "Invalid multipart form")
	}

	if len(errs) > 0 {
		return services.MovieInput{}, noop, errs
	}

	input := services.MovieInput{
		Title:  form.Title,
		Genre:  form.Genre,
		Rating: form.Rating,
	}
	if header == nil {
		return input, noop, nil
	}

	file, err := header.Open()
	if err != nil {
		return services.MovieInput{}, noop, fmt.Errorf("failed to open poster upload: %w", err)
	}

	input.Poster = &models.PosterFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Content:     file,
	}
	return input, func() { _ = file.Close() }, nil
}

// posterHeader returns the uploaded poster part, or nil when the request
// carries none. Empty file parts count as absent.
func posterHeader(c *fiber.Ctx) (*multipart.FileHeader, error) {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	files := form.File[posterField]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, nil
	}
	return files[0], nil
}

func (fieldErrors) Error() string {
	return "request validation failed"
}

// handleError maps service and binding errors onto the response envelope.
func (h *MovieHandler) handleError(c *fiber.Ctx, err error, logMessage string) error {
	var (
		ferrs    fieldErrors
		verr     *services.ValidationError
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &ferrs):
		return utils.ValidationErrorResponse(c, ferrs)
	case errors.As(err, &verr):
		return utils.ValidationErrorResponse(c, map[string][]string{verr.Field: {verr.Message}})
	case errors.Is(err, services.ErrMovieNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, utils.ErrCodeMovieNotFound, "Movie not found")
	case errors.As(err, &fiberErr):
		return utils.ErrorResponse(c, fiberErr.Code, utils.ErrorCodeForStatus(fiberErr.Code), fiberErr.Message)
	}

	h.logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"id":     c.Params("id"),
	}).Error(logMessage)

	details := &utils.ErrorDetails{
		ErrorCode:    utils.ErrCodeInternal,
		ErrorMessage: "An unexpected error occurred.",
	}
	if h.exposeErrors {
		details.ErrorMessage = err.Error()
		details.StackTrace = string(debug.Stack())
	}
	return utils.ErrorWithDetailsResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred", details)
}
