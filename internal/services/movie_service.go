package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/sirupsen/logrus"
)

// MovieInput carries the client-editable fields of a movie. Poster is nil
// when no new image was sent.
type MovieInput struct {
	Title  string
	Genre  *string
	Rating *int
	Poster *models.PosterFile
}

type MovieService interface {
	GetAllMovies(ctx context.Context, query models.MovieQuery) ([]models.Movie, int64, error)
	GetMovieByID(ctx context.Context, id string) (*models.Movie, error)
	CreateMovie(ctx context.Context, input MovieInput) (*models.Movie, error)
	// UpdateMovie replaces the movie and reports whether stored data changed.
	UpdateMovie(ctx context.Context, id string, input MovieInput) (*models.Movie, bool, error)
	DeleteMovie(ctx context.Context, id string) error
}

// There is no transaction spanning the record store and the asset store.
// Create keeps an uploaded poster when the insert fails, update deletes the
// old poster before the record is replaced, and delete removes the record
// before its poster. Asset failures are returned to the caller.
type movieService struct {
	repo   repository.MovieRepository
	assets AssetStore
	rules  PosterRules
	logger *logrus.Logger
}

func NewMovieService(repo repository.MovieRepository, assets AssetStore, rules PosterRules, logger *logrus.Logger) MovieService {
	return &movieService{
		repo:   repo,
		assets: assets,
		rules:  rules,
		logger: logger,
	}
}

func (s *movieService) GetAllMovies(ctx context.Context, query models.MovieQuery) ([]models.Movie, int64, error) {
	if query.SortBy == "" {
		query.SortBy = models.SortByTitle
	}
	if query.SortDirection == "" {
		query.SortDirection = models.SortAscending
	}
	if !query.SkipInRange() {
		return nil, 0, &ValidationError{Field: "page", Message: "Page number is too large for the page size"}
	}

	movies, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, 0, &TransportError{Op: "list movies", Err: err}
	}
	return movies, total, nil
}

func (s *movieService) GetMovieByID(ctx context.Context, id string) (*models.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &TransportError{Op: "find movie", Err: err}
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return movie, nil
}

func (s *movieService) CreateMovie(ctx context.Context, input MovieInput) (*models.Movie, error) {
	if input.Poster != nil {
		if err := s.rules.Validate(input.Poster); err != nil {
			return nil, err
		}
	}

	movie := &models.Movie{}
	applyInput(movie, input)

	if input.Poster != nil {
		if err := s.attachPoster(ctx, movie, input.Poster); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		if movie.PosterImageKey != nil {
			s.logger.WithError(err).WithField("posterKey", *movie.PosterImageKey).
				Warn("Movie insert failed after poster upload, poster left orphaned")
		}
		return nil, &TransportError{Op: "create movie", Err: err}
	}

	s.logger.WithField("id", movie.ID).Info("Movie created")
	return movie, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, id string, input MovieInput) (*models.Movie, bool, error) {
	existing, err := s.GetMovieByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if input.Poster != nil {
		if err := s.rules.Validate(input.Poster); err != nil {
			return nil, false, err
		}
	}

	updated := *existing
	applyInput(&updated, input)

	if input.Poster != nil {
		if key := existing.PosterImageKey; key != nil && *key != "" {
			if err := s.assets.Delete(ctx, *key); err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"id":        id,
					"posterKey": *key,
				}).Error("Failed to delete previous poster, update aborted")
				return nil, false, err
			}
		}

		if err := s.attachPoster(ctx, &updated, input.Poster); err != nil {
			return nil, false, err
		}
	}

	modified, err := s.repo.Update(ctx, &updated)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrMovieNotFound
		}
		return nil, false, &TransportError{Op: "update movie", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"id":       id,
		"modified": modified,
	}).Info("Movie updated")
	return &updated, modified, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id string) error {
	existing, err := s.GetMovieByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return &TransportError{Op: "delete movie", Err: err}
	}
	if !deleted {
		return ErrMovieNotFound
	}

	if key := existing.PosterImageKey; key != nil && *key != "" {
		if err := s.assets.Delete(ctx, *key); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"id":        id,
				"posterKey": *key,
			}).Error("Movie deleted but poster cleanup failed")
			return fmt.Errorf("%w: %w", ErrPosterCleanup, err)
		}
	}

	s.logger.WithField("id", id).Info("Movie deleted")
	return nil
}

func (s *movieService) attachPoster(ctx context.Context, movie *models.Movie, poster *models.PosterFile) error {
	url, err := s.assets.Upload(ctx, poster)
	if err != nil {
		return err
	}

	key := ExtractObjectKey(url)
	movie.PosterImage = &url
	movie.PosterImageKey = &key
	return nil
}

// applyInput overwrites title, genre and rating; poster fields are untouched.
func applyInput(movie *models.Movie, input MovieInput) {
	movie.Title = strings.TrimSpace(input.Title)
	movie.Genre = normalizeGenre(input.Genre)
	movie.Rating = input.Rating
}

func normalizeGenre(genre *string) *string {
	if genre == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*genre)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
