package repository

import (
	"context"
	"errors"
	"time"

	"movie-catalog/internal/models"
)

// ErrNotFound is returned by Update when no record has the given id.
var ErrNotFound = errors.New("movie not found")

type MovieRepository interface {
	// FindAll returns one page of movies matching the query and the total match count.
	FindAll(ctx context.Context, query models.MovieQuery) ([]models.Movie, int64, error)
	// FindByID returns nil without error when no record has the id.
	FindByID(ctx context.Context, id string) (*models.Movie, error)
	// Create inserts the movie and sets its store-assigned ID.
	Create(ctx context.Context, movie *models.Movie) error
	// Update replaces the record with movie.ID and reports whether stored data changed.
	Update(ctx context.Context, movie *models.Movie) (bool, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
