package repository

import (
	"context"
	"errors"
	"time"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postgresMovieRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewPostgresMovieRepository(db *database.Database) MovieRepository {
	return &postgresMovieRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *postgresMovieRepository) FindAll(ctx context.Context, query models.MovieQuery) ([]models.Movie, int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Movie{}).
		Scopes(postgresMovieFilter(query)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	movies := make([]models.Movie, 0, query.PageSize)
	if err := r.db.WithContext(ctx).
		Scopes(postgresMovieFilter(query)).
		Order(postgresMovieOrder(query)).
		Offset(query.Skip()).
		Limit(query.PageSize).
		Find(&movies).Error; err != nil {
		return nil, 0, err
	}

	return movies, total, nil
}

func (r *postgresMovieRepository) FindByID(ctx context.Context, id string) (*models.Movie, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var movie models.Movie
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

func (r *postgresMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.WithContext(ctx).Create(movie).Error
}

// Update locks the stored row, compares it with the new values and only
// writes when they differ, mirroring a document store's modified count.
func (r *postgresMovieRepository) Update(ctx context.Context, movie *models.Movie) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	modified := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Movie
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", movie.ID).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if existing.SameContent(movie) {
			return nil
		}

		modified = true
		return tx.Save(movie).Error
	})
	if err != nil {
		return false, err
	}

	return modified, nil
}

func (r *postgresMovieRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Movie{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
