package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// events is shared by the fakes so tests can assert call order across stores.
type events struct {
	calls []string
}

func (e *events) add(format string, args ...any) {
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
}

func (e *events) count(prefix string) int {
	n := 0
	for _, c := range e.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

type fakeRepository struct {
	log       *events
	movies    map[string]models.Movie
	nextID    int
	createErr error
	updateErr error
	deleteErr error
}

func newFakeRepository(log *events) *fakeRepository {
	return &fakeRepository{log: log, movies: map[string]models.Movie{}}
}

func (r *fakeRepository) FindAll(ctx context.Context, query models.MovieQuery) ([]models.Movie, int64, error) {
	r.log.add("repo.findAll")
	var out []models.Movie
	for _, m := range r.movies {
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepository) FindByID(ctx context.Context, id string) (*models.Movie, error) {
	r.log.add("repo.find %s", id)
	m, ok := r.movies[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *fakeRepository) Create(ctx context.Context, movie *models.Movie) error {
	r.log.add("repo.create")
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	movie.ID = fmt.Sprintf("id-%d", r.nextID)
	r.movies[movie.ID] = *movie
	return nil
}

func (r *fakeRepository) Update(ctx context.Context, movie *models.Movie) (bool, error) {
	r.log.add("repo.update %s", movie.ID)
	if r.updateErr != nil {
		return false, r.updateErr
	}
	existing, ok := r.movies[movie.ID]
	if !ok {
		return false, repository.ErrNotFound
	}
	r.movies[movie.ID] = *movie
	return !existing.SameContent(movie), nil
}

func (r *fakeRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.log.add("repo.delete %s", id)
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	if _, ok := r.movies[id]; !ok {
		return false, nil
	}
	delete(r.movies, id)
	return true, nil
}

type fakeAssetStore struct {
	log       *events
	rules     PosterRules
	uploads   int
	deleted   []string
	deleteErr error
	uploadErr error
}

func (s *fakeAssetStore) Upload(ctx context.Context, file *models.PosterFile) (string, error) {
	if err := s.rules.Validate(file); err != nil {
		return "", err
	}
	s.log.add("asset.upload %s", file.Filename)
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads++
	key := fmt.Sprintf("%s_%d", strings.TrimSuffix(file.Filename, ".jpg"), s.uploads) + ".jpg"
	return "https://cdn.test/posters/" + key, nil
}

func (s *fakeAssetStore) Delete(ctx context.Context, keyOrURL string) error {
	s.log.add("asset.delete %s", keyOrURL)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, ExtractObjectKey(keyOrURL))
	return nil
}

func jpegPoster(name string) *models.PosterFile {
	content := []byte("\xff\xd8\xff fake jpeg")
	return &models.PosterFile{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
		Content:     bytes.NewReader(content),
	}
}

var errBackend = errors.New("backend unavailable")

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
