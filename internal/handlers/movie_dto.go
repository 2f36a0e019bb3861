package handlers

import "movie-catalog/internal/models"

// MovieForm is the multipart body of create and update requests. The poster
// travels as the "posterImage" file part.
type MovieForm struct {
	Title  string  `form:"title" validate:"notblank,max=200"`
	Genre  *string `form:"genre" validate:"omitempty,max=100"`
	Rating *int    `form:"rating" validate:"omitempty,min=1,max=5"`
}

// MovieListParams holds the query string of the list endpoint.
type MovieListParams struct {
	SearchTerm    string
	Genre         string
	Page          int `query:"page" validate:"min=1"`
	PageSize      int `query:"pageSize" validate:"min=1"`
	SortBy        models.MovieSortBy
	SortDirection models.SortDirection
}

func (p MovieListParams) toQuery() models.MovieQuery {
	return models.MovieQuery{
		SearchTerm:    p.SearchTerm,
		Genre:         p.Genre,
		Page:          p.Page,
		PageSize:      p.PageSize,
		SortBy:        p.SortBy,
		SortDirection: p.SortDirection,
	}
}

type MovieResponse struct {
	ID          string  `json:"id" example:"665f1c2ab3d4e5f6a7b8c9d0"`
	Title       string  `json:"title" example:"Spiderman"`
	Genre       *string `json:"genre" example:"Action"`
	Rating      *int    `json:"rating" example:"4"`
	PosterImage *string `json:"posterImage" example:"https://pub.example.r2.dev/spiderman_20240101120000_ab12cd34.jpg"`
}

func toMovieResponse(m *models.Movie) MovieResponse {
	return MovieResponse{
		ID:          m.ID,
		Title:       m.Title,
		Genre:       m.Genre,
		Rating:      m.Rating,
		PosterImage: m.PosterImage,
	}
}

func toMovieResponses(movies []models.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResponse(&movies[i]))
	}
	return out
}
