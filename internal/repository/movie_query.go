package repository

import (
	"regexp"
	"strings"

	"movie-catalog/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"gorm.io/gorm"
)

// Both stores treat a missing rating as the lowest value: first when
// ascending, last when descending. MongoDB gets this from its BSON
// comparison order (missing and null sort before numbers); PostgreSQL needs
// explicit NULLS FIRST/LAST. Ties are broken by id so that pages never
// overlap.

// The title term is a case-insensitive pattern and is NOT escaped, so
// metacharacters keep their regex meaning. The genre term is escaped and
// anchored, giving a case-insensitive exact match.

func hasTerm(s string) bool {
	return strings.TrimSpace(s) != ""
}

func buildMongoFilter(query models.MovieQuery) bson.D {
	var filters []bson.D

	if hasTerm(query.SearchTerm) {
		filters = append(filters, bson.D{{
			Key:   "Title",
			Value: bson.Regex{Pattern: query.SearchTerm, Options: "i"},
		}})
	}

	if hasTerm(query.Genre) {
		filters = append(filters, bson.D{{
			Key:   "Genre",
			Value: bson.Regex{Pattern: "^" + regexp.QuoteMeta(query.Genre) + "$", Options: "i"},
		}})
	}

	switch len(filters) {
	case 0:
		return bson.D{}
	case 1:
		return filters[0]
	}

	and := make(bson.A, 0, len(filters))
	for _, f := range filters {
		and = append(and, f)
	}
	return bson.D{{Key: "$and", Value: and}}
}

func buildMongoSort(query models.MovieQuery) bson.D {
	direction := 1
	if query.Descending() {
		direction = -1
	}

	field := "Title"
	if query.SortBy == models.SortByRating {
		field = "Rating"
	}

	return bson.D{
		{Key: field, Value: direction},
		{Key: "_id", Value: 1},
	}
}

func postgresMovieFilter(query models.MovieQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if hasTerm(query.SearchTerm) {
			db = db.Where("title ~* ?", query.SearchTerm)
		}
		if hasTerm(query.Genre) {
			db = db.Where("LOWER(genre) = LOWER(?)", query.Genre)
		}
		return db
	}
}

// postgresMovieOrder sorts titles bytewise (COLLATE "C") to match MongoDB's
// default string ordering.
func postgresMovieOrder(query models.MovieQuery) string {
	var order string
	switch {
	case query.SortBy == models.SortByRating && query.Descending():
		order = "rating DESC NULLS LAST"
	case query.SortBy == models.SortByRating:
		order = "rating ASC NULLS FIRST"
	case query.Descending():
		order = `title COLLATE "C" DESC`
	default:
		order = `title COLLATE "C" ASC`
	}
	return order + ", id ASC"
}
