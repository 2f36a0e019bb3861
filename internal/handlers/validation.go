package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"movie-catalog/internal/models"

	"github.com/go-playground/validator/v10"
)

// fieldErrors collects messages per request field, keyed by form/query name.
type fieldErrors map[string][]string

func (e fieldErrors) add(field, message string) {
	for _, m := range e[field] {
		if m == message {
			return
		}
	}
	e[field] = append(e[field], message)
}

// messages keyed by "<field>.<tag>"
var validationMessages = map[string]string{
	"title.notblank": "Title is required",
	"title.max":      "Title must be between 1 and 200 characters",
	"genre.max":      "Genre cannot exceed 100 characters",
	"rating.min":     "Rating must be between 1 and 5",
	"rating.max":     "Rating must be between 1 and 5",
	"page.min":       "Page number must be greater than 0",
	"page.range":     "Page number is too large for the page size",
	"pageSize.min":   "Page size must be between 1 and %d",
}

type requestValidator struct {
	validate    *validator.Validate
	maxPageSize int
}

func newRequestValidator(maxPageSize int) *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "query"} {
			if name := strings.Split(fld.Tag.Get(tag), ",")[0]; name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &requestValidator{validate: v, maxPageSize: maxPageSize}
}

func (rv *requestValidator) check(s interface{}, errs fieldErrors) {
	err := rv.validate.Struct(s)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.add("request", err.Error())
		return
	}

	for _, fe := range verrs {
		key := fe.Field() + "." + fe.Tag()
		msg, ok := validationMessages[key]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		if strings.Contains(msg, "%d") {
			msg = fmt.Sprintf(msg, rv.maxPageSize)
		}
		errs.add(fe.Field(), msg)
	}
}

func (rv *requestValidator) checkList(p MovieListParams, errs fieldErrors) {
	rv.check(p, errs)
	if p.PageSize > rv.maxPageSize {
		errs.add("pageSize", fmt.Sprintf(validationMessages["pageSize.min"], rv.maxPageSize))
	}
	if len(errs) == 0 && !p.toQuery().SkipInRange() {
		errs.add("page", validationMessages["page.range"])
	}
}

func invalidValue(field, raw string) string {
	return fmt.Sprintf("The value '%s' is not valid for %s.", raw, field)
}

// parseOptionalInt returns nil for an absent or blank value.
func parseOptionalInt(field, raw string, errs fieldErrors) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs.add(field, invalidValue(field, raw))
		return nil
	}
	return &n
}

func parseIntOrDefault(field, raw string, def int, errs fieldErrors) int {
	if n := parseOptionalInt(field, raw, errs); n != nil {
		return *n
	}
	return def
}

// parseSortBy accepts the field name in any case or its ordinal.
func parseSortBy(raw string, errs fieldErrors) models.MovieSortBy {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "title", "0":
		return models.SortByTitle
	case "rating", "1":
		return models.SortByRating
	default:
		errs.add("sortBy", invalidValue("sortBy", raw))
		return models.SortByTitle
	}
}

func parseSortDirection(raw string, errs fieldErrors) models.SortDirection {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "ascending", "asc", "0":
		return models.SortAscending
	case "descending", "desc", "1":
		return models.SortDescending
	default:
		errs.add("sortDirection", invalidValue("sortDirection", raw))
		return models.SortAscending
	}
}
