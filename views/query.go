package views

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"moviedb/storage"
)

// Search returns the movies whose title contains query, ignoring case, in
// catalog order. An empty query matches everything.
func Search(c *storage.Catalog, query string) []storage.Movie {
	fold := cases.Fold()
	needle := fold.String(query)

	var matches []storage.Movie
	for _, m := range c.Movies() {
		if strings.Contains(fold.String(m.Title), needle) {
			matches = append(matches, m)
		}
	}
	return matches
}

// SortByRating orders movies from highest to lowest rating. Equal ratings
// keep their catalog order.
func SortByRating(c *storage.Catalog) []storage.Movie {
	movies := c.Movies()
	slices.SortStableFunc(movies, func(a, b storage.Movie) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	return movies
}

// SortByYear orders movies newest first. Equal years keep their catalog
// order.
func SortByYear(c *storage.Catalog) []storage.Movie {
	movies := c.Movies()
	slices.SortStableFunc(movies, func(a, b storage.Movie) int {
		return cmp.Compare(b.Year, a.Year)
	})
	return movies
}

// RangeFilter bounds are inclusive. A nil bound does not constrain.
type RangeFilter struct {
	MinRating *float64
	StartYear *int
	EndYear   *int
}

// ParseRangeFilter builds a filter from raw user input. Blank strings leave
// the bound unset.
func ParseRangeFilter(minRating, startYear, endYear string) (RangeFilter, error) {
	var f RangeFilter

	if s := strings.TrimSpace(minRating); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return RangeFilter{}, NewValidationError("minimum rating", minRating, "expected a number")
		}
		f.MinRating = &v
	}
	if s := strings.TrimSpace(startYear); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return RangeFilter{}, NewValidationError("start year", startYear, "expected a whole year")
		}
		f.StartYear = &v
	}
	if s := strings.TrimSpace(endYear); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return RangeFilter{}, NewValidationError("end year", endYear, "expected a whole year")
		}
		f.EndYear = &v
	}
	return f, nil
}

// Match reports whether m satisfies every bound that is set.
func (f RangeFilter) Match(m storage.Movie) bool {
	if f.MinRating != nil && m.Rating < *f.MinRating {
		return false
	}
	if f.StartYear != nil && m.Year < *f.StartYear {
		return false
	}
	if f.EndYear != nil && m.Year > *f.EndYear {
		return false
	}
	return true
}

// Filter returns the movies passing f in catalog order. No matches yields an
// empty slice and no error.
func Filter(c *storage.Catalog, f RangeFilter) []storage.Movie {
	out := []storage.Movie{}
	for _, m := range c.Movies() {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}
