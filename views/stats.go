// Package views holds the read-only computations over a loaded catalog:
// statistics, random pick, search, sorting and range filtering.
package views

import (
	"math"
	"math/rand"
	"slices"
	"strconv"

	"moviedb/storage"
)

// Stats summarizes the ratings in a catalog. Best and Worst hold every movie
// whose rating equals the maximum or minimum, in catalog order.
type Stats struct {
	Count       int
	Average     float64
	Median      float64
	BestRating  float64
	WorstRating float64
	Best        []storage.Movie
	Worst       []storage.Movie
}

// ComputeStats returns ErrEmptyCatalog for an empty catalog and a
// ValidationError if a stored rating is not a finite number.
func ComputeStats(c *storage.Catalog) (Stats, error) {
	movies := c.Movies()
	if len(movies) == 0 {
		return Stats{}, ErrEmptyCatalog
	}

	ratings := make([]float64, 0, len(movies))
	sum := 0.0
	for _, m := range movies {
		if err := checkRating(m); err != nil {
			return Stats{}, err
		}
		ratings = append(ratings, m.Rating)
		sum += m.Rating
	}

	slices.Sort(ratings)
	st := Stats{
		Count:       len(ratings),
		Average:     sum / float64(len(ratings)),
		Median:      median(ratings),
		WorstRating: ratings[0],
		BestRating:  ratings[len(ratings)-1],
	}
	for _, m := range movies {
		if m.Rating == st.BestRating {
			st.Best = append(st.Best, m)
		}
		if m.Rating == st.WorstRating {
			st.Worst = append(st.Worst, m)
		}
	}
	return st, nil
}

// median expects sorted input.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func checkRating(m storage.Movie) error {
	if math.IsNaN(m.Rating) || math.IsInf(m.Rating, 0) {
		return NewValidationError("rating", strconv.FormatFloat(m.Rating, 'f', -1, 64),
			"stored rating of "+strconv.Quote(m.Title)+" is not a number")
	}
	return nil
}

// RandomMovie picks a movie uniformly using rng. It returns ErrEmptyCatalog
// when there is nothing to pick.
func RandomMovie(c *storage.Catalog, rng *rand.Rand) (storage.Movie, error) {
	movies := c.Movies()
	if len(movies) == 0 {
		return storage.Movie{}, ErrEmptyCatalog
	}
	return movies[rng.Intn(len(movies))], nil
}
