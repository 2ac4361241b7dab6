package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviedb/storage"
)

func TestSearch(t *testing.T) {
	c := catalog(
		storage.Movie{Title: "The Dark Knight", Rating: 9.0},
		storage.Movie{Title: "Heat", Rating: 8.3},
		storage.Movie{Title: "DARKMAN", Rating: 6.4},
		storage.Movie{Title: "Le Fabuleux Destin d’Amélie Poulain", Rating: 8.3},
	)

	assert.Equal(t, []string{"The Dark Knight", "DARKMAN"}, titles(Search(c, "dark")))
	assert.Equal(t, []string{"Le Fabuleux Destin d’Amélie Poulain"}, titles(Search(c, "AMÉLIE")))
	assert.Empty(t, Search(c, "alien"))
	assert.Len(t, Search(c, ""), 4)
}

func TestSortByRatingIsStable(t *testing.T) {
	c := catalog(
		storage.Movie{Title: "A", Rating: 7.0},
		storage.Movie{Title: "B", Rating: 8.5},
		storage.Movie{Title: "C", Rating: 7.0},
		storage.Movie{Title: "D", Rating: 9.1},
	)

	assert.Equal(t, []string{"D", "B", "A", "C"}, titles(SortByRating(c)))
	assert.Equal(t, []string{"A", "B", "C", "D"}, c.Titles(), "catalog must not be reordered")
}

func TestSortByYearIsStable(t *testing.T) {
	c := catalog(
		storage.Movie{Title: "Old", Year: 1979},
		storage.Movie{Title: "NewA", Year: 2010},
		storage.Movie{Title: "Mid", Year: 1994},
		storage.Movie{Title: "NewB", Year: 2010},
	)

	assert.Equal(t, []string{"NewA", "NewB", "Mid", "Old"}, titles(SortByYear(c)))
}

func TestFilterYearRange(t *testing.T) {
	c := catalog(
		storage.Movie{Title: "A", Year: 1994, Rating: 9},
		storage.Movie{Title: "B", Year: 2001, Rating: 8},
		storage.Movie{Title: "C", Year: 2010, Rating: 7},
	)

	f, err := ParseRangeFilter("", "2000", "2005")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(Filter(c, f)))
}

func TestFilterBounds(t *testing.T) {
	c := catalog(
		storage.Movie{Title: "A", Year: 1994, Rating: 9},
		storage.Movie{Title: "B", Year: 2001, Rating: 8},
		storage.Movie{Title: "C", Year: 2010, Rating: 7},
	)

	tests := []struct {
		name                  string
		minRating, start, end string
		want                  []string
	}{
		{"no bounds", "", "", "", []string{"A", "B", "C"}},
		{"min rating inclusive", "8", "", "", []string{"A", "B"}},
		{"start inclusive", "", "2001", "", []string{"B", "C"}},
		{"end inclusive", "", "", "2001", []string{"A", "B"}},
		{"all bounds", "7.5", "1990", "2005", []string{"A", "B"}},
		{"whitespace is blank", " ", "  ", "\t", []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseRangeFilter(tt.minRating, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(Filter(c, f)))
		})
	}
}

func TestFilterNoMatches(t *testing.T) {
	c := catalog(storage.Movie{Title: "A", Year: 1994, Rating: 9})

	f, err := ParseRangeFilter("9.5", "", "")
	require.NoError(t, err)
	got := Filter(c, f)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseRangeFilterRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		minRating, start, end string
		field                 string
	}{
		{"high", "", "", "minimum rating"},
		{"NaN", "", "", "minimum rating"},
		{"", "199x", "", "start year"},
		{"", "", "2005.5", "end year"},
	}

	for _, tt := range tests {
		_, err := ParseRangeFilter(tt.minRating, tt.start, tt.end)
		require.ErrorIs(t, err, ErrInvalidInput)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, tt.field, verr.Field)
	}
}
