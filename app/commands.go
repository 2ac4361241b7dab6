package app

import (
	"errors"
	"fmt"

	"moviedb/storage"
	"moviedb/views"
)

// ListMovies prints the number of movies and every record.
func (a *MovieApp) ListMovies() error {
	c, err := a.load()
	if err != nil {
		return err
	}
	a.printf("%d movies in total\n", c.Len())
	if c.Len() > 0 {
		a.println(movieTable(c.Movies()))
	}
	return nil
}

// AddMovie looks title up and stores the result under the canonical title.
// The catalog is left untouched when the lookup fails.
func (a *MovieApp) AddMovie(title string) error {
	if a.fetcher == nil {
		return ErrLookupUnavailable
	}

	movie, err := a.fetcher.Fetch(title)
	if err != nil {
		return fmt.Errorf("movie %q could not be added: %w", title, err)
	}
	if err := a.storage.Add(movie); err != nil {
		return fmt.Errorf("failed to add movie: %w", err)
	}

	a.logger.Info().Str("title", movie.Title).Int("year", movie.Year).Msg("movie added")
	a.printf("Movie %s (%d) successfully added\n", movie.Title, movie.Year)
	return nil
}

// DeleteMovie removes title, telling the user when there was nothing to
// delete.
func (a *MovieApp) DeleteMovie(title string) error {
	exists, err := a.storage.Exists(title)
	if err != nil {
		return err
	}
	if !exists {
		a.printf("Movie %s not found.\n", title)
		return nil
	}
	if err := a.storage.Delete(title); err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	a.printf("Movie %s deleted.\n", title)
	return nil
}

// UpdateMovie sets the year and rating of title.
func (a *MovieApp) UpdateMovie(title string, year int, rating float64) error {
	exists, err := a.storage.Exists(title)
	if err != nil {
		return err
	}
	if !exists {
		a.printf("Movie %s not found.\n", title)
		return nil
	}
	if err := a.storage.Update(title, year, rating); err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	a.printf("Movie %s updated.\n", title)
	return nil
}

// MovieStats prints average, median, best and worst ratings.
func (a *MovieApp) MovieStats() error {
	c, err := a.load()
	if err != nil {
		return err
	}

	st, err := views.ComputeStats(c)
	if errors.Is(err, views.ErrEmptyCatalog) {
		a.println("No movies in the database.")
		return nil
	}
	if err != nil {
		return err
	}

	a.printf("Average rating: %s\n", formatRating(st.Average))
	a.printf("Median rating: %s\n", formatRating(st.Median))
	a.println("Best movie(s) by rating:")
	for _, m := range st.Best {
		a.printf("  %s (%s)\n", m.Title, formatRating(m.Rating))
	}
	a.println("Worst movie(s) by rating:")
	for _, m := range st.Worst {
		a.printf("  %s (%s)\n", m.Title, formatRating(m.Rating))
	}
	return nil
}

// RandomMovie prints one movie chosen uniformly.
func (a *MovieApp) RandomMovie() error {
	c, err := a.load()
	if err != nil {
		return err
	}

	m, err := views.RandomMovie(c, a.rng)
	if errors.Is(err, views.ErrEmptyCatalog) {
		a.println("No movies in the database.")
		return nil
	}
	if err != nil {
		return err
	}
	a.printf("Random movie: %s (%d), %s\n", m.Title, m.Year, formatRating(m.Rating))
	return nil
}

// SearchMovies prints movies whose title contains query, ignoring case.
func (a *MovieApp) SearchMovies(query string) error {
	c, err := a.load()
	if err != nil {
		return err
	}

	matches := views.Search(c, query)
	if len(matches) == 0 {
		a.printf("No movies match %q.\n", query)
		return nil
	}
	a.println("Movies matching the query:")
	a.println(movieTable(matches))
	return nil
}

// SortByRating prints the catalog best-rated first.
func (a *MovieApp) SortByRating() error {
	return a.printSorted("Movies sorted by rating:", views.SortByRating)
}

// SortByYear prints the catalog newest first.
func (a *MovieApp) SortByYear() error {
	return a.printSorted("Movies sorted by year:", views.SortByYear)
}

func (a *MovieApp) printSorted(heading string, sorter func(*storage.Catalog) []storage.Movie) error {
	c, err := a.load()
	if err != nil {
		return err
	}
	if c.Len() == 0 {
		a.println("No movies in the database.")
		return nil
	}
	a.println(heading)
	a.println(movieTable(sorter(c)))
	return nil
}

// FilterMovies prints movies within the given bounds. Blank arguments leave
// the corresponding bound open; malformed ones yield a views.ValidationError
// before the catalog is read.
func (a *MovieApp) FilterMovies(minRating, startYear, endYear string) error {
	f, err := views.ParseRangeFilter(minRating, startYear, endYear)
	if err != nil {
		return err
	}

	c, err := a.load()
	if err != nil {
		return err
	}

	matches := views.Filter(c, f)
	if len(matches) == 0 {
		a.println("No movies found for this filter")
		return nil
	}
	a.println("Filtered Movies:")
	a.println(movieTable(matches))
	return nil
}

// GenerateWebsite renders the catalog page and mails it when a notifier is
// configured. A failed notification is reported but does not fail the
// command.
func (a *MovieApp) GenerateWebsite() error {
	if a.generator == nil {
		return ErrWebsiteUnavailable
	}

	c, err := a.load()
	if err != nil {
		return err
	}

	page, err := a.generator.Generate(c, a.siteOutput)
	if err != nil {
		return err
	}
	a.printf("Website was generated successfully: %s\n", a.siteOutput)

	if a.notifier != nil {
		if err := a.notifier.NotifyWebsite(page, c.Len()); err != nil {
			a.logger.Error().Err(err).Msg("failed to email website")
			a.printf("Website could not be emailed: %v\n", err)
		}
	}
	return nil
}
