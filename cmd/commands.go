package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moviedb/views"
	"moviedb/website"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every movie in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.app.ListMovies()
	},
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Look a movie up on OMDb and add it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.app.AddMovie(strings.Join(args, " "))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <title>",
	Short: "Remove a movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.app.DeleteMovie(args[0])
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <title> <year> <rating>",
	Short: "Change the year and rating of a movie",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, rating, err := parseYearRating(args[1], args[2])
		if err != nil {
			return err
		}
		return current.app.UpdateMovie(args[0], year, rating)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show rating statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.app.MovieStats()
	},
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick a random movie",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.app.RandomMovie()
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find movies whose title contains the query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.app.SearchMovies(strings.Join(args, " "))
	},
}

var sortCmd = &cobra.Command{
	Use:       "sort rating|year",
	Short:     "List movies best-rated or newest first",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"rating", "year"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "year" {
			return current.app.SortByYear()
		}
		return current.app.SortByRating()
	},
}

var (
	flagMinRating string
	flagStartYear string
	flagEndYear   string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "List movies within a rating and year range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.app.FilterMovies(flagMinRating, flagStartYear, flagEndYear)
	},
}

var websiteCmd = &cobra.Command{
	Use:   "website",
	Short: "Render the catalog as an HTML page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.app.GenerateWebsite()
	},
}

func init() {
	deleteCmd.ValidArgsFunction = completeTitles
	updateCmd.ValidArgsFunction = completeTitles

	filterCmd.Flags().StringVar(&flagMinRating, "min-rating", "", "minimum rating (blank for none)")
	filterCmd.Flags().StringVar(&flagStartYear, "start-year", "", "first year (blank for none)")
	filterCmd.Flags().StringVar(&flagEndYear, "end-year", "", "last year (blank for none)")

	for _, c := range []*cobra.Command{websiteCmd, watchCmd} {
		c.Flags().String("template", "", "page template containing "+website.Placeholder)
		c.Flags().String("output", "", "where to write the page")
	}
}

func parseYearRating(yearArg, ratingArg string) (int, float64, error) {
	year, err := strconv.Atoi(strings.TrimSpace(yearArg))
	if err != nil {
		return 0, 0, views.NewValidationError("year", yearArg, "must be a whole number")
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(ratingArg), 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return 0, 0, views.NewValidationError("rating", ratingArg, "must be a number")
	}
	return year, rating, nil
}

// completeTitles offers catalog titles for the first argument.
func completeTitles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	e, err := setup(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer e.closer.Close()

	c, err := e.store.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var titles []string
	prefix := strings.ToLower(toComplete)
	for _, title := range c.Titles() {
		if strings.HasPrefix(strings.ToLower(title), prefix) {
			titles = append(titles, title)
		}
	}
	return titles, cobra.ShellCompDirectiveNoFileComp
}
