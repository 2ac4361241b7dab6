package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moviedb/app"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Run the interactive menu",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd.InOrStdin(), cmd.OutOrStdout(), current.app)
	},
}

var menuEntries = []string{
	"Exit",
	"List Movies",
	"Add Movie",
	"Delete Movie",
	"Update Movie",
	"Stats",
	"Random Movie",
	"Search Movie",
	"Movies sorted by rating",
	"Movies sorted by year",
	"Filter Movies",
	"Generate Website",
}

type menu struct {
	in  *bufio.Scanner
	out io.Writer
	app *app.MovieApp
}

// runMenu loops until the user picks 0 or input ends. Command errors are
// printed and the loop continues.
func runMenu(in io.Reader, out io.Writer, a *app.MovieApp) error {
	m := &menu{in: bufio.NewScanner(in), out: out, app: a}

	fmt.Fprintln(out, "********** My Movies Database **********")
	for {
		fmt.Fprintln(out, "\nMenu:")
		for i, entry := range menuEntries {
			fmt.Fprintf(out, "%d. %s\n", i, entry)
		}

		line, ok := m.prompt("Enter your choice: ")
		if !ok {
			return m.in.Err()
		}

		choice, err := strconv.Atoi(line)
		switch {
		case err != nil:
			fmt.Fprintln(out, "Invalid input. Please enter a valid number.")
		case choice == 0:
			fmt.Fprintln(out, "Exiting...")
			return nil
		case choice < 0 || choice >= len(menuEntries):
			fmt.Fprintf(out, "Invalid choice. Please enter a number between 0 and %d.\n", len(menuEntries)-1)
		default:
			if err := m.run(choice); err != nil {
				fmt.Fprintln(out, "Error:", err)
			}
		}

		if _, ok := m.prompt("\nPress Enter to continue.."); !ok {
			return m.in.Err()
		}
	}
}

func (m *menu) prompt(text string) (string, bool) {
	fmt.Fprint(m.out, text)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) run(choice int) error {
	switch choice {
	case 1:
		return m.app.ListMovies()
	case 2:
		title, _ := m.prompt("Enter new movie name: ")
		return m.app.AddMovie(title)
	case 3:
		title, _ := m.prompt("Enter movie name to delete: ")
		return m.app.DeleteMovie(title)
	case 4:
		title, _ := m.prompt("Enter movie name to update: ")
		yearArg, _ := m.prompt("Enter new year of release: ")
		ratingArg, _ := m.prompt("Enter new rating (1-10): ")
		year, rating, err := parseYearRating(yearArg, ratingArg)
		if err != nil {
			return err
		}
		return m.app.UpdateMovie(title, year, rating)
	case 5:
		return m.app.MovieStats()
	case 6:
		return m.app.RandomMovie()
	case 7:
		query, _ := m.prompt("Enter part of movie name: ")
		return m.app.SearchMovies(query)
	case 8:
		return m.app.SortByRating()
	case 9:
		return m.app.SortByYear()
	case 10:
		minRating, _ := m.prompt("Enter minimum rating (leave blank for no minimum rating): ")
		startYear, _ := m.prompt("Enter start year (leave blank for no start year): ")
		endYear, _ := m.prompt("Enter end year (leave blank for no end year): ")
		return m.app.FilterMovies(minRating, startYear, endYear)
	case 11:
		return m.app.GenerateWebsite()
	}
	return nil
}
