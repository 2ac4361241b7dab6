package app

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"moviedb/storage"
)

// movieTable renders title, year and rating columns with the numbers
// right-aligned.
func movieTable(movies []storage.Movie) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Title", "Year", "Rating"})
	for _, m := range movies {
		tw.AppendRow(table.Row{m.Title, m.Year, formatRating(m.Rating)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func formatRating(r float64) string {
	return fmt.Sprintf("%.1f", r)
}
