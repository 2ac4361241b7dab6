package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var csvHeader = []string{"title", "year", "rating", "poster"}

// CSVStorage keeps the catalog in a CSV table with the header
// title,year,rating,poster.
//
// Loading is row-granular: a row that cannot be parsed is skipped with a
// warning and the remaining rows still load.
type CSVStorage struct {
	flatFile
}

// NewCSVStorage binds a CSV backend to path.
func NewCSVStorage(path string, opts ...Option) *CSVStorage {
	o := buildOptions(opts)
	s := &CSVStorage{flatFile{path: path, logger: o.logger}}
	s.decode = s.decodeTable
	s.encode = encodeTable
	return s
}

func (s *CSVStorage) decodeTable(data []byte) *Catalog {
	c := NewCatalog()

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err != io.EOF {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("unable to read CSV header, starting empty")
		}
		return c
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		columns[strings.ToLower(name)] = i
	}
	for _, name := range csvHeader {
		if _, ok := columns[name]; !ok {
			s.logger.Warn().Str("path", s.path).Str("column", name).Msg("CSV header is missing a column, starting empty")
			return c
		}
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				s.logger.Warn().Err(err).Str("path", s.path).Int("line", perr.Line).Msg("skipping unreadable CSV row")
				continue
			}
			s.logger.Warn().Err(err).Str("path", s.path).Msg("stopped reading CSV file")
			break
		}

		m, err := parseRow(record, columns)
		if err != nil {
			line, _ := r.FieldPos(0)
			s.logger.Warn().Err(err).Str("path", s.path).Int("line", line).
				Strs("row", record).Msg("skipping malformed CSV row")
			continue
		}
		c.Put(m)
	}
	return c
}

func parseRow(record []string, columns map[string]int) (Movie, error) {
	field := func(name string) (string, error) {
		i := columns[name]
		if i >= len(record) {
			return "", fmt.Errorf("missing column %q", name)
		}
		return record[i], nil
	}

	title, err := field("title")
	if err != nil {
		return Movie{}, err
	}
	rawYear, err := field("year")
	if err != nil {
		return Movie{}, err
	}
	rawRating, err := field("rating")
	if err != nil {
		return Movie{}, err
	}
	poster, err := field("poster")
	if err != nil {
		return Movie{}, err
	}

	year, err := strconv.Atoi(strings.TrimSpace(rawYear))
	if err != nil {
		return Movie{}, fmt.Errorf("invalid year %q", rawYear)
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(rawRating), 64)
	if err != nil || !finite(rating) {
		return Movie{}, fmt.Errorf("invalid rating %q", rawRating)
	}

	return Movie{Title: title, Year: year, Rating: rating, Poster: poster}, nil
}

func encodeTable(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, m := range c.Movies() {
		row := []string{m.Title, strconv.Itoa(m.Year), formatRating(m.Rating), m.Poster}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("movie %q: %w", m.Title, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatRating writes the shortest exact form, keeping a decimal point so
// whole ratings read as 9.0 rather than 9.
func formatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
