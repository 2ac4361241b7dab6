package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// JSONStorage keeps the catalog in a single JSON document whose root object
// maps each title to {"year", "rating", "poster"}.
//
// Loading is all-or-nothing: a document that fails to parse is treated as an
// empty catalog, and the next mutation replaces it.
type JSONStorage struct {
	flatFile
}

// NewJSONStorage binds a JSON backend to path.
func NewJSONStorage(path string, opts ...Option) *JSONStorage {
	o := buildOptions(opts)
	s := &JSONStorage{flatFile{path: path, logger: o.logger}}
	s.decode = s.decodeDocument
	s.encode = encodeDocument
	return s
}

// documentEntry accepts numbers or numeric strings; older files written
// straight from OMDb responses store both fields as strings.
type documentEntry struct {
	Year   json.Number `json:"year"`
	Rating json.Number `json:"rating"`
	Poster string      `json:"poster"`
}

type documentRecord struct {
	Year   int     `json:"year"`
	Rating float64 `json:"rating"`
	Poster string  `json:"poster"`
}

func (s *JSONStorage) decodeDocument(data []byte) *Catalog {
	c, err := parseDocument(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("catalog document is malformed, starting empty")
		return NewCatalog()
	}
	return c
}

func parseDocument(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("document root is not an object")
	}

	c := NewCatalog()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		title, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var entry documentEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("entry %q: %w", title, err)
		}
		m, err := entry.movie(title)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", title, err)
		}
		c.Put(m)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after document")
	}
	return c, nil
}

func (e documentEntry) movie(title string) (Movie, error) {
	year, err := e.Year.Int64()
	if err != nil {
		f, ferr := e.Year.Float64()
		if ferr != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return Movie{}, fmt.Errorf("invalid year %q", e.Year)
		}
		year = int64(f)
	}
	if year < math.MinInt32 || year > math.MaxInt32 {
		return Movie{}, fmt.Errorf("invalid year %q", e.Year)
	}
	rating, err := e.Rating.Float64()
	if err != nil || !finite(rating) {
		return Movie{}, fmt.Errorf("invalid rating %q", e.Rating)
	}
	return Movie{Title: title, Year: int(year), Rating: rating, Poster: e.Poster}, nil
}

func encodeDocument(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range c.Movies() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Title)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(documentRecord{Year: m.Year, Rating: m.Rating, Poster: m.Poster})
		if err != nil {
			return nil, fmt.Errorf("movie %q: %w", m.Title, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
