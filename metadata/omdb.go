// Package metadata looks up movie details from the OMDb API so new catalog
// entries can be filled in from a title alone.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly"
	"github.com/rs/zerolog"

	"moviedb/storage"
)

const (
	DefaultBaseURL = "http://www.omdbapi.com/"
	DefaultTimeout = 10 * time.Second

	notAvailable = "N/A"
)

var (
	ErrAPIKeyRequired = errors.New("OMDb API key is required")
	ErrNotFound       = errors.New("movie not found")
	ErrIncompleteData = errors.New("movie data is incomplete")
)

// Fetcher resolves a title to a catalog record.
type Fetcher interface {
	Fetch(title string) (storage.Movie, error)
}

// APIError is returned when OMDb answers with a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OMDb API error (status %d): %s", e.StatusCode, e.Message)
}

// NotFoundError carries the message OMDb gave for a failed lookup.
type NotFoundError struct {
	Title   string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("movie %q not found", e.Title)
	}
	return fmt.Sprintf("movie %q not found: %s", e.Title, e.Message)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type Config struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// OMDbClient fetches movie metadata by exact title.
type OMDbClient struct {
	apiKey    string
	baseURL   string
	timeout   time.Duration
	userAgent string
	logger    zerolog.Logger
}

type omdbResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ImdbRating string `json:"imdbRating"`
	Poster     string `json:"Poster"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

var leadingYear = regexp.MustCompile(`^\d{4}`)

func NewOMDbClient(config Config, logger zerolog.Logger) (*OMDbClient, error) {
	if config.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OMDbClient{
		apiKey:    config.APIKey,
		baseURL:   baseURL,
		timeout:   timeout,
		userAgent: config.UserAgent,
		logger:    logger,
	}, nil
}

// Fetch queries OMDb for title. The returned record uses the canonical title
// OMDb reports, which may differ in case or punctuation from the query.
func (c *OMDbClient) Fetch(title string) (storage.Movie, error) {
	requestURL, err := c.requestURL(title)
	if err != nil {
		return storage.Movie{}, err
	}

	collector := colly.NewCollector(colly.AllowURLRevisit())
	collector.SetRequestTimeout(c.timeout)
	if c.userAgent != "" {
		collector.UserAgent = c.userAgent
	}

	var (
		body       []byte
		statusCode int
	)

	collector.OnRequest(func(r *colly.Request) {
		c.logger.Debug().Str("title", title).Msg("querying OMDb")
	})

	collector.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = r.Body
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	if err := collector.Visit(requestURL); err != nil {
		if statusCode != 0 {
			return storage.Movie{}, &APIError{StatusCode: statusCode, Message: err.Error()}
		}
		return storage.Movie{}, fmt.Errorf("failed to reach OMDb: %w", err)
	}
	c.logger.Debug().Int("status", statusCode).Str("title", title).Msg("OMDb response received")

	var resp omdbResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return storage.Movie{}, fmt.Errorf("failed to decode OMDb response: %w", err)
	}
	return resp.movie(title)
}

func (c *OMDbClient) requestURL(title string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid OMDb base URL: %w", err)
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set("t", title)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r omdbResponse) movie(query string) (storage.Movie, error) {
	if !strings.EqualFold(r.Response, "True") {
		return storage.Movie{}, &NotFoundError{Title: query, Message: r.Error}
	}

	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = query
	}

	rawYear := leadingYear.FindString(strings.TrimSpace(r.Year))
	if rawYear == "" {
		return storage.Movie{}, fmt.Errorf("%w: year %q", ErrIncompleteData, r.Year)
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return storage.Movie{}, fmt.Errorf("%w: year %q", ErrIncompleteData, r.Year)
	}

	rating, err := strconv.ParseFloat(strings.TrimSpace(r.ImdbRating), 64)
	if err != nil {
		return storage.Movie{}, fmt.Errorf("%w: rating %q", ErrIncompleteData, r.ImdbRating)
	}

	poster := strings.TrimSpace(r.Poster)
	if poster == notAvailable {
		poster = ""
	}

	return storage.Movie{Title: title, Year: year, Rating: rating, Poster: poster}, nil
}
