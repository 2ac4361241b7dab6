package storage

// Catalog is the set of movies keyed by title. It keeps the order in which
// titles were first seen so backends can write records back in file order.
type Catalog struct {
	movies []Movie
	index  map[string]int
}

// NewCatalog builds a catalog from movies. Later duplicates overwrite
// earlier ones in place.
func NewCatalog(movies ...Movie) *Catalog {
	c := &Catalog{index: make(map[string]int, len(movies))}
	for _, m := range movies {
		c.Put(m)
	}
	return c
}

// Len returns the number of movies.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.movies)
}

// Get returns the movie stored under title.
func (c *Catalog) Get(title string) (Movie, bool) {
	if c == nil {
		return Movie{}, false
	}
	i, ok := c.index[title]
	if !ok {
		return Movie{}, false
	}
	return c.movies[i], true
}

// Has reports whether title is present.
func (c *Catalog) Has(title string) bool {
	_, ok := c.Get(title)
	return ok
}

// Put inserts m, or overwrites the record with the same title without
// moving it.
func (c *Catalog) Put(m Movie) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[m.Title]; ok {
		c.movies[i] = m
		return
	}
	c.index[m.Title] = len(c.movies)
	c.movies = append(c.movies, m)
}

// Remove deletes title and reports whether it was present.
func (c *Catalog) Remove(title string) bool {
	i, ok := c.index[title]
	if !ok {
		return false
	}
	c.movies = append(c.movies[:i], c.movies[i+1:]...)
	delete(c.index, title)
	for j := i; j < len(c.movies); j++ {
		c.index[c.movies[j].Title] = j
	}
	return true
}

// Movies returns a copy of the records in catalog order.
func (c *Catalog) Movies() []Movie {
	if c == nil {
		return nil
	}
	out := make([]Movie, len(c.movies))
	copy(out, c.movies)
	return out
}

// Titles returns the keys in catalog order.
func (c *Catalog) Titles() []string {
	if c == nil {
		return nil
	}
	titles := make([]string, len(c.movies))
	for i, m := range c.movies {
		titles[i] = m.Title
	}
	return titles
}
