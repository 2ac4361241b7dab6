// Package website renders the catalog as a static HTML page.
package website

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"moviedb/storage"
)

// Placeholder is the token in the page template replaced by the movie grid.
const Placeholder = "__TEMPLATE_MOVIE_GRID__"

var ErrPlaceholderMissing = errors.New("page template has no " + Placeholder + " placeholder")

//go:embed templates/index_template.html
var defaultTemplate string

var gridTemplate = template.Must(template.New("grid").Parse(
	`{{range .}}<div class='movie'>
<img src='{{.Poster}}' alt='{{.Title}} poster' class='movie-poster'>
<li class='movie-title'>{{.Title}}</li>
<li class='movie-year'>{{.Year}}</li>
</div>
{{end}}`))

// Generator fills a page template with one grid entry per movie.
type Generator struct {
	templatePath string
}

// NewGenerator reads the page template from templatePath on every render.
// An empty path selects the built-in template.
func NewGenerator(templatePath string) *Generator {
	return &Generator{templatePath: templatePath}
}

// RenderGrid returns the HTML fragment for every movie in catalog order.
func RenderGrid(c *storage.Catalog) (string, error) {
	var buf bytes.Buffer
	if err := gridTemplate.Execute(&buf, c.Movies()); err != nil {
		return "", fmt.Errorf("failed to render movie grid: %w", err)
	}
	return buf.String(), nil
}

// Render returns the full page for c.
func (g *Generator) Render(c *storage.Catalog) (string, error) {
	page, err := g.loadTemplate()
	if err != nil {
		return "", err
	}
	if !strings.Contains(page, Placeholder) {
		return "", ErrPlaceholderMissing
	}

	grid, err := RenderGrid(c)
	if err != nil {
		return "", err
	}
	return strings.Replace(page, Placeholder, grid, 1), nil
}

// Generate renders c and writes the page to outputPath. The previous page
// stays in place if rendering fails.
func (g *Generator) Generate(c *storage.Catalog, outputPath string) (string, error) {
	page, err := g.Render(c)
	if err != nil {
		return "", err
	}
	if err := storage.WriteFileAtomic(outputPath, []byte(page)); err != nil {
		return "", fmt.Errorf("failed to write website: %w", err)
	}
	return page, nil
}

func (g *Generator) loadTemplate() (string, error) {
	if g.templatePath == "" {
		return defaultTemplate, nil
	}
	data, err := os.ReadFile(g.templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read page template: %w", err)
	}
	return string(data), nil
}
