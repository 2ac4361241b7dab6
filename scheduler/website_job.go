package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"moviedb/storage"
	"moviedb/website"
)

// WebsiteNotifier is told about every regenerated page.
type WebsiteNotifier interface {
	NotifyWebsite(page string, movieCount int) error
}

// WebsiteJob rebuilds the catalog page from the current backing store and
// optionally mails it.
type WebsiteJob struct {
	storage    storage.StorageInterface
	generator  *website.Generator
	outputPath string
	notifier   WebsiteNotifier
	logger     zerolog.Logger
}

// NewWebsiteJob creates the job. notifier may be nil.
func NewWebsiteJob(store storage.StorageInterface, generator *website.Generator, outputPath string, notifier WebsiteNotifier, logger zerolog.Logger) *WebsiteJob {
	return &WebsiteJob{
		storage:    store,
		generator:  generator,
		outputPath: outputPath,
		notifier:   notifier,
		logger:     logger,
	}
}

func (j *WebsiteJob) Name() string {
	return "website_rebuild"
}

func (j *WebsiteJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	catalog, err := j.storage.List()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	page, err := j.generator.Generate(catalog, j.outputPath)
	if err != nil {
		return err
	}
	j.logger.Info().Str("output", j.outputPath).Int("movies", catalog.Len()).Msg("website regenerated")

	if j.notifier == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := j.notifier.NotifyWebsite(page, catalog.Len()); err != nil {
		j.logger.Error().Err(err).Msg("failed to send website notification")
	}
	return nil
}
