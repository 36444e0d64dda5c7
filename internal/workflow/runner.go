// Package workflow owns one synchronization run end to end: connectivity
// check, section resolution, scan, converge, report. The scanned item set is
// an explicit accumulator owned by the runner and discarded when the run
// ends; nothing persists between runs.
package workflow

import (
	"context"
	"io"
	"log/slog"
	"time"

	"extrasync/internal/collection"
	"extrasync/internal/config"
	"extrasync/internal/library"
	"extrasync/internal/logging"
	"extrasync/internal/prompt"
	"extrasync/internal/services/plex"
)

// Runner executes one scan-and-synchronize pass.
type Runner struct {
	settings    config.Settings
	client      plex.Client
	prompter    prompt.Provider
	out         io.Writer
	interactive bool
	logger      *slog.Logger
}

// Result captures what a run did, for the final report.
type Result struct {
	Section    plex.Section
	Collection string
	NoDelete   bool
	Scanned    int
	WithExtras int
	Summary    collection.Summary
	Duration   time.Duration
}

// New constructs a runner. The prompter may be nil for non-interactive runs;
// interactive controls whether scan progress renders as a live bar.
func New(settings config.Settings, client plex.Client, prompter prompt.Provider, out io.Writer, interactive bool, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		settings:    settings,
		client:      client,
		prompter:    prompter,
		out:         out,
		interactive: interactive,
		logger:      logger,
	}
}

// Run performs the whole pass. Connectivity, auth, section resolution, and
// listing failures abort; metadata group failures were already absorbed by
// the scanner; collection update failures are collected in the summary.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	if err := r.client.TestConnection(ctx); err != nil {
		return nil, err
	}

	scanner := library.NewScanner(r.client, r.logger)
	section, err := scanner.ResolveSection(ctx, int(r.settings.Section), r.prompter, r.out)
	if err != nil {
		return nil, err
	}

	progress := newProgressReporter(r.out, r.interactive, r.logger)
	items, err := scanner.Scan(ctx, section, progress.update)
	if err != nil {
		return nil, err
	}
	progress.finish()

	withExtras := 0
	for _, item := range items {
		if item.HasExtras {
			withExtras++
		}
	}

	sync := collection.NewSynchronizer(r.client, section, r.settings.Collection, r.settings.NoDelete, r.logger)
	summary := sync.Apply(ctx, items)

	result := &Result{
		Section:    section,
		Collection: r.settings.Collection,
		NoDelete:   r.settings.NoDelete,
		Scanned:    len(items),
		WithExtras: withExtras,
		Summary:    summary,
		Duration:   time.Since(start),
	}
	r.logger.Info("run complete",
		logging.Args(
			logging.String("section", section.Title),
			logging.Int("scanned", result.Scanned),
			logging.Int("with_extras", result.WithExtras),
			logging.Int("added", len(summary.Added)),
			logging.Int("removed", len(summary.Removed)),
			logging.Int("retained", len(summary.Retained)),
			logging.Int("failed", len(summary.Failed)))...)
	return result, nil
}
