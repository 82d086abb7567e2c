package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/conneroisu/inkpot/internal/logging"
	"github.com/conneroisu/inkpot/internal/seed"
	"github.com/conneroisu/inkpot/internal/store"
)

// SeedReloader returns a handler that reloads the seed file at path into st.
// A file that fails to parse leaves the current content untouched. A
// deleted file is ignored until it reappears.
func SeedReloader(path string, st *store.Store, logger logging.Logger) ChangeHandler {
	return func(ctx context.Context, events []ChangeEvent) error {
		last := events[len(events)-1]
		if last.Type == EventTypeDeleted || last.Type == EventTypeRenamed {
			logger.Info(ctx, "Seed file removed, keeping current content", "path", path)
			return nil
		}

		file, err := seed.LoadFile(path)
		if err != nil {
			return fmt.Errorf("reloading seed file: %w", err)
		}

		result := file.Apply(st)
		for _, warning := range result.Warnings {
			logger.Warn(ctx, nil, "Dangling reference in seed file", "detail", warning.String())
		}
		logger.Info(ctx, "Seed file reloaded",
			"path", path,
			"categories", result.Categories,
			"posts", result.Posts,
			"comments", result.Comments)
		return nil
	}
}

// WatchSeed starts a watcher that reloads path into st whenever it changes.
// The directory is watched rather than the file so that editors which save
// by renaming a temporary file are still noticed. Call Stop on the returned
// watcher once ctx is done.
func WatchSeed(ctx context.Context, path string, st *store.Store, delay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	fw, err := NewFileWatcher(delay, logger)
	if err != nil {
		return nil, err
	}

	fw.AddFilter(NameFilter(filepath.Base(path)))
	fw.AddFilter(NoTempFilter)
	fw.AddHandler(SeedReloader(path, st, fw.logger))

	if err := fw.AddPath(filepath.Dir(path)); err != nil {
		_ = fw.Stop()
		return nil, err
	}

	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return nil, err
	}

	return fw, nil
}
