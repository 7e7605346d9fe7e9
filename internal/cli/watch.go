package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/swatch/internal/palette"
)

// watchDebounce coalesces the burst of events an editor or copy produces.
const watchDebounce = 200 * time.Millisecond

// watchExtract extracts once, then again each time the file at path is
// written or replaced, until ctx is cancelled or the process is interrupted.
// Extraction errors while watching are logged rather than returned.
func watchExtract(ctx context.Context, cmd *cobra.Command, opts *extractOptions, cfg palette.Config, path string) error {
	log := cfg.Logger

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch %s: path is a directory", path)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so atomic saves (write to temp, rename) are seen.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	if err := extractOnce(ctx, cmd, opts, cfg, path); err != nil {
		return err
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			log.Debug("stopped watching", "path", path)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounce = time.After(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", "error", err)

		case <-debounce:
			debounce = nil
			if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
				log.Debug("image removed, waiting for it to reappear", "path", path)
				continue
			}
			log.Debug("image changed, extracting", "path", path)
			if err := extractOnce(ctx, cmd, opts, cfg, path); err != nil {
				log.Error("extraction failed", "path", path, "error", err)
			}
		}
	}
}
