package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LegacyCodeHQ/visualdep/depgraph"
	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

func watchAndRebuild(ctx context.Context, root string, ext string, builder *graphBuilder, b *broker, errOut io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}

			if !isRelevantChange(event, ext) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				publishCurrentGraph(ctx, builder, b, errOut)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "watcher error: %v\n", err)
		}
	}
}

func publishCurrentGraph(ctx context.Context, builder *graphBuilder, b *broker, errOut io.Writer) {
	snapshot, warnings, err := builder.build(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "graph rebuild error: %v\n", err)
		return
	}
	for _, w := range warnings {
		fmt.Fprintf(errOut, "Warning: %s\n", w)
	}
	b.publish(snapshot)
}

// isRelevantChange reports whether event touches a source file of the analyzed kind.
func isRelevantChange(event fsnotify.Event, ext string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasSuffix(event.Name, depgraph.NormalizeExtension(ext))
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder registers every directory below root, skipping tool
// directories and paths that disappear while walking.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && depgraph.SkippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
