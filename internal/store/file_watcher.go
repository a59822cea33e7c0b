package store

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mailguest/flatnotes/internal/logger"
)

// DataDirWatcher invalidates the file repositories' in-memory caches when the
// collection files change on disk — for example when a note file is edited
// directly or the data directory is restored from a backup while the server
// is running.
type DataDirWatcher struct {
	watcher *fsnotify.Watcher
	logger  *logger.Logger
	done    chan struct{}
}

// NewDataDirWatcher starts watching dataDir and calls Invalidate on the given
// repositories whenever notes.json or categories.json changes.
func NewDataDirWatcher(dataDir string, notes *noteFileRepository, categories *categoryFileRepository, log *logger.Logger) (*DataDirWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err = watcher.Add(dataDir); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &DataDirWatcher{watcher: watcher, logger: log, done: make(chan struct{})}

	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				switch filepath.Base(event.Name) {
				case notesMetaFile:
					log.Debug().Str("event", event.Op.String()).Msg("notes metadata changed on disk")
					notes.Invalidate()
				case categoriesFile:
					log.Debug().Str("event", event.Op.String()).Msg("categories changed on disk")
					categories.Invalidate()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("data dir watcher error")
			}
		}
	}()

	return w, nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *DataDirWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
