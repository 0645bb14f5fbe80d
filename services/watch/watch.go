// Package watch monitors the library root and turns bursts of file
// changes into incremental index builds.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/opencaselist/blocksearch/document"
	"github.com/opencaselist/blocksearch/logger"
)

// Changes are coalesced for this long before a rebuild fires, so a save
// that touches several files triggers one build.
const debounceWindow = 2 * time.Second

// IndexBuilder is the slice of the index service the watcher needs.
type IndexBuilder interface {
	Build(rootPath string, excludeFolders []string, requestID string) error
}

type Service struct {
	logger   logger.Logger
	indexer  IndexBuilder
	rootPath string
	watcher  *fsnotify.Watcher
}

func New(logger logger.Logger, indexer IndexBuilder, rootPath string) (*Service, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	service := &Service{
		logger:   logger,
		indexer:  indexer,
		rootPath: rootPath,
		watcher:  watcher,
	}

	if err := service.addRecursive(rootPath); err != nil {
		watcher.Close()
		return nil, err
	}

	return service, nil
}

// Run consumes events until the context ends. Each debounced burst of
// relevant changes triggers one incremental build; a build that can't
// start because one is already running is retried on the next burst.
func (s *Service) Run(ctx context.Context) {
	defer s.watcher.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("watcher stopped", "reason", ctx.Err())
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !s.relevant(event) {
				continue
			}
			s.logger.Debug("library change", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			requestID := uuid.New().String()
			if err := s.indexer.Build(s.rootPath, nil, requestID); err != nil {
				s.logger.Warn("watch-triggered build skipped", "err", err.Error())
				continue
			}
			s.logger.Info("watch-triggered incremental build", "request_id", requestID)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watcher error", "err", err.Error())
		}
	}
}

// relevant filters to indexable files, and picks up newly created
// directories so they get watched too.
func (s *Service) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := s.addRecursive(event.Name); err != nil {
				s.logger.Warn("could not watch new directory", "path", event.Name, "err", err.Error())
			}
			return true
		}
	}

	return document.IsIndexable(event.Name)
}

// fsnotify watches are not recursive; every subdirectory registers
// individually.
func (s *Service) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if filepath.Base(path) != "." && len(filepath.Base(path)) > 0 && filepath.Base(path)[0] == '.' && path != root {
			return filepath.SkipDir
		}
		return s.watcher.Add(path)
	})
}
