package index

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opencaselist/blocksearch/db/kvdb"
	"github.com/opencaselist/blocksearch/document"
)

type FileInfo struct {
	Path      string
	Name      string
	Size      int64
	ModTime   time.Time
	FirstSeen time.Time
	Meta      *document.Meta
}

func (s *Service) discoverModifiedFiles(rootPath string, excludeFolders []string) ([]FileInfo, error) {
	var modifiedFiles []FileInfo
	excludeSet := make(map[string]struct{}, len(excludeFolders))
	for _, folder := range excludeFolders {
		excludeSet[folder] = struct{}{}
	}
	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Error("could not walk through file or directory", "err", err.Error())
			if !errors.Is(err, os.ErrPermission) {
				return err
			}
		}
		if info == nil {
			return err
		}

		// Skip directories that start with '.' but not the root directory
		if info.IsDir() && strings.HasPrefix(info.Name(), ".") && path != rootPath {
			return filepath.SkipDir
		}

		// Skip directories that are in the excluded folders list
		if info.IsDir() && isInExcludedPath(path, excludeSet) {
			return filepath.SkipDir
		}

		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}

		if !document.IsIndexable(path) {
			return nil
		}

		fileModTime := info.ModTime()

		if shouldIndex, firstSeen := s.shouldFileBeIndexed(path, fileModTime); shouldIndex {
			modifiedFiles = append(modifiedFiles, FileInfo{
				Path:      path,
				Name:      info.Name(),
				Size:      info.Size(),
				ModTime:   fileModTime,
				FirstSeen: firstSeen,
			})
		}

		return nil
	})

	return modifiedFiles, err
}

// shouldFileBeIndexed also reports when the file was first seen so the
// entry's created time survives re-indexing.
func (s *Service) shouldFileBeIndexed(path string, fileModTime time.Time) (bool, time.Time) {

	metadata, err := s.getFileMetadata(path)
	if err != nil {
		var notFoundErr *kvdb.NotFoundError
		var invalidKeyErr *kvdb.InvalidKeyError

		switch {
		// File not found in database, should be indexed
		case errors.As(err, &notFoundErr):
			return true, time.Now().UTC()
		// Invalid key, log error and index
		case errors.As(err, &invalidKeyErr):
			s.logger.Error("invalid key for file path", "key", path, "err", err.Error())
			return true, time.Now().UTC()
		// Unknown error, log error and index
		default:
			s.logger.Error("failed to get metadata", "path", path, "err", err.Error())
			return true, time.Now().UTC()
		}
	}

	firstSeen := metadata.FirstSeen
	if firstSeen.IsZero() {
		firstSeen = metadata.LastIndexed
	}

	// File was indexed before, re-index only if modified since
	if fileModTime.After(metadata.LastIndexed) {
		return true, firstSeen
	}

	return false, firstSeen
}

// Assumes current path and root path are clean
func isInExcludedPath(currentPath string, excludeSet map[string]struct{}) bool {

	if len(excludeSet) == 0 {
		return false
	}

	if _, ok := excludeSet[currentPath]; !ok {
		return false
	}

	return true
}
