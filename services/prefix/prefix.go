// Package prefix manages search prefixes: short aliases that scope a
// query to particular folders, and the folder exclusion list applied to
// unscoped searches. Mappings persist in the key-value store.
package prefix

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/opencaselist/blocksearch/db/kvdb"
	"github.com/opencaselist/blocksearch/logger"
)

var validPrefixPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

var ErrInvalidPrefix = errors.New("prefix must be alphanumeric")

type Service struct {
	logger logger.Logger
	store  kvdb.DB
}

func New(logger logger.Logger, store kvdb.DB) *Service {
	return &Service{logger: logger, store: store}
}

func IsValidPrefix(prefix string) bool {
	return validPrefixPattern.MatchString(prefix)
}

// AddFolder associates a folder with a prefix, creating the prefix if
// needed. Folder paths are stored relative to the library root with
// forward slashes.
func (s *Service) AddFolder(prefix string, folder string) error {
	if !IsValidPrefix(prefix) {
		return ErrInvalidPrefix
	}

	folders, err := s.FoldersFor(prefix)
	if err != nil {
		return err
	}

	folder = normalizeFolder(folder)
	for _, existing := range folders {
		if existing == folder {
			return nil
		}
	}
	folders = append(folders, folder)
	sort.Strings(folders)

	return s.saveFolders(prefix, folders)
}

// RemoveFolder removes a folder from a prefix; the prefix disappears
// once its last folder goes.
func (s *Service) RemoveFolder(prefix string, folder string) error {
	folders, err := s.FoldersFor(prefix)
	if err != nil {
		return err
	}

	folder = normalizeFolder(folder)
	kept := folders[:0]
	for _, existing := range folders {
		if existing != folder {
			kept = append(kept, existing)
		}
	}

	if len(kept) == 0 {
		return s.store.Delete(kvdb.PrefixesBucket, prefix)
	}
	return s.saveFolders(prefix, kept)
}

// DeletePrefix removes a prefix and all of its folders.
func (s *Service) DeletePrefix(prefix string) error {
	err := s.store.Delete(kvdb.PrefixesBucket, prefix)
	if errors.Is(err, kvdb.ErrNotFound) {
		return nil
	}
	return err
}

// FoldersFor returns the folders mapped to a prefix, empty when the
// prefix isn't configured.
func (s *Service) FoldersFor(prefix string) ([]string, error) {
	value, err := s.store.Get(kvdb.PrefixesBucket, prefix)
	if err != nil {
		if errors.Is(err, kvdb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var folders []string
	if err := json.Unmarshal([]byte(value), &folders); err != nil {
		s.logger.Error("corrupt prefix mapping", "prefix", prefix, "err", err.Error())
		return nil, fmt.Errorf("corrupt prefix mapping for %s: %w", prefix, err)
	}
	return folders, nil
}

// IsConfiguredPrefix reports whether word is a configured prefix, which
// is what makes the first word of a query a scope rather than a term.
func (s *Service) IsConfiguredPrefix(word string) bool {
	if !IsValidPrefix(word) {
		return false
	}
	folders, err := s.FoldersFor(word)
	return err == nil && len(folders) > 0
}

// All returns every prefix with its folders.
func (s *Service) All() (map[string][]string, error) {
	raw, err := s.store.GetAll(kvdb.PrefixesBucket)
	if err != nil {
		return nil, err
	}

	all := make(map[string][]string, len(raw))
	for prefix, value := range raw {
		var folders []string
		if err := json.Unmarshal([]byte(value), &folders); err != nil {
			s.logger.Error("corrupt prefix mapping", "prefix", prefix, "err", err.Error())
			continue
		}
		all[prefix] = folders
	}
	return all, nil
}

func (s *Service) saveFolders(prefix string, folders []string) error {
	data, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("encode folders for prefix %s: %w", prefix, err)
	}
	return s.store.Set(kvdb.PrefixesBucket, prefix, string(data))
}

// SetFolderExclusion hides or unhides a folder from unscoped searches.
// Excluding a folder whose parent is already excluded is a no-op, and
// excluding a parent absorbs any excluded subfolders.
func (s *Service) SetFolderExclusion(folder string, excluded bool) error {
	folder = normalizeFolder(folder)

	if !excluded {
		err := s.store.Delete(kvdb.ExcludedBucket, folder)
		if errors.Is(err, kvdb.ErrNotFound) {
			return nil
		}
		return err
	}

	current, err := s.ExcludedFolders()
	if err != nil {
		return err
	}

	for _, existing := range current {
		if folder == existing || strings.HasPrefix(folder, existing+"/") {
			// Already covered by a parent exclusion.
			return nil
		}
	}

	for _, existing := range current {
		if strings.HasPrefix(existing, folder+"/") {
			if err := s.store.Delete(kvdb.ExcludedBucket, existing); err != nil {
				return err
			}
		}
	}

	return s.store.Set(kvdb.ExcludedBucket, folder, "1")
}

// ExcludedFolders lists folders hidden from unscoped searches.
func (s *Service) ExcludedFolders() ([]string, error) {
	folders, err := s.store.GetAllKeys(kvdb.ExcludedBucket)
	if err != nil {
		return nil, err
	}
	sort.Strings(folders)
	return folders, nil
}

// IsFolderExcluded reports whether folder or any of its ancestors is
// excluded.
func (s *Service) IsFolderExcluded(folder string) (bool, error) {
	folder = normalizeFolder(folder)
	excluded, err := s.ExcludedFolders()
	if err != nil {
		return false, err
	}

	for _, e := range excluded {
		if folder == e || strings.HasPrefix(folder, e+"/") {
			return true, nil
		}
	}
	return false, nil
}

// VerifyFolders returns (prefix, folder) pairs whose folder no longer
// exists under the library root.
func (s *Service) VerifyFolders(libraryRoot string) ([][2]string, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}

	var missing [][2]string
	for prefix, folders := range all {
		for _, folder := range folders {
			full := filepath.Join(libraryRoot, filepath.FromSlash(folder))
			info, err := os.Stat(full)
			if err != nil || !info.IsDir() {
				missing = append(missing, [2]string{prefix, folder})
			}
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i][0] != missing[j][0] {
			return missing[i][0] < missing[j][0]
		}
		return missing[i][1] < missing[j][1]
	})
	return missing, nil
}

func normalizeFolder(folder string) string {
	return strings.Trim(filepath.ToSlash(strings.TrimSpace(folder)), "/")
}
