package index

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/opencaselist/blocksearch/db/searchdb"
	"github.com/opencaselist/blocksearch/document"
)

// extractEntries parses one file into its searchable blocks: one entry
// per heading-delimited unit. The entry ID is derived from the path and
// block ordinal so re-indexing a file overwrites its previous entries.
func extractEntries(file FileInfo, rootPath string) ([]*searchdb.Entry, *document.Meta, error) {
	doc, err := document.Parse(file.Path)
	if err != nil {
		return nil, nil, err
	}

	meta, err := document.LoadMeta(file.Path)
	if err != nil {
		// A corrupt sidecar shouldn't keep the file out of the index.
		meta = nil
	}

	folder := relativeFolder(file.Path, rootPath)

	blocks := doc.Blocks()
	entries := make([]*searchdb.Entry, 0, len(blocks))
	for _, block := range blocks {
		title := block.Title
		if title == "" {
			title = doc.Title
		}
		entries = append(entries, &searchdb.Entry{
			ID:          entryID(file.Path, block.Ordinal),
			Path:        file.Path,
			Folder:      folder,
			Name:        file.Name,
			SortName:    strings.ToLower(file.Name),
			Title:       title,
			Breadcrumb:  strings.Join(block.Breadcrumb, " / "),
			Content:     block.Text,
			Ordinal:     block.Ordinal,
			Level:       block.Level,
			Size:        file.Size,
			ModTime:     file.ModTime.UTC(),
			CreatedTime: file.FirstSeen.UTC(),
		})
	}

	return entries, meta, nil
}

func entryID(path string, ordinal int) string {
	return fmt.Sprintf("%s#%d", path, ordinal)
}

func relativeFolder(path string, rootPath string) string {
	rel, err := filepath.Rel(rootPath, filepath.Dir(path))
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
