package search

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/opencaselist/blocksearch/document"
)

// ContextDoc is one member of a split family: the parent section
// document or a sibling, in original-document order.
type ContextDoc struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Position int    `json:"position_in_original"`
	IsParent bool   `json:"is_parent"`
	IsSelf   bool   `json:"is_self"`
}

// Context places a document back into the original it was split from:
// the parent document first, then the document and its siblings sorted
// by their position in the original. A document with no hierarchy
// metadata is its own context.
func (s *Service) Context(path string) ([]ContextDoc, error) {
	meta, err := document.LoadMeta(path)
	if err != nil {
		s.logger.Warn("could not read hierarchy sidecar", "path", path, "err", err.Error())
	}

	self := ContextDoc{
		Path:   path,
		Name:   filepath.Base(path),
		IsSelf: true,
	}

	if meta == nil {
		return []ContextDoc{self}, nil
	}
	self.Position = meta.Position

	dir := filepath.Dir(path)
	var docs []ContextDoc

	if meta.ParentDocName != "" {
		if parentPath, ok := resolveSectionFile(dir, meta.ParentDocName); ok {
			docs = append(docs, ContextDoc{
				Path:     parentPath,
				Name:     filepath.Base(parentPath),
				IsParent: true,
			})
		}
	}

	family := []ContextDoc{self}
	for _, sibling := range meta.SiblingDocs {
		siblingPath, ok := resolveSectionFile(dir, sibling)
		if !ok {
			continue
		}
		doc := ContextDoc{
			Path: siblingPath,
			Name: filepath.Base(siblingPath),
		}
		if siblingMeta, err := document.LoadMeta(siblingPath); err == nil && siblingMeta != nil {
			doc.Position = siblingMeta.Position
		}
		family = append(family, doc)
	}

	sort.SliceStable(family, func(i, j int) bool {
		return family[i].Position < family[j].Position
	})

	return append(docs, family...), nil
}

// resolveSectionFile finds the file for a section's safe title in dir.
func resolveSectionFile(dir string, safeTitle string) (string, bool) {
	for _, candidate := range []string{safeTitle, safeTitle + ".docx", safeTitle + ".md"} {
		full := filepath.Join(dir, candidate)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			return full, true
		}
	}
	return "", false
}
