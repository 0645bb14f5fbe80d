package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupported marks files the indexer should skip rather than
// report as parse failures.
var ErrUnsupported = errors.New("unsupported document type")

// Parse dispatches on file extension.
func Parse(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return ParseDocx(path)
	case ".md", ".markdown":
		return ParseMarkdown(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// IsIndexable reports whether the extension is one the library
// indexes. Word lock files (~$foo.docx) are not.
func IsIndexable(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "~$") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx", ".md", ".markdown":
		return true
	default:
		return false
	}
}
