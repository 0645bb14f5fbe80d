package document

import (
	"encoding/json"
	"fmt"
	"os"
)

// Meta is the sidecar hierarchy record written next to each section
// document produced by the splitter, as <name>.docx.meta.json. The
// indexer reads it back so search results keep their place in the
// original document.
type Meta struct {
	OriginalDocPath string   `json:"original_doc_path"`
	Position        int      `json:"position_in_original"`
	SectionLevel    int      `json:"section_level"`
	SectionTitle    string   `json:"section_title"`
	ParentDocName   string   `json:"parent_doc_name,omitempty"`
	SiblingDocs     []string `json:"sibling_docs"`
}

// MetaPathFor returns the sidecar path for a document path.
func MetaPathFor(docPath string) string {
	return docPath + ".meta.json"
}

// LoadMeta reads the sidecar for docPath, also accepting the older
// <stem>.meta.json name. A missing sidecar is not an error; the first
// return value is nil.
func LoadMeta(docPath string) (*Meta, error) {
	candidates := []string{MetaPathFor(docPath)}
	if ext := len(docPath) - len(".docx"); ext > 0 && docPath[ext:] == ".docx" {
		candidates = append(candidates, docPath[:ext]+".meta.json")
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read metadata sidecar: %w", err)
		}

		var meta Meta
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("decode metadata sidecar %s: %w", candidate, err)
		}
		return &meta, nil
	}

	return nil, nil
}

// SaveMeta writes the sidecar for docPath.
func SaveMeta(docPath string, meta *Meta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata sidecar: %w", err)
	}
	if err := os.WriteFile(MetaPathFor(docPath), data, 0644); err != nil {
		return fmt.Errorf("write metadata sidecar: %w", err)
	}
	return nil
}
