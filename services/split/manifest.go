package split

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// manifestName is written into every output folder so a later update
// run can reuse the original parameters without re-prompting.
const manifestName = "split.json"

type Manifest struct {
	InputPath         string    `json:"input_path"`
	TemplatePath      string    `json:"template_path,omitempty"`
	TargetLevel       int       `json:"target_level"`
	CreateZip         bool      `json:"create_zip"`
	PreserveHierarchy bool      `json:"preserve_hierarchy"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func LoadManifest(outputDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(outputDir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("read split manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode split manifest: %w", err)
	}
	return &manifest, nil
}

func SaveManifest(outputDir string, manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode split manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, manifestName), data, 0644); err != nil {
		return fmt.Errorf("write split manifest: %w", err)
	}
	return nil
}
