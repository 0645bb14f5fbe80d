package split

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/opencaselist/blocksearch/document"
)

// writeFiles saves one .docx plus sidecar per section directly into the
// output folder, nested under ancestor folders when hierarchy is
// preserved. A section that fails to write is reported and skipped.
func (s *Service) writeFiles(ctx context.Context, doc *document.Document, sections []*document.Section, writer *document.Writer, params Params, requestID string) error {
	written := 0
	for idx, section := range sections {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := params.OutputDir
		if params.PreserveHierarchy {
			dir = filepath.Join(dir, filepath.Join(section.PathComponents()...))
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create section directory: %w", err)
			}
		}

		outputPath := filepath.Join(dir, section.SafeTitle+".docx")
		if err := s.writeSectionFile(doc, section, sections, writer, params.InputPath, outputPath); err != nil {
			s.logger.Error("failed to write section", "section", section.SafeTitle, "err", err.Error())
			continue
		}
		written++

		s.setRequestStatus(requestID, progressPercent(idx+1, len(sections)))
	}

	if written == 0 {
		return fmt.Errorf("no sections could be written")
	}
	s.logger.Info("saved section documents", "dir", params.OutputDir, "written", written, "sections", len(sections))
	return nil
}

func (s *Service) writeSectionFile(doc *document.Document, section *document.Section, sections []*document.Section, writer *document.Writer, inputPath string, outputPath string) error {
	target, err := writer.NewDocument()
	if err != nil {
		return err
	}
	document.AppendParagraphs(target, sectionParagraphs(doc, section))

	if err := document.SaveDocx(target, outputPath); err != nil {
		return err
	}

	return document.SaveMeta(outputPath, sectionMeta(inputPath, section, sections))
}

// writeArchive packs every section document and sidecar into a single
// zip in the output folder.
func (s *Service) writeArchive(ctx context.Context, doc *document.Document, sections []*document.Section, writer *document.Writer, params Params, requestID string) error {
	zipPath := filepath.Join(params.OutputDir, archiveName(params.InputPath))
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)
	defer archive.Close()

	for idx, section := range sections {
		if err := ctx.Err(); err != nil {
			return err
		}

		entryPath := section.SafeTitle + ".docx"
		if params.PreserveHierarchy {
			entryPath = path.Join(path.Join(section.PathComponents()...), entryPath)
		}

		target, err := writer.NewDocument()
		if err != nil {
			return err
		}
		document.AppendParagraphs(target, sectionParagraphs(doc, section))

		var buf bytes.Buffer
		if _, err := target.WriteTo(&buf); err != nil {
			return fmt.Errorf("render section %s: %w", section.SafeTitle, err)
		}

		entry, err := archive.Create(entryPath)
		if err != nil {
			return fmt.Errorf("create archive entry: %w", err)
		}
		if _, err := entry.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write archive entry: %w", err)
		}

		metaData, err := json.MarshalIndent(sectionMeta(params.InputPath, section, sections), "", "  ")
		if err != nil {
			return fmt.Errorf("encode section metadata: %w", err)
		}
		metaEntry, err := archive.Create(entryPath + ".meta.json")
		if err != nil {
			return fmt.Errorf("create metadata entry: %w", err)
		}
		if _, err := metaEntry.Write(metaData); err != nil {
			return fmt.Errorf("write metadata entry: %w", err)
		}

		s.setRequestStatus(requestID, progressPercent(idx+1, len(sections)))
	}

	s.logger.Info("created section archive", "path", zipPath, "sections", len(sections))
	return nil
}

// sectionParagraphs is the section's slice of the source document,
// heading included.
func sectionParagraphs(doc *document.Document, section *document.Section) []document.Paragraph {
	end := min(section.End, len(doc.Paragraphs)-1)
	return doc.Paragraphs[section.Start : end+1]
}

func progressPercent(done int, total int) int {
	if total == 0 {
		return ProgressStatusComplete
	}
	percent := ProgressStatusParsed + (done*(ProgressStatusComplete-ProgressStatusParsed))/total
	if percent > ProgressStatusComplete {
		return ProgressStatusComplete
	}
	return percent
}
