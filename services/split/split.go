// Package split partitions a large document into one file per section
// at a chosen heading level, carrying hierarchy metadata so the pieces
// stay navigable as a family.
package split

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/opencaselist/blocksearch/db/kvdb"
	"github.com/opencaselist/blocksearch/document"
	"github.com/opencaselist/blocksearch/logger"
)

const (
	ProgressStatusStarted  = 0
	ProgressStatusParsed   = 10
	ProgressStatusComplete = 100
	ProgressStatusFailed   = -1

	maxSplitTime = 30 * time.Minute
)

// MetadataStore is the slice of the key-value store the splitter needs
// for request progress.
type MetadataStore interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
}

// Params describe one split run. TemplatePath may be empty, in which
// case sections are written onto a blank document.
type Params struct {
	InputPath         string
	OutputDir         string
	TemplatePath      string
	TargetLevel       int
	CreateZip         bool
	PreserveHierarchy bool
}

type splitRequest struct {
	params    Params
	requestID string
}

type Service struct {
	logger        logger.Logger
	metadataStore MetadataStore
	splitC        chan splitRequest
}

func New(ctx context.Context, logger logger.Logger, metadataStore MetadataStore) *Service {
	service := &Service{
		logger:        logger,
		metadataStore: metadataStore,
		splitC:        make(chan splitRequest),
	}

	go service.run(ctx)
	return service
}

// Split enqueues a split run; progress is tracked under requestID.
func (s *Service) Split(params Params, requestID string) error {
	if params.TargetLevel < 1 || params.TargetLevel > 9 {
		return fmt.Errorf("target level %d out of range", params.TargetLevel)
	}

	s.setRequestStatus(requestID, ProgressStatusStarted)

	select {
	case s.splitC <- splitRequest{params: params, requestID: requestID}:
		return nil
	default:
		s.logger.Warn("request to split while a split is already in progress")
		return errors.New("split already in progress")
	}
}

// Update re-runs a previous split against its output folder, taking
// every parameter from the recorded manifest.
func (s *Service) Update(outputDir string, requestID string) error {
	manifest, err := LoadManifest(outputDir)
	if err != nil {
		return err
	}

	return s.Split(Params{
		InputPath:         manifest.InputPath,
		OutputDir:         outputDir,
		TemplatePath:      manifest.TemplatePath,
		TargetLevel:       manifest.TargetLevel,
		CreateZip:         manifest.CreateZip,
		PreserveHierarchy: manifest.PreserveHierarchy,
	}, requestID)
}

// GetStatus retrieves the progress status for a split request.
func (s *Service) GetStatus(requestID string) (int, error) {
	value, err := s.metadataStore.Get(kvdb.RequestsBucket, requestID)
	if err != nil {
		return 0, fmt.Errorf("request not found: %w", err)
	}

	status, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid status value: %w", err)
	}

	return status, nil
}

func (s *Service) run(ctx context.Context) {
	for {
		select {
		case req := <-s.splitC:
			splitCtx, cancel := context.WithTimeout(ctx, maxSplitTime)
			s.process(splitCtx, req)
			cancel()
		case <-ctx.Done():
			s.logger.Info("split service stopped", "reason", ctx.Err())
			return
		}
	}
}

func (s *Service) process(ctx context.Context, req splitRequest) {
	params := req.params

	doc, err := document.ParseDocx(params.InputPath)
	if err != nil {
		s.logger.Error("failed to parse split input", "path", params.InputPath, "err", err.Error())
		s.setRequestStatus(req.requestID, ProgressStatusFailed)
		return
	}

	writer, err := document.NewWriter(params.TemplatePath)
	if err != nil {
		s.logger.Error("failed to load split template", "path", params.TemplatePath, "err", err.Error())
		s.setRequestStatus(req.requestID, ProgressStatusFailed)
		return
	}

	sections := targetSections(doc, params.TargetLevel)
	s.setRequestStatus(req.requestID, ProgressStatusParsed)
	s.logger.Info("parsed split sections", "input", params.InputPath, "level", params.TargetLevel, "sections", len(sections))

	if len(sections) == 0 {
		s.logger.Warn("no sections at requested level", "input", params.InputPath, "level", params.TargetLevel)
		s.setRequestStatus(req.requestID, ProgressStatusFailed)
		return
	}

	if err := os.MkdirAll(params.OutputDir, 0755); err != nil {
		s.logger.Error("failed to create output directory", "dir", params.OutputDir, "err", err.Error())
		s.setRequestStatus(req.requestID, ProgressStatusFailed)
		return
	}

	if params.CreateZip {
		err = s.writeArchive(ctx, doc, sections, writer, params, req.requestID)
	} else {
		err = s.writeFiles(ctx, doc, sections, writer, params, req.requestID)
	}
	if err != nil {
		s.logger.Error("split failed", "input", params.InputPath, "err", err.Error())
		s.setRequestStatus(req.requestID, ProgressStatusFailed)
		return
	}

	if err := s.recordManifest(params); err != nil {
		s.logger.Error("failed to record split manifest", "dir", params.OutputDir, "err", err.Error())
		s.setRequestStatus(req.requestID, ProgressStatusFailed)
		return
	}

	s.setRequestStatus(req.requestID, ProgressStatusComplete)
}

// targetSections picks the sections that become output units: those at
// exactly the target level that carry body text.
func targetSections(doc *document.Document, targetLevel int) []*document.Section {
	all := doc.Sections(targetLevel, document.NewFilenameAllocator())

	var targets []*document.Section
	for _, section := range all {
		if section.Level == targetLevel && doc.HasBodyText(section) {
			targets = append(targets, section)
		}
	}
	return targets
}

// sectionMeta builds the hierarchy sidecar for one section. Siblings
// are the other output units sharing the same parent, in document
// order.
func sectionMeta(inputPath string, section *document.Section, sections []*document.Section) *document.Meta {
	meta := &document.Meta{
		OriginalDocPath: inputPath,
		Position:        section.Start,
		SectionLevel:    section.Level,
		SectionTitle:    section.Title,
		SiblingDocs:     []string{},
	}
	if section.Parent != nil {
		meta.ParentDocName = section.Parent.SafeTitle
	}

	for _, other := range sections {
		if other == section || other.Level != section.Level {
			continue
		}
		sameParent := (section.Parent == nil && other.Parent == nil) ||
			(section.Parent != nil && other.Parent != nil && section.Parent.SafeTitle == other.Parent.SafeTitle)
		if sameParent {
			meta.SiblingDocs = append(meta.SiblingDocs, other.SafeTitle)
		}
	}

	return meta
}

func (s *Service) recordManifest(params Params) error {
	now := time.Now().UTC()
	manifest := &Manifest{
		InputPath:         params.InputPath,
		TemplatePath:      params.TemplatePath,
		TargetLevel:       params.TargetLevel,
		CreateZip:         params.CreateZip,
		PreserveHierarchy: params.PreserveHierarchy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if existing, err := LoadManifest(params.OutputDir); err == nil {
		manifest.CreatedAt = existing.CreatedAt
	}
	return SaveManifest(params.OutputDir, manifest)
}

func (s *Service) setRequestStatus(requestID string, status int) {
	if err := s.metadataStore.Set(kvdb.RequestsBucket, requestID, strconv.Itoa(status)); err != nil {
		s.logger.Error("failed to update request status", "requestID", requestID, "progress", status, "err", err.Error())
	}
}

// archiveName mirrors the output zip name convention:
// <input stem>_sections.zip.
func archiveName(inputPath string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return stem + "_sections.zip"
}
