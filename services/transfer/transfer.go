// Package transfer moves a block's rich text from a source file to a
// destination: back to the caller (who owns the clipboard), appended to
// a closed document, or inserted into a document at a paragraph offset.
// Destinations are mutated in place; a failed write leaves whatever the
// destination already had.
package transfer

import (
	"fmt"
	"os"

	"github.com/fumiama/go-docx"
	"github.com/opencaselist/blocksearch/document"
	"github.com/opencaselist/blocksearch/logger"
)

// Transfer modes. Extract hands content back to the caller; the rest
// write into a target document.
const (
	ModeExtract = "extract"
	ModeAppend  = "append"
	ModeCursor  = "cursor"
	ModeEnd     = "end"
)

// PositionEnd as an insert offset means "after the last paragraph".
const PositionEnd = -1

type Service struct {
	logger logger.Logger
}

// BlockContent is the resolved rich text of one block, handed back to
// callers that place it on a clipboard themselves.
type BlockContent struct {
	Title      string               `json:"title"`
	Text       string               `json:"text"`
	Paragraphs []document.Paragraph `json:"paragraphs"`
}

func New(logger logger.Logger) *Service {
	return &Service{logger: logger}
}

// Extract resolves a block (or the whole file when ordinal is nil) with
// its formatting intact.
func (s *Service) Extract(sourcePath string, ordinal *int) (*BlockContent, error) {
	title, paragraphs, err := s.resolve(sourcePath, ordinal)
	if err != nil {
		return nil, err
	}

	doc := document.Document{Paragraphs: paragraphs}
	return &BlockContent{
		Title:      title,
		Text:       doc.PlainText(),
		Paragraphs: paragraphs,
	}, nil
}

// Append opens a closed target document, writes the block at the end
// behind two separator paragraphs, and saves it. A target that doesn't
// exist yet is created.
func (s *Service) Append(sourcePath string, ordinal *int, targetPath string) error {
	_, paragraphs, err := s.resolve(sourcePath, ordinal)
	if err != nil {
		return err
	}

	target, existed, err := openOrCreateTarget(targetPath)
	if err != nil {
		return err
	}

	if existed {
		// Blank paragraphs keep transferred blocks visually separated.
		document.AppendParagraphs(target, []document.Paragraph{{}, {}})
	}
	document.AppendParagraphs(target, paragraphs)

	if err := document.SaveDocx(target, targetPath); err != nil {
		s.logger.Error("failed to save transfer target", "target", targetPath, "err", err.Error())
		return err
	}

	s.logger.Info("transferred block", "source", sourcePath, "target", targetPath, "mode", "append")
	return nil
}

// Insert writes the block into the target at a paragraph offset. The
// offset stands in for a cursor position; PositionEnd or any offset
// past the last paragraph appends instead.
func (s *Service) Insert(sourcePath string, ordinal *int, targetPath string, position int) error {
	_, paragraphs, err := s.resolve(sourcePath, ordinal)
	if err != nil {
		return err
	}

	target, _, err := openOrCreateTarget(targetPath)
	if err != nil {
		return err
	}

	if position == PositionEnd {
		document.AppendParagraphs(target, paragraphs)
	} else {
		document.InsertParagraphs(target, paragraphs, position)
	}

	if err := document.SaveDocx(target, targetPath); err != nil {
		s.logger.Error("failed to save transfer target", "target", targetPath, "err", err.Error())
		return err
	}

	s.logger.Info("transferred block", "source", sourcePath, "target", targetPath, "mode", "insert", "position", position)
	return nil
}

func (s *Service) resolve(sourcePath string, ordinal *int) (string, []document.Paragraph, error) {
	doc, err := document.Parse(sourcePath)
	if err != nil {
		s.logger.Error("failed to parse transfer source", "source", sourcePath, "err", err.Error())
		return "", nil, fmt.Errorf("parse source: %w", err)
	}

	if ordinal == nil {
		return doc.Title, doc.Paragraphs, nil
	}

	for _, block := range doc.Blocks() {
		if block.Ordinal != *ordinal {
			continue
		}
		end := min(block.End, len(doc.Paragraphs)-1)
		return block.Title, doc.Paragraphs[block.Start : end+1], nil
	}

	return "", nil, fmt.Errorf("block %d not found in %s", *ordinal, sourcePath)
}

func openOrCreateTarget(targetPath string) (target *docx.Docx, existed bool, err error) {
	if _, statErr := os.Stat(targetPath); statErr == nil {
		parsed, parseErr := document.OpenDocx(targetPath)
		if parseErr != nil {
			return nil, false, fmt.Errorf("open target: %w", parseErr)
		}
		return parsed, true, nil
	} else if !os.IsNotExist(statErr) {
		return nil, false, fmt.Errorf("stat target: %w", statErr)
	}

	writer, err := document.NewWriter("")
	if err != nil {
		return nil, false, err
	}
	fresh, err := writer.NewDocument()
	if err != nil {
		return nil, false, err
	}
	return fresh, false, nil
}
