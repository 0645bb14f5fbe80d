package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
)

// ParseDocx reads a .docx file into the paragraph model, mapping the
// built-in HeadingN styles to heading levels and keeping run-level
// character formats.
func ParseDocx(path string) (*Document, error) {
	parsed, err := OpenDocx(path)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		doc.Paragraphs = append(doc.Paragraphs, convertParagraph(para))
	}

	return doc, nil
}

func convertParagraph(para *docx.Paragraph) Paragraph {
	converted := Paragraph{
		HeadingLevel: docxHeadingLevel(para),
		Style:        docxStyle(para),
	}

	var text strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		converted.Runs = append(converted.Runs, convertRun(run))
		text.WriteString(runText(run))
	}
	converted.Text = strings.TrimSpace(text.String())

	return converted
}

func convertRun(run *docx.Run) Run {
	converted := Run{Text: runText(run)}

	props := run.RunProperties
	if props == nil {
		return converted
	}
	converted.Bold = props.Bold != nil
	converted.Italic = props.Italic != nil
	if props.Underline != nil {
		converted.Underline = props.Underline.Val
	}
	if props.Highlight != nil {
		converted.Highlight = props.Highlight.Val
	}
	if props.Color != nil {
		converted.Color = props.Color.Val
	}

	return converted
}

func runText(run *docx.Run) string {
	var b strings.Builder
	for _, child := range run.Children {
		if t, ok := child.(*docx.Text); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func docxHeadingLevel(para *docx.Paragraph) int {
	style := docxStyle(para)
	if style == "" {
		return 0
	}

	for level := 1; level <= 9; level++ {
		if strings.EqualFold(style, fmt.Sprintf("Heading%d", level)) ||
			strings.EqualFold(style, fmt.Sprintf("heading %d", level)) {
			return level
		}
	}
	return 0
}
