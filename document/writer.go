package document

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fumiama/go-docx"
)

// Writer builds .docx output files. When a template is configured its
// body (styles, theme, any boilerplate paragraphs) becomes the starting
// point of every new document.
type Writer struct {
	template []byte
}

func NewWriter(templatePath string) (*Writer, error) {
	w := &Writer{}
	if templatePath == "" {
		return w, nil
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	// Parse once up front so a broken template fails fast.
	if _, err := docx.Parse(bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	w.template = data

	return w, nil
}

// NewDocument returns a fresh docx to write into, cloned from the
// template when one was given.
func (w *Writer) NewDocument() (*docx.Docx, error) {
	if w.template == nil {
		return docx.New().WithDefaultTheme(), nil
	}
	parsed, err := docx.Parse(bytes.NewReader(w.template), int64(len(w.template)))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return parsed, nil
}

// AppendParagraphs writes paragraphs onto the end of target, carrying
// heading styles and run formats over.
func AppendParagraphs(target *docx.Docx, paragraphs []Paragraph) {
	for _, para := range paragraphs {
		appendParagraph(target, para)
	}
}

// InsertParagraphs places paragraphs before the body item at offset.
// An offset at or past the end appends. This is how "cursor position"
// insertion works on a closed file: the caller supplies the paragraph
// offset the cursor corresponds to.
func InsertParagraphs(target *docx.Docx, paragraphs []Paragraph, offset int) {
	before := len(target.Document.Body.Items)
	AppendParagraphs(target, paragraphs)
	if offset < 0 || offset >= before {
		return
	}

	items := target.Document.Body.Items
	added := items[before:]
	rotated := make([]interface{}, 0, len(items))
	rotated = append(rotated, items[:offset]...)
	rotated = append(rotated, added...)
	rotated = append(rotated, items[offset:before]...)
	target.Document.Body.Items = rotated
}

func appendParagraph(target *docx.Docx, para Paragraph) {
	out := target.AddParagraph()
	if para.Style != "" {
		out.Style(para.Style)
	}

	if len(para.Runs) == 0 {
		if para.Text != "" {
			out.AddText(para.Text)
		}
		return
	}

	for _, run := range para.Runs {
		if run.Text == "" {
			continue
		}
		r := out.AddText(run.Text)
		if run.Bold {
			r.Bold()
		}
		if run.Italic {
			r.Italic()
		}
		if run.Underline != "" {
			r.Underline(run.Underline)
		}
		if run.Highlight != "" {
			r.Highlight(run.Highlight)
		}
		if run.Color != "" {
			r.Color(run.Color)
		}
	}
}

// OpenDocx parses an existing .docx for in-place edits.
func OpenDocx(path string) (*docx.Docx, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	parsed, err := docx.Parse(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	return parsed, nil
}

// SaveDocx writes the document to path.
func SaveDocx(target *docx.Docx, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}
	defer file.Close()

	if _, err := target.WriteTo(file); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
