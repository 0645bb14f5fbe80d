package document

import (
	"strings"
)

// Document is one parsed source file as an ordered list of paragraphs.
type Document struct {
	Path       string
	Title      string
	Paragraphs []Paragraph
}

// Paragraph is a single block-level unit. HeadingLevel is 0 for body
// text and 1-9 for headings.
type Paragraph struct {
	Text         string `json:"text"`
	HeadingLevel int    `json:"heading_level,omitempty"`
	Style        string `json:"style,omitempty"`
	Runs         []Run  `json:"runs"`
}

// Run is a contiguous span of text sharing one set of character
// formats. Underline and Highlight keep the raw docx values (e.g.
// "single", "yellow") so round-tripping preserves them.
type Run struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline string `json:"underline,omitempty"`
	Highlight string `json:"highlight,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Block is a heading-delimited index unit: a heading paragraph plus the
// body text that follows it, up to the next heading of any level.
// Breadcrumb holds ancestor heading titles, shallowest first.
type Block struct {
	Ordinal    int
	Title      string
	Level      int
	Breadcrumb []string
	Text       string
	Start      int
	End        int
}

// Section is a heading with the full extent of its content, used by the
// splitter. Unlike Block, a section runs until the next heading at the
// same or a shallower level, so it contains its subsections.
type Section struct {
	Title     string
	SafeTitle string
	Level     int
	Start     int
	End       int
	Parent    *Section
	Children  []*Section
}

// PathComponents returns the ancestor safe titles for this section,
// shallowest first, for hierarchy-preserving output layouts.
func (s *Section) PathComponents() []string {
	if s.Parent == nil {
		return nil
	}
	return append(s.Parent.PathComponents(), s.Parent.SafeTitle)
}

// Blocks partitions a document at every heading. A document with no
// headings yields a single block covering all of its text. Empty blocks
// (a heading with no body and no title) are dropped.
func (d *Document) Blocks() []Block {
	var blocks []Block

	flush := func(b Block, texts []string) []Block {
		b.Text = strings.TrimSpace(strings.Join(texts, "\n\n"))
		if b.Title == "" && b.Text == "" {
			return blocks
		}
		return append(blocks, b)
	}

	var breadcrumb []breadcrumbEntry
	current := Block{Start: 0}
	var texts []string

	for i, para := range d.Paragraphs {
		if para.HeadingLevel > 0 {
			current.End = i - 1
			blocks = flush(current, texts)
			texts = nil

			for len(breadcrumb) > 0 && breadcrumb[len(breadcrumb)-1].level >= para.HeadingLevel {
				breadcrumb = breadcrumb[:len(breadcrumb)-1]
			}
			current = Block{
				Ordinal:    len(blocks),
				Title:      para.Text,
				Level:      para.HeadingLevel,
				Breadcrumb: breadcrumbTitles(breadcrumb),
				Start:      i,
			}
			breadcrumb = append(breadcrumb, breadcrumbEntry{title: para.Text, level: para.HeadingLevel})
			continue
		}
		if t := strings.TrimSpace(para.Text); t != "" {
			texts = append(texts, t)
		}
	}
	current.End = len(d.Paragraphs) - 1
	blocks = flush(current, texts)

	for i := range blocks {
		blocks[i].Ordinal = i
	}

	return blocks
}

type breadcrumbEntry struct {
	title string
	level int
}

func breadcrumbTitles(entries []breadcrumbEntry) []string {
	if len(entries) == 0 {
		return nil
	}
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.title
	}
	return titles
}

// Sections collects every non-empty heading at levels 1..maxLevel with
// parent links. A section's parent is the closest preceding heading
// with a strictly shallower level, so levels strictly increase along
// any parent chain.
func (d *Document) Sections(maxLevel int, names *FilenameAllocator) []*Section {
	if names == nil {
		names = NewFilenameAllocator()
	}

	var all []*Section
	for i, para := range d.Paragraphs {
		level := para.HeadingLevel
		if level < 1 || level > maxLevel || strings.TrimSpace(para.Text) == "" {
			continue
		}
		all = append(all, &Section{
			Title:     para.Text,
			SafeTitle: names.Allocate(SanitizeFilename(para.Text)),
			Level:     level,
			Start:     i,
		})
	}

	for i := range all {
		if i+1 < len(all) {
			all[i].End = all[i+1].Start - 1
		} else {
			all[i].End = len(d.Paragraphs) - 1
		}
	}

	for i, section := range all {
		if section.Level <= 1 {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if all[j].Level < section.Level {
				section.Parent = all[j]
				all[j].Children = append(all[j].Children, section)
				break
			}
		}
	}

	return all
}

// HasBodyText reports whether any non-heading paragraph in the
// section's range carries text.
func (d *Document) HasBodyText(s *Section) bool {
	for i := s.Start; i <= s.End && i < len(d.Paragraphs); i++ {
		para := d.Paragraphs[i]
		if para.HeadingLevel == 0 && strings.TrimSpace(para.Text) != "" {
			return true
		}
	}
	return false
}

// PlainText flattens the whole document for full-text indexing.
func (d *Document) PlainText() string {
	var b strings.Builder
	for _, para := range d.Paragraphs {
		t := strings.TrimSpace(para.Text)
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(t)
	}
	return b.String()
}
