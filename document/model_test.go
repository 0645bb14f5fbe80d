package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func heading(level int, text string) Paragraph {
	return Paragraph{Text: text, HeadingLevel: level, Runs: []Run{{Text: text, Bold: true}}}
}

func body(text string) Paragraph {
	return Paragraph{Text: text, Runs: []Run{{Text: text}}}
}

var blocksTestCases = []struct {
	name     string
	doc      Document
	expected []Block
}{
	{
		name: "NoHeadings",
		doc: Document{Paragraphs: []Paragraph{
			body("first paragraph"),
			body("second paragraph"),
		}},
		expected: []Block{
			{Ordinal: 0, Text: "first paragraph\n\nsecond paragraph", Start: 0, End: 1},
		},
	},
	{
		name: "SingleHeadingWithBody",
		doc: Document{Paragraphs: []Paragraph{
			heading(1, "Topic"),
			body("evidence"),
		}},
		expected: []Block{
			{Ordinal: 0, Title: "Topic", Level: 1, Text: "evidence", Start: 0, End: 1},
		},
	},
	{
		name: "NestedHeadingsBuildBreadcrumbs",
		doc: Document{Paragraphs: []Paragraph{
			heading(1, "Economy"),
			body("overview"),
			heading(2, "Inflation"),
			body("cards about inflation"),
			heading(2, "Jobs"),
			body("cards about jobs"),
			heading(1, "Environment"),
			body("cards about climate"),
		}},
		expected: []Block{
			{Ordinal: 0, Title: "Economy", Level: 1, Text: "overview", Start: 0, End: 1},
			{Ordinal: 1, Title: "Inflation", Level: 2, Breadcrumb: []string{"Economy"}, Text: "cards about inflation", Start: 2, End: 3},
			{Ordinal: 2, Title: "Jobs", Level: 2, Breadcrumb: []string{"Economy"}, Text: "cards about jobs", Start: 4, End: 5},
			{Ordinal: 3, Title: "Environment", Level: 1, Text: "cards about climate", Start: 6, End: 7},
		},
	},
	{
		name: "EmptyBlocksAreDropped",
		doc: Document{Paragraphs: []Paragraph{
			body("   "),
			heading(1, "Kept"),
			body("text"),
		}},
		expected: []Block{
			{Ordinal: 0, Title: "Kept", Level: 1, Text: "text", Start: 1, End: 2},
		},
	},
	{
		name: "HeadingWithoutBodyIsKept",
		doc: Document{Paragraphs: []Paragraph{
			heading(1, "Alone"),
			heading(1, "Also alone"),
		}},
		expected: []Block{
			{Ordinal: 0, Title: "Alone", Level: 1, Start: 0, End: 0},
			{Ordinal: 1, Title: "Also alone", Level: 1, Start: 1, End: 1},
		},
	},
}

func TestBlocks(t *testing.T) {
	for _, testCase := range blocksTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(testCase.expected, testCase.doc.Blocks())
		})
	}
}

func TestBlocksBreadcrumbPopsSiblingsAndDeeper(t *testing.T) {
	assert := require.New(t)
	doc := Document{Paragraphs: []Paragraph{
		heading(1, "A"),
		heading(2, "B"),
		heading(3, "C"),
		heading(2, "D"),
	}}

	blocks := doc.Blocks()
	assert.Len(blocks, 4)
	assert.Nil(blocks[0].Breadcrumb)
	assert.Equal([]string{"A"}, blocks[1].Breadcrumb)
	assert.Equal([]string{"A", "B"}, blocks[2].Breadcrumb)
	// D replaces B at level 2, so C is popped along with B.
	assert.Equal([]string{"A"}, blocks[3].Breadcrumb)
}

func TestSections(t *testing.T) {
	assert := require.New(t)
	doc := Document{Paragraphs: []Paragraph{
		heading(1, "Economy"),
		body("overview"),
		heading(2, "Inflation"),
		body("inflation cards"),
		heading(3, "CPI"),
		body("cpi cards"),
		heading(2, "Jobs"),
		body("jobs cards"),
		heading(1, "Environment"),
		body("climate cards"),
	}}

	sections := doc.Sections(2, nil)
	assert.Len(sections, 4)

	assert.Equal("Economy", sections[0].Title)
	assert.Equal(1, sections[0].Level)
	assert.Equal(0, sections[0].Start)
	assert.Equal(1, sections[0].End)

	// The level-3 heading is not collected, so Inflation keeps it.
	assert.Equal("Inflation", sections[1].Title)
	assert.Equal(2, sections[1].Start)
	assert.Equal(5, sections[1].End)
	assert.Equal(sections[0], sections[1].Parent)

	assert.Equal("Jobs", sections[2].Title)
	assert.Equal(sections[0], sections[2].Parent)
	assert.Equal([]*Section{sections[1], sections[2]}, sections[0].Children)

	assert.Equal("Environment", sections[3].Title)
	assert.Nil(sections[3].Parent)
	assert.Equal(9, sections[3].End)

	assert.Equal([]string{"Economy"}, sections[1].PathComponents())
	assert.Nil(sections[0].PathComponents())
}

func TestSectionsAllocatesDistinctSafeTitles(t *testing.T) {
	assert := require.New(t)
	doc := Document{Paragraphs: []Paragraph{
		heading(1, "Topic"),
		body("a"),
		heading(1, "Topic"),
		body("b"),
	}}

	sections := doc.Sections(1, nil)
	assert.Len(sections, 2)
	assert.Equal("Topic", sections[0].SafeTitle)
	assert.Equal("Topic_1", sections[1].SafeTitle)
}

func TestHasBodyText(t *testing.T) {
	assert := require.New(t)
	doc := Document{Paragraphs: []Paragraph{
		heading(1, "Empty"),
		heading(1, "Full"),
		body("content"),
	}}

	sections := doc.Sections(1, nil)
	assert.Len(sections, 2)
	assert.False(doc.HasBodyText(sections[0]))
	assert.True(doc.HasBodyText(sections[1]))
}

func TestPlainText(t *testing.T) {
	assert := require.New(t)
	doc := Document{Paragraphs: []Paragraph{
		heading(1, "Title"),
		body(""),
		body("one"),
		body("two"),
	}}
	assert.Equal("Title\n\none\n\ntwo", doc.PlainText())
}
