package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testMarkdown = `# Economy

Overview of the economy debate.

## Inflation

Inflation is rising.
Prices follow.

- first card
- second card
`

func writeTestMarkdown(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseMarkdown(t *testing.T) {
	assert := require.New(t)
	path := writeTestMarkdown(t, "economy.md", testMarkdown)

	doc, err := ParseMarkdown(path)
	assert.NoError(err)
	assert.Equal("economy", doc.Title)
	assert.Equal(path, doc.Path)

	assert.Len(doc.Paragraphs, 5)

	assert.Equal("Economy", doc.Paragraphs[0].Text)
	assert.Equal(1, doc.Paragraphs[0].HeadingLevel)
	assert.True(doc.Paragraphs[0].Runs[0].Bold)

	assert.Equal("Overview of the economy debate.", doc.Paragraphs[1].Text)
	assert.Equal(0, doc.Paragraphs[1].HeadingLevel)

	assert.Equal("Inflation", doc.Paragraphs[2].Text)
	assert.Equal(2, doc.Paragraphs[2].HeadingLevel)

	assert.Contains(doc.Paragraphs[3].Text, "Inflation is rising.")
	assert.Contains(doc.Paragraphs[3].Text, "Prices follow.")

	assert.Contains(doc.Paragraphs[4].Text, "first card")
	assert.Contains(doc.Paragraphs[4].Text, "second card")
}

func TestParseDispatch(t *testing.T) {
	assert := require.New(t)
	path := writeTestMarkdown(t, "notes.markdown", "# Title\n\nbody\n")

	doc, err := Parse(path)
	assert.NoError(err)
	assert.Len(doc.Paragraphs, 2)

	_, err = Parse("something.txt")
	assert.ErrorIs(err, ErrUnsupported)
}

var isIndexableTestCases = []struct {
	name     string
	path     string
	expected bool
}{
	{name: "WordDocument", path: "/library/aff/case.docx", expected: true},
	{name: "Markdown", path: "/library/notes.md", expected: true},
	{name: "MarkdownLongExtension", path: "/library/notes.markdown", expected: true},
	{name: "UppercaseExtension", path: "/library/CASE.DOCX", expected: true},
	{name: "WordLockFile", path: "/library/aff/~$case.docx", expected: false},
	{name: "PlainText", path: "/library/readme.txt", expected: false},
	{name: "NoExtension", path: "/library/Makefile", expected: false},
}

func TestIsIndexable(t *testing.T) {
	for _, testCase := range isIndexableTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(testCase.expected, IsIndexable(testCase.path))
		})
	}
}
