package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var sanitizeFilenameTestCases = []struct {
	name     string
	input    string
	expected string
}{
	{
		name:     "PlainTitle",
		input:    "Inherency",
		expected: "Inherency",
	},
	{
		name:     "WhitespaceBecomesUnderscores",
		input:    "The  quick\tbrown fox",
		expected: "The_quick_brown_fox",
	},
	{
		name:     "InvalidCharactersRemoved",
		input:    `AT: "Spending" <DA>?`,
		expected: "AT_Spending_DA",
	},
	{
		name:     "PathSeparatorsRemoved",
		input:    `a/b\c`,
		expected: "abc",
	},
	{
		name:     "RepeatedDotsCollapse",
		input:    "v1...final",
		expected: "v1.final",
	},
	{
		name:     "LeadingAndTrailingJunkTrimmed",
		input:    "..hidden_ ",
		expected: "hidden",
	},
	{
		name:     "LongTitleTruncated",
		input:    strings.Repeat("a", 300),
		expected: strings.Repeat("a", 240),
	},
	{
		name:     "MultibyteTitleTruncatedOnRuneBoundary",
		input:    "a" + strings.Repeat("世", 300),
		expected: "a" + strings.Repeat("世", 239),
	},
	{
		name:     "OnlyInvalidCharacters",
		input:    `<>:"/\|?*`,
		expected: "",
	},
}

func TestSanitizeFilename(t *testing.T) {
	for _, testCase := range sanitizeFilenameTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(testCase.expected, SanitizeFilename(testCase.input))
		})
	}
}

func TestFilenameAllocator(t *testing.T) {
	assert := require.New(t)
	allocator := NewFilenameAllocator()

	assert.Equal("Topic", allocator.Allocate("Topic"))
	assert.Equal("Topic_1", allocator.Allocate("Topic"))
	assert.Equal("Topic_2", allocator.Allocate("Topic"))
	assert.Equal("Other", allocator.Allocate("Other"))
	assert.Equal("untitled", allocator.Allocate(""))
	assert.Equal("untitled_1", allocator.Allocate(""))
}
