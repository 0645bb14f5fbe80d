package transfer

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencaselist/blocksearch/logger"
	"github.com/stretchr/testify/require"
)

const testSource = `# Economy

Overview paragraph.

## Inflation

Inflation cards here.

## Jobs

Jobs cards here.
`

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func writeTestSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "economy.md")
	require.NoError(t, os.WriteFile(path, []byte(testSource), 0644))
	return path
}

func intPtr(v int) *int { return &v }

func TestExtractBlock(t *testing.T) {
	assert := require.New(t)
	service := New(newTestLogger())
	source := writeTestSource(t)

	content, err := service.Extract(source, intPtr(1))
	assert.NoError(err)
	assert.Equal("Inflation", content.Title)
	assert.Equal("Inflation\n\nInflation cards here.", content.Text)
	assert.Len(content.Paragraphs, 2)
	assert.Equal(2, content.Paragraphs[0].HeadingLevel)
}

func TestExtractWholeFile(t *testing.T) {
	assert := require.New(t)
	service := New(newTestLogger())
	source := writeTestSource(t)

	content, err := service.Extract(source, nil)
	assert.NoError(err)
	assert.Equal("economy", content.Title)
	assert.Len(content.Paragraphs, 6)
	assert.Contains(content.Text, "Overview paragraph.")
	assert.Contains(content.Text, "Jobs cards here.")
}

func TestExtractUnknownBlock(t *testing.T) {
	assert := require.New(t)
	service := New(newTestLogger())
	source := writeTestSource(t)

	_, err := service.Extract(source, intPtr(9))
	assert.Error(err)
}

func TestExtractUnparseableSource(t *testing.T) {
	assert := require.New(t)
	service := New(newTestLogger())

	_, err := service.Extract("/nowhere/missing.txt", nil)
	assert.Error(err)
}
