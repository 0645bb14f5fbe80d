package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencaselist/blocksearch/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// An unreadable root reaches the walk callback with a nil FileInfo; the
// walk must surface the error instead of dereferencing it.
func TestDiscoverReportsUnreadableRoot(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	assert := require.New(t)
	service := &Service{logger: newTestLogger()}

	parent := t.TempDir()
	root := filepath.Join(parent, "library")
	assert.NoError(os.Mkdir(root, 0755))
	assert.NoError(os.Chmod(parent, 0000))
	t.Cleanup(func() { os.Chmod(parent, 0755) })

	files, err := service.discoverModifiedFiles(root, nil)
	assert.Error(err)
	assert.Empty(files)
}

func TestDiscoverFailsOnMissingRoot(t *testing.T) {
	assert := require.New(t)
	service := &Service{logger: newTestLogger()}

	files, err := service.discoverModifiedFiles(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(err)
	assert.Empty(files)
}
