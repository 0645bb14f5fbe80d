package api

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencaselist/blocksearch/config"
	"github.com/opencaselist/blocksearch/db/kvdb"
	"github.com/opencaselist/blocksearch/db/searchdb"
	"github.com/opencaselist/blocksearch/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// A request that is mid-flight when the stop signal arrives must still
// see live stores: shutdown drains the HTTP server first and closes the
// databases after.
func TestShutdownDrainsRequestsBeforeClosingStores(t *testing.T) {
	assert := require.New(t)

	t.Setenv("ENV", "test")
	t.Setenv("STORAGE_PATH", t.TempDir())
	t.Setenv("KVDB_PATH", filepath.Join(t.TempDir(), "meta.db"))

	cfg, err := config.Load()
	assert.NoError(err, "could not load config")

	s := &server{cfg: cfg, logger: newTestLogger()}
	s.kvdb, err = kvdb.New(s.logger, cfg)
	assert.NoError(err, "could not create kv database")
	s.searchdb, err = searchdb.New(s.logger, cfg)
	assert.NoError(err, "could not create search database")

	assert.NoError(s.kvdb.Set(kvdb.RequestsBucket, "inflight", "42"))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	started := make(chan struct{})
	router.GET("/slow", func(c *gin.Context) {
		close(started)
		time.Sleep(300 * time.Millisecond)
		value, err := s.kvdb.Get(kvdb.RequestsBucket, "inflight")
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.String(http.StatusOK, value)
	})
	s.router = router

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(err, "could not listen on loopback")
	s.httpServer = &http.Server{Handler: s.router.Handler()}
	go s.httpServer.Serve(listener)

	type result struct {
		status int
		body   string
		err    error
	}
	resultC := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + listener.Addr().String() + "/slow")
		if err != nil {
			resultC <- result{err: err}
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		resultC <- result{status: resp.StatusCode, body: string(body)}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	<-started
	cancel()
	s.setupGracefulShutdown(ctx)

	res := <-resultC
	assert.NoError(res.err)
	assert.Equal(http.StatusOK, res.status)
	assert.Equal("42", res.body)
}
