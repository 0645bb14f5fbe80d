// Common test helpers
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/opencaselist/blocksearch/config"
	"github.com/opencaselist/blocksearch/db/kvdb"
	"github.com/opencaselist/blocksearch/db/searchdb"
	"github.com/opencaselist/blocksearch/logger"
	"github.com/opencaselist/blocksearch/services/index"
	"github.com/opencaselist/blocksearch/services/prefix"
	"github.com/opencaselist/blocksearch/services/search"
	"github.com/opencaselist/blocksearch/services/split"
	"github.com/opencaselist/blocksearch/services/transfer"
	"github.com/opencaselist/blocksearch/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      map[string]any
	queryParams      map[string]string
	expectedStatus   int
	expectedResponse *response
}

type testServer struct {
	router   *gin.Engine
	libDir   string
	searchDB searchdb.DB
	kvDB     kvdb.DB
	prefixes *prefix.Service
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) *testServer {

	t.Setenv("ENV", "test")
	t.Setenv("STORAGE_PATH", t.TempDir())
	t.Setenv("KVDB_PATH", filepath.Join(t.TempDir(), "meta.db"))

	cfg, err := config.Load()
	assert.NoError(err, "could not load config")

	libDir := t.TempDir()
	for relPath, content := range testLibraryFiles {
		fullPath := filepath.Join(libDir, relPath)
		err := os.MkdirAll(filepath.Dir(fullPath), 0755)
		assert.NoError(err, "could not create test sub-directory")
		err = os.WriteFile(fullPath, []byte(content), 0644)
		assert.NoError(err, "could not write test file")
	}

	testLogger := newTestLogger()

	searchDB, err := searchdb.New(testLogger, cfg)
	assert.NoError(err, "could not create search database")

	kvDB, err := kvdb.New(testLogger, cfg)
	assert.NoError(err, "could not create kv database")
	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	indexService := index.New(ctx, testLogger, searchDB, kvDB)
	prefixService := prefix.New(testLogger, kvDB)
	searchService := search.New(testLogger, searchDB, prefixService)
	transferService := transfer.New(testLogger)
	splitService := split.New(ctx, testLogger, kvDB)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupIndex(router, testLogger, indexService, validator)
	SetupSearch(router, testLogger, searchService, validator)
	SetupDocuments(router, testLogger, searchService, validator)
	SetupTransfer(router, testLogger, cfg, transferService, validator)
	SetupSplit(router, testLogger, cfg, splitService, validator)
	SetupPrefixes(router, testLogger, prefixService, validator)

	t.Cleanup(func() {
		var err error
		err = searchDB.Close()
		assert.NoError(err, "could not close search database")
		err = kvDB.Close()
		assert.NoError(err, "could not close kv database")
	})

	return &testServer{
		router:   router,
		libDir:   libDir,
		searchDB: searchDB,
		kvDB:     kvDB,
		prefixes: prefixService,
	}
}

func makeTestHTTPRequest(server *testServer, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		endpoint = endpoint + "?"
		for key, value := range queryParams {
			if endpoint[len(endpoint)-1] != '?' {
				endpoint = endpoint + "&"
			}
			endpoint = endpoint + key + "=" + value
		}
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(jsonBody))

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	server.router.ServeHTTP(w, req)

	return w
}
