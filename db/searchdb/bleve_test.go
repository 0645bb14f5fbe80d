package searchdb

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/opencaselist/blocksearch/config"
	"github.com/opencaselist/blocksearch/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestDB(t *testing.T) *BleveDB {
	t.Helper()
	assert := require.New(t)

	t.Setenv("ENV", "test")
	t.Setenv("STORAGE_PATH", t.TempDir())

	cfg, err := config.Load()
	assert.NoError(err, "could not load config")

	db, err := New(newTestLogger(), cfg)
	assert.NoError(err, "could not create search database")
	t.Cleanup(func() { db.Close() })

	return db
}

func testEntries() []*Entry {
	modTime := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return []*Entry{
		{
			ID:          "/lib/Theory/topicality.md#0",
			Path:        "/lib/Theory/topicality.md",
			Folder:      "Theory",
			Name:        "topicality.md",
			SortName:    "topicality.md",
			Title:       "Limits",
			Content:     "limits are good for clash and fairness",
			Ordinal:     0,
			Level:       1,
			Size:        100,
			ModTime:     modTime,
			CreatedTime: modTime,
		},
		{
			ID:          "/lib/Theory/Conditionality/condo.md#0",
			Path:        "/lib/Theory/Conditionality/condo.md",
			Folder:      "Theory/Conditionality",
			Name:        "condo.md",
			SortName:    "condo.md",
			Title:       "Condo Bad",
			Content:     "conditionality destroys depth",
			Ordinal:     0,
			Level:       1,
			Size:        300,
			ModTime:     modTime.Add(48 * time.Hour),
			CreatedTime: modTime,
		},
		{
			ID:          "/lib/Disads/economy.md#0",
			Path:        "/lib/Disads/economy.md",
			Folder:      "Disads",
			Name:        "economy.md",
			SortName:    "economy.md",
			Title:       "Inflation",
			Breadcrumb:  "Economy",
			Content:     "inflation wrecks purchasing power and fairness",
			Ordinal:     0,
			Level:       2,
			Size:        200,
			ModTime:     modTime.Add(24 * time.Hour),
			CreatedTime: modTime,
		},
	}
}

func TestSearchByTermAndScope(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)
	assert.NoError(db.BuildIndex(testEntries()))

	// Unscoped term hits both folders.
	response, err := db.Search(Query{Terms: []string{"fairness"}}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(2), response.Total)

	// Scoped to Theory, the Disads hit drops; the nested folder stays.
	response, err = db.Search(Query{Terms: []string{"fairness"}, ScopeFolders: []string{"Theory"}}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(1), response.Total)
	assert.Equal("topicality.md", response.Results[0].Name)

	response, err = db.Search(Query{Terms: []string{"conditionality"}, ScopeFolders: []string{"Theory"}}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(1), response.Total)
	assert.Equal("Theory/Conditionality", response.Results[0].Folder)

	// A scoped query with no folders matches nothing.
	response, err = db.Search(Query{Terms: []string{"fairness"}, ScopeFolders: []string{}}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(0), response.Total)
}

func TestSearchExclusionsApplyToUnscopedQueries(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)
	assert.NoError(db.BuildIndex(testEntries()))

	response, err := db.Search(Query{Terms: []string{"fairness"}, ExcludedFolders: []string{"Disads"}}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(1), response.Total)
	assert.Equal("topicality.md", response.Results[0].Name)

	// An empty query lists everything outside excluded folders.
	response, err = db.Search(Query{ExcludedFolders: []string{"Theory"}}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(1), response.Total)
	assert.Equal("economy.md", response.Results[0].Name)
}

func TestSearchEmptyQueryListsEverything(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)
	assert.NoError(db.BuildIndex(testEntries()))

	response, err := db.Search(Query{SortKey: SortByName}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(3), response.Total)
	assert.Equal("condo.md", response.Results[0].Name)
	assert.Equal("economy.md", response.Results[1].Name)
	assert.Equal("topicality.md", response.Results[2].Name)
}

func TestSearchSortOrders(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)
	assert.NoError(db.BuildIndex(testEntries()))

	response, err := db.Search(Query{SortKey: SortBySize, Descending: true}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(3), response.Total)
	assert.Equal("condo.md", response.Results[0].Name)
	assert.Equal("economy.md", response.Results[1].Name)
	assert.Equal("topicality.md", response.Results[2].Name)

	response, err = db.Search(Query{SortKey: SortByModified}, 10, 0)
	assert.NoError(err)
	assert.Equal("topicality.md", response.Results[0].Name)
	assert.Equal("condo.md", response.Results[2].Name)
}

func TestSearchIncludePathMatchesFolder(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)
	assert.NoError(db.BuildIndex(testEntries()))

	// Without the flag, a folder name alone finds nothing.
	response, err := db.Search(Query{Terms: []string{"disads"}}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(0), response.Total)

	response, err = db.Search(Query{Terms: []string{"Disads"}, IncludePath: true}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(1), response.Total)
	assert.Equal("economy.md", response.Results[0].Name)
}

func TestDeleteByPaths(t *testing.T) {
	assert := require.New(t)
	db := newTestDB(t)
	assert.NoError(db.BuildIndex(testEntries()))

	assert.NoError(db.DeleteByPaths([]string{"/lib/Theory/topicality.md"}))

	count, err := db.GetDocCount()
	assert.NoError(err)
	assert.Equal(uint64(2), count)

	response, err := db.Search(Query{Terms: []string{"limits"}}, 10, 0)
	assert.NoError(err)
	assert.Equal(uint64(0), response.Total)
}

var sortOrderTestCases = []struct {
	name     string
	query    Query
	expected []string
}{
	{
		name:     "DefaultIsRelevance",
		query:    Query{},
		expected: []string{"-_score", "path", "_id"},
	},
	{
		name:     "ByNameAscending",
		query:    Query{SortKey: SortByName},
		expected: []string{"sort_name", "path", "_id"},
	},
	{
		name:     "ByModifiedDescending",
		query:    Query{SortKey: SortByModified, Descending: true},
		expected: []string{"-mod_time", "path", "_id"},
	},
	{
		name:     "BySize",
		query:    Query{SortKey: SortBySize},
		expected: []string{"size", "path", "_id"},
	},
	{
		name:     "ByCreated",
		query:    Query{SortKey: SortByCreated},
		expected: []string{"created_time", "path", "_id"},
	},
}

func TestSortOrder(t *testing.T) {
	for _, testCase := range sortOrderTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(testCase.expected, sortOrder(testCase.query))
		})
	}
}
