package search

import (
	"strings"

	"github.com/opencaselist/blocksearch/db/searchdb"
	"github.com/opencaselist/blocksearch/logger"
)

type Service struct {
	logger   logger.Logger
	db       searchdb.DB
	prefixes PrefixResolver
}

// Options are the user-selectable knobs on a single search.
type Options struct {
	SortKey     string
	Descending  bool
	IncludePath bool
}

func New(logger logger.Logger, db searchdb.DB, prefixes PrefixResolver) *Service {
	return &Service{
		logger:   logger,
		db:       db,
		prefixes: prefixes,
	}
}

// Search runs one query. An empty query returns every entry outside
// excluded folders; a query whose tokens are all below the minimum
// length returns nothing. Results are re-evaluated from scratch on each
// call, so callers may fire this on every keystroke.
func (s *Service) Search(rawQuery string, opts Options, limit int, offset int) (*searchdb.Response, error) {
	parsed := searchdb.Query{
		IncludePath: opts.IncludePath,
		SortKey:     opts.SortKey,
		Descending:  opts.Descending,
	}

	prefixWord, terms := splitPrefix(rawQuery, s.prefixes)

	if prefixWord != "" {
		folders, err := s.prefixes.FoldersFor(prefixWord)
		if err != nil {
			return nil, err
		}
		if folders == nil {
			folders = []string{}
		}
		parsed.ScopeFolders = folders
	} else {
		excluded, err := s.prefixes.ExcludedFolders()
		if err != nil {
			return nil, err
		}
		parsed.ExcludedFolders = excluded
	}

	parsed.Terms = tokenizeQuery(terms)

	// Non-empty input with no usable tokens matches nothing.
	if strings.TrimSpace(terms) != "" && len(parsed.Terms) == 0 {
		return &searchdb.Response{Results: []searchdb.Result{}}, nil
	}

	response, err := s.db.Search(parsed, limit, offset)
	if err != nil {
		s.logger.Error("search failed", "query", rawQuery, "err", err.Error())
		return nil, err
	}

	return response, nil
}
