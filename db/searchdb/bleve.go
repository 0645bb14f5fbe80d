package searchdb

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/opencaselist/blocksearch/config"
	"github.com/opencaselist/blocksearch/logger"
)

// IndexingBatchSize is also the unit of work handed to the bleve batch
// API by the index service's workers.
const IndexingBatchSize = 100

const maxEntriesPerFile = 10000

const (
	indexFieldContent    = "content"
	indexFieldTitle      = "title"
	indexFieldBreadcrumb = "breadcrumb"
	indexFieldName       = "name"
	indexFieldSortName   = "sort_name"
	indexFieldPath       = "path"
	indexFieldFolder     = "folder"
	indexFieldFolderText = "folder_text"
	indexFieldSize       = "size"
	indexFieldOrdinal    = "ordinal"
	indexFieldLevel      = "level"
	indexFieldModTime    = "mod_time"
	indexFieldCreated    = "created_time"
)

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

func New(logger logger.Logger, cfg *config.Config) (*BleveDB, error) {
	mapping := createIndexMapping()
	indexPath := filepath.Join(cfg.GetStoragePath(), cfg.GetIndexPath())
	index, err := bleve.New(indexPath, mapping)
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	// Exact-match fields
	for _, field := range []string{indexFieldPath, indexFieldFolder, indexFieldSortName} {
		fieldMapping := bleve.NewTextFieldMapping()
		fieldMapping.Analyzer = keyword.Name
		docMapping.AddFieldMappingsAt(field, fieldMapping)
	}

	// Analyzed for partial matching
	for _, field := range []string{indexFieldName, indexFieldTitle, indexFieldBreadcrumb, indexFieldFolderText} {
		fieldMapping := bleve.NewTextFieldMapping()
		fieldMapping.Analyzer = standard.Name
		docMapping.AddFieldMappingsAt(field, fieldMapping)
	}

	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = standard.Name
	contentFieldMapping.Store = false // Don't store full content in index
	contentFieldMapping.Index = true  // But do index it for searching
	docMapping.AddFieldMappingsAt(indexFieldContent, contentFieldMapping)

	for _, field := range []string{indexFieldSize, indexFieldOrdinal, indexFieldLevel} {
		docMapping.AddFieldMappingsAt(field, bleve.NewNumericFieldMapping())
	}

	for _, field := range []string{indexFieldModTime, indexFieldCreated} {
		docMapping.AddFieldMappingsAt(field, bleve.NewDateTimeFieldMapping())
	}

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

func (b *BleveDB) BuildIndex(entries []*Entry) error {

	batch := b.index.NewBatch()

	for i, entry := range entries {
		entry.FolderText = folderSearchText(entry.Folder)

		if err := batch.Index(entry.ID, entry); err != nil {
			b.logger.Error("could not index entry", "err", err.Error())
			return err
		}

		// Execute batch when it reaches the batch size
		if (i+1)%IndexingBatchSize == 0 {
			if err := b.index.Batch(batch); err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not index entry", "err", err.Error())
			return err
		}
	}

	return nil
}

// DeleteByPaths removes every entry belonging to the given files. Block
// IDs are derived from path and ordinal, so entries are found with an
// exact-path query first.
func (b *BleveDB) DeleteByPaths(paths []string) error {
	batch := b.index.NewBatch()

	for _, path := range paths {
		ids, err := b.entryIDsForPath(path)
		if err != nil {
			return err
		}
		for _, id := range ids {
			batch.Delete(id)
		}

		if batch.Size() >= IndexingBatchSize {
			if err := b.index.Batch(batch); err != nil {
				return err
			}
			batch = b.index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not delete entries", "err", err.Error())
			return err
		}
	}

	return nil
}

func (b *BleveDB) entryIDsForPath(path string) ([]string, error) {
	termQuery := bleve.NewTermQuery(path)
	termQuery.SetField(indexFieldPath)

	request := bleve.NewSearchRequestOptions(termQuery, maxEntriesPerFile, 0, false)
	result, err := b.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("lookup entries for %s: %w", path, err)
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func (b *BleveDB) Search(searchQuery Query, limit int, offset int) (*Response, error) {
	start := time.Now()

	request := bleve.NewSearchRequestOptions(b.buildSearchQuery(searchQuery), limit, offset, false)
	request.Fields = []string{
		indexFieldPath, indexFieldFolder, indexFieldName, indexFieldTitle,
		indexFieldBreadcrumb, indexFieldOrdinal, indexFieldLevel,
		indexFieldSize, indexFieldModTime, indexFieldCreated,
	}
	request.SortBy(sortOrder(searchQuery))

	searchResult, err := b.index.Search(request)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		result := Result{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if path, ok := hit.Fields[indexFieldPath].(string); ok {
			result.Path = path
		}
		if folder, ok := hit.Fields[indexFieldFolder].(string); ok {
			result.Folder = folder
		}
		if name, ok := hit.Fields[indexFieldName].(string); ok {
			result.Name = name
		}
		if title, ok := hit.Fields[indexFieldTitle].(string); ok {
			result.Title = title
		}
		if breadcrumb, ok := hit.Fields[indexFieldBreadcrumb].(string); ok {
			result.Breadcrumb = breadcrumb
		}
		if ordinal, ok := hit.Fields[indexFieldOrdinal].(float64); ok {
			result.Ordinal = int(ordinal)
		}
		if level, ok := hit.Fields[indexFieldLevel].(float64); ok {
			result.Level = int(level)
		}
		if size, ok := hit.Fields[indexFieldSize].(float64); ok {
			result.Size = int64(size)
		}
		if modTime, ok := hit.Fields[indexFieldModTime].(string); ok {
			result.ModTime = modTime
		}
		if created, ok := hit.Fields[indexFieldCreated].(string); ok {
			result.Created = created
		}

		results[i] = result
	}

	response := &Response{
		Results:    results,
		Total:      searchResult.Total,
		MaxScore:   searchResult.MaxScore,
		SearchTime: time.Since(start).String(),
	}

	return response, nil
}

// sortOrder maps the user-selectable sort key onto bleve sort fields.
// Without a key, relevance ordering applies; either way path and entry
// ID follow as tiebreaks so the order is a stable total order.
func sortOrder(searchQuery Query) []string {
	prefix := ""
	if searchQuery.Descending {
		prefix = "-"
	}

	var primary string
	switch searchQuery.SortKey {
	case SortByName:
		primary = prefix + indexFieldSortName
	case SortByModified:
		primary = prefix + indexFieldModTime
	case SortByCreated:
		primary = prefix + indexFieldCreated
	case SortBySize:
		primary = prefix + indexFieldSize
	default:
		primary = "-_score"
	}

	return []string{primary, indexFieldPath, "_id"}
}

func (b *BleveDB) buildSearchQuery(searchQuery Query) query.Query {

	const (
		boostForContent      = 3.0
		boostForTitle        = 2.5
		boostForFileName     = 2.0
		boostForPartialMatch = 1.5
		boostForBreadcrumb   = 1.0
	)

	matchAll := len(searchQuery.Terms) == 0

	conjuncts := make([]query.Query, 0, len(searchQuery.Terms)+2)

	for _, term := range searchQuery.Terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}

		perTerm := bleve.NewDisjunctionQuery()

		contentQuery := bleve.NewMatchQuery(term)
		contentQuery.SetField(indexFieldContent)
		contentQuery.SetBoost(boostForContent)
		perTerm.AddQuery(contentQuery)

		titleQuery := bleve.NewMatchQuery(term)
		titleQuery.SetField(indexFieldTitle)
		titleQuery.SetBoost(boostForTitle)
		perTerm.AddQuery(titleQuery)

		nameQuery := bleve.NewMatchQuery(term)
		nameQuery.SetField(indexFieldName)
		nameQuery.SetBoost(boostForFileName)
		perTerm.AddQuery(nameQuery)

		breadcrumbQuery := bleve.NewMatchQuery(term)
		breadcrumbQuery.SetField(indexFieldBreadcrumb)
		breadcrumbQuery.SetBoost(boostForBreadcrumb)
		perTerm.AddQuery(breadcrumbQuery)

		for _, field := range []string{indexFieldName, indexFieldTitle, indexFieldContent} {
			prefixQuery := bleve.NewPrefixQuery(term)
			prefixQuery.SetField(field)
			prefixQuery.SetBoost(boostForPartialMatch)
			perTerm.AddQuery(prefixQuery)
		}

		if searchQuery.IncludePath {
			folderMatch := bleve.NewMatchQuery(term)
			folderMatch.SetField(indexFieldFolderText)
			perTerm.AddQuery(folderMatch)

			folderPrefix := bleve.NewPrefixQuery(term)
			folderPrefix.SetField(indexFieldFolderText)
			perTerm.AddQuery(folderPrefix)
		}

		conjuncts = append(conjuncts, perTerm)
	}

	if searchQuery.ScopeFolders != nil {
		// A prefix that maps to no folders matches nothing.
		if len(searchQuery.ScopeFolders) == 0 {
			return bleve.NewMatchNoneQuery()
		}
		conjuncts = append(conjuncts, folderScopeQuery(searchQuery.ScopeFolders))
	} else if len(searchQuery.ExcludedFolders) > 0 {
		// Exclusions only apply to unscoped queries.
		boolQuery := bleve.NewBooleanQuery()
		boolQuery.AddMustNot(folderScopeQuery(searchQuery.ExcludedFolders))
		if matchAll && len(conjuncts) == 0 {
			boolQuery.AddMust(bleve.NewMatchAllQuery())
		}
		conjuncts = append(conjuncts, boolQuery)
	}

	if len(conjuncts) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(conjuncts) == 1 {
		return conjuncts[0]
	}

	conjunction := bleve.NewConjunctionQuery()
	for _, q := range conjuncts {
		conjunction.AddQuery(q)
	}
	return conjunction
}

// folderSearchText renders a folder path as searchable text so that a
// query term can match a path component regardless of case.
func folderSearchText(folder string) string {
	return strings.ToLower(strings.ReplaceAll(folder, "/", " "))
}

// folderScopeQuery matches entries inside any of the folders: the
// folder itself or any folder nested under it.
func folderScopeQuery(folders []string) query.Query {
	scope := bleve.NewDisjunctionQuery()
	for _, folder := range folders {
		folder = strings.Trim(strings.TrimSpace(folder), "/")
		if folder == "" {
			continue
		}

		exact := bleve.NewTermQuery(folder)
		exact.SetField(indexFieldFolder)
		scope.AddQuery(exact)

		nested := bleve.NewPrefixQuery(folder + "/")
		nested.SetField(indexFieldFolder)
		scope.AddQuery(nested)
	}
	return scope
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}
