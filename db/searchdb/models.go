package searchdb

import "time"

// Sort keys accepted by Query.SortKey. Results are always a stable
// total order: ties break on path, then entry ID.
const (
	SortByName     = "name"
	SortByModified = "modified"
	SortByCreated  = "created"
	SortBySize     = "size"
)

// Entry is one searchable block: a heading-delimited unit of a source
// file. Ordinal is the block's position within its file; a file with no
// headings indexes as a single entry with ordinal 0. FolderText is
// derived from Folder by BuildIndex; callers leave it empty.
type Entry struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Folder      string    `json:"folder"`
	FolderText  string    `json:"folder_text"`
	Name        string    `json:"name"`
	SortName    string    `json:"sort_name"`
	Title       string    `json:"title"`
	Breadcrumb  string    `json:"breadcrumb"`
	Content     string    `json:"content"`
	Ordinal     int       `json:"ordinal"`
	Level       int       `json:"level"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	CreatedTime time.Time `json:"created_time"`
}

// Query is a fully parsed search: free terms plus scope and ordering.
// ScopeFolders non-nil means the query was prefix-scoped; an empty
// non-nil slice matches nothing.
type Query struct {
	Terms           []string
	ScopeFolders    []string
	ExcludedFolders []string
	IncludePath     bool
	SortKey         string
	Descending      bool
}

type Result struct {
	ID         string  `json:"id"`
	Path       string  `json:"path"`
	Folder     string  `json:"folder"`
	Name       string  `json:"name"`
	Title      string  `json:"title"`
	Breadcrumb string  `json:"breadcrumb"`
	Ordinal    int     `json:"ordinal"`
	Level      int     `json:"level"`
	Score      float64 `json:"score"`
	Size       int64   `json:"size"`
	ModTime    string  `json:"mod_time"`
	Created    string  `json:"created_time"`
}

type Response struct {
	Results    []Result `json:"results"`
	Total      uint64   `json:"total"`
	MaxScore   float64  `json:"max_score"`
	SearchTime string   `json:"search_time"`
}
