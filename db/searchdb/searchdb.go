package searchdb

type DB interface {
	BuildIndex(entries []*Entry) error
	DeleteByPaths(paths []string) error
	Search(query Query, limit int, offset int) (*Response, error)
	GetDocCount() (uint64, error)
	Close() error
}
