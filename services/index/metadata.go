package index

// MetadataStore is the slice of the key-value store the indexer needs.
type MetadataStore interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAllKeys(bucket string) ([]string, error)
	Close() error
}
