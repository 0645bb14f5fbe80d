package kvdb

// Bucket names used across the service. Files holds per-file index
// metadata, Requests holds progress for long-running build/split
// requests, Prefixes holds alias -> folder mappings and Excluded holds
// folders hidden from unscoped searches.
const (
	FilesBucket    = "files"
	RequestsBucket = "requests"
	PrefixesBucket = "prefixes"
	ExcludedBucket = "excluded"
)

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAllKeys(bucket string) ([]string, error)
	GetAll(bucket string) (map[string]string, error)
	Close() error
}
