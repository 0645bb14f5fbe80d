package kvdb

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
)

type InvalidKeyError struct {
	Key    string
	Reason string
}
type NotFoundError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %s: %s", e.Key, e.Reason)
}

func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key not found: %s", e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FileMetadata is stored per indexed file in the Files bucket. The
// hierarchy fields mirror the sidecar metadata written by the splitter
// so that document context can be answered without re-reading files.
type FileMetadata struct {
	LastIndexed     time.Time `json:"last_indexed"`
	FirstSeen       time.Time `json:"first_seen"`
	OriginalDocPath string    `json:"original_doc_path,omitempty"`
	Position        *int      `json:"position_in_original,omitempty"`
	ParentDocName   string    `json:"parent_doc_name,omitempty"`
	SiblingDocs     []string  `json:"sibling_docs,omitempty"`
}
