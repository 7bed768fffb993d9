package store

import (
	"fmt"

	"shopcart/domain"
)

// NewStore constructs a domain.CartStore by kind: "memory" or "file".
// For file store, provide the file path in path; for memory, path is ignored.
func NewStore(kind, path string) (domain.CartStore, error) {
	switch kind {
	case "memory", "mem":
		return NewInMemoryStore(), nil
	case "file":
		if path == "" {
			return nil, fmt.Errorf("file path required for file store")
		}
		return NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}
