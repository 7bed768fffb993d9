package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"shopcart/domain"
)

// FileStore is a JSON file-backed implementation of domain.CartStore.
// It keeps a mutex-guarded in-memory copy of the cart synchronized to
// disk, writing the whole cart back on every mutation.
type FileStore struct {
	mu      sync.RWMutex
	entries []domain.CartEntry
	path    string
}

// compile-time assertion
var _ domain.CartStore = (*FileStore)(nil)

// NewFileStore constructs a FileStore at the given path. A missing,
// empty or unreadable file degrades to an empty cart instead of an
// error, so a corrupted store never takes the cart surface down.
func NewFileStore(path string) *FileStore {
	s := &FileStore{path: path}
	s.loadFromFile()
	return s
}

func (s *FileStore) loadFromFile() {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("cart file unreadable, starting empty", "path", s.path, "error", err)
		}
		return
	}
	if len(b) == 0 {
		return
	}
	var list []domain.CartEntry
	if err := json.Unmarshal(b, &list); err != nil {
		slog.Warn("cart file corrupt, starting empty", "path", s.path, "error", err)
		return
	}
	s.entries = domain.NormalizeEntries(list)
}

func (s *FileStore) saveToFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	list := s.entries
	if list == nil {
		list = []domain.CartEntry{}
	}
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Load(ctx context.Context) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartEntry, len(s.entries))
	copy(out, s.entries)
	return domain.Cart{Entries: out}, nil
}

func (s *FileStore) Save(ctx context.Context, cart domain.Cart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.CartEntry, len(cart.Entries))
	copy(entries, cart.Entries)
	s.entries = entries
	return s.saveToFile()
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return s.saveToFile()
}
