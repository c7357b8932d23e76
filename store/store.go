// Package store persists named JSON array documents on disk. Every
// operation is a whole-document read or write; there are no partial
// updates. Each document has its own lock so read-modify-write cycles
// on the same file never interleave.
package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// ErrStoreFailure is returned when a document could not be written.
// Callers must surface it to the requester rather than retry silently,
// since a retry could reorder writes.
var ErrStoreFailure = errors.New("store: save failed")

type Store struct {
	dir   string
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	cache map[string][]byte
}

func New(dir string) *Store {
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
		cache: make(map[string][]byte),
	}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) lockFor(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	return lock
}

func (s *Store) cachedBytes(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.cache[name]
	return data, ok
}

func (s *Store) replaceCache(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[name] = data
}

// Load reads the named document. Any I/O or decode error degrades to an
// empty collection.
func Load[T any](s *Store, name string) []T {
	lock := s.lockFor(name)
	lock.Lock()
	defer lock.Unlock()
	return loadDoc[T](s, name)
}

// Save overwrites the named document. Returns false on failure; the
// read cache is only replaced on success.
func Save[T any](s *Store, name string, items []T) bool {
	lock := s.lockFor(name)
	lock.Lock()
	defer lock.Unlock()
	return saveDoc(s, name, items)
}

// Update runs a read-modify-write cycle on the named document under its
// lock. If fn returns an error nothing is written and the cache is left
// untouched. A failed write is reported as ErrStoreFailure.
func Update[T any](s *Store, name string, fn func(items []T) ([]T, error)) error {
	lock := s.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	items, err := fn(loadDoc[T](s, name))
	if err != nil {
		return err
	}
	if !saveDoc(s, name, items) {
		return ErrStoreFailure
	}
	return nil
}

// loadDoc assumes the document lock is held.
func loadDoc[T any](s *Store, name string) []T {
	data, ok := s.cachedBytes(name)
	if !ok {
		var err error
		data, err = os.ReadFile(s.path(name))
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("store: error reading %s: %v", name, err)
			}
			return []T{}
		}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("store: error decoding %s: %v", name, err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// saveDoc assumes the document lock is held.
func saveDoc[T any](s *Store, name string, items []T) bool {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		log.Printf("store: error encoding %s: %v", name, err)
		return false
	}

	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("store: error creating directory for %s: %v", name, err)
		return false
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("store: error writing %s: %v", name, err)
		return false
	}

	s.replaceCache(name, data)
	return true
}
