// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store is the slice of an upload's raw-file area the engine touches.
// MarkUpdated records that a file changed and needs reprocessing with
// modifications allowed; the production store keeps the list for the next
// sync with the platform.
type Store interface {
	Exists(name string) bool
	Open(name string) (io.ReadCloser, error)
	Write(name string, data []byte) error
	Rename(oldName, newName string) error
	Remove(name string) error
	MarkUpdated(name string)
}

// DirStore is a Store over a local directory working copy of the raw area.
type DirStore struct {
	Dir     string
	updated []string
}

// NewDirStore opens (creating if needed) a working copy rooted at dir.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating raw dir %s: %w", dir, err)
	}
	return &DirStore{Dir: dir}, nil
}

func (s *DirStore) path(name string) string {
	return filepath.Join(s.Dir, name)
}

func (s *DirStore) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s *DirStore) Open(name string) (io.ReadCloser, error) {
	return os.Open(s.path(name))
}

func (s *DirStore) Write(name string, data []byte) error {
	return os.WriteFile(s.path(name), data, 0o644)
}

func (s *DirStore) Rename(oldName, newName string) error {
	return os.Rename(s.path(oldName), s.path(newName))
}

func (s *DirStore) Remove(name string) error {
	return os.Remove(s.path(name))
}

// MarkUpdated remembers that name changed since the last sync. Marking the
// same name twice keeps a single entry.
func (s *DirStore) MarkUpdated(name string) {
	for _, u := range s.updated {
		if u == name {
			return
		}
	}
	s.updated = append(s.updated, name)
}

// Updated returns the names marked since construction, in first-marked order.
func (s *DirStore) Updated() []string {
	out := make([]string, len(s.updated))
	copy(out, s.updated)
	return out
}

// UniqueName probes "{prefix}_{i}.{suffix}" against the store starting at
// i = 0 and returns the first name not taken.
func UniqueName(store Store, prefix, suffix string) string {
	if prefix == "" {
		prefix = "unnamed"
	}
	if suffix == "" {
		suffix = "archive.json"
	}
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s_%d.%s", prefix, i, suffix)
		if !store.Exists(name) {
			return name
		}
	}
}
