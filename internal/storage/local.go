// Package storage holds attachment blobs. The local-disk implementation keeps
// one file per attachment under the configured upload directory, keyed by
// ticket id and a generated name.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore is the contract the attachment service depends on.
type BlobStore interface {
	Save(ticketID, fileName string, r io.Reader) (key string, size int64, err error)
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
}

// LocalStore writes blobs beneath a base directory.
type LocalStore struct {
	baseDir string
}

// NewLocalStore builds the store, creating the base directory when missing.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save streams the blob to disk and returns its storage key.
func (s *LocalStore) Save(ticketID, fileName string, r io.Reader) (string, int64, error) {
	dir := filepath.Join(s.baseDir, ticketID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, err
	}

	stored := uuid.NewString() + "_" + sanitize(fileName)
	key := filepath.Join(ticketID, stored)

	f, err := os.Create(filepath.Join(s.baseDir, key))
	if err != nil {
		return "", 0, err
	}
	defer f.Close() //nolint:errcheck

	size, err := io.Copy(f, r)
	if err != nil {
		_ = os.Remove(f.Name())
		return "", 0, err
	}
	return key, size, nil
}

// Open returns a reader over the stored blob.
func (s *LocalStore) Open(key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.baseDir, filepath.Clean(key)))
}

// Remove deletes the stored blob.
func (s *LocalStore) Remove(key string) error {
	return os.Remove(filepath.Join(s.baseDir, filepath.Clean(key)))
}

func sanitize(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}
