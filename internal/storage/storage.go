// File storage collaborator: bytes in, retrievable URL out. The pipeline
// never inspects stored files; only resume/evidence URL fields point at them.

package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// LocalStore keeps uploads on the local filesystem. It stands in for the
// hosted object storage in development and tests.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Failed to create storage directory: %v", err)
	}
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Upload(_ context.Context, name string, data []byte) (string, error) {
	// Prefix with a fresh id so a re-upload never clobbers an older file
	// that an evidence row still points at.
	path := filepath.Join(s.dir, uuid.NewString()+"_"+filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve upload path: %w", err)
	}
	return "file://" + abs, nil
}
