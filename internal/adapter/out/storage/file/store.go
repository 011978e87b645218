package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"postboard/internal/adapter/out/storage"
)

const extension = ".json"

// DocumentStore keeps one JSON file per collection under dir. Saves go
// through a temporary file and a rename, so readers never see a torn write.
type DocumentStore struct {
	dir string
}

func NewDocumentStore(dir string) *DocumentStore {
	return &DocumentStore{dir: dir}
}

func (s *DocumentStore) Path(c storage.Collection) string {
	return filepath.Join(s.dir, string(c)+extension)
}

func (s *DocumentStore) Load(_ context.Context, c storage.Collection) ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", storage.ErrBadCollection, c)
	}

	doc, err := os.ReadFile(s.Path(c))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", storage.ErrCorrupt, c, err)
	}
	return doc, nil
}

func (s *DocumentStore) Save(_ context.Context, c storage.Collection, doc []byte) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", storage.ErrBadCollection, c)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %v", storage.ErrUnavailable, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+string(c)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", storage.ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if err := writeAndSync(tmp, doc); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", storage.ErrUnavailable, c, err)
	}

	if err := os.Rename(tmpName, s.Path(c)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", storage.ErrUnavailable, c, err)
	}
	return nil
}

func writeAndSync(f *os.File, doc []byte) error {
	if _, err := f.Write(doc); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
