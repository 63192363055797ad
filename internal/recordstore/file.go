package recordstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore keeps each collection in its own JSON array file.
type FileStore struct {
	dir   string
	names map[string]string // collection -> file name
}

// NewFileStore stores collections under dir. names overrides the file name of
// a collection; others default to "<collection>.json".
func NewFileStore(dir string, names map[string]string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	n := make(map[string]string, len(names))
	for k, v := range names {
		n[k] = v
	}
	return &FileStore{dir: dir, names: n}, nil
}

func (s *FileStore) path(collection string) string {
	name, ok := s.names[collection]
	if !ok || name == "" {
		name = collection + ".json"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, filepath.Clean(name))
}

func (s *FileStore) Load(_ context.Context, collection string) ([]json.RawMessage, error) {
	b, err := os.ReadFile(s.path(collection))
	if errors.Is(err, os.ErrNotExist) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", collection)
	}
	return decodeList(b)
}

// Save writes through a temp file and rename so readers never see a partial
// file.
func (s *FileStore) Save(_ context.Context, collection string, records []json.RawMessage) error {
	b, err := encodeList(records)
	if err != nil {
		return err
	}
	dst := s.path(collection)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, "create dir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "write %s", collection)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", collection)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "write %s", collection)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), dst), "write %s", collection)
}

func (s *FileStore) Close() error { return nil }
