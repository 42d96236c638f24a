package statistic

import (
	"context"
	"errors"
	"ghstats/internal/statistic/interfaces"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per key under dir.
type FileStore struct {
	dir string
	ext string
}

func NewFileStore(dir string, compressed bool) *FileStore {
	ext := ".json"
	if compressed {
		ext = ".json.zst"
	}
	return &FileStore{dir: dir, ext: ext}
}

func (f *FileStore) Name() string { return "file" }

func (f *FileStore) Close() error { return nil }

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+f.ext)
}

func (f *FileStore) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, interfaces.ErrBlobNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write replaces the record through a temp file and rename, so a failed write leaves
// the previous record intact.
func (f *FileStore) Write(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return err
	}

	fileName := f.path(key)
	file, err := os.CreateTemp(f.dir, filepath.Base(fileName)+".*.tmp")
	if err != nil {
		return err
	}
	tmpFile := file.Name()

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileStore) Keys(_ context.Context) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(f.dir, "*"+f.ext))
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(files))
	for _, file := range files {
		keys = append(keys, strings.TrimSuffix(filepath.Base(file), f.ext))
	}
	return keys, nil
}
