package router

import (
	"errors"
	"os"
	"path/filepath"
)

// FileStore is the filesystem behind /files/.
type FileStore interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}

var (
	ErrNoDirectory     = errors.New("no file directory configured")
	ErrInvalidFileName = errors.New("invalid file name")
)

// DirStore serves files from a single directory. Names are resolved relative
// to Root and may not escape it.
type DirStore struct {
	Root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{Root: root}
}

func (d *DirStore) path(name string) (string, error) {
	if d.Root == "" {
		return "", ErrNoDirectory
	}
	local := filepath.FromSlash(name)
	if name == "" || !filepath.IsLocal(local) {
		return "", ErrInvalidFileName
	}
	return filepath.Join(d.Root, local), nil
}

func (d *DirStore) ReadFile(name string) ([]byte, error) {
	p, err := d.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// WriteFile creates or truncates the named file. Concurrent writers to the
// same name are not serialized; the last one wins.
func (d *DirStore) WriteFile(name string, data []byte) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}
