package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// source resolves dataset file names to readable content.
type source interface {
	Open(name string) (io.ReadCloser, error)
	ReadAll(name string) ([]byte, error)
	Describe(name string) string
	Close() error
}

// dirSource reads files from a directory. Absolute names are used as-is.
type dirSource struct {
	dir string
}

func (s dirSource) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

func (s dirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(s.resolve(name))
}

func (s dirSource) ReadAll(name string) ([]byte, error) {
	return os.ReadFile(s.resolve(name))
}

func (s dirSource) Describe(name string) string {
	return s.resolve(name)
}

func (s dirSource) Close() error {
	return nil
}

// zipSource reads entries from a ZIP bundle without extracting it.
type zipSource struct {
	path string
	r    *zip.ReadCloser
}

func openZipSource(p string) (*zipSource, error) {
	r, err := zip.OpenReader(p)
	if err != nil {
		return nil, err
	}
	return &zipSource{path: p, r: r}, nil
}

// find matches an exact entry name first, then the first file whose base
// name matches (bundles are often zipped with a top-level folder).
func (s *zipSource) find(name string) (*zip.File, error) {
	for _, f := range s.r.File {
		if f.Name == name && !f.FileInfo().IsDir() {
			return f, nil
		}
	}
	base := path.Base(filepath.ToSlash(name))
	for _, f := range s.r.File {
		if path.Base(f.Name) == base && !f.FileInfo().IsDir() {
			return f, nil
		}
	}
	return nil, fmt.Errorf("zip: %q not in bundle: %w", name, fs.ErrNotExist)
}

func (s *zipSource) Open(name string) (io.ReadCloser, error) {
	f, err := s.find(name)
	if err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "zip: open entry %s", f.Name)
	}
	return rc, nil
}

func (s *zipSource) ReadAll(name string) ([]byte, error) {
	rc, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "zip: read entry %s", name)
	}
	return data, nil
}

func (s *zipSource) Describe(name string) string {
	return s.path + "!" + name
}

func (s *zipSource) Close() error {
	return s.r.Close()
}
