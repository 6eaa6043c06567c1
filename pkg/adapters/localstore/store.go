// Package localstore persists posters to a directory that the HTTP server exposes.
package localstore

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/user/mdposter/pkg/ports"
)

// Store implements ports.ImageStore on a ports.FileSystem.
type Store struct {
	dir       string
	urlPrefix string
	fs        ports.FileSystem
}

// New creates a Store writing into dir. Returned URLs are urlPrefix + "/" + name.
func New(dir, urlPrefix string, fs ports.FileSystem) *Store {
	return &Store{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		fs:        fs,
	}
}

// Dir returns the directory images are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes data to <dir>/<name>. The directory is recreated on every write
// in case it was cleaned up while the server was running.
func (s *Store) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if !ports.ValidImageName(name) {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(s.dir); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := s.fs.WriteFile(filepath.Join(s.dir, name), data); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return s.urlPrefix + "/" + name, nil
}

// Get reads <dir>/<name>. The content type comes from the extension.
func (s *Store) Get(ctx context.Context, name string) ([]byte, string, error) {
	if !ports.ValidImageName(name) {
		return nil, "", ports.ErrImageNotFound
	}
	path := filepath.Join(s.dir, name)
	exists, err := s.fs.Exists(path)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		return nil, "", ports.ErrImageNotFound
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

var _ ports.ImageStore = (*Store)(nil)
