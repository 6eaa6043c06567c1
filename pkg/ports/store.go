package ports

import (
	"context"
	"errors"
)

// ErrImageNotFound is returned by ImageStore.Get for unknown names.
var ErrImageNotFound = errors.New("image not found")

// ImageStore persists rendered images and serves them back by name.
type ImageStore interface {
	// Put stores data under name and returns a URL that resolves to it.
	Put(ctx context.Context, name string, data []byte, contentType string) (url string, err error)

	// Get returns a stored image and its content type.
	Get(ctx context.Context, name string) (data []byte, contentType string, err error)
}

// ValidImageName reports whether name is a bare file name safe to use as a storage key.
func ValidImageName(name string) bool {
	if name == "" || name == "." || name == ".." || len(name) > 255 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return name[0] != '.'
}
