package localstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/user/mdposter/pkg/mocks"
	"github.com/user/mdposter/pkg/ports"
)

func TestStore_Put(t *testing.T) {
	fs := mocks.NewFileSystem()
	dir := filepath.Join("public", "uploads", "posters")
	store := New(dir, "http://localhost:3000/uploads/posters/", fs)

	url, err := store.Put(context.Background(), "poster-1-abcd1234.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if url != "http://localhost:3000/uploads/posters/poster-1-abcd1234.png" {
		t.Errorf("url = %q", url)
	}
	if data, ok := fs.GetFile(filepath.Join(dir, "poster-1-abcd1234.png")); !ok || string(data) != "png" {
		t.Errorf("file not written: %q, %v", data, ok)
	}
}

func TestStore_PutRecreatesDirectory(t *testing.T) {
	var created []string
	fs := mocks.NewFileSystem()
	fs.MkdirAllFunc = func(path string) error {
		created = append(created, path)
		return nil
	}
	store := New("out", "/api/images", fs)

	store.Put(context.Background(), "a.png", []byte("1"), "image/png")
	store.Put(context.Background(), "b.png", []byte("2"), "image/png")

	if len(created) != 2 {
		t.Errorf("expected MkdirAll before each write, got %v", created)
	}
}

func TestStore_PutErrors(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error { return errors.New("disk full") }
	store := New("out", "/api/images", fs)

	if _, err := store.Put(context.Background(), "a.png", []byte("1"), "image/png"); err == nil {
		t.Error("expected write error")
	}
	if _, err := store.Put(context.Background(), "../a.png", []byte("1"), "image/png"); err == nil {
		t.Error("expected invalid name error")
	}
}

func TestStore_Get(t *testing.T) {
	fs := mocks.NewFileSystem()
	store := New("out", "/api/images", fs)
	store.Put(context.Background(), "poster.jpg", []byte("jpeg"), "image/jpeg")

	data, contentType, err := store.Get(context.Background(), "poster.jpg")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != "jpeg" || contentType != "image/jpeg" {
		t.Errorf("Get = %q, %q", data, contentType)
	}

	for _, name := range []string{"missing.png", "../etc/passwd", ".hidden"} {
		if _, _, err := store.Get(context.Background(), name); !errors.Is(err, ports.ErrImageNotFound) {
			t.Errorf("Get(%q) = %v, want ErrImageNotFound", name, err)
		}
	}
}
