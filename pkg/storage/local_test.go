package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	key, n, err := s.SaveImage(ctx, bytes.NewReader([]byte("png-bytes")), "photos", "photo", ".PNG")
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if n != 9 {
		t.Fatalf("written = %d, want 9", n)
	}
	if !strings.HasPrefix(key, "photos/photo-") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key %q", key)
	}

	f, err := s.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(f)
	f.Close()
	if string(data) != "png-bytes" {
		t.Fatalf("content = %q", data)
	}

	keys, err := s.List(ctx, "photos", time.Now().Add(time.Minute))
	if err != nil || len(keys) != 1 || keys[0] != key {
		t.Fatalf("List = %v, %v", keys, err)
	}
	recent, err := s.List(ctx, "photos", time.Now().Add(-time.Hour))
	if err != nil || len(recent) != 0 {
		t.Fatalf("List with old cutoff = %v, %v", recent, err)
	}

	if err := s.DeleteImage(ctx, key); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if err := s.DeleteImage(ctx, key); err != nil {
		t.Fatalf("deleting a missing file should succeed: %v", err)
	}
	if _, err := s.Open(ctx, key); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Open after delete: %v", err)
	}
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"../etc/passwd", "photos/../../x", ""} {
		if _, err := s.Open(context.Background(), key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Open(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestListMissingFolder(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	keys, err := s.List(context.Background(), "photos", time.Now())
	if err != nil || len(keys) != 0 {
		t.Fatalf("List = %v, %v", keys, err)
	}
}
