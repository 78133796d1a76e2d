package files

import (
	"context"
	"errors"
	"testing"
)

func TestFSStore_PutGet(t *testing.T) {
	store := FSStore{BaseDir: t.TempDir()}

	if err := store.Put("att-1", []byte("hello world")); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	data, mime, err := store.Get(context.Background(), "att-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("unexpected data: %q", data)
	}
	if mime != "" {
		t.Fatalf("fs store should not claim a MIME type, got %q", mime)
	}
}

func TestFSStore_GetMissing(t *testing.T) {
	store := FSStore{BaseDir: t.TempDir()}

	_, _, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFSStore_SanitizesID(t *testing.T) {
	store := FSStore{BaseDir: t.TempDir()}

	if err := store.Put("../../etc/passwd", []byte("x")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	data, _, err := store.Get(context.Background(), "../../etc/passwd")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(data) != "x" {
		t.Fatalf("unexpected data: %q", data)
	}
}
